package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/tablescore/internal/api/handlers"
	"github.com/playmatatu/tablescore/internal/config"
	"github.com/playmatatu/tablescore/internal/game"
	"github.com/playmatatu/tablescore/internal/middleware"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, tm *game.TableManager, cfg *config.Config) {
	router.Use(middleware.CORSMiddleware(cfg))

	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			// Scoreboards must never render a cached snapshot
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] no-cache headers enabled for all routes")
	}

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck(tm))
		v1.GET("/rules", handlers.GetRules(tm))

		tables := v1.Group("/tables")
		{
			tables.POST("", handlers.CreateTable(tm, cfg))
			tables.GET("/:id", handlers.GetTable(tm))
			tables.POST("/:id/claim", handlers.ClaimTable(tm, cfg))
			tables.GET("/:id/ws", middleware.WebSocketCORSCheck(cfg), handlers.HandleTableWebSocket(tm, cfg))

			// Controller endpoints
			ctrl := tables.Group("/:id", middleware.TableAuth(cfg))
			{
				ctrl.POST("/balls/:n", handlers.RegisterBall(tm))
				ctrl.DELETE("/balls/:n", handlers.UnregisterBall(tm))
				ctrl.POST("/foul", handlers.TableAction(tm, (*game.Table).Foul))
				ctrl.POST("/miss", handlers.TableAction(tm, (*game.Table).Miss))
				ctrl.POST("/advance", handlers.TableAction(tm, (*game.Table).Advance))
				ctrl.POST("/ball-in-hand/clear", handlers.TableAction(tm, (*game.Table).ClearBallInHand))
				ctrl.PUT("/auto-continue", handlers.SetAutoContinue(tm))
				ctrl.POST("/eight-ball", handlers.ResolveEightBall(tm))
				ctrl.POST("/eight-ball/early", handlers.TableAction(tm, (*game.Table).ResolveEightBallEarly))
				ctrl.POST("/new-game", handlers.TableAction(tm, (*game.Table).NewGame))
				ctrl.DELETE("", handlers.EndTable(tm))
			}
		}

		bg := v1.Group("/backgammon")
		{
			bg.GET("/board", handlers.GetBackgammonBoard)
			bg.POST("/opening", handlers.BackgammonOpening(handlers.DefaultRand))
		}
	}
}
