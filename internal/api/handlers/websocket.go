package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/playmatatu/tablescore/internal/config"
	"github.com/playmatatu/tablescore/internal/game"
	"github.com/playmatatu/tablescore/internal/ws"
)

// HandleTableWebSocket streams a table's scoreboard and accepts controller commands
func HandleTableWebSocket(tm *game.TableManager, cfg *config.Config) gin.HandlerFunc {
	return ws.HandleWebSocket(ws.TableHub, tm, cfg)
}
