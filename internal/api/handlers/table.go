package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/tablescore/internal/access"
	"github.com/playmatatu/tablescore/internal/billiards"
	"github.com/playmatatu/tablescore/internal/config"
	"github.com/playmatatu/tablescore/internal/game"
)

// controlTokenTTL returns how long issued control tokens stay valid.
func controlTokenTTL(cfg *config.Config) time.Duration {
	hours := 12
	if cfg != nil && cfg.ControlTokenHours > 0 {
		hours = cfg.ControlTokenHours
	}
	return time.Duration(hours) * time.Hour
}

func issueToken(c *gin.Context, cfg *config.Config, tableID string) (string, bool) {
	token, err := access.IssueControlToken(cfg.JWTSecret, tableID, controlTokenTTL(cfg))
	if err != nil {
		log.Printf("[ERROR] issue control token for %s: %v", tableID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue control token"})
		return "", false
	}
	return token, true
}

// CreateTable opens a table for the given names and returns its control token
func CreateTable(tm *game.TableManager, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Names        []string        `json:"names" binding:"required"`
			PIN          string          `json:"pin"`
			TeamsPerSide int             `json:"teams_per_side,omitempty"`
			StartingSide *billiards.Side `json:"starting_side,omitempty"`
			AutoContinue *bool           `json:"auto_continue,omitempty"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request. names and pin required."})
			return
		}

		tbl, err := tm.CreateTable(game.CreateRequest{
			Names:        req.Names,
			PIN:          req.PIN,
			TeamsPerSide: req.TeamsPerSide,
			StartingSide: req.StartingSide,
			AutoContinue: req.AutoContinue,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		token, ok := issueToken(c, cfg, tbl.ID)
		if !ok {
			return
		}
		c.Header("X-Table-ID", tbl.ID)
		c.JSON(http.StatusCreated, gin.H{
			"table":         tbl.Snapshot(),
			"control_token": token,
			"expires_in":    int(controlTokenTTL(cfg).Seconds()),
		})
	}
}

// GetTable returns the public scoreboard of a table
func GetTable(tm *game.TableManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tbl, err := tm.GetTable(c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, tbl.Snapshot())
	}
}

// ClaimTable exchanges the table PIN for a fresh control token
func ClaimTable(tm *game.TableManager, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			PIN string `json:"pin" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "pin required"})
			return
		}
		tbl, err := tm.GetTable(c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		if !tbl.CheckPIN(req.PIN) {
			log.Printf("[AUTH] wrong pin for table %s from %s", tbl.ID, c.ClientIP())
			respondError(c, game.ErrWrongPIN)
			return
		}
		token, ok := issueToken(c, cfg, tbl.ID)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"table_id":      tbl.ID,
			"control_token": token,
			"expires_in":    int(controlTokenTTL(cfg).Seconds()),
		})
	}
}

// TableAction runs a parameterless table move such as (*game.Table).Foul
func TableAction(tm *game.TableManager, action func(*game.Table) (game.Snapshot, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		tbl, err := tm.GetTable(c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		snap, err := action(tbl)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

// RegisterBall records the ball in :n as potted by the current shooter
func RegisterBall(tm *game.TableManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, ok := ballParam(c)
		if !ok {
			return
		}
		TableAction(tm, func(t *game.Table) (game.Snapshot, error) { return t.RegisterBall(n) })(c)
	}
}

// UnregisterBall takes the ball in :n back out of the pockets
func UnregisterBall(tm *game.TableManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, ok := ballParam(c)
		if !ok {
			return
		}
		TableAction(tm, func(t *game.Table) (game.Snapshot, error) { return t.UnregisterBall(n) })(c)
	}
}

// SetAutoContinue toggles auto-continue
func SetAutoContinue(tm *game.TableManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Enabled *bool `json:"enabled" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "enabled required"})
			return
		}
		TableAction(tm, func(t *game.Table) (game.Snapshot, error) { return t.SetAutoContinue(*req.Enabled) })(c)
	}
}

// ResolveEightBall settles the rack on the current shooter's black ball
func ResolveEightBall(tm *game.TableManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			CalledPocket *bool `json:"called_pocket" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "called_pocket required"})
			return
		}
		TableAction(tm, func(t *game.Table) (game.Snapshot, error) { return t.ResolveEightBall(*req.CalledPocket) })(c)
	}
}

// EndTable closes a table and disconnects its scoreboard
func EndTable(tm *game.TableManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := tm.EndTable(id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"table_id": id, "status": game.StatusFinished})
	}
}
