package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/tablescore/internal/game"
)

// GetRules returns the house rules new tables start with
func GetRules(tm *game.TableManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, tm.Rules())
	}
}
