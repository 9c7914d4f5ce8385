package handlers

import (
	mrand "math/rand/v2"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/tablescore/internal/backgammon"
)

// RandSource builds the random source for one request.
type RandSource func() *mrand.Rand

// DefaultRand seeds a fresh PCG source per request.
func DefaultRand() *mrand.Rand {
	return mrand.New(mrand.NewPCG(mrand.Uint64(), mrand.Uint64()))
}

// GetBackgammonBoard returns the standard starting layout
func GetBackgammonBoard(c *gin.Context) {
	board := backgammon.StartingBoard()
	c.JSON(http.StatusOK, gin.H{
		"points": board,
		"white":  board.Checkers(backgammon.White),
		"black":  board.Checkers(backgammon.Black),
	})
}

// BackgammonOpening assigns colors to two players and plays the opening roll
func BackgammonOpening(newRand RandSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Players []string `json:"players" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || len(req.Players) != 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "exactly two players required"})
			return
		}
		a, b := strings.TrimSpace(req.Players[0]), strings.TrimSpace(req.Players[1])
		if a == "" || b == "" || strings.EqualFold(a, b) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "players must have two different names"})
			return
		}

		rng := newRand()
		colors := backgammon.AssignColors(a, b, rng)
		opening := backgammon.OpeningRoll(rng)
		starter := a
		if colors[b] == opening.Starter {
			starter = b
		}
		c.JSON(http.StatusOK, gin.H{
			"colors":  colors,
			"opening": opening,
			"starter": starter,
			"dice":    opening.Dice(),
		})
	}
}
