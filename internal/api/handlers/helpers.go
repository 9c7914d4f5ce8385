package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/tablescore/internal/access"
	"github.com/playmatatu/tablescore/internal/game"
	"github.com/playmatatu/tablescore/internal/roster"
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrTableNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrTableFinished), errors.Is(err, game.ErrRackOver):
		return http.StatusConflict
	case errors.Is(err, game.ErrTooManyTables):
		return http.StatusServiceUnavailable
	case errors.Is(err, game.ErrWrongPIN):
		return http.StatusForbidden
	case errors.Is(err, roster.ErrTooFewPlayers),
		errors.Is(err, roster.ErrNameTooShort),
		errors.Is(err, roster.ErrDuplicateName),
		errors.Is(err, access.ErrPINRequired),
		errors.Is(err, access.ErrPINTooLong):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error": ...} with the mapped status.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("[ERROR] %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// ballParam parses the :n path parameter.
func ballParam(c *gin.Context) (int, bool) {
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ball must be a number"})
		return 0, false
	}
	return n, true
}
