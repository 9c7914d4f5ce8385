package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/tablescore/internal/access"
	"github.com/playmatatu/tablescore/internal/config"
)

// ContextTableID is the gin context key holding the controlled table.
const ContextTableID = "table_id"

// BearerToken extracts the token from an Authorization header.
func BearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}

// TableAuth requires a control token for the table named by the :id param.
func TableAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		tableID, err := access.ParseControlToken(cfg.JWTSecret, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if tableID != c.Param("id") {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "token does not control this table"})
			return
		}
		c.Set(ContextTableID, tableID)
		c.Next()
	}
}
