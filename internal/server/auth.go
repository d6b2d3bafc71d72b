package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	callerHeader = "X-User-ID"
	callerKey    = "caller"
)

// requireCaller reads the account id the gateway authenticated. Requests
// without one never reach the engine.
func requireCaller() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := validateIdentity(c.GetHeader(callerHeader))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid " + callerHeader + " header"})
			return
		}
		c.Set(callerKey, id)
		c.Next()
	}
}

func caller(c *gin.Context) string {
	return c.GetString(callerKey)
}
