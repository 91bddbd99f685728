package web

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestID tags every response with an X-Request-ID header, generating one
// when the client did not supply it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}
