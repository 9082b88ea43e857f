package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/catalog-service/internal/service"
)

// UserIDHeader carries the id of the calling user, set by the gateway in
// front of this service.
const UserIDHeader = "X-User-ID"

// Actor copies a numeric X-User-ID into the request context for audit
// fields. Missing or malformed values leave the request anonymous.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, err := strconv.ParseInt(c.GetHeader(UserIDHeader), 10, 64); err == nil && id > 0 {
			c.Request = c.Request.WithContext(service.WithActor(c.Request.Context(), id))
		}
		c.Next()
	}
}
