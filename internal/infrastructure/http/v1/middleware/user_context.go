package middleware

import (
	"github.com/gin-gonic/gin"

	"contractor/internal/core/security"
)

// UserContext copies the authenticated user id into the request context,
// where the domain layer reads it for audit columns via security.Actor.
//
// Must run after Auth.
func UserContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid := c.GetString("user_id"); uid != "" {
			ctx := security.WithUserID(c.Request.Context(), uid)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}
