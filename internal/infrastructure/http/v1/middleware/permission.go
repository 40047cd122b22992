package middleware

import (
	"github.com/gin-gonic/gin"

	"contractor/internal/core/apperror"
	appctx "contractor/internal/core/context"
	"contractor/internal/core/security"
)

// RequireRole passes callers holding at least one of roles.
func RequireRole(roles ...security.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := appctx.GetUser(c.Request.Context())
		if user == nil {
			_ = c.Error(apperror.NewUnauthorized("authentication required"))
			c.Abort()
			return
		}

		if security.NewRoleSet(user.Roles...).HasAny(roles...) {
			c.Next()
			return
		}

		_ = c.Error(
			apperror.NewForbidden("insufficient permissions").
				WithDetail("required_roles", roles),
		)
		c.Abort()
	}
}

// Authenticated passes any caller with a valid token.
func Authenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if appctx.GetUser(c.Request.Context()) == nil {
			_ = c.Error(apperror.NewUnauthorized("authentication required"))
			c.Abort()
			return
		}
		c.Next()
	}
}
