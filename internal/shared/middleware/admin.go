package middleware

import (
	"github.com/gin-gonic/gin"

	"bookstore-api/internal/shared/response"
)

// AdminMiddleware checks if actor is an administrator.
// Phải đặt sau AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := GetActor(c)
		if actor == nil {
			response.Unauthorized(c, "authentication credentials were not provided")
			c.Abort()
			return
		}

		if !actor.IsAdmin {
			response.Forbidden(c, "Access denied: admin role required")
			c.Abort()
			return
		}

		c.Next()
	}
}
