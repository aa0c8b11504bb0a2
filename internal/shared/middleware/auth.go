package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"bookstore-api/internal/domains/access"
	"bookstore-api/internal/shared/response"
	"bookstore-api/pkg/jwt"
)

// ActorKey là key lưu *access.Actor trong gin context
const ActorKey = "actor"

// ActorLoader đọc actor hiện tại từ storage theo user id trong token.
// Trả về access.ErrUnauthenticated nếu user không còn tồn tại.
type ActorLoader interface {
	LoadActor(ctx context.Context, userID uuid.UUID) (*access.Actor, error)
}

// AuthMiddleware - bắt buộc có Bearer token hợp lệ
func AuthMiddleware(tokens *jwt.Manager, loader ActorLoader) gin.HandlerFunc {
	return authenticate(tokens, loader, true)
}

// OptionalAuthMiddleware - request không có Authorization header là anonymous;
// header có nhưng token sai vẫn bị 401
func OptionalAuthMiddleware(tokens *jwt.Manager, loader ActorLoader) gin.HandlerFunc {
	return authenticate(tokens, loader, false)
}

func authenticate(tokens *jwt.Manager, loader ActorLoader, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Lấy token từ Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			if required {
				response.Unauthorized(c, access.ErrUnauthenticated.Error())
				c.Abort()
				return
			}
			c.Next()
			return
		}

		// 2. Extract token từ "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		// 3. Verify và parse JWT
		claims, err := tokens.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			response.Unauthorized(c, "invalid user ID in token")
			c.Abort()
			return
		}

		// 4. Load actor từ storage
		actor, err := loader.LoadActor(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, access.ErrUnauthenticated) {
				response.Unauthorized(c, "user not found")
				c.Abort()
				return
			}
			log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("load actor failed")
			response.InternalServerError(c, "Internal server error")
			c.Abort()
			return
		}

		// 5. Set actor vào context
		c.Set(ActorKey, actor)
		c.Next()
	}
}

// GetActor trả về actor của request, nil nếu anonymous
func GetActor(c *gin.Context) *access.Actor {
	value, exists := c.Get(ActorKey)
	if !exists {
		return nil
	}
	actor, ok := value.(*access.Actor)
	if !ok {
		return nil
	}
	return actor
}
