package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/expertnet-backend/internal/http/response"
	"github.com/ignatzorin/expertnet-backend/internal/models"
	"github.com/ignatzorin/expertnet-backend/internal/pkg/apperror"
	"github.com/ignatzorin/expertnet-backend/internal/service"
)

// ContextIdentityKey ключ gin.Context с текущим пользователем.
const ContextIdentityKey = "identity"

// Auth проверяет bearer токен через resolver и кладёт пользователя в контекст.
// При resolver == nil аутентификация отключена и все запросы выполняются от анонимного пользователя.
func Auth(resolver service.IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if resolver == nil {
			c.Set(ContextIdentityKey, models.AnonymousIdentity())
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "Missing authorization header")
			return
		}

		scheme, token, found := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			response.Unauthorized(c, "Invalid authorization header format")
			return
		}

		identity, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			if _, ok := apperror.As(err); ok {
				response.Unauthorized(c, apperror.ErrUnauthorized.Message)
				return
			}
			response.Error(c, err)
			return
		}

		c.Set(ContextIdentityKey, *identity)
		c.Next()
	}
}

// IdentityFrom возвращает пользователя, сохранённого Auth.
func IdentityFrom(c *gin.Context) (models.Identity, bool) {
	raw, exists := c.Get(ContextIdentityKey)
	if !exists {
		return models.Identity{}, false
	}
	identity, ok := raw.(models.Identity)
	return identity, ok && identity.UserID != ""
}
