package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/expertnet-backend/internal/http/response"
)

// UUIDValidator проверяет, что параметры пути являются валидными UUID.
// Отсутствующие в маршруте параметры пропускаются, поэтому middleware можно вешать на группу.
func UUIDValidator(paramNames ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, name := range paramNames {
			raw := c.Param(name)
			if raw == "" {
				continue
			}
			if _, err := uuid.Parse(raw); err != nil {
				response.BadRequest(c, "Invalid "+name+": must be a valid UUID")
				return
			}
		}
		c.Next()
	}
}
