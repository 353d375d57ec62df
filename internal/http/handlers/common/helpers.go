package common

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/expertnet-backend/internal/http/middleware"
	"github.com/ignatzorin/expertnet-backend/internal/http/response"
	"github.com/ignatzorin/expertnet-backend/internal/logger"
)

var (
	// ErrUserNotFound возвращается, если Auth не положил пользователя в контекст
	ErrUserNotFound = errors.New("пользователь не найден в контексте")

	// ErrInvalidUUID is returned when UUID parsing fails
	ErrInvalidUUID = errors.New("неверный формат UUID")
)

// CurrentUserID извлекает идентификатор пользователя из Gin контекста.
func CurrentUserID(c *gin.Context) (string, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return "", ErrUserNotFound
	}
	return identity.UserID, nil
}

// RequireUserID возвращает пользователя или отвечает 401.
func RequireUserID(c *gin.Context) (string, bool) {
	userID, err := CurrentUserID(c)
	if err != nil {
		response.Unauthorized(c, "Missing authorization header")
		return "", false
	}
	return userID, true
}

// ParseUUIDParam parses UUID from URL parameter
func ParseUUIDParam(c *gin.Context, paramName string) (uuid.UUID, error) {
	param := c.Param(paramName)
	if param == "" {
		return uuid.Nil, fmt.Errorf("параметр %s отсутствует", paramName)
	}

	parsed, err := uuid.Parse(param)
	if err != nil {
		return uuid.Nil, ErrInvalidUUID
	}

	return parsed, nil
}

// UUIDParam разбирает параметр пути и при ошибке отвечает 400.
func UUIDParam(c *gin.Context, paramName string) (uuid.UUID, bool) {
	id, err := ParseUUIDParam(c, paramName)
	if err != nil {
		response.BadRequest(c, fmt.Sprintf("Invalid %s: must be a valid UUID", paramName))
		return uuid.Nil, false
	}
	return id, true
}

// OptionalUUIDQuery разбирает необязательный query параметр. Пустое значение даёт nil.
func OptionalUUIDQuery(c *gin.Context, key string) (*uuid.UUID, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		response.BadRequest(c, fmt.Sprintf("Invalid %s: must be a valid UUID", key))
		return nil, false
	}
	return &id, true
}

// BindJSON разбирает тело запроса; при ошибке отвечает 400 и возвращает false.
func BindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		logger.Entry(logrus.Fields{"path": c.Request.URL.Path, "error": err}).Debug("ошибка разбора тела запроса")
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// RespondError отдаёт ошибку сервиса в едином конверте.
func RespondError(c *gin.Context, err error) {
	response.Error(c, err)
}
