package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/expertnet-backend/internal/http/response"
	"github.com/ignatzorin/expertnet-backend/internal/logger"
)

// Recovery перехватывает панику обработчика и отвечает 500 в общем формате.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Entry(logrus.Fields{
			"panic":  recovered,
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		}).Error("Request panic")
		response.Internal(c)
	})
}

// NotFound отвечает на неизвестные маршруты.
func NotFound(c *gin.Context) {
	response.NotFound(c, "The requested resource was not found")
}

// MethodNotAllowed отвечает на известный маршрут с неподдерживаемым методом.
func MethodNotAllowed(c *gin.Context) {
	response.Abort(c, http.StatusMethodNotAllowed, "Method Not Allowed", "The requested method is not allowed for this resource")
}
