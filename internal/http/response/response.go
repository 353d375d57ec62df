package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/expertnet-backend/internal/dto"
	"github.com/ignatzorin/expertnet-backend/internal/logger"
	"github.com/ignatzorin/expertnet-backend/internal/pkg/apperror"
)

const internalDetail = "An unexpected error occurred"

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// List отдаёт список в конверте {items, total}.
func List[T any](c *gin.Context, items []T) {
	c.JSON(http.StatusOK, dto.NewListResponse(items))
}

// Deleted отдаёт {success: true, message}.
func Deleted(c *gin.Context, message string) {
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Message: message})
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error рендерит ошибку. AppError отдаётся с её статусом и сообщением,
// любая другая ошибка логируется и превращается в 500 без подробностей.
func Error(c *gin.Context, err error) {
	if appErr, ok := apperror.As(err); ok && appErr.Code != apperror.ErrCodeInternal {
		logClientError(c, err, appErr)
		Abort(c, appErr.HTTPStatus, appErr.Title(), appErr.Message)
		return
	}

	logger.Entry(logrus.Fields{
		"error":  err.Error(),
		"path":   c.Request.URL.Path,
		"method": c.Request.Method,
	}).Error("Request error")
	_ = c.Error(err)
	Internal(c)
}

// logClientError пишет исходную ошибку за клиентским ответом. 404 не логируются,
// 400 и 409 идут в warning, остальные отказы в info.
func logClientError(c *gin.Context, err error, appErr *apperror.AppError) {
	if appErr.Cause == nil || apperror.IsNotFound(err) {
		return
	}

	entry := logger.Entry(logrus.Fields{
		"error":  appErr.Cause.Error(),
		"code":   appErr.Code,
		"path":   c.Request.URL.Path,
		"method": c.Request.Method,
	})
	if apperror.IsValidation(err) || apperror.IsConflict(err) {
		entry.Warn("Request rejected")
		return
	}
	entry.Info("Request refused")
}

// BadRequest 400 с текстом для клиента.
func BadRequest(c *gin.Context, detail string) {
	Abort(c, http.StatusBadRequest, "Bad Request", detail)
}

func Unauthorized(c *gin.Context, detail string) {
	Abort(c, http.StatusUnauthorized, "Unauthorized", detail)
}

func NotFound(c *gin.Context, detail string) {
	Abort(c, http.StatusNotFound, "Not Found", detail)
}

// Internal 500 без деталей ошибки.
func Internal(c *gin.Context) {
	Abort(c, http.StatusInternalServerError, "Internal Server Error", internalDetail)
}

// Abort прерывает цепочку и пишет конверт {success: false, error, detail}.
func Abort(c *gin.Context, status int, title, detail string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Success: false, Error: title, Detail: detail})
}
