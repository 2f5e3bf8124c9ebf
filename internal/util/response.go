package util

import (
	"debate_backend/pkg/logger"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Response 统一响应结构，失败时 Error 为机器可读的错误类型
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// 错误类型
const (
	KindNotFound        = "not_found"
	KindValidation      = "validation_error"
	KindInvalidArgument = "invalid_argument"
	KindConflict        = "conflict"
	KindUnauthorized    = "unauthorized"
	KindForbidden       = "forbidden"
	KindIntegrity       = "integrity_error"
	KindInternal        = "internal_error"
	KindTooManyRequests = "too_many_requests"
	KindUnavailable     = "service_unavailable"
)

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, kind, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
		Error:   kind,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, KindUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, KindForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, KindValidation, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, KindNotFound, "Resource not found")
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, KindInternal, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	InternalServerError(c)
}

// HandleError 按错误分类映射 HTTP 状态码
func HandleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		Error(c, http.StatusNotFound, KindNotFound, err.Error())
	case errors.Is(err, ErrValidation):
		Error(c, http.StatusBadRequest, KindValidation, err.Error())
	case errors.Is(err, ErrInvalidArgument):
		Error(c, http.StatusBadRequest, KindInvalidArgument, err.Error())
	case errors.Is(err, ErrConflict), errors.Is(err, gorm.ErrDuplicatedKey):
		Error(c, http.StatusConflict, KindConflict, err.Error())
	case errors.Is(err, ErrUnauthorized):
		Error(c, http.StatusUnauthorized, KindUnauthorized, err.Error())
	case errors.Is(err, ErrIntegrity):
		logger.Log.Error("Data integrity violation",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		Error(c, http.StatusInternalServerError, KindIntegrity, "Internal server error")
	default:
		LogInternalError(c, err)
	}
}
