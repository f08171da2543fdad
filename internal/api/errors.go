package api

import (
	"errors"
	"net/http"

	"labelhub/internal/entity"
	"labelhub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// 错误码定义
const (
	// 通用错误码
	ErrCodeInvalidRequest     = "ERR_INVALID_REQUEST"
	ErrCodeUnauthorized       = "ERR_UNAUTHORIZED"
	ErrCodeForbidden          = "ERR_FORBIDDEN"
	ErrCodeNotFound           = "ERR_NOT_FOUND"
	ErrCodeInternalError      = "ERR_INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "ERR_SERVICE_UNAVAILABLE"

	// 认证错误码
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	ErrCodeUserDisabled       = "ERR_USER_DISABLED"
	ErrCodeSessionExpired     = "ERR_SESSION_EXPIRED"

	// 业务逻辑错误码
	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeMissingField = "ERR_MISSING_FIELD"
	ErrCodeDuplicate    = "ERR_DUPLICATE"
	ErrCodeUploadFailed = "ERR_UPLOAD_FAILED"
)

// APIError 统一的 API 错误响应结构
type APIError struct {
	Code     string        `json:"code"`
	Message  string        `json:"message"`
	Details  any           `json:"details,omitempty"`
	Flash    *entity.Flash `json:"flash,omitempty"`
	Redirect string        `json:"redirect,omitempty"`
}

// ErrorResponse 返回统一格式的错误响应
func ErrorResponse(c *gin.Context, status int, code string, message string) {
	c.JSON(status, APIError{
		Code:    code,
		Message: message,
		Flash:   dangerFlash(message),
	})
}

// ErrorResponseWithDetails 返回带详情的错误响应
func ErrorResponseWithDetails(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, APIError{
		Code:    code,
		Message: message,
		Details: details,
		Flash:   dangerFlash(message),
	})
}

func dangerFlash(message string) *entity.Flash {
	return &entity.Flash{Category: entity.FlashDanger, Message: message}
}

// 常用错误响应快捷函数

// BadRequest 400 错误请求
func BadRequest(c *gin.Context, code string, message string) {
	ErrorResponse(c, http.StatusBadRequest, code, message)
}

// Unauthorized 401 未授权
func Unauthorized(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// Forbidden 403 禁止访问
func Forbidden(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusForbidden, ErrCodeForbidden, message)
}

// NotFound 404 资源不存在
func NotFound(c *gin.Context, code string, message string) {
	ErrorResponse(c, http.StatusNotFound, code, message)
}

// InternalError 500 服务器内部错误
func InternalError(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, ErrCodeInternalError, message)
}

// ServiceUnavailable 503 服务不可用
func ServiceUnavailable(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, message)
}

// MissingField 缺少必填字段
func MissingField(c *gin.Context, field string) {
	ErrorResponseWithDetails(c, http.StatusBadRequest, ErrCodeMissingField, field+" is required", gin.H{"field": field})
}

// InvalidPayload 无效的请求体
func InvalidPayload(c *gin.Context, err error) {
	message := "invalid request payload"
	if err != nil {
		message = err.Error()
	}
	ErrorResponse(c, http.StatusBadRequest, ErrCodeInvalidRequest, message)
}

// statusFor 将业务错误映射为 HTTP 状态码和错误码
func statusFor(err error) (int, string) {
	var validation *service.ValidationError
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, ErrCodeValidation
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, ErrCodeInvalidCredentials
	case errors.Is(err, service.ErrSessionExpired):
		return http.StatusUnauthorized, ErrCodeSessionExpired
	case errors.Is(err, service.ErrAccountDisabled):
		return http.StatusForbidden, ErrCodeUserDisabled
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, ErrCodeForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound
	case errors.Is(err, service.ErrDuplicateKey):
		return http.StatusConflict, ErrCodeDuplicate
	}
	return http.StatusInternalServerError, ErrCodeInternalError
}

// respondError 写出业务错误；redirect 指向失败前所在的页面
func respondError(c *gin.Context, err error, redirect string) {
	status, code := statusFor(err)
	body := APIError{Code: code, Message: err.Error(), Redirect: redirect}

	var validation *service.ValidationError
	switch {
	case errors.As(err, &validation):
		if validation.Field != "" {
			body.Details = gin.H{"field": validation.Field}
		}
		body.Flash = &entity.Flash{Category: entity.FlashWarning, Message: validation.Error()}
	case status == http.StatusInternalServerError:
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("request failed")
		body.Message = "internal server error"
		body.Flash = dangerFlash(body.Message)
	default:
		body.Flash = dangerFlash(err.Error())
	}
	c.AbortWithStatusJSON(status, body)
}

// successFlash 构造成功提示
func successFlash(message string) *entity.Flash {
	return &entity.Flash{Category: entity.FlashSuccess, Message: message}
}
