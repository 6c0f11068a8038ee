package shared

import (
	"errors"

	"github.com/foody-next/internal/http/response"
	"github.com/foody-next/internal/logger"
	"github.com/foody-next/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get(response.RequestIDKey); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, msg string, err error) {
	appErr := response.NewError(code, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Fail(c, appErr)
}

// MappedError 业务错误到接口错误响应的映射，Message 为空时使用错误本身的文本。
type MappedError struct {
	Target  error
	Code    int
	Message string
	Log     bool
}

// ServiceErrorRules 服务层通用错误映射
var ServiceErrorRules = []MappedError{
	{Target: service.ErrLoginExists, Code: response.CodeConflict},
	{Target: service.ErrInvalidArgument, Code: response.CodeBadRequest},
	{Target: service.ErrUnauthorized, Code: response.CodeUnauthorized},
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Message: "not found"},
	{Target: service.ErrStoreTimeout, Code: response.CodeGatewayTimeout, Message: "store timeout", Log: true},
	{Target: service.ErrStoreFailure, Code: response.CodeServiceUnavailable, Message: "store unavailable", Log: true},
}

// RespondMappedError 按规则映射错误，未命中时返回兜底错误。
func RespondMappedError(c *gin.Context, err error, rules []MappedError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if !errors.Is(err, rule.Target) {
			continue
		}
		msg := rule.Message
		if msg == "" {
			msg = err.Error()
		}
		var logged error
		if rule.Log {
			logged = err
		}
		RespondError(c, rule.Code, msg, logged)
		return
	}
	RespondError(c, fallbackCode, fallbackMsg, err)
}

// RespondServiceError 使用通用映射返回服务层错误。
func RespondServiceError(c *gin.Context, err error) {
	RespondMappedError(c, err, ServiceErrorRules, response.CodeInternal, "internal error")
}
