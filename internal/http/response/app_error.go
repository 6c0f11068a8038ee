package response

import "github.com/gin-gonic/gin"

// AppError 接口层错误，Code 为响应体中的 status_code
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Retryable 存储不可用或超时，客户端可稍后重试
func (e *AppError) Retryable() bool {
	return e.Code == CodeServiceUnavailable || e.Code == CodeGatewayTimeout
}

// NewError 创建接口层错误
func NewError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// Fail 输出错误响应，可重试错误在 data 中带 retryable 标记
func Fail(c *gin.Context, appErr *AppError) {
	if appErr == nil {
		return
	}
	if appErr.Retryable() {
		ErrorWithData(c, appErr.Code, appErr.Message, gin.H{"retryable": true})
		return
	}
	Error(c, appErr.Code, appErr.Message)
}
