package public

import (
	handlershared "github.com/foody-next/internal/http/handlers/shared"
	"github.com/foody-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// Handler 公开接口处理器入口
// 说明：无需商户凭证的只读接口与健康检查。
type Handler struct {
	*provider.Container
}

// New 创建公开处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func respondServiceError(c *gin.Context, err error) {
	handlershared.RespondServiceError(c, err)
}
