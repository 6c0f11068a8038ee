package merchant

import (
	"github.com/foody-next/internal/provider"
)

// Handler 商户侧接口处理器入口
type Handler struct {
	*provider.Container
}

// New 创建商户处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
