package admin

import (
	"github.com/phimart/phimart/internal/provider"
)

// Handler 管理端处理器
type Handler struct {
	*provider.Container
}

// New 创建管理端处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
