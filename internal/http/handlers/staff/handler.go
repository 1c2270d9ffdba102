package staff

import "github.com/FeexSystems/Rainbow-childcare-sub000/internal/provider"

// Handler 员工端接口处理器入口
// 说明：该处理器仅用于员工端 API。
type Handler struct {
	*provider.Container
}

// New 创建员工端处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
