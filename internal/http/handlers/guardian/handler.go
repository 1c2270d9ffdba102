package guardian

import "github.com/FeexSystems/Rainbow-childcare-sub000/internal/provider"

// Handler 家长端接口处理器入口
// 说明：该处理器仅用于家长侧 API。
type Handler struct {
	*provider.Container
}

// New 创建家长端处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
