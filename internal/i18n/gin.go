package i18n

import (
	"github.com/gin-gonic/gin"
)

// LocaleFromContext 从请求上下文解析语言
// 优先级：lang 查询参数 > 已登录用户偏好（中间件写入） > Accept-Language 头。
func LocaleFromContext(c *gin.Context) string {
	if c == nil {
		return ResolveLocale("")
	}
	if lang := c.Query("lang"); lang != "" {
		return ResolveLocale(lang)
	}
	if value, ok := c.Get("locale"); ok {
		if locale, ok := value.(string); ok && locale != "" {
			return ResolveLocale(locale)
		}
	}
	return ResolveLocale(c.GetHeader("Accept-Language"))
}
