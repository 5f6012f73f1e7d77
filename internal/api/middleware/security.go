package middleware

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeaders 统一安全响应头。
// 本服务是纯 JSON API（前端独立部署），CSP 直接禁掉一切资源加载，
// 导出的 xlsx 走附件下载不受影响。
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
		c.Header("Cache-Control", "no-store")

		c.Next()
	}
}
