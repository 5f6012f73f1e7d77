package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
	// 外部传入的追踪 ID 超长时丢弃重发，防日志注入
	requestIDMaxLen = 64
)

// RequestID 为每个请求绑定追踪 ID。
// 网关已带 X-Request-ID 时沿用，否则生成 UUID；
// 同时注入 gin.Context 并回写响应头，前端报障时可凭它查日志。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" || len(rid) > requestIDMaxLen {
			rid = uuid.New().String()
		}

		c.Set(requestIDKey, rid)
		c.Header(requestIDHeader, rid)

		c.Next()
	}
}
