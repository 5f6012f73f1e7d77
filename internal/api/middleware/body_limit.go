package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hostel-portal/backend/pkg/response"
)

// BodyLimit 限制请求体大小。
// 本系统的写接口都是小 JSON（申请、审批、报修），maxBytes 取 1MB 足够，
// 超限的读取由 MaxBytesReader 截断，这里统一翻译成 413。
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()

		if c.IsAborted() {
			return
		}
		var tooLarge *http.MaxBytesError
		for _, ginErr := range c.Errors {
			if errors.As(ginErr.Err, &tooLarge) {
				response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
				return
			}
		}
	}
}
