package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hostel-portal/backend/pkg/redis"
	"hostel-portal/backend/pkg/response"
)

// RateLimit 按「客户端 IP × 路由」做 Redis 滑动窗口限流。
// 目前只挂在登录接口上，窗口参数由路由注册处给定，防口令爆破。
// rdb 为 nil（本地起服务不带 Redis）时直接放行。
func RateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("hostel:rl:%s:%s", c.ClientIP(), c.FullPath())
		allowed, err := rdb.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			// Redis 异常时降级放行
			c.Next()
			return
		}
		if !allowed {
			response.Error(c, http.StatusTooManyRequests, 10004, "请求过于频繁，请稍后再试")
			c.Abort()
			return
		}

		c.Next()
	}
}
