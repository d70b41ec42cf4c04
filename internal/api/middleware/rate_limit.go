package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	applogger "github.com/notsura/agro/pkg/logger"
	"github.com/notsura/agro/pkg/redis"
	"github.com/notsura/agro/pkg/response"
)

// RateLimit 基于 Redis 滑动窗口的速率限制中间件
// limit: 窗口内允许的最大请求数
// window: 滑动窗口时长
// rdb 为 nil 或 limit <= 0 时降级放行（与 JWTAuth 策略一致）
// 需在 OptionalJWTAuth/JWTAuth 之后挂载才能按用户计数
func RateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || limit <= 0 {
			c.Next()
			return
		}

		key := rateLimitKey(c)
		allowed, err := rdb.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			applogger.FromContext(c.Request.Context(), zap.NewNop()).
				Warn("限流检查失败，降级放行", zap.Error(err))
			c.Next()
			return
		}

		if !allowed {
			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			response.TooManyRequests(c, 10004, "too many requests, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}

// rateLimitKey 已登录请求按用户计数，匿名请求按客户端 IP
func rateLimitKey(c *gin.Context) string {
	if userID := c.GetString(CtxUserID); userID != "" {
		return fmt.Sprintf("rate_limit:user:%s:%s", userID, c.FullPath())
	}
	return fmt.Sprintf("rate_limit:ip:%s:%s", c.ClientIP(), c.FullPath())
}
