package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/notsura/agro/internal/api/middleware"
	"github.com/notsura/agro/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	s := c.GetString(middleware.CtxUserID)
	if s == "" {
		response.Unauthorized(c, 10002, "unauthenticated")
		return "", false
	}
	return s, true
}

// tokenMeta 取出当前 Access Token 的 jti 与过期时间，供登出写黑名单
func tokenMeta(c *gin.Context) (string, time.Time) {
	jti := c.GetString(middleware.CtxTokenID)
	exp, _ := c.Get(middleware.CtxTokenExp)
	t, _ := exp.(time.Time)
	return jti, t
}
