package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/notsura/agro/pkg/jwt"
	applogger "github.com/notsura/agro/pkg/logger"
	"github.com/notsura/agro/pkg/redis"
	"github.com/notsura/agro/pkg/response"
)

// 上下文键
const (
	CtxUserID   = "user_id"
	CtxRole     = "role"
	CtxTokenID  = "token_id"
	CtxTokenExp = "token_exp"
)

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取并验证 Access Token
// rdb 不为 nil 时检查 Token 黑名单；Redis 故障时降级放行
func JWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, msg := authenticate(c, jwtMgr, rdb)
		if claims == nil {
			response.Unauthorized(c, 10002, msg)
			c.Abort()
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalJWTAuth 可选认证：Token 有效时注入用户信息，否则按匿名请求放行
// 用于公共接口上的按用户限流
func OptionalJWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			if claims, _ := authenticate(c, jwtMgr, rdb); claims != nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

// authenticate 解析并校验 Bearer Token，失败时返回 nil 与错误提示
func authenticate(c *gin.Context, jwtMgr *jwt.Manager, rdb *redis.Client) (*jwt.Claims, string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, "missing authorization header"
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return nil, "invalid authorization header"
	}

	claims, err := jwtMgr.ParseToken(parts[1])
	if err != nil {
		return nil, "token is invalid or expired"
	}

	if rdb != nil && claims.ID != "" {
		revoked, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID)
		if err != nil {
			applogger.FromContext(c.Request.Context(), zap.NewNop()).
				Warn("检查 Token 黑名单失败，降级放行", zap.Error(err))
		} else if revoked {
			return nil, "token has been revoked"
		}
	}
	return claims, ""
}

// setClaims 将用户信息注入上下文
func setClaims(c *gin.Context, claims *jwt.Claims) {
	c.Set(CtxUserID, claims.UserID)
	c.Set(CtxRole, claims.Role)
	c.Set(CtxTokenID, claims.ID)
	if claims.ExpiresAt != nil {
		c.Set(CtxTokenExp, claims.ExpiresAt.Time)
	}
}

// RoleAuth 角色权限中间件
// 检查当前用户是否具有指定角色之一
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString(CtxRole)
		if userRole == "" {
			response.Unauthorized(c, 10002, "unauthenticated")
			c.Abort()
			return
		}

		for _, r := range allowedRoles {
			if userRole == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, 10003, "access denied")
		c.Abort()
	}
}
