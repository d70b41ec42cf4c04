package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/notsura/agro/config"
	"github.com/notsura/agro/internal/api/handler"
	"github.com/notsura/agro/internal/api/middleware"
	"github.com/notsura/agro/internal/model"
	"github.com/notsura/agro/pkg/jwt"
	"github.com/notsura/agro/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 可为 nil：Token 黑名单与限流降级关闭
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", h.Health.Health)

		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", h.Auth.Signup)
			auth.POST("/login", h.Auth.Login)
		}

		// 公共只读数据
		v1.GET("/crops", h.Crop.ListCrops)
		v1.GET("/crops/:name", h.Crop.GetCrop)
		v1.GET("/suitability-rules", h.Suitability.ListRules)
		v1.GET("/weather", h.Weather.Current)
		v1.POST("/recommend",
			middleware.OptionalJWTAuth(jwtMgr, rdb),
			middleware.RateLimit(rdb, cfg.Server.RateLimit.Limit, cfg.Server.RateLimit.Window),
			h.Recommend.Recommend,
		)

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 种植旅程
			user := authorized.Group("/user")
			{
				user.POST("/start-followup", h.Journey.Start)
				user.GET("/active-status", h.Journey.Status)
				user.POST("/toggle-task", h.Journey.ToggleTask)
				user.POST("/complete-journey", h.Journey.Complete)
				user.GET("/history", h.Journey.History)
				user.GET("/history/export", h.Export.ExportHistory)
				user.GET("/journey/calendar.ics", h.Export.ExportCalendar)
			}

			// 管理后台
			admin := authorized.Group("/admin")
			admin.Use(middleware.RoleAuth(model.RoleAdmin))
			{
				admin.GET("/stats", h.Admin.Stats)
				admin.GET("/users", h.Admin.ListUsers)
				admin.POST("/users/:id/toggle-status", h.Admin.ToggleStatus)

				admin.POST("/crops", h.Crop.CreateCrop)
				admin.PUT("/crops/:id", h.Crop.UpdateCrop)
				admin.DELETE("/crops/:id", h.Crop.DeleteCrop)

				admin.PUT("/suitability-rules", h.Suitability.UpsertRule)
			}
		}
	}

	return r
}
