package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/notsura/agro/pkg/response"
)

// HealthHandler 健康检查
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler 创建 HealthHandler
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health 检查数据库连通性
// GET /api/v1/health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		response.Error(c, http.StatusServiceUnavailable, 50301, "database unavailable")
		return
	}

	response.OK(c, gin.H{"status": "ok"})
}
