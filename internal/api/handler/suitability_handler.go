package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/notsura/agro/internal/dto"
	"github.com/notsura/agro/internal/service"
	"github.com/notsura/agro/pkg/response"
)

// SuitabilityHandler 适宜性规则 HTTP 处理器
type SuitabilityHandler struct {
	suitabilitySvc service.SuitabilityService
}

// NewSuitabilityHandler 创建 SuitabilityHandler
func NewSuitabilityHandler(suitabilitySvc service.SuitabilityService) *SuitabilityHandler {
	return &SuitabilityHandler{suitabilitySvc: suitabilitySvc}
}

// ListRules 按声明顺序列出全部规则
// GET /api/v1/suitability-rules
func (h *SuitabilityHandler) ListRules(c *gin.Context) {
	rules, err := h.suitabilitySvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, rules)
}

// UpsertRule 按 (soil, season, climate) 新增或覆盖规则
// PUT /api/v1/admin/suitability-rules
func (h *SuitabilityHandler) UpsertRule(c *gin.Context) {
	var req dto.SuitabilityRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 15001, "soil, season, climate (Hot|Moderate|Cool) and a non-empty crops list are required")
		return
	}

	rule, err := h.suitabilitySvc.Upsert(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, rule)
}
