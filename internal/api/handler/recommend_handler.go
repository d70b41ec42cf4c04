package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/notsura/agro/internal/dto"
	"github.com/notsura/agro/internal/service"
	"github.com/notsura/agro/pkg/response"
)

// RecommendHandler 作物推荐 HTTP 处理器
type RecommendHandler struct {
	recommendSvc service.RecommendService
}

// NewRecommendHandler 创建 RecommendHandler
func NewRecommendHandler(recommendSvc service.RecommendService) *RecommendHandler {
	return &RecommendHandler{recommendSvc: recommendSvc}
}

// Recommend 根据土壤 / 季节 / 水分条件给出推荐与评分
// POST /api/v1/recommend
// 所有字段可选，缺省值由推荐引擎补齐
func (h *RecommendHandler) Recommend(c *gin.Context) {
	var req dto.RecommendRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, 13001, "invalid recommendation request")
			return
		}
	}

	items, err := h.recommendSvc.Recommend(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, items)
}
