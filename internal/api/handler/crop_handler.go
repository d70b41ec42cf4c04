package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/notsura/agro/internal/dto"
	"github.com/notsura/agro/internal/service"
	"github.com/notsura/agro/pkg/response"
)

// CropHandler 作物目录 HTTP 处理器
type CropHandler struct {
	cropSvc service.CropService
}

// NewCropHandler 创建 CropHandler
func NewCropHandler(cropSvc service.CropService) *CropHandler {
	return &CropHandler{cropSvc: cropSvc}
}

// ListCrops 作物目录全量
// GET /api/v1/crops
func (h *CropHandler) ListCrops(c *gin.Context) {
	crops, err := h.cropSvc.List(c.Request.Context())
	if err != nil {
		h.handleCropError(c, err)
		return
	}

	response.OK(c, crops)
}

// GetCrop 按名称查询（大小写不敏感）
// GET /api/v1/crops/:name
func (h *CropHandler) GetCrop(c *gin.Context) {
	crop, err := h.cropSvc.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.handleCropError(c, err)
		return
	}

	response.OK(c, crop)
}

// CreateCrop 新建作物
// POST /api/v1/admin/crops
func (h *CropHandler) CreateCrop(c *gin.Context) {
	var req dto.CropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 12001, "invalid crop payload")
		return
	}

	crop, err := h.cropSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleCropError(c, err)
		return
	}

	response.Created(c, crop)
}

// UpdateCrop 更新作物
// PUT /api/v1/admin/crops/:id
func (h *CropHandler) UpdateCrop(c *gin.Context) {
	var req dto.CropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 12001, "invalid crop payload")
		return
	}

	crop, err := h.cropSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleCropError(c, err)
		return
	}

	response.OK(c, crop)
}

// DeleteCrop 删除作物
// DELETE /api/v1/admin/crops/:id
func (h *CropHandler) DeleteCrop(c *gin.Context) {
	if err := h.cropSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleCropError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *CropHandler) handleCropError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCropNotFound):
		response.NotFound(c, 12101, err.Error())
	case errors.Is(err, service.ErrCropDuplicate):
		response.Conflict(c, 12102, err.Error())
	case errors.Is(err, service.ErrInvalidRoutine):
		response.BadRequest(c, 12103, err.Error())
	default:
		response.InternalError(c)
	}
}
