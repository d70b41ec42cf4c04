package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/notsura/agro/internal/dto"
	"github.com/notsura/agro/internal/service"
	"github.com/notsura/agro/pkg/response"
)

// AdminHandler 管理后台：用户管理与统计
type AdminHandler struct {
	userSvc service.UserService
}

// NewAdminHandler 创建 AdminHandler
func NewAdminHandler(userSvc service.UserService) *AdminHandler {
	return &AdminHandler{userSvc: userSvc}
}

// ListUsers 分页查询用户
// GET /api/v1/admin/users?page=1&page_size=20
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var req dto.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid pagination parameters")
		return
	}

	users, total, err := h.userSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OKPage(c, users, total, req.GetPage(), req.GetPageSize())
}

// ToggleStatus 封禁 / 解封用户
// POST /api/v1/admin/users/:id/toggle-status
func (h *AdminHandler) ToggleStatus(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.userSvc.ToggleStatus(c.Request.Context(), callerID, c.Param("id"))
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, result)
}

// Stats 平台统计
// GET /api/v1/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.userSvc.Stats(c.Request.Context())
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, stats)
}

func (h *AdminHandler) handleUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 11004, err.Error())
	case errors.Is(err, service.ErrCannotBlockSelf):
		response.BadRequest(c, 11005, err.Error())
	default:
		response.InternalError(c)
	}
}
