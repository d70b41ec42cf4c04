package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/notsura/agro/internal/dto"
	"github.com/notsura/agro/internal/service"
	pkgerrors "github.com/notsura/agro/pkg/errors"
	"github.com/notsura/agro/pkg/response"
)

// JourneyHandler 种植旅程 HTTP 处理器
type JourneyHandler struct {
	journeySvc service.JourneyService
	now        func() time.Time // 服务器时区下的当前时间
}

// NewJourneyHandler 创建 JourneyHandler
func NewJourneyHandler(journeySvc service.JourneyService, now func() time.Time) *JourneyHandler {
	if now == nil {
		now = time.Now
	}
	return &JourneyHandler{journeySvc: journeySvc, now: now}
}

// Start 开始（或覆盖）种植旅程
// POST /api/v1/user/start-followup
func (h *JourneyHandler) Start(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.StartJourneyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 14001, service.ErrInvalidInput.Error())
		return
	}

	result, err := h.journeySvc.Start(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleJourneyError(c, err)
		return
	}

	response.OK(c, result)
}

// Status 当前旅程状态与生长阶段
// GET /api/v1/user/active-status
func (h *JourneyHandler) Status(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	status, err := h.journeySvc.GetStatus(c.Request.Context(), userID, h.now())
	if err != nil {
		h.handleJourneyError(c, err)
		return
	}

	response.OK(c, status)
}

// ToggleTask 切换任务完成状态
// POST /api/v1/user/toggle-task
func (h *JourneyHandler) ToggleTask(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ToggleTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 14001, "task_title is required")
		return
	}

	result, err := h.journeySvc.ToggleTask(c.Request.Context(), userID, req.TaskTitle)
	if err != nil {
		h.handleJourneyError(c, err)
		return
	}

	response.OK(c, result)
}

// Complete 收获归档并结束旅程
// POST /api/v1/user/complete-journey
func (h *JourneyHandler) Complete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	entry, err := h.journeySvc.Complete(c.Request.Context(), userID, h.now())
	if err != nil {
		h.handleJourneyError(c, err)
		return
	}

	response.OK(c, entry)
}

// History 归档记录（最近完成的在前）
// GET /api/v1/user/history
func (h *JourneyHandler) History(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	entries, err := h.journeySvc.History(c.Request.Context(), userID)
	if err != nil {
		h.handleJourneyError(c, err)
		return
	}

	response.OK(c, entries)
}

func (h *JourneyHandler) handleJourneyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		response.BadRequest(c, 14001, err.Error())
	case errors.Is(err, service.ErrNoActiveJourney):
		response.NotFound(c, 14101, err.Error())
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 14102, err.Error())
	default:
		response.InternalError(c)
	}
}
