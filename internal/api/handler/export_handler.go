package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/notsura/agro/internal/service"
	"github.com/notsura/agro/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportHistory 导出收获归档
// GET /api/v1/user/history/export
func (h *ExportHandler) ExportHistory(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportHistory(c.Request.Context(), userID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	attachment(c, filename, contentTypeXLSX, buf.Bytes())
}

// ExportCalendar 导出当前旅程日历
// GET /api/v1/user/journey/calendar.ics
func (h *ExportHandler) ExportCalendar(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportCalendar(c.Request.Context(), userID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	attachment(c, filename, contentTypeICS, buf.Bytes())
}

// attachment 写入下载响应头
func attachment(c *gin.Context, filename, contentType string, body []byte) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
	c.Data(http.StatusOK, contentType, body)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoActiveJourney):
		response.NotFound(c, 16101, err.Error())
	case errors.Is(err, service.ErrExportNoRoutine):
		response.NotFound(c, 16102, err.Error())
	default:
		response.InternalError(c)
	}
}
