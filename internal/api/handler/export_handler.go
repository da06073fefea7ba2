package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"wfm/backend/internal/service"
	"wfm/backend/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportDaySchedule 导出某日排休总览 Excel
// GET /api/v1/export/break-schedules.xlsx?date=2026-03-02
func (h *ExportHandler) ExportDaySchedule(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		response.BadRequest(c, 10001, "date 不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportDaySchedule(c.Request.Context(), date)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 16201, "日期格式非法，应为 YYYY-MM-DD")
	case errors.Is(err, service.ErrExportNoSchedules):
		response.NotFound(c, 16202, "该日期暂无排休数据")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
