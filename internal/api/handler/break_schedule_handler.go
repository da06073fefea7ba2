package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wfm/backend/internal/dto"
	"wfm/backend/internal/service"
	"wfm/backend/pkg/response"
)

// BreakScheduleHandler 排休模块 HTTP 处理器
// 单格编辑走 Reconciler 缓冲（防抖合并后批量落库），批量编辑直接落库
type BreakScheduleHandler struct {
	schedSvc   service.BreakScheduleService
	reconciler *service.EditReconciler
}

// NewBreakScheduleHandler 创建 BreakScheduleHandler
func NewBreakScheduleHandler(schedSvc service.BreakScheduleService, reconciler *service.EditReconciler) *BreakScheduleHandler {
	return &BreakScheduleHandler{schedSvc: schedSvc, reconciler: reconciler}
}

// GetDay 获取某日排休总览
// GET /api/v1/break-schedules?date=2026-03-02&department_id=xxx
func (h *BreakScheduleHandler) GetDay(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		response.BadRequest(c, 10001, "date 不能为空")
		return
	}

	day, err := h.schedSvc.GetDay(c.Request.Context(), date, c.Query("department_id"))
	if err != nil {
		h.handleBreakScheduleError(c, err)
		return
	}

	response.OK(c, day)
}

// Preview 自动分配预览（不落库）
// POST /api/v1/break-schedules/auto-distribute/preview
func (h *BreakScheduleHandler) Preview(c *gin.Context) {
	var req dto.AutoDistributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	preview, err := h.schedSvc.Preview(c.Request.Context(), &req)
	if err != nil {
		h.handleBreakScheduleError(c, err)
		return
	}

	response.OK(c, preview)
}

// Apply 应用预览结果（落库）
// POST /api/v1/break-schedules/auto-distribute/apply
func (h *BreakScheduleHandler) Apply(c *gin.Context) {
	var req dto.ApplyScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.schedSvc.Apply(c.Request.Context(), &req, callerID); err != nil {
		h.handleBreakScheduleError(c, err)
		return
	}

	response.OK(c, nil)
}

// UpdateIntervals 手动批量编辑（同步校验并落库）
// 校验不通过时仍返回 200，Success=false 且携带违规明细
// PUT /api/v1/break-schedules/intervals
func (h *BreakScheduleHandler) UpdateIntervals(c *gin.Context) {
	var req dto.BreakScheduleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.schedSvc.UpdateIntervals(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleBreakScheduleError(c, err)
		return
	}

	response.OK(c, result)
}

// SubmitEdit 单格编辑：进入缓冲，防抖窗口静默后合并落库
// POST /api/v1/break-schedules/edit
func (h *BreakScheduleHandler) SubmitEdit(c *gin.Context) {
	var req struct {
		UserID        string `json:"user_id"        binding:"required"`
		ScheduleDate  string `json:"schedule_date"  binding:"required"`
		IntervalStart string `json:"interval_start" binding:"required"`
		BreakType     string `json:"break_type"     binding:"required,oneof=IN HB1 B HB2"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.reconciler.Submit(req.UserID, req.ScheduleDate, req.IntervalStart, req.BreakType, callerID); err != nil {
		h.handleBreakScheduleError(c, err)
		return
	}

	response.Accepted(c)
}

// ImportCSV 批量导入排休（multipart 文件字段 file）
// 每行经与手动编辑相同的规则校验，违规行拒绝并附原因
// POST /api/v1/break-schedules/import
func (h *BreakScheduleHandler) ImportCSV(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "缺少上传文件 file")
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.BadRequest(c, 16001, "无法读取上传文件")
		return
	}
	defer f.Close()

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.schedSvc.ImportCSV(c.Request.Context(), f, callerID)
	if err != nil {
		response.BadRequest(c, 16002, err.Error())
		return
	}

	response.OK(c, result)
}

// ExportCSV 导出某日排休为 CSV
// GET /api/v1/export/break-schedules?date=2026-03-02
func (h *BreakScheduleHandler) ExportCSV(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		response.BadRequest(c, 10001, "date 不能为空")
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename=break_schedules_"+date+".csv")
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)

	if err := h.schedSvc.ExportCSV(c.Request.Context(), c.Writer, date); err != nil {
		// 响应头已写出，只能记录到 Gin 错误链
		_ = c.Error(err)
	}
}

// handleBreakScheduleError 统一处理排休模块业务错误
func (h *BreakScheduleHandler) handleBreakScheduleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 16101, "日期格式非法，应为 YYYY-MM-DD")
	case errors.Is(err, service.ErrEmptyUpdateBatch):
		response.BadRequest(c, 16102, "编辑批次不能为空")
	case errors.Is(err, service.ErrIntervalNotAligned):
		response.BadRequest(c, 16103, "区间起点未对齐 15 分钟")
	case errors.Is(err, service.ErrIntervalOutOfWindow):
		response.BadRequest(c, 16109, "区间起点超出班次窗口")
	case errors.Is(err, service.ErrInvalidBreakType):
		response.BadRequest(c, 16104, "区间状态非法")
	case errors.Is(err, service.ErrAgentShiftNotFound):
		response.NotFound(c, 16105, "该坐席当日无排班")
	case errors.Is(err, service.ErrApplyMode):
		response.BadRequest(c, 16106, "应用模式非法")
	case errors.Is(err, service.ErrPreviewSuperseded):
		response.Error(c, http.StatusConflict, 16107, "预览已被更新的请求取代")
	case errors.Is(err, service.ErrReconcilerClosed):
		response.Error(c, http.StatusServiceUnavailable, 16108, "服务正在关闭，编辑未受理")
	default:
		response.InternalError(c)
	}
}
