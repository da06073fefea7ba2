package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"wfm/backend/internal/dto"
	"wfm/backend/internal/service"
	"wfm/backend/pkg/response"
)

// ShiftHandler 班次模块 HTTP 处理器：班次类型配置与坐席排班
type ShiftHandler struct {
	shiftSvc service.ShiftService
}

// NewShiftHandler 创建 ShiftHandler
func NewShiftHandler(shiftSvc service.ShiftService) *ShiftHandler {
	return &ShiftHandler{shiftSvc: shiftSvc}
}

// CreateShiftType 创建班次类型
// POST /api/v1/shift-types
func (h *ShiftHandler) CreateShiftType(c *gin.Context) {
	var req dto.CreateShiftTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	st, err := h.shiftSvc.CreateShiftType(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.Created(c, st)
}

// ListShiftTypes 获取班次类型列表
// GET /api/v1/shift-types
func (h *ShiftHandler) ListShiftTypes(c *gin.Context) {
	types, err := h.shiftSvc.ListShiftTypes(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": types})
}

// UpdateShiftType 更新班次类型
// PUT /api/v1/shift-types/:id
func (h *ShiftHandler) UpdateShiftType(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "班次类型ID不能为空")
		return
	}

	var req dto.UpdateShiftTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	st, err := h.shiftSvc.UpdateShiftType(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.OK(c, st)
}

// DeleteShiftType 删除班次类型
// DELETE /api/v1/shift-types/:id
func (h *ShiftHandler) DeleteShiftType(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "班次类型ID不能为空")
		return
	}

	if err := h.shiftSvc.DeleteShiftType(c.Request.Context(), id); err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.OK(c, nil)
}

// AssignShifts 批量排班：为坐席指定某日班次
// POST /api/v1/agent-shifts
func (h *ShiftHandler) AssignShifts(c *gin.Context) {
	var req dto.BatchAssignShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	shifts, err := h.shiftSvc.AssignShifts(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.Created(c, gin.H{"list": shifts})
}

// ListShiftsByDate 获取某日排班花名册
// GET /api/v1/agent-shifts?date=2026-03-02&department_id=xxx
func (h *ShiftHandler) ListShiftsByDate(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		response.BadRequest(c, 10001, "date 不能为空")
		return
	}

	shifts, err := h.shiftSvc.ListShiftsByDate(c.Request.Context(), date, c.Query("department_id"))
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.OK(c, gin.H{"list": shifts})
}

// RemoveShift 撤销一条排班
// DELETE /api/v1/agent-shifts/:id
func (h *ShiftHandler) RemoveShift(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "排班ID不能为空")
		return
	}

	if err := h.shiftSvc.RemoveShift(c.Request.Context(), id); err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleShiftError 统一处理班次模块业务错误
func (h *ShiftHandler) handleShiftError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrShiftTypeNotFound):
		response.NotFound(c, 14001, "班次类型不存在")
	case errors.Is(err, service.ErrShiftTypeNameExists):
		response.BadRequest(c, 14002, "班次类型名称已存在")
	case errors.Is(err, service.ErrShiftWindowInvalid):
		response.BadRequest(c, 14003, "班次窗口非法：须对齐 15 分钟且开始早于结束")
	case errors.Is(err, service.ErrShiftAlreadySet):
		response.BadRequest(c, 14004, "该坐席当日已有排班")
	case errors.Is(err, service.ErrAgentShiftNotFound):
		response.NotFound(c, 14005, "排班记录不存在")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 14006, "指定用户不存在")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 14007, "日期格式非法，应为 YYYY-MM-DD")
	default:
		response.InternalError(c)
	}
}
