package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"wfm/backend/internal/dto"
	"wfm/backend/internal/service"
	"wfm/backend/pkg/response"
)

// DepartmentHandler 部门模块 HTTP 处理器
type DepartmentHandler struct {
	deptSvc service.DepartmentService
}

// NewDepartmentHandler 创建 DepartmentHandler
func NewDepartmentHandler(deptSvc service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{deptSvc: deptSvc}
}

// ListDepartments 获取部门列表
// GET /api/v1/departments
func (h *DepartmentHandler) ListDepartments(c *gin.Context) {
	depts, err := h.deptSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": depts})
}

// GetDepartment 获取部门详情
// GET /api/v1/departments/:id
func (h *DepartmentHandler) GetDepartment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "部门ID不能为空")
		return
	}

	dept, err := h.deptSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleDepartmentError(c, err)
		return
	}

	response.OK(c, dept)
}

// CreateDepartment 创建部门
// POST /api/v1/departments
func (h *DepartmentHandler) CreateDepartment(c *gin.Context) {
	var req dto.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	dept, err := h.deptSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleDepartmentError(c, err)
		return
	}

	response.Created(c, dept)
}

// UpdateDepartment 更新部门
// PUT /api/v1/departments/:id
func (h *DepartmentHandler) UpdateDepartment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "部门ID不能为空")
		return
	}

	var req dto.UpdateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	dept, err := h.deptSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleDepartmentError(c, err)
		return
	}

	response.OK(c, dept)
}

// DeleteDepartment 删除部门
// DELETE /api/v1/departments/:id
func (h *DepartmentHandler) DeleteDepartment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "部门ID不能为空")
		return
	}

	if err := h.deptSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleDepartmentError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleDepartmentError 统一处理部门模块业务错误
func (h *DepartmentHandler) handleDepartmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDepartmentNotFound):
		response.NotFound(c, 13001, "部门不存在")
	case errors.Is(err, service.ErrDepartmentNameExists):
		response.BadRequest(c, 13002, "部门名称已存在")
	case errors.Is(err, service.ErrDepartmentHasMembers):
		response.BadRequest(c, 13003, "部门下存在成员，无法删除")
	default:
		response.InternalError(c)
	}
}
