package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"wfm/backend/internal/dto"
	"wfm/backend/internal/service"
	"wfm/backend/pkg/response"
)

// UserHandler 用户模块 HTTP 处理器
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// CreateUser 创建用户（管理员）
// POST /api/v1/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.userSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.Created(c, user)
}

// GetUser 获取用户详情
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "用户ID不能为空")
		return
	}

	user, err := h.userSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, user)
}

// ListUsers 用户列表（分页，支持部门与关键字过滤）
// GET /api/v1/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	var q dto.ListUsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	users, total, err := h.userSvc.List(c.Request.Context(), &q)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, users, total, q.Page, q.PageSize)
}

// UpdateUser 更新用户（管理员）
// PUT /api/v1/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "用户ID不能为空")
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.userSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, user)
}

// DeleteUser 删除用户（管理员）
// DELETE /api/v1/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "用户ID不能为空")
		return
	}

	if err := h.userSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleUserError 统一处理用户模块业务错误
func (h *UserHandler) handleUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 12001, "用户不存在")
	case errors.Is(err, service.ErrUsernameExists):
		response.BadRequest(c, 12002, "用户名已存在")
	case errors.Is(err, service.ErrDepartmentNotFound):
		response.NotFound(c, 12003, "指定部门不存在")
	default:
		response.InternalError(c)
	}
}
