package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wfm/backend/internal/dto"
	"wfm/backend/internal/service"
	"wfm/backend/pkg/jwt"
	"wfm/backend/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login 用户登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

// Logout 用户登出：将当前 access token 加入黑名单
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), claims); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// RefreshToken 刷新令牌对（旧 refresh token 旋转后作废）
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.RefreshToken(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

// ChangePassword 修改当前用户密码
// PUT /api/v1/auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.authSvc.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, nil)
}

// GetCurrentUser 获取当前登录用户信息
// GET /api/v1/auth/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.authSvc.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, user)
}

// handleAuthError 统一处理认证模块业务错误
func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, 11001, "用户名或密码错误")
	case errors.Is(err, service.ErrUserDisabled):
		response.Forbidden(c, 11002, "账号已停用")
	case errors.Is(err, service.ErrNotRefreshToken):
		response.Unauthorized(c, 11003, "不是有效的刷新令牌")
	case errors.Is(err, jwt.ErrTokenExpired):
		response.Unauthorized(c, 11004, "令牌已过期，请重新登录")
	case errors.Is(err, jwt.ErrTokenInvalid):
		response.Unauthorized(c, 11005, "令牌无效")
	case errors.Is(err, service.ErrWrongOldPassword):
		response.BadRequest(c, 11006, "原密码错误")
	case errors.Is(err, service.ErrWeakPassword):
		response.BadRequest(c, 11007, "密码长度不能少于 8 位")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 11008, "用户不存在")
	default:
		response.InternalError(c)
	}
}
