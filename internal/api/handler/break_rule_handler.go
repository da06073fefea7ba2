package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"wfm/backend/internal/dto"
	"wfm/backend/internal/service"
	"wfm/backend/pkg/response"
)

// BreakRuleHandler 排休规则模块 HTTP 处理器
type BreakRuleHandler struct {
	ruleSvc service.BreakRuleService
}

// NewBreakRuleHandler 创建 BreakRuleHandler
func NewBreakRuleHandler(ruleSvc service.BreakRuleService) *BreakRuleHandler {
	return &BreakRuleHandler{ruleSvc: ruleSvc}
}

// CreateBreakRule 创建排休规则
// POST /api/v1/break-rules
func (h *BreakRuleHandler) CreateBreakRule(c *gin.Context) {
	var req dto.CreateBreakRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	rule, err := h.ruleSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleBreakRuleError(c, err)
		return
	}

	response.Created(c, rule)
}

// GetBreakRule 获取排休规则详情
// GET /api/v1/break-rules/:id
func (h *BreakRuleHandler) GetBreakRule(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "规则ID不能为空")
		return
	}

	rule, err := h.ruleSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleBreakRuleError(c, err)
		return
	}

	response.OK(c, rule)
}

// ListBreakRules 获取排休规则列表（按 priority 升序）
// GET /api/v1/break-rules
func (h *BreakRuleHandler) ListBreakRules(c *gin.Context) {
	rules, err := h.ruleSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": rules})
}

// UpdateBreakRule 更新排休规则
// PUT /api/v1/break-rules/:id
func (h *BreakRuleHandler) UpdateBreakRule(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "规则ID不能为空")
		return
	}

	var req dto.UpdateBreakRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	rule, err := h.ruleSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleBreakRuleError(c, err)
		return
	}

	response.OK(c, rule)
}

// DeleteBreakRule 删除排休规则
// DELETE /api/v1/break-rules/:id
func (h *BreakRuleHandler) DeleteBreakRule(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "规则ID不能为空")
		return
	}

	if err := h.ruleSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleBreakRuleError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleBreakRuleError 统一处理排休规则模块业务错误
func (h *BreakRuleHandler) handleBreakRuleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBreakRuleNotFound):
		response.NotFound(c, 15001, "排休规则不存在")
	case errors.Is(err, service.ErrBreakRuleNameExists):
		response.BadRequest(c, 15002, "排休规则名称已存在")
	case errors.Is(err, service.ErrInvalidRuleType):
		response.BadRequest(c, 15003, "规则类型非法")
	case errors.Is(err, service.ErrInvalidRuleParameters):
		response.BadRequest(c, 15004, "规则参数非法")
	default:
		response.InternalError(c)
	}
}
