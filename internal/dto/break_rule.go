package dto

// ── 排休规则模块 DTO ──

// CreateBreakRuleRequest 创建排休规则请求
// Parameters 为参数包，结构由 RuleType 决定，服务层负责解码校验
type CreateBreakRuleRequest struct {
	Name       string                 `json:"name"        binding:"required,max=100"`
	RuleType   string                 `json:"rule_type"   binding:"required,oneof=distribution ordering timing coverage"`
	Parameters map[string]interface{} `json:"parameters"`
	IsActive   *bool                  `json:"is_active"`
	IsBlocking *bool                  `json:"is_blocking"`
	Priority   int                    `json:"priority"`
}

// UpdateBreakRuleRequest 更新排休规则请求（指针字段：nil 表示不修改）
type UpdateBreakRuleRequest struct {
	Name       *string                `json:"name"`
	Parameters map[string]interface{} `json:"parameters"`
	IsActive   *bool                  `json:"is_active"`
	IsBlocking *bool                  `json:"is_blocking"`
	Priority   *int                   `json:"priority"`
}

// BreakRuleResponse 排休规则信息响应
type BreakRuleResponse struct {
	RuleID     string                 `json:"rule_id"`
	Name       string                 `json:"name"`
	RuleType   string                 `json:"rule_type"`
	Parameters map[string]interface{} `json:"parameters"`
	IsActive   bool                   `json:"is_active"`
	IsBlocking bool                   `json:"is_blocking"`
	Priority   int                    `json:"priority"`
	CreatedAt  string                 `json:"created_at"`
	UpdatedAt  string                 `json:"updated_at"`
}
