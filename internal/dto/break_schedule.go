package dto

import "wfm/backend/internal/engine"

// ── 排休模块 DTO ──
// 字段名为与前端/持久层互通的线上契约，不可更名

// AutoDistributeRequest 自动分配预览请求
type AutoDistributeRequest struct {
	ScheduleDate string `json:"schedule_date" binding:"required"`
	Strategy     string `json:"strategy"      binding:"required,oneof=ladder balanced_coverage staggered_timing"`
	ApplyMode    string `json:"apply_mode"    binding:"required,oneof=only_unscheduled all_agents"`
	Department   string `json:"department"`
}

// RuleCompliance 规则符合性汇总
type RuleCompliance struct {
	TotalViolations    int `json:"total_violations"`
	BlockingViolations int `json:"blocking_violations"`
	WarningViolations  int `json:"warning_violations"`
}

// FailedAgent 分配失败坐席
// BlockedBy 为触发阻断违规的规则名（去重）；策略层失败时为空
type FailedAgent struct {
	UserID    string   `json:"user_id"`
	Name      string   `json:"name"`
	Reason    string   `json:"reason"`
	BlockedBy []string `json:"blockedBy,omitempty"`
}

// AutoDistributePreview 自动分配预览结果
// 坐席恰好出现在 ProposedSchedules 与 FailedAgents 之一
type AutoDistributePreview struct {
	ProposedSchedules []*engine.AgentBreakSchedule `json:"proposed_schedules"`
	CoverageStats     engine.CoverageStats         `json:"coverage_stats"`
	RuleCompliance    RuleCompliance               `json:"rule_compliance"`
	FailedAgents      []FailedAgent                `json:"failed_agents"`
}

// IntervalUpdate 单格编辑
type IntervalUpdate struct {
	IntervalStart string `json:"interval_start" binding:"required"`
	BreakType     string `json:"break_type"     binding:"required,oneof=IN HB1 B HB2"`
}

// BreakScheduleUpdateRequest 手动编辑批次请求；Intervals 非空
type BreakScheduleUpdateRequest struct {
	UserID       string           `json:"user_id"       binding:"required"`
	ScheduleDate string           `json:"schedule_date" binding:"required"`
	Intervals    []IntervalUpdate `json:"intervals"     binding:"required,min=1,dive"`
}

// BreakScheduleUpdateResponse 手动编辑批次响应
type BreakScheduleUpdateResponse struct {
	Success    bool                         `json:"success"`
	Violations []engine.ValidationViolation `json:"violations"`
}

// ApplyScheduleRequest 应用预览结果请求
type ApplyScheduleRequest struct {
	ScheduleDate string                       `json:"schedule_date" binding:"required"`
	Schedules    []*engine.AgentBreakSchedule `json:"schedules"     binding:"required"`
}

// DayScheduleResponse 某日排休总览（实时表格）
type DayScheduleResponse struct {
	ScheduleDate string                       `json:"schedule_date"`
	Intervals    []string                     `json:"intervals"` // 全天区间轴
	Schedules    []*engine.AgentBreakSchedule `json:"schedules"`
	Coverage     map[string]int               `json:"coverage"`
	Stats        engine.CoverageStats         `json:"stats"`
}

// CSVImportResult CSV 批量导入结果
type CSVImportResult struct {
	Imported int              `json:"imported"`
	Rejected []CSVRowRejected `json:"rejected"`
}

// CSVRowRejected 被拒绝的 CSV 行及原因
type CSVRowRejected struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}
