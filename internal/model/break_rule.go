package model

// 规则类型
const (
	RuleTypeDistribution = "distribution" // 区间休息人数上限
	RuleTypeOrdering     = "ordering"     // 休息顺序（HB1 → B → HB2）
	RuleTypeTiming       = "timing"       // 休息与班次边界/休息间的最小间隔
	RuleTypeCoverage     = "coverage"     // 在线人数下限
)

// BreakScheduleRule 排休规则表 — 对应 break_schedule_rules
// Parameters 为 JSONB 参数包，结构由 RuleType 决定
type BreakScheduleRule struct {
	RuleID     string  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"rule_id"`
	Name       string  `gorm:"type:varchar(100);not null"                               json:"name"`
	RuleType   string  `gorm:"type:varchar(20);not null"                                json:"rule_type"`
	Parameters JSONMap `gorm:"type:jsonb;not null;default:'{}'"                         json:"parameters"`
	IsActive   bool    `gorm:"not null;default:true"                                    json:"is_active"`
	IsBlocking bool    `gorm:"not null;default:false"                                   json:"is_blocking"`
	Priority   int     `gorm:"not null;default:0"                                       json:"priority"`
	VersionedModel
}

// TableName 指定表名
func (BreakScheduleRule) TableName() string { return "break_schedule_rules" }
