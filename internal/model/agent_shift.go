package model

import "time"

// AgentShift 坐席排班表 — 对应 agent_shifts
// 每条记录表示某坐席在某日的班次安排（排休的花名册来源）
type AgentShift struct {
	AgentShiftID string    `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"agent_shift_id"`
	UserID       string    `gorm:"type:uuid;not null"                                       json:"user_id"`
	ShiftDate    time.Time `gorm:"type:date;not null"                                       json:"shift_date"`
	ShiftTypeID  string    `gorm:"type:uuid;not null"                                       json:"shift_type_id"`
	VersionedModel

	// 关联
	User      *User      `gorm:"foreignKey:UserID;references:UserID"           json:"user,omitempty"`
	ShiftType *ShiftType `gorm:"foreignKey:ShiftTypeID;references:ShiftTypeID" json:"shift_type,omitempty"`
}

// TableName 指定表名
func (AgentShift) TableName() string { return "agent_shifts" }
