package model

// ShiftType 班次类型表 — 对应 shift_types
// StartTime/EndTime 为 HH:MM:SS 格式，须对齐 15 分钟边界
type ShiftType struct {
	ShiftTypeID string `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"shift_type_id"`
	Name        string `gorm:"type:varchar(50);not null"                                json:"name"`
	StartTime   string `gorm:"type:varchar(8);not null"                                 json:"start_time"`
	EndTime     string `gorm:"type:varchar(8);not null"                                 json:"end_time"`
	VersionedModel
}

// TableName 指定表名
func (ShiftType) TableName() string { return "shift_types" }
