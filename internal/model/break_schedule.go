package model

import "time"

// BreakScheduleEntry 排休明细表 — 对应 break_schedule_entries
// 每条记录表示某坐席在某日某 15 分钟区间的状态（IN/HB1/B/HB2）
// 唯一约束：(user_id, schedule_date, interval_start)
type BreakScheduleEntry struct {
	EntryID       string    `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"entry_id"`
	UserID        string    `gorm:"type:uuid;not null"                                       json:"user_id"`
	ScheduleDate  time.Time `gorm:"type:date;not null"                                       json:"schedule_date"`
	IntervalStart string    `gorm:"type:varchar(8);not null"                                 json:"interval_start"`
	BreakType     string    `gorm:"type:varchar(4);not null"                                 json:"break_type"`
	VersionedModel

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (BreakScheduleEntry) TableName() string { return "break_schedule_entries" }
