package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User          UserRepository
	Department    DepartmentRepository
	ShiftType     ShiftTypeRepository
	AgentShift    AgentShiftRepository
	BreakRule     BreakRuleRepository
	BreakSchedule BreakScheduleRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:          NewUserRepo(db),
		Department:    NewDepartmentRepo(db),
		ShiftType:     NewShiftTypeRepo(db),
		AgentShift:    NewAgentShiftRepo(db),
		BreakRule:     NewBreakRuleRepo(db),
		BreakSchedule: NewBreakScheduleRepo(db),
	}
}
