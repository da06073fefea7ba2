package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"wfm/backend/internal/model"
)

// AgentShiftRepository 坐席排班数据访问接口
// 自动分配的花名册来源：某日在班坐席及其班次窗口
type AgentShiftRepository interface {
	Create(ctx context.Context, shift *model.AgentShift) error
	BatchCreate(ctx context.Context, shifts []model.AgentShift) error
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*model.AgentShift, error)
	ListByDate(ctx context.Context, date time.Time, departmentID string) ([]model.AgentShift, error)
	Delete(ctx context.Context, id string) error
}

type agentShiftRepo struct {
	db *gorm.DB
}

// NewAgentShiftRepo 创建 AgentShiftRepository 实例
func NewAgentShiftRepo(db *gorm.DB) AgentShiftRepository {
	return &agentShiftRepo{db: db}
}

func (r *agentShiftRepo) Create(ctx context.Context, shift *model.AgentShift) error {
	return r.db.WithContext(ctx).Create(shift).Error
}

func (r *agentShiftRepo) BatchCreate(ctx context.Context, shifts []model.AgentShift) error {
	if len(shifts) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&shifts).Error
}

func (r *agentShiftRepo) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*model.AgentShift, error) {
	var shift model.AgentShift
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("ShiftType").
		Where("user_id = ? AND shift_date = ?", userID, date).
		First(&shift).Error
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *agentShiftRepo) ListByDate(ctx context.Context, date time.Time, departmentID string) ([]model.AgentShift, error) {
	var shifts []model.AgentShift
	db := r.db.WithContext(ctx).
		Preload("User").
		Preload("ShiftType").
		Where("shift_date = ?", date)
	if departmentID != "" {
		db = db.Joins("JOIN users ON users.id = agent_shifts.user_id").
			Where("users.department_id = ?", departmentID)
	}
	err := db.Order("user_id ASC").Find(&shifts).Error
	return shifts, err
}

func (r *agentShiftRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.AgentShift{}).Error
}
