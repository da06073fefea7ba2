package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wfm/backend/internal/model"
)

// BreakScheduleRepository 排休明细数据访问接口
// 明细按 (user_id, schedule_date, interval_start) 唯一，写入走 upsert
type BreakScheduleRepository interface {
	UpsertBatch(ctx context.Context, entries []model.BreakScheduleEntry) error
	ListByDate(ctx context.Context, date time.Time) ([]model.BreakScheduleEntry, error)
	ListByUserAndDate(ctx context.Context, userID string, date time.Time) ([]model.BreakScheduleEntry, error)
	DeleteByUserAndDate(ctx context.Context, userID string, date time.Time) error
	DeleteByDate(ctx context.Context, date time.Time) error
}

type breakScheduleRepo struct {
	db *gorm.DB
}

// NewBreakScheduleRepo 创建 BreakScheduleRepository 实例
func NewBreakScheduleRepo(db *gorm.DB) BreakScheduleRepository {
	return &breakScheduleRepo{db: db}
}

func (r *breakScheduleRepo) UpsertBatch(ctx context.Context, entries []model.BreakScheduleEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"}, {Name: "schedule_date"}, {Name: "interval_start"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"break_type", "updated_at", "updated_by"}),
		}).
		Create(&entries).Error
}

func (r *breakScheduleRepo) ListByDate(ctx context.Context, date time.Time) ([]model.BreakScheduleEntry, error) {
	var entries []model.BreakScheduleEntry
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("schedule_date = ?", date).
		Order("user_id ASC, interval_start ASC").
		Find(&entries).Error
	return entries, err
}

func (r *breakScheduleRepo) ListByUserAndDate(ctx context.Context, userID string, date time.Time) ([]model.BreakScheduleEntry, error) {
	var entries []model.BreakScheduleEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND schedule_date = ?", userID, date).
		Order("interval_start ASC").
		Find(&entries).Error
	return entries, err
}

func (r *breakScheduleRepo) DeleteByUserAndDate(ctx context.Context, userID string, date time.Time) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND schedule_date = ?", userID, date).
		Delete(&model.BreakScheduleEntry{}).Error
}

func (r *breakScheduleRepo) DeleteByDate(ctx context.Context, date time.Time) error {
	return r.db.WithContext(ctx).
		Where("schedule_date = ?", date).
		Delete(&model.BreakScheduleEntry{}).Error
}
