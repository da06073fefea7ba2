package repository

import (
	"context"

	"gorm.io/gorm"

	"wfm/backend/internal/model"
	pkgerrors "wfm/backend/pkg/errors"
)

// BreakRuleRepository 排休规则数据访问接口
type BreakRuleRepository interface {
	Create(ctx context.Context, rule *model.BreakScheduleRule) error
	GetByID(ctx context.Context, id string) (*model.BreakScheduleRule, error)
	GetByName(ctx context.Context, name string) (*model.BreakScheduleRule, error)
	List(ctx context.Context) ([]model.BreakScheduleRule, error)
	ListActive(ctx context.Context) ([]model.BreakScheduleRule, error)
	Update(ctx context.Context, rule *model.BreakScheduleRule) error
	Delete(ctx context.Context, id string) error
}

type breakRuleRepo struct {
	db *gorm.DB
}

// NewBreakRuleRepo 创建 BreakRuleRepository 实例
func NewBreakRuleRepo(db *gorm.DB) BreakRuleRepository {
	return &breakRuleRepo{db: db}
}

func (r *breakRuleRepo) Create(ctx context.Context, rule *model.BreakScheduleRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *breakRuleRepo) GetByID(ctx context.Context, id string) (*model.BreakScheduleRule, error) {
	var rule model.BreakScheduleRule
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&rule).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *breakRuleRepo) GetByName(ctx context.Context, name string) (*model.BreakScheduleRule, error) {
	var rule model.BreakScheduleRule
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&rule).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *breakRuleRepo) List(ctx context.Context) ([]model.BreakScheduleRule, error) {
	var rules []model.BreakScheduleRule
	err := r.db.WithContext(ctx).
		Order("priority ASC, name ASC").
		Find(&rules).Error
	return rules, err
}

func (r *breakRuleRepo) ListActive(ctx context.Context) ([]model.BreakScheduleRule, error) {
	var rules []model.BreakScheduleRule
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("priority ASC, name ASC").
		Find(&rules).Error
	return rules, err
}

func (r *breakRuleRepo) Update(ctx context.Context, rule *model.BreakScheduleRule) error {
	oldVersion := rule.Version
	result := r.db.WithContext(ctx).
		Model(rule).
		Where("id = ? AND version = ?", rule.RuleID, oldVersion).
		Updates(map[string]interface{}{
			"name":        rule.Name,
			"parameters":  rule.Parameters,
			"is_active":   rule.IsActive,
			"is_blocking": rule.IsBlocking,
			"priority":    rule.Priority,
			"updated_by":  rule.UpdatedBy,
			"version":     oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	rule.Version = oldVersion + 1
	return nil
}

func (r *breakRuleRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.BreakScheduleRule{}).Error
}
