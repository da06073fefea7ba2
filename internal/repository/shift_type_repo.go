package repository

import (
	"context"

	"gorm.io/gorm"

	"wfm/backend/internal/model"
	pkgerrors "wfm/backend/pkg/errors"
)

// ShiftTypeRepository 班次类型数据访问接口
type ShiftTypeRepository interface {
	Create(ctx context.Context, shiftType *model.ShiftType) error
	GetByID(ctx context.Context, id string) (*model.ShiftType, error)
	GetByName(ctx context.Context, name string) (*model.ShiftType, error)
	List(ctx context.Context) ([]model.ShiftType, error)
	Update(ctx context.Context, shiftType *model.ShiftType) error
	Delete(ctx context.Context, id string) error
}

type shiftTypeRepo struct {
	db *gorm.DB
}

// NewShiftTypeRepo 创建 ShiftTypeRepository 实例
func NewShiftTypeRepo(db *gorm.DB) ShiftTypeRepository {
	return &shiftTypeRepo{db: db}
}

func (r *shiftTypeRepo) Create(ctx context.Context, shiftType *model.ShiftType) error {
	return r.db.WithContext(ctx).Create(shiftType).Error
}

func (r *shiftTypeRepo) GetByID(ctx context.Context, id string) (*model.ShiftType, error) {
	var st model.ShiftType
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&st).Error
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *shiftTypeRepo) GetByName(ctx context.Context, name string) (*model.ShiftType, error) {
	var st model.ShiftType
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&st).Error
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *shiftTypeRepo) List(ctx context.Context) ([]model.ShiftType, error) {
	var shiftTypes []model.ShiftType
	err := r.db.WithContext(ctx).
		Order("start_time ASC, name ASC").
		Find(&shiftTypes).Error
	return shiftTypes, err
}

func (r *shiftTypeRepo) Update(ctx context.Context, shiftType *model.ShiftType) error {
	oldVersion := shiftType.Version
	result := r.db.WithContext(ctx).
		Model(shiftType).
		Where("id = ? AND version = ?", shiftType.ShiftTypeID, oldVersion).
		Updates(map[string]interface{}{
			"name":       shiftType.Name,
			"start_time": shiftType.StartTime,
			"end_time":   shiftType.EndTime,
			"updated_by": shiftType.UpdatedBy,
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	shiftType.Version = oldVersion + 1
	return nil
}

func (r *shiftTypeRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.ShiftType{}).Error
}
