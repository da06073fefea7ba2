package repository

import (
	"context"

	"gorm.io/gorm"

	"wfm/backend/internal/model"
	pkgerrors "wfm/backend/pkg/errors"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByName(ctx context.Context, name string) (*model.User, error)
	List(ctx context.Context, q UserListQuery) ([]model.User, int64, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id string) error
	CountByDepartment(ctx context.Context, departmentID string) (int64, error)
}

// UserListQuery 用户列表过滤条件
type UserListQuery struct {
	DepartmentID string
	Keyword      string
	Offset       int
	Limit        int
}

type userRepo struct {
	db *gorm.DB
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("Department").
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("Department").
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByName 按用户名或显示名精确查找（CSV 导入按坐席姓名定位）
func (r *userRepo) GetByName(ctx context.Context, name string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("username = ? OR display_name = ?", name, name).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) List(ctx context.Context, q UserListQuery) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	db := r.db.WithContext(ctx).Model(&model.User{})
	if q.DepartmentID != "" {
		db = db.Where("department_id = ?", q.DepartmentID)
	}
	if q.Keyword != "" {
		kw := "%" + q.Keyword + "%"
		db = db.Where("username ILIKE ? OR display_name ILIKE ?", kw, kw)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Department").
		Offset(q.Offset).Limit(q.Limit).
		Order("username ASC").
		Find(&users).Error
	return users, total, err
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	oldVersion := user.Version
	result := r.db.WithContext(ctx).
		Model(user).
		Where("id = ? AND version = ?", user.UserID, oldVersion).
		Updates(map[string]interface{}{
			"display_name":  user.DisplayName,
			"password_hash": user.PasswordHash,
			"role":          user.Role,
			"department_id": user.DepartmentID,
			"is_active":     user.IsActive,
			"updated_by":    user.UpdatedBy,
			"version":       oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	user.Version = oldVersion + 1
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.User{}).Error
}

func (r *userRepo) CountByDepartment(ctx context.Context, departmentID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("department_id = ?", departmentID).
		Count(&count).Error
	return count, err
}
