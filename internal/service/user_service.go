package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"wfm/backend/internal/dto"
	"wfm/backend/internal/model"
	"wfm/backend/internal/repository"
)

// ── 用户模块业务错误 ──

var ErrUsernameExists = errors.New("用户名已存在")

// UserService 用户业务接口
type UserService interface {
	Create(ctx context.Context, req *dto.CreateUserRequest, callerID string) (*dto.UserResponse, error)
	GetByID(ctx context.Context, id string) (*dto.UserResponse, error)
	List(ctx context.Context, q *dto.ListUsersQuery) ([]dto.UserResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateUserRequest, callerID string) (*dto.UserResponse, error)
	Delete(ctx context.Context, id string) error
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest, callerID string) (*dto.UserResponse, error) {
	existing, err := s.repo.User.GetByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameExists
	}

	if req.DepartmentID != nil {
		if _, err := s.repo.Department.GetByID(ctx, *req.DepartmentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrDepartmentNotFound
			}
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Username:     req.Username,
		DisplayName:  req.DisplayName,
		PasswordHash: string(hash),
		Role:         req.Role,
		DepartmentID: req.DepartmentID,
		IsActive:     true,
	}
	user.CreatedBy = &callerID
	user.UpdatedBy = &callerID

	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *userService) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *userService) List(ctx context.Context, q *dto.ListUsersQuery) ([]dto.UserResponse, int64, error) {
	users, total, err := s.repo.User.List(ctx, repository.UserListQuery{
		DepartmentID: q.Department,
		Keyword:      q.Keyword,
		Offset:       (q.Page - 1) * q.PageSize,
		Limit:        q.PageSize,
	})
	if err != nil {
		s.logger.Error("列出用户失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, toUserResponse(&users[i]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *userService) Update(ctx context.Context, id string, req *dto.UpdateUserRequest, callerID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.DepartmentID != nil {
		if _, err := s.repo.Department.GetByID(ctx, *req.DepartmentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrDepartmentNotFound
			}
			return nil, err
		}
		user.DepartmentID = req.DepartmentID
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedBy = &callerID

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *userService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.User.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if err := s.repo.User.Delete(ctx, id); err != nil {
		s.logger.Error("删除用户失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

func toUserResponse(user *model.User) dto.UserResponse {
	resp := dto.UserResponse{
		UserID:       user.UserID,
		Username:     user.Username,
		DisplayName:  user.DisplayName,
		Role:         user.Role,
		DepartmentID: user.DepartmentID,
		IsActive:     user.IsActive,
		CreatedAt:    user.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:    user.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if user.Department != nil {
		resp.Department = user.Department.Name
	}
	return resp
}
