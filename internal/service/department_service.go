package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"wfm/backend/internal/dto"
	"wfm/backend/internal/model"
	"wfm/backend/internal/repository"
)

// ── 部门模块业务错误 ──

var (
	ErrDepartmentNotFound   = errors.New("部门不存在")
	ErrDepartmentNameExists = errors.New("部门名称已存在")
	ErrDepartmentHasMembers = errors.New("部门下存在成员，无法删除")
)

// DepartmentService 部门业务接口
type DepartmentService interface {
	Create(ctx context.Context, req *dto.CreateDepartmentRequest, callerID string) (*dto.DepartmentResponse, error)
	GetByID(ctx context.Context, id string) (*dto.DepartmentResponse, error)
	List(ctx context.Context) ([]dto.DepartmentResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateDepartmentRequest, callerID string) (*dto.DepartmentResponse, error)
	Delete(ctx context.Context, id string) error
}

type departmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDepartmentService 创建 DepartmentService 实例
func NewDepartmentService(repo *repository.Repository, logger *zap.Logger) DepartmentService {
	return &departmentService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *departmentService) Create(ctx context.Context, req *dto.CreateDepartmentRequest, callerID string) (*dto.DepartmentResponse, error) {
	existing, err := s.repo.Department.GetByName(ctx, req.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询部门失败", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		return nil, ErrDepartmentNameExists
	}

	dept := &model.Department{
		Name:        req.Name,
		Description: req.Description,
	}
	dept.CreatedBy = &callerID
	dept.UpdatedBy = &callerID

	if err := s.repo.Department.Create(ctx, dept); err != nil {
		s.logger.Error("创建部门失败", zap.Error(err))
		return nil, err
	}

	return s.toDepartmentResponse(ctx, dept), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *departmentService) GetByID(ctx context.Context, id string) (*dto.DepartmentResponse, error) {
	dept, err := s.repo.Department.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		s.logger.Error("查询部门失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return s.toDepartmentResponse(ctx, dept), nil
}

// ────────────────────── List ──────────────────────

func (s *departmentService) List(ctx context.Context) ([]dto.DepartmentResponse, error) {
	depts, err := s.repo.Department.List(ctx)
	if err != nil {
		s.logger.Error("列出部门失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.DepartmentResponse, 0, len(depts))
	for i := range depts {
		result = append(result, *s.toDepartmentResponse(ctx, &depts[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *departmentService) Update(ctx context.Context, id string, req *dto.UpdateDepartmentRequest, callerID string) (*dto.DepartmentResponse, error) {
	dept, err := s.repo.Department.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		s.logger.Error("查询部门失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil && *req.Name != dept.Name {
		existing, err := s.repo.Department.GetByName(ctx, *req.Name)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, ErrDepartmentNameExists
		}
		dept.Name = *req.Name
	}
	if req.Description != nil {
		dept.Description = *req.Description
	}
	dept.UpdatedBy = &callerID

	if err := s.repo.Department.Update(ctx, dept); err != nil {
		s.logger.Error("更新部门失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toDepartmentResponse(ctx, dept), nil
}

// ────────────────────── Delete ──────────────────────

func (s *departmentService) Delete(ctx context.Context, id string) error {
	dept, err := s.repo.Department.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDepartmentNotFound
		}
		s.logger.Error("查询部门失败", zap.String("id", id), zap.Error(err))
		return err
	}

	count, err := s.repo.User.CountByDepartment(ctx, dept.DepartmentID)
	if err != nil {
		s.logger.Error("查询部门成员数失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if count > 0 {
		return ErrDepartmentHasMembers
	}

	if err := s.repo.Department.Delete(ctx, id); err != nil {
		s.logger.Error("删除部门失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

func (s *departmentService) toDepartmentResponse(ctx context.Context, dept *model.Department) *dto.DepartmentResponse {
	memberCount, _ := s.repo.User.CountByDepartment(ctx, dept.DepartmentID)
	return &dto.DepartmentResponse{
		DepartmentID: dept.DepartmentID,
		Name:         dept.Name,
		Description:  dept.Description,
		MemberCount:  memberCount,
		CreatedAt:    dept.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:    dept.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
