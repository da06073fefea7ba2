package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"wfm/backend/internal/dto"
	"wfm/backend/internal/engine"
	"wfm/backend/internal/model"
	"wfm/backend/internal/repository"
)

// ── 班次模块业务错误 ──

var (
	ErrShiftTypeNotFound   = errors.New("班次类型不存在")
	ErrShiftTypeNameExists = errors.New("班次类型名称已存在")
	ErrShiftWindowInvalid  = errors.New("班次窗口非法：须对齐 15 分钟且开始早于结束")
	ErrShiftAlreadySet     = errors.New("该坐席当日已有排班")
)

// ShiftService 班次业务接口：班次类型配置 + 坐席排班（花名册）管理
type ShiftService interface {
	CreateShiftType(ctx context.Context, req *dto.CreateShiftTypeRequest, callerID string) (*dto.ShiftTypeResponse, error)
	ListShiftTypes(ctx context.Context) ([]dto.ShiftTypeResponse, error)
	UpdateShiftType(ctx context.Context, id string, req *dto.UpdateShiftTypeRequest, callerID string) (*dto.ShiftTypeResponse, error)
	DeleteShiftType(ctx context.Context, id string) error

	AssignShifts(ctx context.Context, req *dto.BatchAssignShiftRequest, callerID string) ([]dto.AgentShiftResponse, error)
	ListShiftsByDate(ctx context.Context, date string, departmentID string) ([]dto.AgentShiftResponse, error)
	RemoveShift(ctx context.Context, id string) error
}

type shiftService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewShiftService 创建 ShiftService 实例
func NewShiftService(repo *repository.Repository, logger *zap.Logger) ShiftService {
	return &shiftService{repo: repo, logger: logger}
}

// ────────────────────── CreateShiftType ──────────────────────

func (s *shiftService) CreateShiftType(ctx context.Context, req *dto.CreateShiftTypeRequest, callerID string) (*dto.ShiftTypeResponse, error) {
	if err := validateShiftWindow(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	existing, err := s.repo.ShiftType.GetByName(ctx, req.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询班次类型失败", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		return nil, ErrShiftTypeNameExists
	}

	st := &model.ShiftType{
		Name:      req.Name,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	st.CreatedBy = &callerID
	st.UpdatedBy = &callerID

	if err := s.repo.ShiftType.Create(ctx, st); err != nil {
		s.logger.Error("创建班次类型失败", zap.Error(err))
		return nil, err
	}
	return toShiftTypeResponse(st), nil
}

// ────────────────────── ListShiftTypes ──────────────────────

func (s *shiftService) ListShiftTypes(ctx context.Context) ([]dto.ShiftTypeResponse, error) {
	shiftTypes, err := s.repo.ShiftType.List(ctx)
	if err != nil {
		s.logger.Error("列出班次类型失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.ShiftTypeResponse, 0, len(shiftTypes))
	for i := range shiftTypes {
		result = append(result, *toShiftTypeResponse(&shiftTypes[i]))
	}
	return result, nil
}

// ────────────────────── UpdateShiftType ──────────────────────

func (s *shiftService) UpdateShiftType(ctx context.Context, id string, req *dto.UpdateShiftTypeRequest, callerID string) (*dto.ShiftTypeResponse, error) {
	st, err := s.repo.ShiftType.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftTypeNotFound
		}
		s.logger.Error("查询班次类型失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil && *req.Name != st.Name {
		existing, err := s.repo.ShiftType.GetByName(ctx, *req.Name)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, ErrShiftTypeNameExists
		}
		st.Name = *req.Name
	}
	if req.StartTime != nil {
		st.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		st.EndTime = *req.EndTime
	}
	if err := validateShiftWindow(st.StartTime, st.EndTime); err != nil {
		return nil, err
	}
	st.UpdatedBy = &callerID

	if err := s.repo.ShiftType.Update(ctx, st); err != nil {
		s.logger.Error("更新班次类型失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toShiftTypeResponse(st), nil
}

// ────────────────────── DeleteShiftType ──────────────────────

func (s *shiftService) DeleteShiftType(ctx context.Context, id string) error {
	if _, err := s.repo.ShiftType.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrShiftTypeNotFound
		}
		s.logger.Error("查询班次类型失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if err := s.repo.ShiftType.Delete(ctx, id); err != nil {
		s.logger.Error("删除班次类型失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── AssignShifts ──────────────────────

// AssignShifts 批量指派排班；任一条目非法则整批拒绝
func (s *shiftService) AssignShifts(ctx context.Context, req *dto.BatchAssignShiftRequest, callerID string) ([]dto.AgentShiftResponse, error) {
	shifts := make([]model.AgentShift, 0, len(req.Assignments))
	for _, a := range req.Assignments {
		date, err := time.Parse(dateLayout, a.ShiftDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDate, a.ShiftDate)
		}
		if _, err := s.repo.User.GetByID(ctx, a.UserID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
		if _, err := s.repo.ShiftType.GetByID(ctx, a.ShiftTypeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrShiftTypeNotFound
			}
			return nil, err
		}
		if _, err := s.repo.AgentShift.GetByUserAndDate(ctx, a.UserID, date); err == nil {
			return nil, fmt.Errorf("%w: %s @ %s", ErrShiftAlreadySet, a.UserID, a.ShiftDate)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		shift := model.AgentShift{
			UserID:      a.UserID,
			ShiftDate:   date,
			ShiftTypeID: a.ShiftTypeID,
		}
		shift.CreatedBy = &callerID
		shift.UpdatedBy = &callerID
		shifts = append(shifts, shift)
	}

	if err := s.repo.AgentShift.BatchCreate(ctx, shifts); err != nil {
		s.logger.Error("批量创建排班失败", zap.Error(err))
		return nil, err
	}
	s.logger.Info("批量指派排班成功", zap.Int("count", len(shifts)))

	result := make([]dto.AgentShiftResponse, 0, len(shifts))
	for i := range shifts {
		// 响应需要 User/ShiftType 关联，重查已落库的记录
		full, err := s.repo.AgentShift.GetByUserAndDate(ctx, shifts[i].UserID, shifts[i].ShiftDate)
		if err != nil {
			s.logger.Warn("重查排班失败", zap.String("user_id", shifts[i].UserID), zap.Error(err))
			continue
		}
		result = append(result, toAgentShiftResponse(full))
	}
	return result, nil
}

// ────────────────────── ListShiftsByDate ──────────────────────

func (s *shiftService) ListShiftsByDate(ctx context.Context, dateStr string, departmentID string) ([]dto.AgentShiftResponse, error) {
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, dateStr)
	}
	shifts, err := s.repo.AgentShift.ListByDate(ctx, date, departmentID)
	if err != nil {
		s.logger.Error("列出排班失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.AgentShiftResponse, 0, len(shifts))
	for i := range shifts {
		result = append(result, toAgentShiftResponse(&shifts[i]))
	}
	return result, nil
}

// ────────────────────── RemoveShift ──────────────────────

func (s *shiftService) RemoveShift(ctx context.Context, id string) error {
	if err := s.repo.AgentShift.Delete(ctx, id); err != nil {
		s.logger.Error("删除排班失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

// validateShiftWindow 班次窗口须对齐 15 分钟边界且开始早于结束
func validateShiftWindow(start, end string) error {
	if !engine.IsValid15MinuteInterval(start) || !engine.IsValid15MinuteInterval(end) {
		return ErrShiftWindowInvalid
	}
	s, err := engine.TimeToMinutes(start)
	if err != nil {
		return ErrShiftWindowInvalid
	}
	e, err := engine.TimeToMinutes(end)
	if err != nil {
		return ErrShiftWindowInvalid
	}
	if s >= e {
		return ErrShiftWindowInvalid
	}
	return nil
}

func toShiftTypeResponse(st *model.ShiftType) *dto.ShiftTypeResponse {
	return &dto.ShiftTypeResponse{
		ShiftTypeID: st.ShiftTypeID,
		Name:        st.Name,
		StartTime:   st.StartTime,
		EndTime:     st.EndTime,
		CreatedAt:   st.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:   st.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func toAgentShiftResponse(shift *model.AgentShift) dto.AgentShiftResponse {
	resp := dto.AgentShiftResponse{
		AgentShiftID: shift.AgentShiftID,
		UserID:       shift.UserID,
		ShiftDate:    shift.ShiftDate.Format(dateLayout),
	}
	if shift.User != nil {
		resp.DisplayName = shift.User.DisplayName
		resp.Department = shift.User.DepartmentID
	}
	if shift.ShiftType != nil {
		resp.ShiftType = shift.ShiftType.Name
		resp.ShiftStart = shift.ShiftType.StartTime
		resp.ShiftEnd = shift.ShiftType.EndTime
	}
	return resp
}
