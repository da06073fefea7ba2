package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"wfm/backend/config"
	"wfm/backend/internal/dto"
	"wfm/backend/internal/repository"
	"wfm/backend/pkg/jwt"
	"wfm/backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth          AuthService
	User          UserService
	Department    DepartmentService
	Shift         ShiftService
	BreakRule     BreakRuleService
	BreakSchedule BreakScheduleService
	Export        ExportService
	Reconciler    *EditReconciler
}

// NewService 创建 Service 聚合
// Reconciler 的落库回调逐请求调用 BreakSchedule.UpdateIntervals：
// 校验类错误与阻断级规则拒绝属永久性失败，包装为 ErrFlushBlocked 作废
// 对应编辑；其余错误视为暂时性失败，缓冲保留待重试
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	breakRule := NewBreakRuleService(repo, logger)
	breakSchedule := NewBreakScheduleService(repo, breakRule, cfg.Engine.PreviewDebounce, logger)

	flush := func(ctx context.Context, req *dto.BreakScheduleUpdateRequest, editorID string) error {
		resp, err := breakSchedule.UpdateIntervals(ctx, req, editorID)
		if err != nil {
			if isPermanentFlushError(err) {
				return fmt.Errorf("%w: %v", ErrFlushBlocked, err)
			}
			return err
		}
		if !resp.Success {
			return ErrFlushBlocked
		}
		return nil
	}

	return &Service{
		Auth:          NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		User:          NewUserService(repo, logger),
		Department:    NewDepartmentService(repo, logger),
		Shift:         NewShiftService(repo, logger),
		BreakRule:     breakRule,
		BreakSchedule: breakSchedule,
		Export:        NewExportService(breakSchedule, logger),
		Reconciler:    NewEditReconciler(cfg.Engine.FlushDebounce, flush, logger),
	}
}

// isPermanentFlushError 判断落库错误是否为重试无意义的校验类错误
func isPermanentFlushError(err error) bool {
	for _, sentinel := range []error{
		ErrInvalidDate,
		ErrEmptyUpdateBatch,
		ErrIntervalNotAligned,
		ErrIntervalOutOfWindow,
		ErrInvalidBreakType,
		ErrAgentShiftNotFound,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// Close 释放后台资源（编辑缓冲计时器等）
func (s *Service) Close(ctx context.Context) error {
	return s.Reconciler.Close(ctx)
}
