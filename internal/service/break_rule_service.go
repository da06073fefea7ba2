package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"wfm/backend/internal/dto"
	"wfm/backend/internal/engine"
	"wfm/backend/internal/model"
	"wfm/backend/internal/repository"
)

// ── 排休规则模块业务错误 ──

var (
	ErrBreakRuleNotFound     = errors.New("排休规则不存在")
	ErrBreakRuleNameExists   = errors.New("排休规则名称已存在")
	ErrInvalidRuleType       = errors.New("规则类型非法")
	ErrInvalidRuleParameters = errors.New("规则参数非法")
)

// BreakRuleService 排休规则业务接口
type BreakRuleService interface {
	Create(ctx context.Context, req *dto.CreateBreakRuleRequest, callerID string) (*dto.BreakRuleResponse, error)
	GetByID(ctx context.Context, id string) (*dto.BreakRuleResponse, error)
	List(ctx context.Context) ([]dto.BreakRuleResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateBreakRuleRequest, callerID string) (*dto.BreakRuleResponse, error)
	Delete(ctx context.Context, id string) error
	// ActiveEngineRules 加载激活规则并解码为引擎强类型规则
	ActiveEngineRules(ctx context.Context) ([]engine.Rule, error)
}

type breakRuleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewBreakRuleService 创建 BreakRuleService 实例
func NewBreakRuleService(repo *repository.Repository, logger *zap.Logger) BreakRuleService {
	return &breakRuleService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *breakRuleService) Create(ctx context.Context, req *dto.CreateBreakRuleRequest, callerID string) (*dto.BreakRuleResponse, error) {
	existing, err := s.repo.BreakRule.GetByName(ctx, req.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询排休规则失败", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		return nil, ErrBreakRuleNameExists
	}

	// 创建前即按类型解码参数，非法参数立即拒绝
	if _, err := decodeRuleParams(req.RuleType, req.Parameters); err != nil {
		return nil, err
	}

	rule := &model.BreakScheduleRule{
		Name:       req.Name,
		RuleType:   req.RuleType,
		Parameters: model.JSONMap(req.Parameters),
		IsActive:   true,
		IsBlocking: false,
		Priority:   req.Priority,
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	if req.IsBlocking != nil {
		rule.IsBlocking = *req.IsBlocking
	}
	rule.CreatedBy = &callerID
	rule.UpdatedBy = &callerID

	if err := s.repo.BreakRule.Create(ctx, rule); err != nil {
		s.logger.Error("创建排休规则失败", zap.Error(err))
		return nil, err
	}

	return toBreakRuleResponse(rule), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *breakRuleService) GetByID(ctx context.Context, id string) (*dto.BreakRuleResponse, error) {
	rule, err := s.repo.BreakRule.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBreakRuleNotFound
		}
		s.logger.Error("查询排休规则失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toBreakRuleResponse(rule), nil
}

// ────────────────────── List ──────────────────────

func (s *breakRuleService) List(ctx context.Context) ([]dto.BreakRuleResponse, error) {
	rules, err := s.repo.BreakRule.List(ctx)
	if err != nil {
		s.logger.Error("列出排休规则失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.BreakRuleResponse, 0, len(rules))
	for i := range rules {
		result = append(result, *toBreakRuleResponse(&rules[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *breakRuleService) Update(ctx context.Context, id string, req *dto.UpdateBreakRuleRequest, callerID string) (*dto.BreakRuleResponse, error) {
	rule, err := s.repo.BreakRule.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBreakRuleNotFound
		}
		s.logger.Error("查询排休规则失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil && *req.Name != rule.Name {
		existing, err := s.repo.BreakRule.GetByName(ctx, *req.Name)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, ErrBreakRuleNameExists
		}
		rule.Name = *req.Name
	}
	if req.Parameters != nil {
		if _, err := decodeRuleParams(rule.RuleType, req.Parameters); err != nil {
			return nil, err
		}
		rule.Parameters = model.JSONMap(req.Parameters)
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	if req.IsBlocking != nil {
		rule.IsBlocking = *req.IsBlocking
	}
	if req.Priority != nil {
		rule.Priority = *req.Priority
	}
	rule.UpdatedBy = &callerID

	if err := s.repo.BreakRule.Update(ctx, rule); err != nil {
		s.logger.Error("更新排休规则失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toBreakRuleResponse(rule), nil
}

// ────────────────────── Delete ──────────────────────

func (s *breakRuleService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.BreakRule.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBreakRuleNotFound
		}
		s.logger.Error("查询排休规则失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if err := s.repo.BreakRule.Delete(ctx, id); err != nil {
		s.logger.Error("删除排休规则失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── ActiveEngineRules ──────────────────────

// ActiveEngineRules 加载激活规则并在存储边界完成参数包解码，
// 引擎内部只见强类型变体，不再接触泛型参数包
func (s *breakRuleService) ActiveEngineRules(ctx context.Context) ([]engine.Rule, error) {
	rules, err := s.repo.BreakRule.ListActive(ctx)
	if err != nil {
		s.logger.Error("加载激活排休规则失败", zap.Error(err))
		return nil, err
	}

	engineRules := make([]engine.Rule, 0, len(rules))
	for i := range rules {
		er, err := toEngineRule(&rules[i])
		if err != nil {
			// 参数损坏的规则跳过并告警，不拖垮整次校验
			s.logger.Warn("排休规则参数解码失败，已跳过",
				zap.String("rule", rules[i].Name), zap.Error(err))
			continue
		}
		engineRules = append(engineRules, *er)
	}
	return engineRules, nil
}

// ── 内部辅助方法 ──

// toEngineRule 将存储模型转换为引擎强类型规则
func toEngineRule(rule *model.BreakScheduleRule) (*engine.Rule, error) {
	params, err := decodeRuleParams(rule.RuleType, rule.Parameters)
	if err != nil {
		return nil, err
	}
	er := &engine.Rule{
		RuleName:   rule.Name,
		RuleType:   rule.RuleType,
		IsActive:   rule.IsActive,
		IsBlocking: rule.IsBlocking,
		Priority:   rule.Priority,
	}
	switch p := params.(type) {
	case *engine.OrderingParams:
		er.Ordering = p
	case *engine.TimingParams:
		er.Timing = p
	case *engine.CoverageParams:
		er.Coverage = p
	case *engine.DistributionParams:
		er.Distribution = p
	}
	return er, nil
}

// decodeRuleParams 按规则类型解码参数包
func decodeRuleParams(ruleType string, bag map[string]interface{}) (interface{}, error) {
	raw, err := json.Marshal(bag)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRuleParameters, err)
	}
	decode := func(dst interface{}) error {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(dst); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRuleParameters, err)
		}
		return nil
	}

	switch ruleType {
	case engine.RuleOrdering:
		p := &engine.OrderingParams{}
		if err := decode(p); err != nil {
			return nil, err
		}
		return p, nil
	case engine.RuleTiming:
		p := &engine.TimingParams{}
		if err := decode(p); err != nil {
			return nil, err
		}
		if p.MinGapMinutes < 0 || p.MaxGapMinutes < 0 || p.MinFromShiftStart < 0 || p.MinBeforeShiftEnd < 0 {
			return nil, fmt.Errorf("%w: 间隔阈值不能为负", ErrInvalidRuleParameters)
		}
		return p, nil
	case engine.RuleCoverage:
		p := &engine.CoverageParams{}
		if err := decode(p); err != nil {
			return nil, err
		}
		if p.MinCoverage < 0 {
			return nil, fmt.Errorf("%w: 在线下限不能为负", ErrInvalidRuleParameters)
		}
		return p, nil
	case engine.RuleDistribution:
		p := &engine.DistributionParams{}
		if err := decode(p); err != nil {
			return nil, err
		}
		if p.MaxOnBreakPerInterval < 0 {
			return nil, fmt.Errorf("%w: 同时休息上限不能为负", ErrInvalidRuleParameters)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidRuleType, ruleType)
	}
}

func toBreakRuleResponse(rule *model.BreakScheduleRule) *dto.BreakRuleResponse {
	return &dto.BreakRuleResponse{
		RuleID:     rule.RuleID,
		Name:       rule.Name,
		RuleType:   rule.RuleType,
		Parameters: map[string]interface{}(rule.Parameters),
		IsActive:   rule.IsActive,
		IsBlocking: rule.IsBlocking,
		Priority:   rule.Priority,
		CreatedAt:  rule.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:  rule.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
