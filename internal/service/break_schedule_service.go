package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"wfm/backend/internal/dto"
	"wfm/backend/internal/engine"
	"wfm/backend/internal/model"
	"wfm/backend/internal/repository"
)

// ── 排休模块业务错误 ──

var (
	ErrInvalidDate         = errors.New("日期格式非法，应为 YYYY-MM-DD")
	ErrEmptyUpdateBatch    = errors.New("编辑批次不能为空")
	ErrIntervalNotAligned  = errors.New("区间起点未对齐 15 分钟")
	ErrIntervalOutOfWindow = errors.New("区间起点超出班次窗口")
	ErrInvalidBreakType    = errors.New("区间状态非法")
	ErrAgentShiftNotFound  = errors.New("该坐席当日无排班")
	ErrPreviewSuperseded   = errors.New("预览已被更新的请求取代")
	ErrApplyMode           = errors.New("应用模式非法")
)

// 预览状态机
const (
	previewIdle      = "idle"
	previewComputing = "computing"
	previewReady     = "ready"
	previewFailed    = "failed"
)

const dateLayout = "2006-01-02"

// BreakScheduleService 排休业务接口
// Preview 遵循后到先得：新请求使计算中的旧请求在完成时被丢弃
type BreakScheduleService interface {
	Preview(ctx context.Context, req *dto.AutoDistributeRequest) (*dto.AutoDistributePreview, error)
	Apply(ctx context.Context, req *dto.ApplyScheduleRequest, callerID string) error
	UpdateIntervals(ctx context.Context, req *dto.BreakScheduleUpdateRequest, callerID string) (*dto.BreakScheduleUpdateResponse, error)
	GetDay(ctx context.Context, date string, departmentID string) (*dto.DayScheduleResponse, error)
	ImportCSV(ctx context.Context, r io.Reader, callerID string) (*dto.CSVImportResult, error)
	ExportCSV(ctx context.Context, w io.Writer, date string) error
	// PreviewState 当前预览状态机所处状态
	PreviewState() string
}

type breakScheduleService struct {
	repo    *repository.Repository
	rules   BreakRuleService
	engine  *engine.RuleEngine
	logger  *zap.Logger
	quiet   time.Duration // 预览静默期：期内被更新请求取代的预览不进入计算

	// 预览状态机：generation 递增实现后到先得，
	// 旧请求完成时发现代数已变则丢弃结果
	mu         sync.Mutex
	generation uint64
	state      string
}

// NewBreakScheduleService 创建 BreakScheduleService 实例
func NewBreakScheduleService(repo *repository.Repository, rules BreakRuleService, quiet time.Duration, logger *zap.Logger) BreakScheduleService {
	return &breakScheduleService{
		repo:   repo,
		rules:  rules,
		engine: engine.NewRuleEngine(),
		logger: logger,
		quiet:  quiet,
		state:  previewIdle,
	}
}

func (s *breakScheduleService) PreviewState() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ────────────────────── Preview ──────────────────────

func (s *breakScheduleService) Preview(ctx context.Context, req *dto.AutoDistributeRequest) (*dto.AutoDistributePreview, error) {
	date, err := time.Parse(dateLayout, req.ScheduleDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, req.ScheduleDate)
	}
	strategy, err := engine.NewStrategy(req.Strategy)
	if err != nil {
		return nil, err
	}
	if req.ApplyMode != "only_unscheduled" && req.ApplyMode != "all_agents" {
		return nil, fmt.Errorf("%w: %q", ErrApplyMode, req.ApplyMode)
	}

	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.state = previewComputing
	s.mu.Unlock()

	// 静默期：连续快速触发时让旧请求在进入重计算前廉价出局
	if s.quiet > 0 {
		t := time.NewTimer(s.quiet)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
		s.mu.Lock()
		superseded := gen != s.generation
		s.mu.Unlock()
		if superseded {
			return nil, ErrPreviewSuperseded
		}
	}

	preview, err := s.computePreview(ctx, date, strategy, req.ApplyMode, req.Department)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		// 计算期间有更新的请求进入，本次结果作废
		return nil, ErrPreviewSuperseded
	}
	if err != nil {
		s.state = previewFailed
		return nil, err
	}
	s.state = previewReady
	return preview, nil
}

// computePreview 预览流水线：取花名册 → 策略提案 → 规则裁决 → 统计汇总
func (s *breakScheduleService) computePreview(ctx context.Context, date time.Time, strategy engine.Strategy, applyMode, departmentID string) (*dto.AutoDistributePreview, error) {
	agents, err := s.rosterForDate(ctx, date, departmentID)
	if err != nil {
		return nil, err
	}
	// 空花名册产出空预览，不是错误
	if len(agents) == 0 {
		return &dto.AutoDistributePreview{
			ProposedSchedules: []*engine.AgentBreakSchedule{},
			FailedAgents:      []dto.FailedAgent{},
		}, nil
	}

	rules, err := s.rules.ActiveEngineRules(ctx)
	if err != nil {
		return nil, err
	}
	existing, err := s.existingSchedules(ctx, date)
	if err != nil {
		return nil, err
	}

	// 贪心平局的确定性保证：按 user_id 稳定排序后再进入策略
	sort.SliceStable(agents, func(i, j int) bool { return agents[i].UserID < agents[j].UserID })

	dayIntervals := dayAxis(agents)

	// only_unscheduled 仅对未有任何休息分配的坐席重新提案，
	// 已有分配的坐席原样带入 proposed_schedules
	var toPropose []engine.AgentShiftInfo
	var carried []*engine.AgentBreakSchedule
	if applyMode == "only_unscheduled" {
		for _, a := range agents {
			if ex, ok := existing[a.UserID]; ok && ex.HasAnyAssignment() {
				carried = append(carried, ex)
			} else {
				toPropose = append(toPropose, a)
			}
		}
	} else {
		toPropose = agents
	}

	candidates := strategy.Propose(toPropose, rules, dayIntervals)

	// 规则裁决：逐候选校验，被接受者进入运行计数，
	// 后续候选的覆盖率/分布校验基于已接受集合
	tracker := engine.NewCoverageTracker(dayIntervals)
	for _, c := range carried {
		tracker.Add(c)
	}

	accepted := make([]*engine.AgentBreakSchedule, 0, len(carried)+len(candidates))
	accepted = append(accepted, carried...)
	failed := make([]dto.FailedAgent, 0)
	var compliance dto.RuleCompliance

	agentByID := make(map[string]engine.AgentShiftInfo, len(agents))
	for _, a := range agents {
		agentByID[a.UserID] = a
	}

	for _, cand := range candidates {
		if cand.AutoDistributionFailure != nil {
			failed = append(failed, dto.FailedAgent{
				UserID: cand.UserID,
				Name:   cand.Name,
				Reason: *cand.AutoDistributionFailure,
			})
			continue
		}

		a := agentByID[cand.UserID]
		vctx := &engine.ValidationContext{
			ShiftStart: a.ShiftStart,
			ShiftEnd:   a.ShiftEnd,
			Coverage:   tracker.Coverage(),
			OnBreak:    tracker.OnBreak(),
		}
		violations := s.engine.Validate(cand, rules, vctx)
		compliance.TotalViolations += len(violations)
		for _, v := range violations {
			if v.Severity == engine.SeverityError {
				compliance.BlockingViolations++
			} else {
				compliance.WarningViolations++
			}
		}

		if engine.HasBlocking(violations) {
			failed = append(failed, dto.FailedAgent{
				UserID:    cand.UserID,
				Name:      cand.Name,
				Reason:    blockingReason(violations),
				BlockedBy: engine.BlockingRuleNames(violations),
			})
			continue
		}

		cand.HasWarning = len(violations) > 0
		tracker.Add(cand)
		accepted = append(accepted, cand)
	}

	// 覆盖率统计仅基于被接受集合
	_, stats := engine.ComputeCoverage(accepted, dayIntervals)

	return &dto.AutoDistributePreview{
		ProposedSchedules: accepted,
		CoverageStats:     stats,
		RuleCompliance:    compliance,
		FailedAgents:      failed,
	}, nil
}

// blockingReason 取首条阻断违规的消息作为失败原因
func blockingReason(violations []engine.ValidationViolation) string {
	for _, v := range violations {
		if v.Severity == engine.SeverityError {
			return v.Message
		}
	}
	return "存在阻断级规则违规"
}

// dayAxis 全天区间轴：最早班次开始 → 最晚班次结束
func dayAxis(agents []engine.AgentShiftInfo) []string {
	earliest, latest := "", ""
	for _, a := range agents {
		if earliest == "" || a.ShiftStart < earliest {
			earliest = a.ShiftStart
		}
		if latest == "" || a.ShiftEnd > latest {
			latest = a.ShiftEnd
		}
	}
	intervals, err := engine.GenerateIntervals(earliest, latest)
	if err != nil {
		return []string{}
	}
	return intervals
}

// ────────────────────── Apply ──────────────────────

// Apply 将预览结果落库：先清当日旧明细再整批写入
func (s *breakScheduleService) Apply(ctx context.Context, req *dto.ApplyScheduleRequest, callerID string) error {
	date, err := time.Parse(dateLayout, req.ScheduleDate)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, req.ScheduleDate)
	}

	var entries []model.BreakScheduleEntry
	for _, sched := range req.Schedules {
		if err := s.repo.BreakSchedule.DeleteByUserAndDate(ctx, sched.UserID, date); err != nil {
			s.logger.Error("清除旧排休明细失败",
				zap.String("user_id", sched.UserID), zap.Error(err))
			return err
		}
		for iv, bt := range sched.Intervals {
			e := model.BreakScheduleEntry{
				UserID:        sched.UserID,
				ScheduleDate:  date,
				IntervalStart: iv,
				BreakType:     string(bt),
			}
			if callerID != "" {
				e.CreatedBy = &callerID
				e.UpdatedBy = &callerID
			}
			entries = append(entries, e)
		}
	}

	if err := s.repo.BreakSchedule.UpsertBatch(ctx, entries); err != nil {
		s.logger.Error("写入排休明细失败", zap.Error(err))
		return err
	}
	s.logger.Info("排休应用成功",
		zap.String("date", req.ScheduleDate),
		zap.Int("agents", len(req.Schedules)),
		zap.Int("entries", len(entries)))
	return nil
}

// ────────────────────── UpdateIntervals ──────────────────────

// UpdateIntervals 手动编辑批次：校验通过后落库
// 阻断违规时不落库，Success=false 并返回违规明细；
// 仅告警违规时照常落库，违规一并返回供前端展示
func (s *breakScheduleService) UpdateIntervals(ctx context.Context, req *dto.BreakScheduleUpdateRequest, callerID string) (*dto.BreakScheduleUpdateResponse, error) {
	date, err := time.Parse(dateLayout, req.ScheduleDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, req.ScheduleDate)
	}
	if len(req.Intervals) == 0 {
		return nil, ErrEmptyUpdateBatch
	}
	for _, iv := range req.Intervals {
		if !engine.IsValid15MinuteInterval(iv.IntervalStart) {
			return nil, fmt.Errorf("%w: %q", ErrIntervalNotAligned, iv.IntervalStart)
		}
		switch engine.BreakType(iv.BreakType) {
		case engine.BreakIn, engine.BreakHB1, engine.BreakB, engine.BreakHB2:
		default:
			return nil, fmt.Errorf("%w: %q", ErrInvalidBreakType, iv.BreakType)
		}
	}

	shift, err := s.repo.AgentShift.GetByUserAndDate(ctx, req.UserID, date)
	if err != nil {
		return nil, ErrAgentShiftNotFound
	}
	agent := agentInfoOf(shift)

	// 编辑只接受班次窗口内的区间，窗口外单元格属调用方错误
	shiftStart, err := engine.TimeToMinutes(agent.ShiftStart)
	if err != nil {
		return nil, err
	}
	shiftEnd, err := engine.TimeToMinutes(agent.ShiftEnd)
	if err != nil {
		return nil, err
	}
	for _, iv := range req.Intervals {
		m, err := engine.TimeToMinutes(iv.IntervalStart)
		if err != nil {
			return nil, err
		}
		if m < shiftStart || m+engine.IntervalMinutes > shiftEnd {
			return nil, fmt.Errorf("%w: %s 不在 %s-%s 内",
				ErrIntervalOutOfWindow, iv.IntervalStart, agent.ShiftStart, agent.ShiftEnd)
		}
	}

	// 在现有明细之上应用本批编辑，构造编辑后的完整视图
	entries, err := s.repo.BreakSchedule.ListByUserAndDate(ctx, req.UserID, date)
	if err != nil {
		s.logger.Error("加载排休明细失败", zap.Error(err))
		return nil, err
	}
	sched, err := scheduleFromEntries(agent, entries)
	if err != nil {
		return nil, err
	}
	for _, iv := range req.Intervals {
		sched.Intervals[iv.IntervalStart] = engine.BreakType(iv.BreakType)
	}
	rebuildBreakProjection(sched)

	violations, err := s.validateAgainstDay(ctx, date, agent, sched)
	if err != nil {
		return nil, err
	}
	if engine.HasBlocking(violations) {
		return &dto.BreakScheduleUpdateResponse{Success: false, Violations: violations}, nil
	}

	toSave := make([]model.BreakScheduleEntry, 0, len(req.Intervals))
	for _, iv := range req.Intervals {
		e := model.BreakScheduleEntry{
			UserID:        req.UserID,
			ScheduleDate:  date,
			IntervalStart: iv.IntervalStart,
			BreakType:     iv.BreakType,
		}
		if callerID != "" {
			e.CreatedBy = &callerID
			e.UpdatedBy = &callerID
		}
		toSave = append(toSave, e)
	}
	if err := s.repo.BreakSchedule.UpsertBatch(ctx, toSave); err != nil {
		s.logger.Error("写入手动编辑失败", zap.String("user_id", req.UserID), zap.Error(err))
		return nil, err
	}

	if violations == nil {
		violations = []engine.ValidationViolation{}
	}
	return &dto.BreakScheduleUpdateResponse{Success: true, Violations: violations}, nil
}

// validateAgainstDay 以当日其他坐席的明细为上下文校验单坐席排休
// 手动编辑与 CSV 导入共用此校验路径
func (s *breakScheduleService) validateAgainstDay(ctx context.Context, date time.Time, agent engine.AgentShiftInfo, sched *engine.AgentBreakSchedule) ([]engine.ValidationViolation, error) {
	rules, err := s.rules.ActiveEngineRules(ctx)
	if err != nil {
		return nil, err
	}

	dayEntries, err := s.repo.BreakSchedule.ListByDate(ctx, date)
	if err != nil {
		s.logger.Error("加载当日排休明细失败", zap.Error(err))
		return nil, err
	}
	coverage := make(map[string]int)
	onBreak := make(map[string]int)
	for _, e := range dayEntries {
		if e.UserID == agent.UserID {
			continue
		}
		if e.BreakType == string(engine.BreakIn) {
			coverage[e.IntervalStart]++
		} else {
			onBreak[e.IntervalStart]++
		}
	}

	vctx := &engine.ValidationContext{
		ShiftStart: agent.ShiftStart,
		ShiftEnd:   agent.ShiftEnd,
		Coverage:   coverage,
		OnBreak:    onBreak,
	}
	return s.engine.Validate(sched, rules, vctx), nil
}

// ────────────────────── GetDay ──────────────────────

func (s *breakScheduleService) GetDay(ctx context.Context, dateStr string, departmentID string) (*dto.DayScheduleResponse, error) {
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, dateStr)
	}

	agents, err := s.rosterForDate(ctx, date, departmentID)
	if err != nil {
		return nil, err
	}
	existing, err := s.existingSchedules(ctx, date)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(agents, func(i, j int) bool { return agents[i].UserID < agents[j].UserID })
	dayIntervals := dayAxis(agents)

	schedules := make([]*engine.AgentBreakSchedule, 0, len(agents))
	for _, a := range agents {
		if ex, ok := existing[a.UserID]; ok {
			schedules = append(schedules, ex)
			continue
		}
		// 无任何明细的坐席水合为全 IN
		empty, err := engine.BuildSchedule(a, -1, -1, -1)
		if err != nil {
			s.logger.Warn("水合空排休失败", zap.String("user_id", a.UserID), zap.Error(err))
			continue
		}
		schedules = append(schedules, empty)
	}

	coverage, stats := engine.ComputeCoverage(schedules, dayIntervals)
	return &dto.DayScheduleResponse{
		ScheduleDate: dateStr,
		Intervals:    dayIntervals,
		Schedules:    schedules,
		Coverage:     coverage,
		Stats:        stats,
	}, nil
}

// ────────────────────── CSV 导入/导出 ──────────────────────

// csvHeader CSV 行模式：agent_name, date, shift, hb1_start, b_start, hb2_start
var csvHeader = []string{"agent_name", "date", "shift", "hb1_start", "b_start", "hb2_start"}

// ImportCSV 批量导入排休：逐行解析并用与手动编辑相同的校验路径裁决，
// 被拒绝的行带行号与原因返回，其余行照常落库
func (s *breakScheduleService) ImportCSV(ctx context.Context, r io.Reader, callerID string) (*dto.CSVImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(csvHeader)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("读取 CSV 表头失败: %w", err)
	}
	for i, col := range csvHeader {
		if strings.TrimSpace(header[i]) != col {
			return nil, fmt.Errorf("CSV 表头不匹配：第 %d 列应为 %s，实际 %s", i+1, col, header[i])
		}
	}

	result := &dto.CSVImportResult{Rejected: []dto.CSVRowRejected{}}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Rejected = append(result.Rejected, dto.CSVRowRejected{Line: line, Reason: err.Error()})
			continue
		}
		if reason := s.importCSVRow(ctx, record, callerID); reason != "" {
			result.Rejected = append(result.Rejected, dto.CSVRowRejected{Line: line, Reason: reason})
			continue
		}
		result.Imported++
	}
	return result, nil
}

// importCSVRow 处理单行，返回空串表示成功，否则为拒绝原因
func (s *breakScheduleService) importCSVRow(ctx context.Context, record []string, callerID string) string {
	agentName := strings.TrimSpace(record[0])
	dateStr := strings.TrimSpace(record[1])
	hb1Str := strings.TrimSpace(record[3])
	bStr := strings.TrimSpace(record[4])
	hb2Str := strings.TrimSpace(record[5])

	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return fmt.Sprintf("日期格式非法: %q", dateStr)
	}

	user, err := s.repo.User.GetByName(ctx, agentName)
	if err != nil {
		return fmt.Sprintf("坐席不存在: %q", agentName)
	}

	shift, err := s.repo.AgentShift.GetByUserAndDate(ctx, user.UserID, date)
	if err != nil {
		return fmt.Sprintf("坐席 %q 当日无排班", agentName)
	}
	agent := agentInfoOf(shift)

	toMin := func(v string) (int, string) {
		if v == "" {
			return -1, ""
		}
		if !engine.IsValid15MinuteInterval(v) {
			return 0, fmt.Sprintf("休息起点未对齐 15 分钟: %q", v)
		}
		m, err := engine.TimeToMinutes(v)
		if err != nil {
			return 0, fmt.Sprintf("时间格式非法: %q", v)
		}
		return m, ""
	}
	hb1, reason := toMin(hb1Str)
	if reason != "" {
		return reason
	}
	b, reason := toMin(bStr)
	if reason != "" {
		return reason
	}
	hb2, reason := toMin(hb2Str)
	if reason != "" {
		return reason
	}

	sched, err := engine.BuildSchedule(agent, hb1, b, hb2)
	if err != nil {
		return err.Error()
	}

	// 与手动编辑共用同一校验路径：阻断违规即拒绝该行
	violations, err := s.validateAgainstDay(ctx, date, agent, sched)
	if err != nil {
		return "规则校验失败"
	}
	if engine.HasBlocking(violations) {
		return blockingReason(violations)
	}

	entries := make([]model.BreakScheduleEntry, 0, len(sched.Intervals))
	for iv, bt := range sched.Intervals {
		e := model.BreakScheduleEntry{
			UserID:        user.UserID,
			ScheduleDate:  date,
			IntervalStart: iv,
			BreakType:     string(bt),
		}
		if callerID != "" {
			e.CreatedBy = &callerID
			e.UpdatedBy = &callerID
		}
		entries = append(entries, e)
	}
	if err := s.repo.BreakSchedule.DeleteByUserAndDate(ctx, user.UserID, date); err != nil {
		return "清除旧明细失败"
	}
	if err := s.repo.BreakSchedule.UpsertBatch(ctx, entries); err != nil {
		return "写入明细失败"
	}
	return ""
}

// ExportCSV 按 CSV 行模式导出某日全部排休
func (s *breakScheduleService) ExportCSV(ctx context.Context, w io.Writer, dateStr string) error {
	day, err := s.GetDay(ctx, dateStr, "")
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	deref := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	for _, sched := range day.Schedules {
		row := []string{
			sched.Name,
			dateStr,
			deref(sched.ShiftType),
			deref(sched.Breaks.HB1Start),
			deref(sched.Breaks.BStart),
			deref(sched.Breaks.HB2Start),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ── 内部辅助方法 ──

// rosterForDate 加载某日花名册并转换为引擎输入
func (s *breakScheduleService) rosterForDate(ctx context.Context, date time.Time, departmentID string) ([]engine.AgentShiftInfo, error) {
	shifts, err := s.repo.AgentShift.ListByDate(ctx, date, departmentID)
	if err != nil {
		s.logger.Error("加载当日排班失败", zap.Error(err))
		return nil, err
	}
	agents := make([]engine.AgentShiftInfo, 0, len(shifts))
	for i := range shifts {
		agents = append(agents, agentInfoOf(&shifts[i]))
	}
	return agents, nil
}

// agentInfoOf 从排班记录提取引擎输入（要求 User/ShiftType 已预加载）
func agentInfoOf(shift *model.AgentShift) engine.AgentShiftInfo {
	info := engine.AgentShiftInfo{UserID: shift.UserID}
	if shift.User != nil {
		info.Name = shift.User.DisplayName
		if shift.User.DepartmentID != nil {
			info.Department = *shift.User.DepartmentID
		}
	}
	if shift.ShiftType != nil {
		name := shift.ShiftType.Name
		info.ShiftType = &name
		info.ShiftStart = shift.ShiftType.StartTime
		info.ShiftEnd = shift.ShiftType.EndTime
	}
	return info
}

// existingSchedules 水合某日现有排休明细，按坐席聚合
func (s *breakScheduleService) existingSchedules(ctx context.Context, date time.Time) (map[string]*engine.AgentBreakSchedule, error) {
	entries, err := s.repo.BreakSchedule.ListByDate(ctx, date)
	if err != nil {
		s.logger.Error("加载排休明细失败", zap.Error(err))
		return nil, err
	}

	byUser := make(map[string][]model.BreakScheduleEntry)
	for _, e := range entries {
		byUser[e.UserID] = append(byUser[e.UserID], e)
	}

	result := make(map[string]*engine.AgentBreakSchedule, len(byUser))
	for userID, userEntries := range byUser {
		shift, err := s.repo.AgentShift.GetByUserAndDate(ctx, userID, date)
		if err != nil {
			// 有明细但无排班的孤儿记录跳过
			s.logger.Warn("排休明细无对应排班，已跳过", zap.String("user_id", userID))
			continue
		}
		sched, err := scheduleFromEntries(agentInfoOf(shift), userEntries)
		if err != nil {
			return nil, err
		}
		result[userID] = sched
	}
	return result, nil
}

// scheduleFromEntries 从明细水合坐席排休视图；未入库区间补 IN
func scheduleFromEntries(agent engine.AgentShiftInfo, entries []model.BreakScheduleEntry) (*engine.AgentBreakSchedule, error) {
	sched, err := engine.BuildSchedule(agent, -1, -1, -1)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		sched.Intervals[e.IntervalStart] = engine.BreakType(e.BreakType)
	}
	rebuildBreakProjection(sched)
	return sched, nil
}

// rebuildBreakProjection 由区间映射重建休息起点投影
// 连续多个同类区间取最早的为起点
func rebuildBreakProjection(sched *engine.AgentBreakSchedule) {
	sched.Breaks = engine.BreakTimes{}
	starts := make(map[engine.BreakType]string)
	for iv, bt := range sched.Intervals {
		if bt == engine.BreakIn {
			continue
		}
		if cur, ok := starts[bt]; !ok || iv < cur {
			starts[bt] = iv
		}
	}
	if v, ok := starts[engine.BreakHB1]; ok {
		t := v
		sched.Breaks.HB1Start = &t
	}
	if v, ok := starts[engine.BreakB]; ok {
		t := v
		sched.Breaks.BStart = &t
	}
	if v, ok := starts[engine.BreakHB2]; ok {
		t := v
		sched.Breaks.HB2Start = &t
	}
}
