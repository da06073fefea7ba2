package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"wfm/backend/internal/dto"
	"wfm/backend/internal/engine"
	"wfm/backend/internal/model"
	"wfm/backend/internal/repository"
)

// ── 测试辅助 ──

const testDateStr = "2026-03-02"

var testDate = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func newBreakScheduleEnv() (*repository.Repository, BreakScheduleService) {
	repo := newTestRepository()
	rules := NewBreakRuleService(repo, zap.NewNop())
	return repo, NewBreakScheduleService(repo, rules, 0, zap.NewNop())
}

// seedShiftAgent 植入一名已排班的坐席（User/ShiftType 直接填充关联）
func seedShiftAgent(t *testing.T, repo *repository.Repository, userID, name, start, end string) {
	t.Helper()
	ctx := context.Background()
	st := &model.ShiftType{Name: start + "-" + end, StartTime: start, EndTime: end}
	if err := repo.ShiftType.Create(ctx, st); err != nil {
		t.Fatalf("植入班次类型失败: %v", err)
	}
	u := &model.User{UserID: userID, Username: userID, DisplayName: name, Role: model.RoleAgent, IsActive: true}
	if err := repo.User.Create(ctx, u); err != nil {
		t.Fatalf("植入坐席失败: %v", err)
	}
	shift := &model.AgentShift{UserID: userID, ShiftDate: testDate, ShiftTypeID: st.ShiftTypeID, User: u, ShiftType: st}
	if err := repo.AgentShift.Create(ctx, shift); err != nil {
		t.Fatalf("植入排班失败: %v", err)
	}
}

func seedRule(t *testing.T, repo *repository.Repository, name, ruleType string, params model.JSONMap, blocking bool, priority int) {
	t.Helper()
	rule := &model.BreakScheduleRule{
		Name:       name,
		RuleType:   ruleType,
		Parameters: params,
		IsActive:   true,
		IsBlocking: blocking,
		Priority:   priority,
	}
	if err := repo.BreakRule.Create(context.Background(), rule); err != nil {
		t.Fatalf("植入规则失败: %v", err)
	}
}

func previewRequest(strategy, applyMode string) *dto.AutoDistributeRequest {
	return &dto.AutoDistributeRequest{ScheduleDate: testDateStr, Strategy: strategy, ApplyMode: applyMode}
}

// ────────────────────── Preview ──────────────────────

func TestPreview_PartitionCompleteness(t *testing.T) {
	repo, svc := newBreakScheduleEnv()
	for _, id := range []string{"u-01", "u-02", "u-03", "u-04"} {
		seedShiftAgent(t, repo, id, "坐席"+id, "09:00:00", "17:00:00")
	}

	preview, err := svc.Preview(context.Background(), previewRequest(engine.StrategyLadder, "all_agents"))
	if err != nil {
		t.Fatalf("预览失败: %v", err)
	}
	if got := len(preview.ProposedSchedules) + len(preview.FailedAgents); got != 4 {
		t.Errorf("期望 proposed+failed=4，实际=%d", got)
	}
	if len(preview.FailedAgents) != 0 {
		t.Errorf("无规则时不应有失败坐席，实际=%d", len(preview.FailedAgents))
	}
	for _, s := range preview.ProposedSchedules {
		if !s.HasFullAssignment() {
			t.Errorf("坐席 %s 三个休息未全部分配", s.UserID)
		}
	}
	if svc.PreviewState() != previewReady {
		t.Errorf("期望状态 ready，实际=%s", svc.PreviewState())
	}
}

func TestPreview_EmptyRosterYieldsEmptyPreview(t *testing.T) {
	_, svc := newBreakScheduleEnv()

	preview, err := svc.Preview(context.Background(), previewRequest(engine.StrategyLadder, "all_agents"))
	if err != nil {
		t.Fatalf("空花名册不应返回错误: %v", err)
	}
	if len(preview.ProposedSchedules) != 0 || len(preview.FailedAgents) != 0 {
		t.Errorf("期望空预览，实际 proposed=%d failed=%d",
			len(preview.ProposedSchedules), len(preview.FailedAgents))
	}
	if svc.PreviewState() != previewReady {
		t.Errorf("期望状态 ready，实际=%s", svc.PreviewState())
	}
}

func TestPreview_BlockingRuleMovesAgentToFailed(t *testing.T) {
	repo, svc := newBreakScheduleEnv()
	for _, id := range []string{"u-01", "u-02"} {
		seedShiftAgent(t, repo, id, "坐席"+id, "09:00:00", "17:00:00")
	}
	// 在线下限高到任何休息都无法满足
	seedRule(t, repo, "最低在线人数", model.RuleTypeCoverage, model.JSONMap{"min_coverage": 100}, true, 1)

	preview, err := svc.Preview(context.Background(), previewRequest(engine.StrategyLadder, "all_agents"))
	if err != nil {
		t.Fatalf("预览失败: %v", err)
	}
	if len(preview.FailedAgents) != 2 {
		t.Fatalf("期望 2 名失败坐席，实际=%d", len(preview.FailedAgents))
	}
	if len(preview.ProposedSchedules) != 0 {
		t.Errorf("被阻断的坐席不应出现在 proposed 中，实际=%d", len(preview.ProposedSchedules))
	}
	for _, f := range preview.FailedAgents {
		if len(f.BlockedBy) != 1 || f.BlockedBy[0] != "最低在线人数" {
			t.Errorf("期望 blockedBy=[最低在线人数]，实际=%v", f.BlockedBy)
		}
		if f.Reason == "" {
			t.Errorf("失败坐席 %s 缺少原因", f.UserID)
		}
	}
	// 覆盖率统计仅基于被接受集合，全部被拒时应为零值
	if preview.CoverageStats.MaxCoverage != 0 || preview.CoverageStats.Variance != 0 {
		t.Errorf("期望零覆盖统计，实际=%+v", preview.CoverageStats)
	}
	if preview.RuleCompliance.BlockingViolations == 0 {
		t.Errorf("期望阻断违规计数大于 0")
	}
}

func TestPreview_OnlyUnscheduledCarriesExisting(t *testing.T) {
	repo, svc := newBreakScheduleEnv()
	for _, id := range []string{"u-01", "u-02", "u-03"} {
		seedShiftAgent(t, repo, id, "坐席"+id, "09:00:00", "17:00:00")
	}
	// u-01 已有人工指定的前半休
	existing := []model.BreakScheduleEntry{
		{UserID: "u-01", ScheduleDate: testDate, IntervalStart: "10:00:00", BreakType: "HB1"},
	}
	if err := repo.BreakSchedule.UpsertBatch(context.Background(), existing); err != nil {
		t.Fatalf("植入已有明细失败: %v", err)
	}

	preview, err := svc.Preview(context.Background(), previewRequest(engine.StrategyLadder, "only_unscheduled"))
	if err != nil {
		t.Fatalf("预览失败: %v", err)
	}
	if got := len(preview.ProposedSchedules) + len(preview.FailedAgents); got != 3 {
		t.Fatalf("期望 proposed+failed=3，实际=%d", got)
	}

	var carried *engine.AgentBreakSchedule
	for _, s := range preview.ProposedSchedules {
		if s.UserID == "u-01" {
			carried = s
		}
	}
	if carried == nil {
		t.Fatal("已有分配的坐席 u-01 应原样出现在 proposed 中")
	}
	if carried.Breaks.HB1Start == nil || *carried.Breaks.HB1Start != "10:00:00" {
		t.Errorf("期望 u-01 HB1 保持 10:00:00，实际=%v", carried.Breaks.HB1Start)
	}
	if carried.Breaks.BStart != nil {
		t.Errorf("only_unscheduled 不应为已有分配的坐席补大休，实际=%v", *carried.Breaks.BStart)
	}
}

func TestPreview_InvalidInputs(t *testing.T) {
	_, svc := newBreakScheduleEnv()
	ctx := context.Background()

	if _, err := svc.Preview(ctx, &dto.AutoDistributeRequest{
		ScheduleDate: "02/03/2026", Strategy: engine.StrategyLadder, ApplyMode: "all_agents",
	}); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("期望 ErrInvalidDate，实际=%v", err)
	}
	if _, err := svc.Preview(ctx, previewRequest("round_robin", "all_agents")); err == nil {
		t.Error("未知策略应返回错误")
	}
	if _, err := svc.Preview(ctx, previewRequest(engine.StrategyLadder, "everyone")); !errors.Is(err, ErrApplyMode) {
		t.Errorf("期望 ErrApplyMode，实际=%v", err)
	}
}

// gatedRuleService 首次 ActiveEngineRules 调用阻塞，用于构造并发预览时序
type gatedRuleService struct {
	BreakRuleService
	entered chan struct{}
	release chan struct{}
	calls   int32
}

func (g *gatedRuleService) ActiveEngineRules(context.Context) ([]engine.Rule, error) {
	if atomic.AddInt32(&g.calls, 1) == 1 {
		close(g.entered)
		<-g.release
	}
	return []engine.Rule{}, nil
}

func TestPreview_LaterRequestSupersedesEarlier(t *testing.T) {
	repo := newTestRepository()
	seedShiftAgent(t, repo, "u-01", "坐席一", "09:00:00", "17:00:00")
	gated := &gatedRuleService{
		BreakRuleService: NewBreakRuleService(repo, zap.NewNop()),
		entered:          make(chan struct{}),
		release:          make(chan struct{}),
	}
	svc := NewBreakScheduleService(repo, gated, 0, zap.NewNop())

	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.Preview(context.Background(), previewRequest(engine.StrategyLadder, "all_agents"))
		firstErr <- err
	}()

	// 等第一个请求进入计算后发起第二个请求
	<-gated.entered
	if _, err := svc.Preview(context.Background(), previewRequest(engine.StrategyLadder, "all_agents")); err != nil {
		t.Fatalf("后发请求应正常完成: %v", err)
	}
	close(gated.release)

	if err := <-firstErr; !errors.Is(err, ErrPreviewSuperseded) {
		t.Errorf("期望先发请求返回 ErrPreviewSuperseded，实际=%v", err)
	}
	if svc.PreviewState() != previewReady {
		t.Errorf("后发请求完成后期望状态 ready，实际=%s", svc.PreviewState())
	}
}

func TestPreview_QuietPeriodDropsStaleRequest(t *testing.T) {
	repo := newTestRepository()
	seedShiftAgent(t, repo, "u-01", "坐席一", "09:00:00", "17:00:00")
	rules := NewBreakRuleService(repo, zap.NewNop())
	svc := NewBreakScheduleService(repo, rules, 100*time.Millisecond, zap.NewNop())

	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.Preview(context.Background(), previewRequest(engine.StrategyLadder, "all_agents"))
		firstErr <- err
	}()

	// 静默期内发起第二个请求：先发请求在进入计算前即被取代
	time.Sleep(20 * time.Millisecond)
	if _, err := svc.Preview(context.Background(), previewRequest(engine.StrategyLadder, "all_agents")); err != nil {
		t.Fatalf("后发请求应正常完成: %v", err)
	}

	if err := <-firstErr; !errors.Is(err, ErrPreviewSuperseded) {
		t.Errorf("期望先发请求返回 ErrPreviewSuperseded，实际=%v", err)
	}
}

// ────────────────────── Apply ──────────────────────

func TestApply_PersistsPreviewEntries(t *testing.T) {
	repo, svc := newBreakScheduleEnv()
	seedShiftAgent(t, repo, "u-01", "坐席一", "09:00:00", "17:00:00")

	preview, err := svc.Preview(context.Background(), previewRequest(engine.StrategyLadder, "all_agents"))
	if err != nil {
		t.Fatalf("预览失败: %v", err)
	}
	req := &dto.ApplyScheduleRequest{ScheduleDate: testDateStr, Schedules: preview.ProposedSchedules}
	if err := svc.Apply(context.Background(), req, "admin-1"); err != nil {
		t.Fatalf("应用失败: %v", err)
	}

	entries, err := repo.BreakSchedule.ListByUserAndDate(context.Background(), "u-01", testDate)
	if err != nil {
		t.Fatalf("读取明细失败: %v", err)
	}
	// 09:00-17:00 共 32 个区间
	if len(entries) != 32 {
		t.Errorf("期望落库 32 条明细，实际=%d", len(entries))
	}
	breaks := 0
	for _, e := range entries {
		if e.BreakType != string(engine.BreakIn) {
			breaks++
		}
	}
	// HB1(1) + B(2) + HB2(1)
	if breaks != 4 {
		t.Errorf("期望 4 个休息区间，实际=%d", breaks)
	}
}

// ────────────────────── UpdateIntervals ──────────────────────

func TestUpdateIntervals_PersistsWhenValid(t *testing.T) {
	repo, svc := newBreakScheduleEnv()
	seedShiftAgent(t, repo, "u-01", "坐席一", "09:00:00", "17:00:00")

	req := &dto.BreakScheduleUpdateRequest{
		UserID:       "u-01",
		ScheduleDate: testDateStr,
		Intervals: []dto.IntervalUpdate{
			{IntervalStart: "10:00:00", BreakType: "HB1"},
		},
	}
	resp, err := svc.UpdateIntervals(context.Background(), req, "admin-1")
	if err != nil {
		t.Fatalf("手动编辑失败: %v", err)
	}
	if !resp.Success {
		t.Fatalf("期望编辑成功，违规=%v", resp.Violations)
	}

	entries, _ := repo.BreakSchedule.ListByUserAndDate(context.Background(), "u-01", testDate)
	if len(entries) != 1 || entries[0].BreakType != "HB1" {
		t.Errorf("期望落库 1 条 HB1 明细，实际=%v", entries)
	}
}

func TestUpdateIntervals_BlockingViolationNotPersisted(t *testing.T) {
	repo, svc := newBreakScheduleEnv()
	seedShiftAgent(t, repo, "u-01", "坐席一", "09:00:00", "17:00:00")
	seedRule(t, repo, "休息顺序", model.RuleTypeOrdering, model.JSONMap{}, true, 1)

	// HB1 晚于大休，违反顺序规则
	req := &dto.BreakScheduleUpdateRequest{
		UserID:       "u-01",
		ScheduleDate: testDateStr,
		Intervals: []dto.IntervalUpdate{
			{IntervalStart: "10:00:00", BreakType: "B"},
			{IntervalStart: "10:15:00", BreakType: "B"},
			{IntervalStart: "12:00:00", BreakType: "HB1"},
		},
	}
	resp, err := svc.UpdateIntervals(context.Background(), req, "admin-1")
	if err != nil {
		t.Fatalf("手动编辑不应返回错误: %v", err)
	}
	if resp.Success {
		t.Fatal("阻断违规时期望 Success=false")
	}
	if len(resp.Violations) == 0 || resp.Violations[0].RuleName != "休息顺序" {
		t.Errorf("期望返回顺序规则违规，实际=%v", resp.Violations)
	}

	entries, _ := repo.BreakSchedule.ListByUserAndDate(context.Background(), "u-01", testDate)
	if len(entries) != 0 {
		t.Errorf("阻断违规时不应落库，实际明细数=%d", len(entries))
	}
}

func TestUpdateIntervals_WarningViolationStillPersists(t *testing.T) {
	repo, svc := newBreakScheduleEnv()
	seedShiftAgent(t, repo, "u-01", "坐席一", "09:00:00", "17:00:00")
	seedRule(t, repo, "休息顺序", model.RuleTypeOrdering, model.JSONMap{}, false, 1)

	req := &dto.BreakScheduleUpdateRequest{
		UserID:       "u-01",
		ScheduleDate: testDateStr,
		Intervals: []dto.IntervalUpdate{
			{IntervalStart: "10:00:00", BreakType: "B"},
			{IntervalStart: "10:15:00", BreakType: "B"},
			{IntervalStart: "12:00:00", BreakType: "HB1"},
		},
	}
	resp, err := svc.UpdateIntervals(context.Background(), req, "admin-1")
	if err != nil {
		t.Fatalf("手动编辑失败: %v", err)
	}
	if !resp.Success {
		t.Fatal("仅告警违规时期望 Success=true")
	}
	if len(resp.Violations) != 1 || resp.Violations[0].Severity != engine.SeverityWarning {
		t.Errorf("期望 1 条告警违规，实际=%v", resp.Violations)
	}
	entries, _ := repo.BreakSchedule.ListByUserAndDate(context.Background(), "u-01", testDate)
	if len(entries) != 3 {
		t.Errorf("告警违规时应照常落库，期望 3 条实际=%d", len(entries))
	}
}

func TestUpdateIntervals_InputValidation(t *testing.T) {
	repo, svc := newBreakScheduleEnv()
	seedShiftAgent(t, repo, "u-01", "坐席一", "09:00:00", "17:00:00")
	ctx := context.Background()

	base := func() *dto.BreakScheduleUpdateRequest {
		return &dto.BreakScheduleUpdateRequest{
			UserID:       "u-01",
			ScheduleDate: testDateStr,
			Intervals:    []dto.IntervalUpdate{{IntervalStart: "10:00:00", BreakType: "HB1"}},
		}
	}

	req := base()
	req.Intervals[0].IntervalStart = "10:07:00"
	if _, err := svc.UpdateIntervals(ctx, req, "admin-1"); !errors.Is(err, ErrIntervalNotAligned) {
		t.Errorf("期望 ErrIntervalNotAligned，实际=%v", err)
	}

	req = base()
	req.Intervals[0].BreakType = "LUNCH"
	if _, err := svc.UpdateIntervals(ctx, req, "admin-1"); !errors.Is(err, ErrInvalidBreakType) {
		t.Errorf("期望 ErrInvalidBreakType，实际=%v", err)
	}

	req = base()
	req.Intervals = nil
	if _, err := svc.UpdateIntervals(ctx, req, "admin-1"); !errors.Is(err, ErrEmptyUpdateBatch) {
		t.Errorf("期望 ErrEmptyUpdateBatch，实际=%v", err)
	}

	req = base()
	req.UserID = "u-99"
	if _, err := svc.UpdateIntervals(ctx, req, "admin-1"); !errors.Is(err, ErrAgentShiftNotFound) {
		t.Errorf("期望 ErrAgentShiftNotFound，实际=%v", err)
	}
}

func TestUpdateIntervals_RejectsIntervalOutsideShiftWindow(t *testing.T) {
	repo, svc := newBreakScheduleEnv()
	seedShiftAgent(t, repo, "u-01", "坐席一", "09:00:00", "17:00:00")
	ctx := context.Background()

	// 对齐但落在班次窗口外的单元格属调用方错误，不得落库
	for _, start := range []string{"06:00:00", "08:45:00", "17:00:00", "23:45:00"} {
		req := &dto.BreakScheduleUpdateRequest{
			UserID:       "u-01",
			ScheduleDate: testDateStr,
			Intervals:    []dto.IntervalUpdate{{IntervalStart: start, BreakType: "HB1"}},
		}
		if _, err := svc.UpdateIntervals(ctx, req, "admin-1"); !errors.Is(err, ErrIntervalOutOfWindow) {
			t.Errorf("起点 %s: 期望 ErrIntervalOutOfWindow，实际=%v", start, err)
		}
	}

	entries, _ := repo.BreakSchedule.ListByUserAndDate(ctx, "u-01", testDate)
	if len(entries) != 0 {
		t.Errorf("窗口外编辑不应落库，实际明细数=%d", len(entries))
	}
}

// ────────────────────── GetDay ──────────────────────

func TestGetDay_HydratesAgentsWithoutEntries(t *testing.T) {
	repo, svc := newBreakScheduleEnv()
	seedShiftAgent(t, repo, "u-01", "坐席一", "09:00:00", "17:00:00")
	seedShiftAgent(t, repo, "u-02", "坐席二", "09:00:00", "17:00:00")

	day, err := svc.GetDay(context.Background(), testDateStr, "")
	if err != nil {
		t.Fatalf("查询日视图失败: %v", err)
	}
	if len(day.Schedules) != 2 {
		t.Fatalf("期望 2 名坐席，实际=%d", len(day.Schedules))
	}
	// 无明细的坐席水合为全 IN
	for _, s := range day.Schedules {
		if s.HasAnyAssignment() {
			t.Errorf("坐席 %s 不应有休息分配", s.UserID)
		}
	}
	if got := day.Coverage["10:00:00"]; got != 2 {
		t.Errorf("期望 10:00:00 在线 2 人，实际=%d", got)
	}
	if len(day.Intervals) != 32 {
		t.Errorf("期望 32 个区间，实际=%d", len(day.Intervals))
	}
}

// ────────────────────── CSV 导入/导出 ──────────────────────

func TestImportCSV_ValidRowPersisted(t *testing.T) {
	repo, svc := newBreakScheduleEnv()
	seedShiftAgent(t, repo, "u-01", "张三", "09:00:00", "17:00:00")

	input := "agent_name,date,shift,hb1_start,b_start,hb2_start\n" +
		"张三,2026-03-02,09:00:00-17:00:00,10:00:00,12:00:00,15:00:00\n"
	result, err := svc.ImportCSV(context.Background(), strings.NewReader(input), "admin-1")
	if err != nil {
		t.Fatalf("导入失败: %v", err)
	}
	if result.Imported != 1 || len(result.Rejected) != 0 {
		t.Fatalf("期望导入 1 行，实际 imported=%d rejected=%v", result.Imported, result.Rejected)
	}

	entries, _ := repo.BreakSchedule.ListByUserAndDate(context.Background(), "u-01", testDate)
	if len(entries) != 32 {
		t.Errorf("期望落库 32 条明细，实际=%d", len(entries))
	}
}

func TestImportCSV_RowRejectedByOrderingRule(t *testing.T) {
	repo, svc := newBreakScheduleEnv()
	seedShiftAgent(t, repo, "u-01", "张三", "09:00:00", "17:00:00")
	seedRule(t, repo, "休息顺序", model.RuleTypeOrdering, model.JSONMap{}, true, 1)

	// hb1_start 晚于 b_start，经与手动编辑相同的校验路径被拒
	input := "agent_name,date,shift,hb1_start,b_start,hb2_start\n" +
		"张三,2026-03-02,09:00:00-17:00:00,12:00:00,10:00:00,\n"
	result, err := svc.ImportCSV(context.Background(), strings.NewReader(input), "admin-1")
	if err != nil {
		t.Fatalf("导入失败: %v", err)
	}
	if result.Imported != 0 || len(result.Rejected) != 1 {
		t.Fatalf("期望拒绝 1 行，实际 imported=%d rejected=%d", result.Imported, len(result.Rejected))
	}
	if result.Rejected[0].Line != 2 {
		t.Errorf("期望拒绝行号 2，实际=%d", result.Rejected[0].Line)
	}

	entries, _ := repo.BreakSchedule.ListByUserAndDate(context.Background(), "u-01", testDate)
	if len(entries) != 0 {
		t.Errorf("被拒行不应落库，实际明细数=%d", len(entries))
	}
}

func TestImportCSV_RowRejectedWhenBreakSpillsPastShiftEnd(t *testing.T) {
	repo, svc := newBreakScheduleEnv()
	seedShiftAgent(t, repo, "u-01", "张三", "09:00:00", "17:00:00")

	// B 起点 16:45 时第二个区间落到 17:00，超出班次结束
	input := "agent_name,date,shift,hb1_start,b_start,hb2_start\n" +
		"张三,2026-03-02,09:00:00-17:00:00,10:00:00,16:45:00,15:00:00\n"
	result, err := svc.ImportCSV(context.Background(), strings.NewReader(input), "admin-1")
	if err != nil {
		t.Fatalf("导入失败: %v", err)
	}
	if result.Imported != 0 || len(result.Rejected) != 1 {
		t.Fatalf("期望拒绝 1 行，实际 imported=%d rejected=%d", result.Imported, len(result.Rejected))
	}
	if result.Rejected[0].Line != 2 {
		t.Errorf("期望拒绝行号 2，实际=%d", result.Rejected[0].Line)
	}

	entries, _ := repo.BreakSchedule.ListByUserAndDate(context.Background(), "u-01", testDate)
	if len(entries) != 0 {
		t.Errorf("被拒行不应落库，实际明细数=%d", len(entries))
	}
}

func TestImportCSV_RowRejectedForBreakBeforeShiftStart(t *testing.T) {
	repo, svc := newBreakScheduleEnv()
	seedShiftAgent(t, repo, "u-01", "张三", "09:00:00", "17:00:00")

	input := "agent_name,date,shift,hb1_start,b_start,hb2_start\n" +
		"张三,2026-03-02,09:00:00-17:00:00,06:00:00,12:00:00,15:00:00\n"
	result, err := svc.ImportCSV(context.Background(), strings.NewReader(input), "admin-1")
	if err != nil {
		t.Fatalf("导入失败: %v", err)
	}
	if result.Imported != 0 || len(result.Rejected) != 1 {
		t.Fatalf("期望拒绝 1 行，实际 imported=%d rejected=%d", result.Imported, len(result.Rejected))
	}

	entries, _ := repo.BreakSchedule.ListByUserAndDate(context.Background(), "u-01", testDate)
	if len(entries) != 0 {
		t.Errorf("被拒行不应落库，实际明细数=%d", len(entries))
	}
}

func TestImportCSV_RowRejectedForUnknownAgent(t *testing.T) {
	_, svc := newBreakScheduleEnv()

	input := "agent_name,date,shift,hb1_start,b_start,hb2_start\n" +
		"李四,2026-03-02,早班,10:00:00,12:00:00,15:00:00\n"
	result, err := svc.ImportCSV(context.Background(), strings.NewReader(input), "admin-1")
	if err != nil {
		t.Fatalf("导入失败: %v", err)
	}
	if result.Imported != 0 || len(result.Rejected) != 1 {
		t.Fatalf("期望拒绝 1 行，实际 imported=%d rejected=%d", result.Imported, len(result.Rejected))
	}
	if !strings.Contains(result.Rejected[0].Reason, "坐席不存在") {
		t.Errorf("期望拒绝原因为坐席不存在，实际=%s", result.Rejected[0].Reason)
	}
}

func TestImportCSV_HeaderMismatch(t *testing.T) {
	_, svc := newBreakScheduleEnv()

	input := "name,date,shift,hb1,b,hb2\n"
	if _, err := svc.ImportCSV(context.Background(), strings.NewReader(input), "admin-1"); err == nil {
		t.Error("表头不匹配应返回错误")
	}
}

func TestExportCSV_WritesHeaderAndRows(t *testing.T) {
	repo, svc := newBreakScheduleEnv()
	seedShiftAgent(t, repo, "u-01", "张三", "09:00:00", "17:00:00")

	update := &dto.BreakScheduleUpdateRequest{
		UserID:       "u-01",
		ScheduleDate: testDateStr,
		Intervals: []dto.IntervalUpdate{
			{IntervalStart: "10:00:00", BreakType: "HB1"},
			{IntervalStart: "12:00:00", BreakType: "B"},
			{IntervalStart: "12:15:00", BreakType: "B"},
		},
	}
	if _, err := svc.UpdateIntervals(context.Background(), update, "admin-1"); err != nil {
		t.Fatalf("预置编辑失败: %v", err)
	}

	var buf bytes.Buffer
	if err := svc.ExportCSV(context.Background(), &buf, testDateStr); err != nil {
		t.Fatalf("导出失败: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("解析导出结果失败: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("期望表头+1 行数据，实际行数=%d", len(records))
	}
	for i, col := range csvHeader {
		if records[0][i] != col {
			t.Errorf("表头第 %d 列期望 %s，实际=%s", i+1, col, records[0][i])
		}
	}
	row := records[1]
	if row[0] != "张三" || row[1] != testDateStr {
		t.Errorf("期望行首为 张三,%s，实际=%v", testDateStr, row[:2])
	}
	if row[3] != "10:00:00" || row[4] != "12:00:00" || row[5] != "" {
		t.Errorf("期望休息列 10:00:00,12:00:00,空，实际=%v", row[3:])
	}
}
