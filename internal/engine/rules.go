package engine

import (
	"fmt"
	"sort"
)

// ── 规则定义 ──

// 规则类型
const (
	RuleDistribution = "distribution"
	RuleOrdering     = "ordering"
	RuleTiming       = "timing"
	RuleCoverage     = "coverage"
)

// 违规严重度；error 仅由 is_blocking 规则产生
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// OrderingParams 顺序规则参数：强制 HB1 < B < HB2（严格小于，按分钟偏移）
type OrderingParams struct{}

// TimingParams 间隔规则参数，0 表示该约束不生效
type TimingParams struct {
	MinGapMinutes     int `json:"min_gap_minutes"`      // 相邻休息间最小间隔（上一休息结束到下一休息开始）
	MaxGapMinutes     int `json:"max_gap_minutes"`      // 相邻休息间最大间隔
	MinFromShiftStart int `json:"min_from_shift_start"` // 首个休息距班次开始的最小分钟数
	MinBeforeShiftEnd int `json:"min_before_shift_end"` // 末个休息结束距班次结束的最小分钟数
}

// CoverageParams 覆盖率规则参数
type CoverageParams struct {
	MinCoverage int `json:"min_coverage"` // 任一区间的在线人数下限
}

// DistributionParams 分布规则参数
type DistributionParams struct {
	MaxOnBreakPerInterval int `json:"max_on_break_per_interval"` // 同一区间同时休息的人数上限
}

// Rule 引擎内部的强类型规则
// 按 RuleType 恰有一个参数变体非 nil（在规则存储边界由 JSONB 参数包解码）
type Rule struct {
	RuleName   string
	RuleType   string
	IsActive   bool
	IsBlocking bool
	Priority   int

	Ordering     *OrderingParams
	Timing       *TimingParams
	Coverage     *CoverageParams
	Distribution *DistributionParams
}

// severity 按 is_blocking 映射严重度
func (r *Rule) severity() string {
	if r.IsBlocking {
		return SeverityError
	}
	return SeverityWarning
}

// ValidationViolation 单条规则违规
type ValidationViolation struct {
	RuleName          string   `json:"rule_name"`
	Message           string   `json:"message"`
	Severity          string   `json:"severity"`
	AffectedIntervals []string `json:"affected_intervals,omitempty"`
}

// ValidationContext 校验上下文：候选坐席之外的全局状态
// Coverage/OnBreak 按区间起点统计其他已接受坐席的在线/休息人数
type ValidationContext struct {
	ShiftStart string
	ShiftEnd   string
	Coverage   map[string]int
	OnBreak    map[string]int
}

// ── 规则引擎 ──

// RuleEngine 对候选排休逐条评估激活规则
type RuleEngine struct{}

// NewRuleEngine 创建规则引擎
func NewRuleEngine() *RuleEngine {
	return &RuleEngine{}
}

// Validate 评估候选排休，返回全部违规
// 仅评估 is_active 规则；按 priority 升序评估且不短路，
// 使 total/blocking/warning 计数始终反映完整规则集
func (e *RuleEngine) Validate(schedule *AgentBreakSchedule, rules []Rule, ctx *ValidationContext) []ValidationViolation {
	active := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if r.IsActive {
			active = append(active, r)
		}
	}
	sort.SliceStable(active, func(i, j int) bool { return active[i].Priority < active[j].Priority })

	var violations []ValidationViolation
	for _, r := range active {
		switch r.RuleType {
		case RuleOrdering:
			violations = append(violations, e.evalOrdering(&r, schedule)...)
		case RuleTiming:
			violations = append(violations, e.evalTiming(&r, schedule, ctx)...)
		case RuleCoverage:
			violations = append(violations, e.evalCoverage(&r, schedule, ctx)...)
		case RuleDistribution:
			violations = append(violations, e.evalDistribution(&r, schedule, ctx)...)
		}
	}
	return violations
}

// HasBlocking 判断违规列表中是否存在阻断级违规
func HasBlocking(violations []ValidationViolation) bool {
	for _, v := range violations {
		if v.Severity == SeverityError {
			return true
		}
	}
	return false
}

// BlockingRuleNames 提取阻断级违规的规则名（去重，保持首次出现顺序）
func BlockingRuleNames(violations []ValidationViolation) []string {
	seen := make(map[string]bool)
	var names []string
	for _, v := range violations {
		if v.Severity == SeverityError && !seen[v.RuleName] {
			seen[v.RuleName] = true
			names = append(names, v.RuleName)
		}
	}
	return names
}

// ── 各类型评估器 ──

// breakSpan 已分配休息的时间跨度（分钟偏移）
type breakSpan struct {
	label string
	start int
	end   int
}

// assignedSpans 提取已分配休息并按 HB1/B/HB2 固定顺序返回
func assignedSpans(s *AgentBreakSchedule) []breakSpan {
	var spans []breakSpan
	if s.Breaks.HB1Start != nil {
		m, err := TimeToMinutes(*s.Breaks.HB1Start)
		if err == nil {
			spans = append(spans, breakSpan{"HB1", m, m + HalfBreakSlots*IntervalMinutes})
		}
	}
	if s.Breaks.BStart != nil {
		m, err := TimeToMinutes(*s.Breaks.BStart)
		if err == nil {
			spans = append(spans, breakSpan{"B", m, m + FullBreakSlots*IntervalMinutes})
		}
	}
	if s.Breaks.HB2Start != nil {
		m, err := TimeToMinutes(*s.Breaks.HB2Start)
		if err == nil {
			spans = append(spans, breakSpan{"HB2", m, m + HalfBreakSlots*IntervalMinutes})
		}
	}
	return spans
}

// evalOrdering 顺序规则：已分配休息须满足 HB1 < B < HB2
// 每个乱序的组合单独报告一条违规
func (e *RuleEngine) evalOrdering(r *Rule, s *AgentBreakSchedule) []ValidationViolation {
	spans := assignedSpans(s)
	var violations []ValidationViolation
	for i := 0; i < len(spans); i++ {
		for j := i + 1; j < len(spans); j++ {
			if spans[i].start >= spans[j].start {
				violations = append(violations, ValidationViolation{
					RuleName: r.RuleName,
					Message: fmt.Sprintf("休息顺序错误：%s（%s）应早于 %s（%s）",
						spans[i].label, MinutesToTime(spans[i].start),
						spans[j].label, MinutesToTime(spans[j].start)),
					Severity:          r.severity(),
					AffectedIntervals: []string{MinutesToTime(spans[i].start), MinutesToTime(spans[j].start)},
				})
			}
		}
	}
	return violations
}

// evalTiming 间隔规则：约束相邻休息间隔与距班次边界的距离
func (e *RuleEngine) evalTiming(r *Rule, s *AgentBreakSchedule, ctx *ValidationContext) []ValidationViolation {
	p := r.Timing
	if p == nil {
		return nil
	}
	spans := assignedSpans(s)
	if len(spans) == 0 {
		return nil
	}
	// 按实际时间排序后度量间隔（乱序由 ordering 规则负责报告）
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	var violations []ValidationViolation
	for i := 1; i < len(spans); i++ {
		gap := spans[i].start - spans[i-1].end
		if p.MinGapMinutes > 0 && gap < p.MinGapMinutes {
			violations = append(violations, ValidationViolation{
				RuleName: r.RuleName,
				Message: fmt.Sprintf("%s 与 %s 间隔 %d 分钟，低于下限 %d 分钟",
					spans[i-1].label, spans[i].label, gap, p.MinGapMinutes),
				Severity:          r.severity(),
				AffectedIntervals: []string{MinutesToTime(spans[i-1].start), MinutesToTime(spans[i].start)},
			})
		}
		if p.MaxGapMinutes > 0 && gap > p.MaxGapMinutes {
			violations = append(violations, ValidationViolation{
				RuleName: r.RuleName,
				Message: fmt.Sprintf("%s 与 %s 间隔 %d 分钟，超过上限 %d 分钟",
					spans[i-1].label, spans[i].label, gap, p.MaxGapMinutes),
				Severity:          r.severity(),
				AffectedIntervals: []string{MinutesToTime(spans[i-1].start), MinutesToTime(spans[i].start)},
			})
		}
	}

	if ctx != nil && ctx.ShiftStart != "" {
		if shiftStart, err := TimeToMinutes(ctx.ShiftStart); err == nil && p.MinFromShiftStart > 0 {
			first := spans[0]
			if first.start-shiftStart < p.MinFromShiftStart {
				violations = append(violations, ValidationViolation{
					RuleName: r.RuleName,
					Message: fmt.Sprintf("%s 距班次开始仅 %d 分钟，低于下限 %d 分钟",
						first.label, first.start-shiftStart, p.MinFromShiftStart),
					Severity:          r.severity(),
					AffectedIntervals: []string{MinutesToTime(first.start)},
				})
			}
		}
	}
	if ctx != nil && ctx.ShiftEnd != "" {
		if shiftEnd, err := TimeToMinutes(ctx.ShiftEnd); err == nil && p.MinBeforeShiftEnd > 0 {
			last := spans[len(spans)-1]
			if shiftEnd-last.end < p.MinBeforeShiftEnd {
				violations = append(violations, ValidationViolation{
					RuleName: r.RuleName,
					Message: fmt.Sprintf("%s 结束距班次结束仅 %d 分钟，低于下限 %d 分钟",
						last.label, shiftEnd-last.end, p.MinBeforeShiftEnd),
					Severity:          r.severity(),
					AffectedIntervals: []string{MinutesToTime(last.start)},
				})
			}
		}
	}
	return violations
}

// evalCoverage 覆盖率规则：候选坐席休息的区间不得使在线人数跌破下限
// ctx.Coverage 为其他已接受坐席的在线人数，候选休息时该区间在线数即为此值
func (e *RuleEngine) evalCoverage(r *Rule, s *AgentBreakSchedule, ctx *ValidationContext) []ValidationViolation {
	p := r.Coverage
	if p == nil || ctx == nil || ctx.Coverage == nil {
		return nil
	}
	var affected []string
	for t, bt := range s.Intervals {
		if bt != BreakIn && ctx.Coverage[t] < p.MinCoverage {
			affected = append(affected, t)
		}
	}
	if len(affected) == 0 {
		return nil
	}
	sort.Strings(affected)
	return []ValidationViolation{{
		RuleName: r.RuleName,
		Message: fmt.Sprintf("休息导致 %d 个区间在线人数低于下限 %d（首个区间 %s）",
			len(affected), p.MinCoverage, affected[0]),
		Severity:          r.severity(),
		AffectedIntervals: affected,
	}}
}

// evalDistribution 分布规则：同一区间同时休息的人数不得超过上限
func (e *RuleEngine) evalDistribution(r *Rule, s *AgentBreakSchedule, ctx *ValidationContext) []ValidationViolation {
	p := r.Distribution
	if p == nil || p.MaxOnBreakPerInterval <= 0 || ctx == nil || ctx.OnBreak == nil {
		return nil
	}
	var affected []string
	for t, bt := range s.Intervals {
		if bt != BreakIn && ctx.OnBreak[t]+1 > p.MaxOnBreakPerInterval {
			affected = append(affected, t)
		}
	}
	if len(affected) == 0 {
		return nil
	}
	sort.Strings(affected)
	return []ValidationViolation{{
		RuleName: r.RuleName,
		Message: fmt.Sprintf("%d 个区间同时休息人数超过上限 %d（首个区间 %s）",
			len(affected), p.MaxOnBreakPerInterval, affected[0]),
		Severity:          r.severity(),
		AffectedIntervals: affected,
	}}
}
