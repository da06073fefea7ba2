package engine

import (
	"fmt"
	"sort"
)

// 分配策略名
const (
	StrategyLadder           = "ladder"
	StrategyBalancedCoverage = "balanced_coverage"
	StrategyStaggeredTiming  = "staggered_timing"
)

// Strategy 自动分配策略
// 产出候选排休（15 分钟对齐、落在班次窗口内、HB1→B→HB2 顺序由构造保证）；
// 是否接受由规则引擎在提案之后裁决，策略本身不做取舍
type Strategy interface {
	Name() string
	Propose(agents []AgentShiftInfo, rules []Rule, dayIntervals []string) []*AgentBreakSchedule
}

// NewStrategy 按名称创建策略，未知名称返回 error
func NewStrategy(name string) (Strategy, error) {
	switch name {
	case StrategyLadder:
		return &ladderStrategy{}, nil
	case StrategyBalancedCoverage:
		return &balancedCoverageStrategy{}, nil
	case StrategyStaggeredTiming:
		return &staggeredTimingStrategy{}, nil
	default:
		return nil, fmt.Errorf("未知分配策略: %q", name)
	}
}

// ── 班次三等分 ──

// shiftSegments 班次窗口三等分后的可行放置段（分钟偏移，左闭右开）
// HB1 放第一段，B 放第二段，HB2 放第三段，由此保证休息顺序
type shiftSegments struct {
	seg1Start, seg1End int // HB1 可行段
	seg2Start, seg2End int // B 可行段（B 起点须满足 start+30 <= seg2End）
	seg3Start, seg3End int // HB2 可行段
}

// 最短可排休班次：三段至少各容纳一次放置（B 占两个区间）
const minShiftSlots = 6

// segmentsOf 计算班次的三等分段；班次过短或格式非法返回 error
func segmentsOf(shiftStart, shiftEnd string) (*shiftSegments, error) {
	startMin, err := TimeToMinutes(shiftStart)
	if err != nil {
		return nil, err
	}
	endMin, err := TimeToMinutes(shiftEnd)
	if err != nil {
		return nil, err
	}
	totalSlots := (endMin - startMin) / IntervalMinutes
	if totalSlots < minShiftSlots {
		return nil, fmt.Errorf("班次过短（%d 分钟），无法安排三次休息", endMin-startMin)
	}
	third := totalSlots / 3
	seg := &shiftSegments{
		seg1Start: startMin,
		seg1End:   startMin + third*IntervalMinutes,
		seg2Start: startMin + third*IntervalMinutes,
		seg2End:   startMin + 2*third*IntervalMinutes,
		seg3Start: startMin + 2*third*IntervalMinutes,
		seg3End:   endMin,
	}
	return seg, nil
}

// slotsIn 段内可放置起点数；length 为休息占用分钟数
func slotsIn(segStart, segEnd, length int) int {
	n := (segEnd - length - segStart) / IntervalMinutes + 1
	if n < 0 {
		return 0
	}
	return n
}

// failedSchedule 构造带失败说明的空排休（无法放置时进入 failed_agents）
func failedSchedule(agent AgentShiftInfo, reason string) *AgentBreakSchedule {
	s, err := BuildSchedule(agent, -1, -1, -1)
	if err != nil {
		s = &AgentBreakSchedule{
			UserID:    agent.UserID,
			Name:      agent.Name,
			ShiftType: agent.ShiftType,
			Intervals: map[string]BreakType{},
		}
	}
	s.AutoDistributionFailure = &reason
	return s
}

// groupByShift 将坐席按相同班次窗口分组，组间按窗口起点排序
// 组内保持输入顺序（调用方已保证确定性排序）
func groupByShift(agents []AgentShiftInfo) [][]AgentShiftInfo {
	keys := make([]string, 0)
	groups := make(map[string][]AgentShiftInfo)
	for _, a := range agents {
		key := a.ShiftStart + "|" + a.ShiftEnd
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], a)
	}
	sort.Strings(keys)
	out := make([][]AgentShiftInfo, 0, len(groups))
	for _, k := range keys {
		out = append(out, groups[k])
	}
	return out
}

// ════════════════════════════════════════
// ladder：阶梯式
// ════════════════════════════════════════

// ladderStrategy 同班次窗口内按坐席序号逐人后移 15 分钟，
// 段内放满后回绕；最简单、最可预测，覆盖均衡最弱
type ladderStrategy struct{}

func (s *ladderStrategy) Name() string { return StrategyLadder }

func (s *ladderStrategy) Propose(agents []AgentShiftInfo, _ []Rule, _ []string) []*AgentBreakSchedule {
	var out []*AgentBreakSchedule
	for _, group := range groupByShift(agents) {
		seg, err := segmentsOf(group[0].ShiftStart, group[0].ShiftEnd)
		if err != nil {
			for _, a := range group {
				out = append(out, failedSchedule(a, err.Error()))
			}
			continue
		}
		hb1Slots := slotsIn(seg.seg1Start, seg.seg1End, HalfBreakSlots*IntervalMinutes)
		bSlots := slotsIn(seg.seg2Start, seg.seg2End, FullBreakSlots*IntervalMinutes)
		hb2Slots := slotsIn(seg.seg3Start, seg.seg3End, HalfBreakSlots*IntervalMinutes)
		for i, a := range group {
			hb1 := seg.seg1Start + (i%hb1Slots)*IntervalMinutes
			b := seg.seg2Start + (i%bSlots)*IntervalMinutes
			hb2 := seg.seg3Start + (i%hb2Slots)*IntervalMinutes
			sched, err := BuildSchedule(a, hb1, b, hb2)
			if err != nil {
				out = append(out, failedSchedule(a, err.Error()))
				continue
			}
			out = append(out, sched)
		}
	}
	return out
}

// ════════════════════════════════════════
// staggered_timing：均匀错峰
// ════════════════════════════════════════

// staggeredTimingStrategy 组内第 i/n 个坐席在每段内取 i/n 比例偏移，
// 使休息起点均匀铺开；不直接优化覆盖率
type staggeredTimingStrategy struct{}

func (s *staggeredTimingStrategy) Name() string { return StrategyStaggeredTiming }

func (s *staggeredTimingStrategy) Propose(agents []AgentShiftInfo, _ []Rule, _ []string) []*AgentBreakSchedule {
	var out []*AgentBreakSchedule
	for _, group := range groupByShift(agents) {
		seg, err := segmentsOf(group[0].ShiftStart, group[0].ShiftEnd)
		if err != nil {
			for _, a := range group {
				out = append(out, failedSchedule(a, err.Error()))
			}
			continue
		}
		n := len(group)
		hb1Slots := slotsIn(seg.seg1Start, seg.seg1End, HalfBreakSlots*IntervalMinutes)
		bSlots := slotsIn(seg.seg2Start, seg.seg2End, FullBreakSlots*IntervalMinutes)
		hb2Slots := slotsIn(seg.seg3Start, seg.seg3End, HalfBreakSlots*IntervalMinutes)
		for i, a := range group {
			hb1 := seg.seg1Start + (i*hb1Slots/n)*IntervalMinutes
			b := seg.seg2Start + (i*bSlots/n)*IntervalMinutes
			hb2 := seg.seg3Start + (i*hb2Slots/n)*IntervalMinutes
			sched, err := BuildSchedule(a, hb1, b, hb2)
			if err != nil {
				out = append(out, failedSchedule(a, err.Error()))
				continue
			}
			out = append(out, sched)
		}
	}
	return out
}

// ════════════════════════════════════════
// balanced_coverage：覆盖均衡
// ════════════════════════════════════════

// balancedCoverageStrategy 贪心局部搜索：逐坐席、逐休息段选择使方差增量最小的
// 可行区间；平局取最早区间，坐席处理顺序即输入顺序。
// 每次试探性放置后更新运行中的覆盖计数并重跑规则校验，
// 使后续放置看到最新覆盖状态
type balancedCoverageStrategy struct{}

func (s *balancedCoverageStrategy) Name() string { return StrategyBalancedCoverage }

func (s *balancedCoverageStrategy) Propose(agents []AgentShiftInfo, rules []Rule, dayIntervals []string) []*AgentBreakSchedule {
	tracker := NewCoverageTracker(dayIntervals)
	engine := NewRuleEngine()

	var out []*AgentBreakSchedule
	for _, a := range agents {
		seg, err := segmentsOf(a.ShiftStart, a.ShiftEnd)
		if err != nil {
			out = append(out, failedSchedule(a, err.Error()))
			continue
		}
		hb1 := bestPlacement(tracker, a, seg.seg1Start, seg.seg1End, HalfBreakSlots, -1, -1, -1, breakSlotHB1)
		b := bestPlacement(tracker, a, seg.seg2Start, seg.seg2End, FullBreakSlots, hb1, -1, -1, breakSlotB)
		hb2 := bestPlacement(tracker, a, seg.seg3Start, seg.seg3End, HalfBreakSlots, hb1, b, -1, breakSlotHB2)

		sched, err := BuildSchedule(a, hb1, b, hb2)
		if err != nil {
			out = append(out, failedSchedule(a, err.Error()))
			continue
		}
		// 纳入运行计数后重跑校验，后续坐席的贪心放置基于最新状态。
		// 阻断违规不在此处裁决，由调用方的规则裁决阶段统一处理
		tracker.Add(sched)
		ctx := &ValidationContext{
			ShiftStart: a.ShiftStart,
			ShiftEnd:   a.ShiftEnd,
			Coverage:   tracker.Coverage(),
			OnBreak:    tracker.OnBreak(),
		}
		violations := engine.Validate(sched, rules, ctx)
		sched.HasWarning = len(violations) > 0 && !HasBlocking(violations)
		out = append(out, sched)
	}
	return out
}

// 放置中的休息段标识
type breakSlot int

const (
	breakSlotHB1 breakSlot = iota
	breakSlotB
	breakSlotHB2
)

// bestPlacement 在 [segStart, segEnd) 内选择使在线人数方差最小的起点
// 平局取最早区间；hb1/b/hb2 为该坐席已定的其他休息起点（-1 未定），
// 用于在试探时构造完整候选。无可行起点返回 -1
func bestPlacement(tracker *CoverageTracker, agent AgentShiftInfo, segStart, segEnd, slots int, hb1, b, hb2 int, slot breakSlot) int {
	length := slots * IntervalMinutes
	best := -1
	bestVar := 0.0
	for start := segStart; start+length <= segEnd; start += IntervalMinutes {
		tHB1, tB, tHB2 := hb1, b, hb2
		switch slot {
		case breakSlotHB1:
			tHB1 = start
		case breakSlotB:
			tB = start
		case breakSlotHB2:
			tHB2 = start
		}
		cand, err := BuildSchedule(agent, tHB1, tB, tHB2)
		if err != nil {
			continue
		}
		tracker.Add(cand)
		v := tracker.Variance()
		tracker.Remove(cand)
		if best < 0 || v < bestVar {
			best = start
			bestVar = v
		}
	}
	return best
}
