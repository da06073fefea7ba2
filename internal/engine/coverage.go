package engine

// CoverageStats 全天覆盖率统计
// Variance 为各区间在线人数的总体方差；每个预览周期重算，不持久化
type CoverageStats struct {
	MinCoverage int     `json:"min_coverage"`
	MaxCoverage int     `json:"max_coverage"`
	AvgCoverage float64 `json:"avg_coverage"`
	Variance    float64 `json:"variance"`
}

// ComputeCoverage 统计各区间在线人数并计算覆盖率统计量
// 区间计数 = Intervals[t] == IN 的坐席数；统计量覆盖全部区间（含零人区间）
func ComputeCoverage(schedules []*AgentBreakSchedule, intervals []string) (map[string]int, CoverageStats) {
	perInterval := make(map[string]int, len(intervals))
	for _, t := range intervals {
		perInterval[t] = 0
	}
	for _, s := range schedules {
		for t, bt := range s.Intervals {
			if bt == BreakIn {
				if _, ok := perInterval[t]; ok {
					perInterval[t]++
				}
			}
		}
	}
	return perInterval, statsOf(perInterval, intervals)
}

// statsOf 对区间计数序列求 min/max/均值/总体方差
func statsOf(perInterval map[string]int, intervals []string) CoverageStats {
	if len(intervals) == 0 {
		return CoverageStats{}
	}
	stats := CoverageStats{MinCoverage: perInterval[intervals[0]], MaxCoverage: perInterval[intervals[0]]}
	sum := 0
	for _, t := range intervals {
		c := perInterval[t]
		sum += c
		if c < stats.MinCoverage {
			stats.MinCoverage = c
		}
		if c > stats.MaxCoverage {
			stats.MaxCoverage = c
		}
	}
	n := float64(len(intervals))
	stats.AvgCoverage = float64(sum) / n

	var sq float64
	for _, t := range intervals {
		d := float64(perInterval[t]) - stats.AvgCoverage
		sq += d * d
	}
	stats.Variance = sq / n
	return stats
}

// ── 增量覆盖率追踪 ──

// CoverageTracker 维护运行中的区间计数，供贪心放置逐步更新，
// 避免每次试探性放置都全量重算
type CoverageTracker struct {
	intervals []string
	coverage  map[string]int // 在线人数
	onBreak   map[string]int // 休息人数
}

// NewCoverageTracker 以全天区间轴初始化追踪器
func NewCoverageTracker(intervals []string) *CoverageTracker {
	t := &CoverageTracker{
		intervals: intervals,
		coverage:  make(map[string]int, len(intervals)),
		onBreak:   make(map[string]int, len(intervals)),
	}
	for _, iv := range intervals {
		t.coverage[iv] = 0
		t.onBreak[iv] = 0
	}
	return t
}

// Add 纳入一份排休
func (t *CoverageTracker) Add(s *AgentBreakSchedule) {
	for iv, bt := range s.Intervals {
		if _, ok := t.coverage[iv]; !ok {
			continue
		}
		if bt == BreakIn {
			t.coverage[iv]++
		} else {
			t.onBreak[iv]++
		}
	}
}

// Remove 撤销一份已纳入的排休
func (t *CoverageTracker) Remove(s *AgentBreakSchedule) {
	for iv, bt := range s.Intervals {
		if _, ok := t.coverage[iv]; !ok {
			continue
		}
		if bt == BreakIn {
			t.coverage[iv]--
		} else {
			t.onBreak[iv]--
		}
	}
}

// Coverage 当前各区间在线人数（直接引用内部状态，调用方只读）
func (t *CoverageTracker) Coverage() map[string]int { return t.coverage }

// OnBreak 当前各区间休息人数
func (t *CoverageTracker) OnBreak() map[string]int { return t.onBreak }

// Stats 当前覆盖率统计量
func (t *CoverageTracker) Stats() CoverageStats {
	return statsOf(t.coverage, t.intervals)
}

// Variance 当前在线人数方差
func (t *CoverageTracker) Variance() float64 {
	return t.Stats().Variance
}
