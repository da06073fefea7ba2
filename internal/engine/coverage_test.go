package engine

import (
	"math"
	"testing"
)

func TestComputeCoverage_Counts(t *testing.T) {
	intervals, _ := GenerateIntervals("09:00:00", "10:00:00")
	a1 := makeScheduleFor(t, "u1", "09:00:00", "10:00:00", "09:00:00", "", "")
	a2 := makeScheduleFor(t, "u2", "09:00:00", "10:00:00", "", "", "")

	perInterval, stats := ComputeCoverage([]*AgentBreakSchedule{a1, a2}, intervals)
	if perInterval["09:00:00"] != 1 {
		t.Errorf("09:00 区间 u1 休息，期望在线 1，实际 %d", perInterval["09:00:00"])
	}
	if perInterval["09:15:00"] != 2 {
		t.Errorf("09:15 区间期望在线 2，实际 %d", perInterval["09:15:00"])
	}
	if stats.MinCoverage != 1 || stats.MaxCoverage != 2 {
		t.Errorf("期望 min=1 max=2，实际 min=%d max=%d", stats.MinCoverage, stats.MaxCoverage)
	}
}

func TestComputeCoverage_VarianceIsPopulation(t *testing.T) {
	intervals := []string{"09:00:00", "09:15:00"}
	a1 := makeScheduleFor(t, "u1", "09:00:00", "09:30:00", "09:00:00", "", "")

	// 计数序列 [0, 1]：均值 0.5，总体方差 0.25
	_, stats := ComputeCoverage([]*AgentBreakSchedule{a1}, intervals)
	if math.Abs(stats.AvgCoverage-0.5) > 1e-9 {
		t.Errorf("期望均值 0.5，实际 %f", stats.AvgCoverage)
	}
	if math.Abs(stats.Variance-0.25) > 1e-9 {
		t.Errorf("期望总体方差 0.25，实际 %f", stats.Variance)
	}
}

func TestComputeCoverage_EmptyIntervals(t *testing.T) {
	_, stats := ComputeCoverage(nil, nil)
	if stats.MinCoverage != 0 || stats.MaxCoverage != 0 || stats.AvgCoverage != 0 || stats.Variance != 0 {
		t.Errorf("空区间轴应返回零值统计量: %+v", stats)
	}
}

func TestComputeCoverage_MinAvgMaxOrdering(t *testing.T) {
	intervals, _ := GenerateIntervals("09:00:00", "17:00:00")
	var schedules []*AgentBreakSchedule
	schedules = append(schedules,
		makeScheduleFor(t, "u1", "09:00:00", "17:00:00", "10:00:00", "12:00:00", "15:00:00"),
		makeScheduleFor(t, "u2", "09:00:00", "17:00:00", "10:15:00", "12:30:00", "15:15:00"),
		makeScheduleFor(t, "u3", "09:00:00", "17:00:00", "10:30:00", "13:00:00", "15:30:00"),
	)
	_, stats := ComputeCoverage(schedules, intervals)
	if float64(stats.MinCoverage) > stats.AvgCoverage || stats.AvgCoverage > float64(stats.MaxCoverage) {
		t.Errorf("应满足 min <= avg <= max: %+v", stats)
	}
}

func TestCoverageTracker_AddRemoveSymmetry(t *testing.T) {
	intervals, _ := GenerateIntervals("09:00:00", "17:00:00")
	tracker := NewCoverageTracker(intervals)
	base := tracker.Variance()

	sched := makeScheduleFor(t, "u1", "09:00:00", "17:00:00", "10:00:00", "12:00:00", "15:00:00")
	tracker.Add(sched)
	if tracker.Coverage()["09:00:00"] != 1 {
		t.Errorf("Add 后 09:00 在线应为 1，实际 %d", tracker.Coverage()["09:00:00"])
	}
	if tracker.OnBreak()["10:00:00"] != 1 {
		t.Errorf("Add 后 10:00 休息应为 1，实际 %d", tracker.OnBreak()["10:00:00"])
	}

	tracker.Remove(sched)
	if tracker.Variance() != base {
		t.Error("Remove 后方差应恢复原值")
	}
	for _, iv := range intervals {
		if tracker.Coverage()[iv] != 0 || tracker.OnBreak()[iv] != 0 {
			t.Fatalf("Remove 后计数应全部归零，区间 %s", iv)
		}
	}
}

func TestCoverageTracker_StatsMatchComputeCoverage(t *testing.T) {
	intervals, _ := GenerateIntervals("09:00:00", "17:00:00")
	schedules := []*AgentBreakSchedule{
		makeScheduleFor(t, "u1", "09:00:00", "17:00:00", "10:00:00", "12:00:00", "15:00:00"),
		makeScheduleFor(t, "u2", "09:00:00", "17:00:00", "09:30:00", "13:00:00", "16:00:00"),
	}
	tracker := NewCoverageTracker(intervals)
	for _, s := range schedules {
		tracker.Add(s)
	}
	_, want := ComputeCoverage(schedules, intervals)
	got := tracker.Stats()
	if got != want {
		t.Errorf("增量统计应与全量重算一致：期望 %+v，实际 %+v", want, got)
	}
}

// makeScheduleFor 构造指定坐席与班次的排休，空串表示未分配
func makeScheduleFor(t *testing.T, userID, shiftStart, shiftEnd, hb1, b, hb2 string) *AgentBreakSchedule {
	t.Helper()
	agent := AgentShiftInfo{UserID: userID, Name: userID, ShiftStart: shiftStart, ShiftEnd: shiftEnd}
	toMin := func(s string) int {
		if s == "" {
			return -1
		}
		m, err := TimeToMinutes(s)
		if err != nil {
			t.Fatalf("非法时间 %q: %v", s, err)
		}
		return m
	}
	sched, err := BuildSchedule(agent, toMin(hb1), toMin(b), toMin(hb2))
	if err != nil {
		t.Fatalf("BuildSchedule 不应报错: %v", err)
	}
	return sched
}
