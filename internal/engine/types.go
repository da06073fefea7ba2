package engine

import (
	"errors"
	"fmt"
)

// ErrBreakOutOfWindow 休息时段落在班次窗口之外
var ErrBreakOutOfWindow = errors.New("休息超出班次窗口")

// BreakType 区间状态：在线或三种休息之一
type BreakType string

const (
	BreakIn  BreakType = "IN"  // 在线
	BreakHB1 BreakType = "HB1" // 前半休（15 分钟）
	BreakB   BreakType = "B"   // 大休（30 分钟，占两个区间）
	BreakHB2 BreakType = "HB2" // 后半休（15 分钟）
)

// 各休息类型占用的区间数
const (
	HalfBreakSlots = 1
	FullBreakSlots = 2
)

// AgentShiftInfo 排休输入：某坐席某日的班次信息
type AgentShiftInfo struct {
	UserID     string  `json:"user_id"`
	Name       string  `json:"name"`
	Department string  `json:"department"`
	ShiftType  *string `json:"shift_type"`
	ShiftStart string  `json:"shift_start"` // HH:MM:SS
	ShiftEnd   string  `json:"shift_end"`   // HH:MM:SS
}

// BreakTimes 三个休息时段的起始时间投影，未分配为 nil
type BreakTimes struct {
	HB1Start *string `json:"hb1_start"`
	BStart   *string `json:"b_start"`
	HB2Start *string `json:"hb2_start"`
}

// AgentBreakSchedule 某坐席某日的完整排休视图
// 由预览周期临时构造或从存储水合，Intervals 覆盖班次内全部区间
type AgentBreakSchedule struct {
	UserID                  string               `json:"user_id"`
	Name                    string               `json:"name"`
	ShiftType               *string              `json:"shift_type"`
	Breaks                  BreakTimes           `json:"breaks"`
	Intervals               map[string]BreakType `json:"intervals"`
	HasWarning              bool                 `json:"has_warning"`
	AutoDistributionFailure *string              `json:"auto_distribution_failure,omitempty"`
}

// HasFullAssignment 三个休息是否均已分配
func (s *AgentBreakSchedule) HasFullAssignment() bool {
	return s.Breaks.HB1Start != nil && s.Breaks.BStart != nil && s.Breaks.HB2Start != nil
}

// HasAnyAssignment 是否存在任一已分配的休息
func (s *AgentBreakSchedule) HasAnyAssignment() bool {
	return s.Breaks.HB1Start != nil || s.Breaks.BStart != nil || s.Breaks.HB2Start != nil
}

// BuildSchedule 按休息起点构造完整排休视图
// hb1/b/hb2 为分钟偏移，-1 表示未分配；班次内其余区间置为 IN。
// 休息时段（含 B 的第二个区间）必须整段落在 [班次开始, 班次结束) 内
func BuildSchedule(agent AgentShiftInfo, hb1, b, hb2 int) (*AgentBreakSchedule, error) {
	startMin, err := TimeToMinutes(agent.ShiftStart)
	if err != nil {
		return nil, err
	}
	endMin, err := TimeToMinutes(agent.ShiftEnd)
	if err != nil {
		return nil, err
	}
	intervals, err := GenerateIntervals(agent.ShiftStart, agent.ShiftEnd)
	if err != nil {
		return nil, err
	}

	inWindow := func(offset, slots int) error {
		if offset < startMin || offset+slots*IntervalMinutes > endMin {
			return fmt.Errorf("%w: %s 不在 %s-%s 内",
				ErrBreakOutOfWindow, MinutesToTime(offset), agent.ShiftStart, agent.ShiftEnd)
		}
		return nil
	}

	s := &AgentBreakSchedule{
		UserID:    agent.UserID,
		Name:      agent.Name,
		ShiftType: agent.ShiftType,
		Intervals: make(map[string]BreakType, len(intervals)),
	}
	for _, t := range intervals {
		s.Intervals[t] = BreakIn
	}

	if hb1 >= 0 {
		if err := inWindow(hb1, HalfBreakSlots); err != nil {
			return nil, err
		}
		t := MinutesToTime(hb1)
		s.Breaks.HB1Start = &t
		s.Intervals[t] = BreakHB1
	}
	if b >= 0 {
		if err := inWindow(b, FullBreakSlots); err != nil {
			return nil, err
		}
		t := MinutesToTime(b)
		s.Breaks.BStart = &t
		for i := 0; i < FullBreakSlots; i++ {
			s.Intervals[MinutesToTime(b+i*IntervalMinutes)] = BreakB
		}
	}
	if hb2 >= 0 {
		if err := inWindow(hb2, HalfBreakSlots); err != nil {
			return nil, err
		}
		t := MinutesToTime(hb2)
		s.Breaks.HB2Start = &t
		s.Intervals[t] = BreakHB2
	}
	return s, nil
}
