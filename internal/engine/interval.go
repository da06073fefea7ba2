// Package engine 实现排休核心引擎：
// 时间区间模型、规则校验、覆盖率计算与自动分配策略。
// 引擎本身为纯计算，不做任何 IO。
package engine

import (
	"errors"
	"fmt"
)

// IntervalMinutes 单个区间时长（分钟）
const IntervalMinutes = 15

// ErrInvalidTime 时间字符串格式非法
var ErrInvalidTime = errors.New("时间格式非法")

// TimeToMinutes 将 HH:MM:SS（或 HH:MM）解析为自 00:00 起的分钟偏移
// 秒数在运算中忽略，序列化时统一补 :00
func TimeToMinutes(t string) (int, error) {
	var h, m, s int
	if _, err := fmt.Sscanf(t, "%d:%d:%d", &h, &m, &s); err != nil {
		if _, err := fmt.Sscanf(t, "%d:%d", &h, &m); err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTime, t)
		}
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, t)
	}
	return h*60 + m, nil
}

// MinutesToTime 将分钟偏移序列化为 HH:MM:SS，秒恒为 00
func MinutesToTime(minutes int) string {
	return fmt.Sprintf("%02d:%02d:00", minutes/60, minutes%60)
}

// GenerateIntervals 生成 [start, end) 内所有 15 分钟边界的区间起点
// end <= start 时返回空序列
func GenerateIntervals(start, end string) ([]string, error) {
	startMin, err := TimeToMinutes(start)
	if err != nil {
		return nil, err
	}
	endMin, err := TimeToMinutes(end)
	if err != nil {
		return nil, err
	}
	if endMin <= startMin {
		return []string{}, nil
	}
	intervals := make([]string, 0, (endMin-startMin)/IntervalMinutes)
	for m := startMin; m < endMin; m += IntervalMinutes {
		intervals = append(intervals, MinutesToTime(m))
	}
	return intervals, nil
}

// IsValid15MinuteInterval 判断时间是否对齐 15 分钟边界
func IsValid15MinuteInterval(t string) bool {
	m, err := TimeToMinutes(t)
	if err != nil {
		return false
	}
	return m%IntervalMinutes == 0
}
