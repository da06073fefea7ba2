package engine

import (
	"reflect"
	"testing"
)

func TestTimeToMinutes_Basic(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"00:00:00", 0},
		{"09:00:00", 540},
		{"09:15:00", 555},
		{"23:45:00", 1425},
		{"09:30", 570}, // HH:MM 也可解析
	}
	for _, c := range cases {
		got, err := TimeToMinutes(c.in)
		if err != nil {
			t.Errorf("TimeToMinutes(%q) 不应报错: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("TimeToMinutes(%q) 期望 %d，实际 %d", c.in, c.want, got)
		}
	}
}

func TestTimeToMinutes_Malformed(t *testing.T) {
	for _, in := range []string{"", "abc", "25:00:00", "09:75:00", "9点半"} {
		if _, err := TimeToMinutes(in); err == nil {
			t.Errorf("TimeToMinutes(%q) 应报错", in)
		}
	}
}

func TestMinutesToTime_RoundTrip(t *testing.T) {
	// 全量遍历所有 15 分钟对齐的时刻
	for m := 0; m < 24*60; m += 15 {
		s := MinutesToTime(m)
		got, err := TimeToMinutes(s)
		if err != nil {
			t.Fatalf("TimeToMinutes(%q) 不应报错: %v", s, err)
		}
		if got != m {
			t.Errorf("往返失败：%d -> %q -> %d", m, s, got)
		}
		if !IsValid15MinuteInterval(s) {
			t.Errorf("%q 应对齐 15 分钟", s)
		}
	}
}

func TestMinutesToTime_SecondsAlwaysZero(t *testing.T) {
	if got := MinutesToTime(555); got != "09:15:00" {
		t.Errorf("期望 09:15:00，实际 %s", got)
	}
}

func TestGenerateIntervals_Deterministic(t *testing.T) {
	got, err := GenerateIntervals("09:00:00", "09:45:00")
	if err != nil {
		t.Fatalf("GenerateIntervals 不应报错: %v", err)
	}
	want := []string{"09:00:00", "09:15:00", "09:30:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("期望 %v，实际 %v", want, got)
	}
}

func TestGenerateIntervals_EmptyWhenEndBeforeStart(t *testing.T) {
	for _, c := range [][2]string{{"10:00:00", "10:00:00"}, {"10:00:00", "09:00:00"}} {
		got, err := GenerateIntervals(c[0], c[1])
		if err != nil {
			t.Fatalf("GenerateIntervals 不应报错: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("GenerateIntervals(%q, %q) 应为空，实际 %v", c[0], c[1], got)
		}
	}
}

func TestIsValid15MinuteInterval(t *testing.T) {
	if !IsValid15MinuteInterval("09:45:00") {
		t.Error("09:45:00 应合法")
	}
	if IsValid15MinuteInterval("09:10:00") {
		t.Error("09:10:00 不应合法")
	}
	if IsValid15MinuteInterval("乱码") {
		t.Error("非法字符串不应合法")
	}
}
