package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func setupTestExportService(t *testing.T) (ExportService, BreakScheduleService, *mockAgentShiftRepo) {
	t.Helper()
	repo := newTestRepository()
	rules := NewBreakRuleService(repo, zap.NewNop())
	schedules := NewBreakScheduleService(repo, rules, 0, zap.NewNop())
	svc := NewExportService(schedules, zap.NewNop())
	return svc, schedules, repo.AgentShift.(*mockAgentShiftRepo)
}

func TestExportService_ExportDaySchedule_NoSchedules(t *testing.T) {
	svc, _, _ := setupTestExportService(t)

	_, _, err := svc.ExportDaySchedule(context.Background(), testDateStr)
	if !errors.Is(err, ErrExportNoSchedules) {
		t.Errorf("期望 ErrExportNoSchedules，实际: %v", err)
	}
}

func TestExportService_ExportDaySchedule_InvalidDate(t *testing.T) {
	svc, _, _ := setupTestExportService(t)

	if _, _, err := svc.ExportDaySchedule(context.Background(), "03/02/2026"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("期望 ErrInvalidDate，实际: %v", err)
	}
}

func TestExportService_ExportDaySchedule_Success(t *testing.T) {
	repo := newTestRepository()
	rules := NewBreakRuleService(repo, zap.NewNop())
	schedules := NewBreakScheduleService(repo, rules, 0, zap.NewNop())
	svc := NewExportService(schedules, zap.NewNop())
	seedShiftAgent(t, repo, "u-01", "张三", "09:00:00", "17:00:00")

	buf, filename, err := svc.ExportDaySchedule(context.Background(), testDateStr)
	if err != nil {
		t.Fatalf("导出失败: %v", err)
	}
	if !strings.HasSuffix(filename, ".xlsx") || !strings.Contains(filename, testDateStr) {
		t.Errorf("文件名不符: %s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("导出文件无法解析: %v", err)
	}
	defer f.Close()

	// 表头含坐席列与首区间起点
	name, _ := f.GetCellValue("排休总览", "A2")
	if name != "坐席" {
		t.Errorf("期望 A2=坐席，实际=%s", name)
	}
	first, _ := f.GetCellValue("排休总览", "B2")
	if first != "09:00" {
		t.Errorf("期望 B2=09:00，实际=%s", first)
	}
	agent, _ := f.GetCellValue("排休总览", "A3")
	if agent != "张三" {
		t.Errorf("期望 A3=张三，实际=%s", agent)
	}
	// 无休息分配时全部区间为 IN，末行在线人数为 1
	state, _ := f.GetCellValue("排休总览", "B3")
	if state != "IN" {
		t.Errorf("期望 B3=IN，实际=%s", state)
	}
	online, _ := f.GetCellValue("排休总览", "B4")
	if online != "1" {
		t.Errorf("期望 B4=1，实际=%s", online)
	}
}
