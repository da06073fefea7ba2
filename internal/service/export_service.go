package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"wfm/backend/internal/engine"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoSchedules  = errors.New("该日期暂无排休数据")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 排休总览导出为 Excel (.xlsx)：行为坐席、列为 15 分钟区间，
//     单元格为区间状态（IN/HB1/B/HB2），末行为各区间在线人数
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportDaySchedule 导出某日排休总览为 Excel
	ExportDaySchedule(ctx context.Context, date string) (*bytes.Buffer, string, error)
}

type exportService struct {
	schedules BreakScheduleService
	logger    *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(schedules BreakScheduleService, logger *zap.Logger) ExportService {
	return &exportService{schedules: schedules, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportDaySchedule — 导出某日排休总览为 Excel
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportDaySchedule(ctx context.Context, date string) (*bytes.Buffer, string, error) {
	day, err := s.schedules.GetDay(ctx, date, "")
	if err != nil {
		return nil, "", err
	}
	if len(day.Schedules) == 0 {
		return nil, "", ErrExportNoSchedules
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "排休总览"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 16)
	lastCol := colName(1 + len(day.Intervals))
	f.SetColWidth(sheetName, "B", lastCol, 7)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	breakStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#FFE699"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s — 排休总览", date))
	f.MergeCell(sheetName, "A1", cell(lastCol, 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头：坐席 | 各区间起点（仅 HH:MM）
	row := 2
	f.SetCellValue(sheetName, cell("A", row), "坐席")
	for i, iv := range day.Intervals {
		f.SetCellValue(sheetName, cell(colName(1+i), row), iv[:5])
	}
	f.SetCellStyle(sheetName, cell("A", row), cell(lastCol, row), headerStyle)

	// 坐席行
	row = 3
	for _, sched := range day.Schedules {
		f.SetCellValue(sheetName, cell("A", row), sched.Name)
		for i, iv := range day.Intervals {
			bt, ok := sched.Intervals[iv]
			if !ok {
				// 区间不在该坐席班次内
				f.SetCellValue(sheetName, cell(colName(1+i), row), "-")
				continue
			}
			c := cell(colName(1+i), row)
			f.SetCellValue(sheetName, c, string(bt))
			if bt != engine.BreakIn {
				f.SetCellStyle(sheetName, c, c, breakStyle)
			}
		}
		row++
	}

	// 末行：各区间在线人数
	f.SetCellValue(sheetName, cell("A", row), "在线人数")
	for i, iv := range day.Intervals {
		f.SetCellValue(sheetName, cell(colName(1+i), row), day.Coverage[iv])
	}
	f.SetCellStyle(sheetName, cell("A", row), cell(lastCol, row), headerStyle)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("排休总览_%s.xlsx", date)
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
