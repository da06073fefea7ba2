package handler

import "wfm/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth          *AuthHandler
	User          *UserHandler
	Department    *DepartmentHandler
	Shift         *ShiftHandler
	BreakRule     *BreakRuleHandler
	BreakSchedule *BreakScheduleHandler
	Export        *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:          NewAuthHandler(svc.Auth),
		User:          NewUserHandler(svc.User),
		Department:    NewDepartmentHandler(svc.Department),
		Shift:         NewShiftHandler(svc.Shift),
		BreakRule:     NewBreakRuleHandler(svc.BreakRule),
		BreakSchedule: NewBreakScheduleHandler(svc.BreakSchedule, svc.Reconciler),
		Export:        NewExportHandler(svc.Export),
	}
}
