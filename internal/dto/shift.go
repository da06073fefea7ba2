package dto

// ── 班次模块 DTO ──

// CreateShiftTypeRequest 创建班次类型请求（时间为 HH:MM:SS，须对齐 15 分钟）
type CreateShiftTypeRequest struct {
	Name      string `json:"name"       binding:"required,max=50"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time"   binding:"required"`
}

// UpdateShiftTypeRequest 更新班次类型请求（指针字段：nil 表示不修改）
type UpdateShiftTypeRequest struct {
	Name      *string `json:"name"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
}

// ShiftTypeResponse 班次类型响应
type ShiftTypeResponse struct {
	ShiftTypeID string `json:"shift_type_id"`
	Name        string `json:"name"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// AssignShiftRequest 为坐席指派某日班次
type AssignShiftRequest struct {
	UserID      string `json:"user_id"       binding:"required"`
	ShiftDate   string `json:"shift_date"    binding:"required"`
	ShiftTypeID string `json:"shift_type_id" binding:"required"`
}

// BatchAssignShiftRequest 批量指派班次
type BatchAssignShiftRequest struct {
	Assignments []AssignShiftRequest `json:"assignments" binding:"required,min=1,dive"`
}

// AgentShiftResponse 坐席排班响应
type AgentShiftResponse struct {
	AgentShiftID string  `json:"agent_shift_id"`
	UserID       string  `json:"user_id"`
	DisplayName  string  `json:"display_name"`
	ShiftDate    string  `json:"shift_date"`
	ShiftType    string  `json:"shift_type"`
	ShiftStart   string  `json:"shift_start"`
	ShiftEnd     string  `json:"shift_end"`
	Department   *string `json:"department_id,omitempty"`
}
