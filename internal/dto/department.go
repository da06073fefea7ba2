package dto

// ── 部门模块 DTO ──

// CreateDepartmentRequest 创建部门请求
type CreateDepartmentRequest struct {
	Name        string `json:"name"        binding:"required,max=100"`
	Description string `json:"description"`
}

// UpdateDepartmentRequest 更新部门请求
type UpdateDepartmentRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// DepartmentResponse 部门信息响应
type DepartmentResponse struct {
	DepartmentID string `json:"department_id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	MemberCount  int64  `json:"member_count"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}
