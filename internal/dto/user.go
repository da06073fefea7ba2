package dto

// ── 用户模块 DTO ──

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	Username     string  `json:"username"      binding:"required,min=3,max=50"`
	DisplayName  string  `json:"display_name"  binding:"required,max=100"`
	Password     string  `json:"password"      binding:"required,min=8"`
	Role         string  `json:"role"          binding:"required,oneof=admin supervisor agent"`
	DepartmentID *string `json:"department_id"`
}

// UpdateUserRequest 更新用户请求（指针字段：nil 表示不修改）
type UpdateUserRequest struct {
	DisplayName  *string `json:"display_name"`
	Role         *string `json:"role"`
	DepartmentID *string `json:"department_id"`
	IsActive     *bool   `json:"is_active"`
}

// UserResponse 用户信息响应
type UserResponse struct {
	UserID       string  `json:"user_id"`
	Username     string  `json:"username"`
	DisplayName  string  `json:"display_name"`
	Role         string  `json:"role"`
	DepartmentID *string `json:"department_id,omitempty"`
	Department   string  `json:"department,omitempty"`
	IsActive     bool    `json:"is_active"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

// ListUsersQuery 用户列表查询参数
type ListUsersQuery struct {
	Page       int    `form:"page,default=1"       binding:"min=1"`
	PageSize   int    `form:"page_size,default=20" binding:"min=1,max=100"`
	Department string `form:"department"`
	Keyword    string `form:"keyword"`
}
