package model

// 用户角色
const (
	RoleAdmin      = "admin"      // 管理员：管理规则、审批导入
	RoleSupervisor = "supervisor" // 班组长：排休预览与应用
	RoleAgent      = "agent"      // 坐席：仅查看本人排休
)

// User 用户表 — 对应 users
type User struct {
	UserID       string  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Username     string  `gorm:"type:varchar(50);not null"                                json:"username"`
	DisplayName  string  `gorm:"type:varchar(100);not null"                               json:"display_name"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                               json:"-"`
	Role         string  `gorm:"type:varchar(20);not null;default:'agent'"                json:"role"`
	DepartmentID *string `gorm:"type:uuid"                                                json:"department_id,omitempty"`
	IsActive     bool    `gorm:"not null;default:true"                                    json:"is_active"`
	VersionedModel

	// 关联
	Department *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"department,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }
