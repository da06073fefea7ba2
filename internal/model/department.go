package model

// Department 部门表 — 对应 departments
type Department struct {
	DepartmentID string `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"department_id"`
	Name         string `gorm:"type:varchar(100);not null"                               json:"name"`
	Description  string `gorm:"type:text"                                                json:"description"`
	VersionedModel
}

// TableName 指定表名
func (Department) TableName() string { return "departments" }
