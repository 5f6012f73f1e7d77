package model

// 用户角色
const (
	RoleStudent = "student"
	RoleStaff   = "staff"
	RoleAdmin   = "admin"
)

// 学生类型（决定日租价档位）
const (
	StudentTypeLocal         = "local"
	StudentTypeInternational = "international"
)

// User 用户表 — 对应 users
type User struct {
	UserID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name         string  `gorm:"type:varchar(100);not null"                     json:"name"`
	StudentNo    *string `gorm:"type:varchar(20)"                               json:"student_no,omitempty"`
	Email        string  `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string  `gorm:"type:varchar(20);not null;default:'student'"    json:"role"`
	StudentType  string  `gorm:"type:varchar(20);not null;default:'local'"      json:"student_type"`
	Phone        *string `gorm:"type:varchar(20)"                               json:"phone,omitempty"`
	SoftDeleteModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// IsStudent 是否学生账号
func (u *User) IsStudent() bool { return u.Role == RoleStudent }
