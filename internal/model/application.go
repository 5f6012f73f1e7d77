package model

import "time"

// 申请状态
const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusApproved = "approved"
	ApplicationStatusRejected = "rejected"
)

// 系统自动拒绝的机器原因码（对外展示时由前端本地化）
const (
	RejectReasonQuotaReached    = "quota reached"
	RejectReasonNoRoomAvailable = "no room available"
)

// Application 住宿申请表 — 对应 applications
// 不变量：同一学生同时至多存在一条非 rejected 的申请
type Application struct {
	ApplicationID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"application_id"`
	StudentID       string    `gorm:"type:uuid;not null"                             json:"student_id"`
	SemesterID      string    `gorm:"type:uuid;not null"                             json:"semester_id"`
	RoomType        string    `gorm:"type:varchar(10);not null"                      json:"room_type"` // single | double
	Status          string    `gorm:"type:varchar(10);not null;default:'pending'"    json:"status"`    // pending | approved | rejected
	StartDate       time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate         time.Time `gorm:"type:date;not null"                             json:"end_date"`
	IsAutoRejected  bool      `gorm:"not null;default:false"                         json:"is_auto_rejected"`
	RejectionReason *string   `gorm:"type:varchar(255)"                              json:"rejection_reason,omitempty"`
	DateApplied     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"date_applied"`
	BaseModel

	// 关联
	Student  *User     `gorm:"foreignKey:StudentID;references:UserID"        json:"student,omitempty"`
	Semester *Semester `gorm:"foreignKey:SemesterID;references:SemesterID"   json:"semester,omitempty"`
}

// TableName 指定表名
func (Application) TableName() string { return "applications" }
