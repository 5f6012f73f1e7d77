package model

import "time"

// 入住分配状态
const (
	AssignmentStatusActive    = "active"
	AssignmentStatusCompleted = "completed"
	AssignmentStatusCancelled = "cancelled"
)

// 分配的缴费状态
const (
	AssignmentPaymentPending = "pending"
	AssignmentPaymentPaid    = "paid"
)

// RoomAssignment 入住分配表 — 对应 room_assignments
// 与 Application 一对一，归属申请被拒绝时级联取消
// 不变量：同一房间任一时段内 active 分配数不超过房间容量
type RoomAssignment struct {
	AssignmentID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_id"`
	StudentID     string    `gorm:"type:uuid;not null"                             json:"student_id"`
	RoomID        string    `gorm:"type:uuid;not null"                             json:"room_id"`
	ApplicationID string    `gorm:"type:uuid;not null;uniqueIndex"                 json:"application_id"`
	StartDate     time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate       time.Time `gorm:"type:date;not null"                             json:"end_date"`
	Status        string    `gorm:"type:varchar(20);not null;default:'active'"     json:"status"`         // active | completed | cancelled
	PaymentStatus string    `gorm:"type:varchar(20);not null;default:'pending'"    json:"payment_status"` // pending | paid
	BaseModel

	// 关联
	Student     *User        `gorm:"foreignKey:StudentID;references:UserID"              json:"student,omitempty"`
	Room        *Room        `gorm:"foreignKey:RoomID;references:RoomID"                 json:"room,omitempty"`
	Application *Application `gorm:"foreignKey:ApplicationID;references:ApplicationID"   json:"application,omitempty"`
}

// TableName 指定表名
func (RoomAssignment) TableName() string { return "room_assignments" }

// Overlaps 判断分配区间与 [start, end) 是否重叠
// 重叠判定：existing.start < end AND existing.end > start
func (a *RoomAssignment) Overlaps(start, end time.Time) bool {
	return a.StartDate.Before(end) && a.EndDate.After(start)
}
