package model

import "time"

// 维修工单优先级
const (
	MaintenancePriorityLow    = "low"
	MaintenancePriorityMedium = "medium"
	MaintenancePriorityHigh   = "high"
)

// 维修工单状态
const (
	MaintenanceStatusOpen       = "open"
	MaintenanceStatusInProgress = "in_progress"
	MaintenanceStatusResolved   = "resolved"
)

// MaintenanceRequest 维修工单表 — 对应 maintenance_requests
type MaintenanceRequest struct {
	RequestID       string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"request_id"`
	StudentID       string     `gorm:"type:uuid;not null"                             json:"student_id"`
	RoomID          string     `gorm:"type:uuid;not null"                             json:"room_id"`
	Title           string     `gorm:"type:varchar(200);not null"                     json:"title"`
	Description     string     `gorm:"type:text"                                      json:"description,omitempty"`
	Priority        string     `gorm:"type:varchar(10);not null;default:'medium'"     json:"priority"` // low | medium | high
	Status          string     `gorm:"type:varchar(20);not null;default:'open'"       json:"status"`   // open | in_progress | resolved
	AssignedStaffID *string    `gorm:"type:uuid"                                      json:"assigned_staff_id,omitempty"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	BaseModel

	// 关联
	Student *User `gorm:"foreignKey:StudentID;references:UserID"        json:"student,omitempty"`
	Room    *Room `gorm:"foreignKey:RoomID;references:RoomID"           json:"room,omitempty"`
	Staff   *User `gorm:"foreignKey:AssignedStaffID;references:UserID"  json:"staff,omitempty"`
}

// TableName 指定表名
func (MaintenanceRequest) TableName() string { return "maintenance_requests" }
