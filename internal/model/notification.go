package model

import "time"

// 通知类型
const (
	NotificationTypeApproved     = "application_approved"
	NotificationTypeRejected     = "application_rejected"
	NotificationTypeAutoRejected = "application_auto_rejected"
	NotificationTypeReinstated   = "application_reinstated"
	NotificationTypeRoomAssigned = "room_assigned"
)

// Notification 站内通知表 — 对应 notifications
type Notification struct {
	NotificationID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"notification_id"`
	UserID         string    `gorm:"type:uuid;not null"                             json:"user_id"`
	Type           string    `gorm:"type:varchar(50);not null"                      json:"type"`
	Title          string    `gorm:"type:varchar(200);not null"                     json:"title"`
	Content        string    `gorm:"type:text;not null"                             json:"content"`
	IsRead         bool      `gorm:"not null;default:false"                         json:"is_read"`
	RelatedType    *string   `gorm:"type:varchar(20)"                               json:"related_type,omitempty"` // application | assignment | payment | maintenance
	RelatedID      *string   `gorm:"type:uuid"                                      json:"related_id,omitempty"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

// TableName 指定表名
func (Notification) TableName() string { return "notifications" }
