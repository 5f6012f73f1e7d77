package queue

import "time"

// 队列名（routing key 与队列名一致，使用默认 exchange）
const (
	QueueApplicationDecided = "application.decided"
	QueueRoomAssigned       = "room.assigned"
)

// ApplicationDecidedEvent 申请裁决事件
// 批准、拒绝、自动拒绝、复活都会投递此事件，供消息推送等下游消费
type ApplicationDecidedEvent struct {
	ApplicationID string    `json:"application_id"`
	StudentID     string    `json:"student_id"`
	SemesterID    string    `json:"semester_id"`
	RoomType      string    `json:"room_type"`
	Status        string    `json:"status"` // pending(复活) | approved | rejected
	Reason        string    `json:"reason,omitempty"`
	AutoRejected  bool      `json:"auto_rejected"`
	DecidedAt     time.Time `json:"decided_at"`
}

// RoomAssignedEvent 房间分配事件
type RoomAssignedEvent struct {
	AssignmentID  string    `json:"assignment_id"`
	ApplicationID string    `json:"application_id"`
	StudentID     string    `json:"student_id"`
	RoomID        string    `json:"room_id"`
	RoomNumber    string    `json:"room_number"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	Amount        float64   `json:"amount"`
	AssignedAt    time.Time `json:"assigned_at"`
}
