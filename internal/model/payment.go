package model

// 缴费单状态
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// Payment 缴费单表 — 对应 payments
// 随入住分配创建；归属申请被拒绝时随分配一并删除
type Payment struct {
	PaymentID    string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"payment_id"`
	StudentID    string  `gorm:"type:uuid;not null"                             json:"student_id"`
	AssignmentID string  `gorm:"type:uuid;not null"                             json:"assignment_id"`
	Amount       float64 `gorm:"type:numeric(10,2);not null"                    json:"amount"`
	Period       string  `gorm:"type:varchar(100);not null"                     json:"period"`
	Status       string  `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"` // pending | completed | failed | refunded
	BaseModel

	// 关联
	Assignment *RoomAssignment `gorm:"foreignKey:AssignmentID;references:AssignmentID" json:"assignment,omitempty"`
}

// TableName 指定表名
func (Payment) TableName() string { return "payments" }
