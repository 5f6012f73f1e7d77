package dto

// ── 入住分配模块 DTO ──

// AssignmentResponse 入住分配响应
type AssignmentResponse struct {
	ID            string `json:"id"`
	StudentID     string `json:"student_id"`
	StudentName   string `json:"student_name,omitempty"`
	RoomID        string `json:"room_id"`
	RoomNumber    string `json:"room_number,omitempty"`
	ApplicationID string `json:"application_id"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	CreatedAt     string `json:"created_at"`
}

// ExpireResult 到期清扫结果
type ExpireResult struct {
	Completed int `json:"completed"`
}
