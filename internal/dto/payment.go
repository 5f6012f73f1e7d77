package dto

// ── 缴费模块 DTO ──

// UpdatePaymentStatusRequest 员工更新缴费单状态请求
type UpdatePaymentStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending completed failed refunded"`
}

// PaymentResponse 缴费单响应
type PaymentResponse struct {
	ID           string  `json:"id"`
	StudentID    string  `json:"student_id"`
	AssignmentID string  `json:"assignment_id"`
	Amount       float64 `json:"amount"`
	Period       string  `json:"period"`
	Status       string  `json:"status"`
	CreatedAt    string  `json:"created_at"`
}

// CleanupResult 缴费单清理结果
type CleanupResult struct {
	Deleted int `json:"deleted"`
}
