package dto

// ── 住宿申请模块 DTO ──

// SubmitApplicationRequest 提交住宿申请请求
// 起止日期缺省时取学期的起止日期
type SubmitApplicationRequest struct {
	SemesterID string `json:"semester_id" binding:"required,uuid"`
	RoomType   string `json:"room_type"   binding:"required,oneof=single double"`
	StartDate  string `json:"start_date"  binding:"omitempty"` // "2026-09-01"
	EndDate    string `json:"end_date"    binding:"omitempty"`
}

// RejectApplicationRequest 员工拒绝申请请求
type RejectApplicationRequest struct {
	Reason string `json:"reason" binding:"required,max=255"`
}

// AssignRoomRequest 员工指派房间请求
type AssignRoomRequest struct {
	RoomID string `json:"room_id" binding:"required,uuid"`
}

// ApplicationListRequest 申请列表查询（员工端）
type ApplicationListRequest struct {
	SemesterID string `form:"semester_id" binding:"omitempty,uuid"`
	RoomType   string `form:"room_type"   binding:"omitempty,oneof=single double"`
	Status     string `form:"status"      binding:"omitempty,oneof=pending approved rejected"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

// ApplicationResponse 住宿申请响应
type ApplicationResponse struct {
	ID              string `json:"id"`
	StudentID       string `json:"student_id"`
	StudentName     string `json:"student_name,omitempty"`
	SemesterID      string `json:"semester_id"`
	SemesterName    string `json:"semester_name,omitempty"`
	RoomType        string `json:"room_type"`
	Status          string `json:"status"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	IsAutoRejected  bool   `json:"is_auto_rejected"`
	RejectionReason string `json:"rejection_reason,omitempty"`
	DateApplied     string `json:"date_applied"`
}

// ApproveResult 批准操作结果
// 配额或房源在复核时已耗尽的话，申请会被自动拒绝并在 Reason 中给出具体原因
type ApproveResult struct {
	ApplicationID string `json:"application_id"`
	Status        string `json:"status"` // approved | rejected
	Reason        string `json:"reason,omitempty"`
}
