package dto

// ── 维修工单模块 DTO ──

// CreateMaintenanceRequest 学生报修请求
type CreateMaintenanceRequest struct {
	RoomID      string `json:"room_id"     binding:"required,uuid"`
	Title       string `json:"title"       binding:"required,min=2,max=200"`
	Description string `json:"description" binding:"max=2000"`
	Priority    string `json:"priority"    binding:"omitempty,oneof=low medium high"`
}

// UpdateMaintenanceRequest 员工处理工单请求
type UpdateMaintenanceRequest struct {
	Status          *string `json:"status"            binding:"omitempty,oneof=open in_progress resolved"`
	Priority        *string `json:"priority"          binding:"omitempty,oneof=low medium high"`
	AssignedStaffID *string `json:"assigned_staff_id" binding:"omitempty,uuid"`
}

// MaintenanceResponse 维修工单响应
type MaintenanceResponse struct {
	ID              string `json:"id"`
	StudentID       string `json:"student_id"`
	StudentName     string `json:"student_name,omitempty"`
	RoomID          string `json:"room_id"`
	RoomNumber      string `json:"room_number,omitempty"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	Priority        string `json:"priority"`
	Status          string `json:"status"`
	AssignedStaffID string `json:"assigned_staff_id,omitempty"`
	ResolvedAt      string `json:"resolved_at,omitempty"`
	CreatedAt       string `json:"created_at"`
}
