package dto

// ── 学期模块 DTO ──

// CreateSemesterRequest 创建学期请求
type CreateSemesterRequest struct {
	Name        string `json:"name"         binding:"required,min=2,max=100"`
	StartDate   string `json:"start_date"   binding:"required"` // "2026-09-01"
	EndDate     string `json:"end_date"     binding:"required"` // "2027-01-15"
	ApplyOpen   string `json:"apply_open"   binding:"required"` // RFC3339
	ApplyClose  string `json:"apply_close"  binding:"required"` // RFC3339
	QuotaSingle int    `json:"quota_single" binding:"min=0"`
	QuotaDouble int    `json:"quota_double" binding:"min=0"`
}

// UpdateSemesterRequest 更新学期请求
type UpdateSemesterRequest struct {
	Name        *string `json:"name"         binding:"omitempty,min=2,max=100"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	ApplyOpen   *string `json:"apply_open"`
	ApplyClose  *string `json:"apply_close"`
	QuotaSingle *int    `json:"quota_single" binding:"omitempty,min=0"`
	QuotaDouble *int    `json:"quota_double" binding:"omitempty,min=0"`
}

// SemesterResponse 学期信息响应
type SemesterResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	ApplyOpen   string `json:"apply_open"`
	ApplyClose  string `json:"apply_close"`
	IsActive    bool   `json:"is_active"`
	QuotaSingle int    `json:"quota_single"`
	QuotaDouble int    `json:"quota_double"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// QuotaResponse 学期配额使用情况响应（按学生数计）
type QuotaResponse struct {
	SemesterID string `json:"semester_id"`
	RoomType   string `json:"room_type"`
	Quota      int    `json:"quota"`
	Approved   int    `json:"approved"`
	Remaining  int    `json:"remaining"`
}
