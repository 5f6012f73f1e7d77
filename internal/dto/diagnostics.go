package dto

// ── 诊断模块 DTO（只读查询面） ──

// RoomOccupancy 单个房间的当前占用情况
type RoomOccupancy struct {
	RoomID     string `json:"room_id"`
	RoomNumber string `json:"room_number"`
	RoomType   string `json:"room_type"`
	Status     string `json:"status"`
	Capacity   int    `json:"capacity"`
	Occupied   int    `json:"occupied"`
}

// QuotaUsage 单个学期、单个房型的配额使用情况
type QuotaUsage struct {
	SemesterID   string `json:"semester_id"`
	SemesterName string `json:"semester_name"`
	RoomType     string `json:"room_type"`
	Quota        int    `json:"quota"`
	Approved     int    `json:"approved"`
	Remaining    int    `json:"remaining"`
}

// DiagnosticsSummary 系统诊断汇总
type DiagnosticsSummary struct {
	Rooms            []RoomOccupancy `json:"rooms"`
	Quotas           []QuotaUsage    `json:"quotas"`
	OrphanedPayments int             `json:"orphaned_payments"`
}
