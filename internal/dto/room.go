package dto

// ── 房间模块 DTO ──

// CreateRoomRequest 创建房间请求
type CreateRoomRequest struct {
	RoomNumber  string `json:"room_number" binding:"required,max=20"`
	RoomType    string `json:"room_type"   binding:"required,oneof=single double"`
	Floor       string `json:"floor"       binding:"omitempty,max=10"`
	Description string `json:"description"`
}

// UpdateRoomRequest 更新房间请求
type UpdateRoomRequest struct {
	RoomNumber  *string `json:"room_number" binding:"omitempty,max=20"`
	Status      *string `json:"status"      binding:"omitempty,oneof=available occupied maintenance"`
	Floor       *string `json:"floor"       binding:"omitempty,max=10"`
	Description *string `json:"description"`
}

// RoomResponse 房间信息响应
type RoomResponse struct {
	ID          string `json:"id"`
	RoomNumber  string `json:"room_number"`
	RoomType    string `json:"room_type"`
	Status      string `json:"status"`
	Capacity    int    `json:"capacity"`
	Floor       string `json:"floor,omitempty"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// AvailabilityResponse 房型可用容量响应（席位粒度）
type AvailabilityResponse struct {
	RoomType       string `json:"room_type"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	AvailableSlots int    `json:"available_slots"`
}

// RoomFullResponse 房间满员查询响应
type RoomFullResponse struct {
	RoomID    string `json:"room_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Full      bool   `json:"full"`
}
