package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"hostel-portal/backend/internal/dto"
	"hostel-portal/backend/internal/service"
	"hostel-portal/backend/pkg/response"
)

// RoomHandler 房间模块 HTTP 处理器
type RoomHandler struct {
	roomSvc  service.RoomService
	allocSvc service.AllocationService
}

// NewRoomHandler 创建 RoomHandler
func NewRoomHandler(roomSvc service.RoomService, allocSvc service.AllocationService) *RoomHandler {
	return &RoomHandler{roomSvc: roomSvc, allocSvc: allocSvc}
}

// ListRooms 获取房间列表（可按房型过滤）
// GET /api/v1/rooms?room_type=single
func (h *RoomHandler) ListRooms(c *gin.Context) {
	roomType := c.Query("room_type")
	if roomType != "" && roomType != "single" && roomType != "double" {
		response.BadRequest(c, 10001, "room_type 必须为 single 或 double")
		return
	}

	rooms, err := h.roomSvc.List(c.Request.Context(), roomType)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": rooms})
}

// GetRoomAvailability 查询房型在指定时段的空余席位数
// GET /api/v1/rooms/availability?room_type=double&start_date=2026-09-01&end_date=2027-01-15
func (h *RoomHandler) GetRoomAvailability(c *gin.Context) {
	roomType := c.Query("room_type")
	if roomType != "single" && roomType != "double" {
		response.BadRequest(c, 10001, "room_type 必须为 single 或 double")
		return
	}
	start, end, ok := parseDateRange(c)
	if !ok {
		return
	}

	slots, err := h.allocSvc.AvailableCapacity(c.Request.Context(), roomType, start, end)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, dto.AvailabilityResponse{
		RoomType:       roomType,
		StartDate:      start.Format("2006-01-02"),
		EndDate:        end.Format("2006-01-02"),
		AvailableSlots: slots,
	})
}

// GetRoom 获取房间详情
// GET /api/v1/rooms/:id
func (h *RoomHandler) GetRoom(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "房间ID不能为空")
		return
	}

	room, err := h.roomSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleRoomError(c, err)
		return
	}

	response.OK(c, room)
}

// GetRoomFull 查询房间在指定时段是否满员
// GET /api/v1/rooms/:id/full?start_date=2026-09-01&end_date=2027-01-15
func (h *RoomHandler) GetRoomFull(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "房间ID不能为空")
		return
	}
	start, end, ok := parseDateRange(c)
	if !ok {
		return
	}

	full, err := h.allocSvc.IsRoomFullForPeriod(c.Request.Context(), id, start, end)
	if err != nil {
		h.handleRoomError(c, err)
		return
	}

	response.OK(c, dto.RoomFullResponse{
		RoomID:    id,
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
		Full:      full,
	})
}

// CreateRoom 创建房间
// POST /api/v1/rooms
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	room, err := h.roomSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleRoomError(c, err)
		return
	}

	response.Created(c, room)
}

// UpdateRoom 更新房间
// PUT /api/v1/rooms/:id
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "房间ID不能为空")
		return
	}

	var req dto.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	room, err := h.roomSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleRoomError(c, err)
		return
	}

	response.OK(c, room)
}

// DeleteRoom 删除房间
// DELETE /api/v1/rooms/:id
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "房间ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.roomSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleRoomError(c, err)
		return
	}

	response.OK(c, nil)
}

// parseDateRange 从 query 中解析 start_date / end_date
func parseDateRange(c *gin.Context) (time.Time, time.Time, bool) {
	start, err := time.Parse("2006-01-02", c.Query("start_date"))
	if err != nil {
		response.BadRequest(c, 10001, "start_date 格式无效")
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse("2006-01-02", c.Query("end_date"))
	if err != nil {
		response.BadRequest(c, 10001, "end_date 格式无效")
		return time.Time{}, time.Time{}, false
	}
	if end.Before(start) {
		response.BadRequest(c, 10001, "end_date 不能早于 start_date")
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// handleRoomError 统一处理房间模块业务错误
func (h *RoomHandler) handleRoomError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRoomNotFound):
		response.NotFound(c, 13001, "房间不存在")
	case errors.Is(err, service.ErrRoomNumberTaken):
		response.Conflict(c, 13002, "房间号已存在")
	case errors.Is(err, service.ErrRoomHasOccupants):
		response.Conflict(c, 13003, "房间存在在住分配，不可删除")
	case errors.Is(err, service.ErrRoomStatusForbidden):
		response.BadRequest(c, 13004, "occupied 状态由系统重算，不可手工设置")
	default:
		response.InternalError(c)
	}
}
