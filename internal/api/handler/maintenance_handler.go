package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"hostel-portal/backend/internal/dto"
	"hostel-portal/backend/internal/service"
	"hostel-portal/backend/pkg/response"
)

// MaintenanceHandler 维修工单模块 HTTP 处理器
type MaintenanceHandler struct {
	maintenanceSvc service.MaintenanceService
}

// NewMaintenanceHandler 创建 MaintenanceHandler
func NewMaintenanceHandler(maintenanceSvc service.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{maintenanceSvc: maintenanceSvc}
}

// CreateMaintenanceRequest 学生报修
// POST /api/v1/maintenance
func (h *MaintenanceHandler) CreateMaintenanceRequest(c *gin.Context) {
	var req dto.CreateMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	request, err := h.maintenanceSvc.Create(c.Request.Context(), studentID, &req)
	if err != nil {
		h.handleMaintenanceError(c, err)
		return
	}

	response.Created(c, request)
}

// ListMaintenanceRequests 获取工单列表（员工端，可按状态过滤）
// GET /api/v1/maintenance?status=open
func (h *MaintenanceHandler) ListMaintenanceRequests(c *gin.Context) {
	status := c.Query("status")
	if status != "" && status != "open" && status != "in_progress" && status != "resolved" {
		response.BadRequest(c, 10001, "status 无效")
		return
	}

	requests, err := h.maintenanceSvc.List(c.Request.Context(), status)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": requests})
}

// ListMyMaintenanceRequests 学生查看自己的工单
// GET /api/v1/maintenance/my
func (h *MaintenanceHandler) ListMyMaintenanceRequests(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	requests, err := h.maintenanceSvc.ListMy(c.Request.Context(), studentID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": requests})
}

// GetMaintenanceRequest 获取工单详情
// GET /api/v1/maintenance/:id
func (h *MaintenanceHandler) GetMaintenanceRequest(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "工单ID不能为空")
		return
	}

	request, err := h.maintenanceSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleMaintenanceError(c, err)
		return
	}

	response.OK(c, request)
}

// UpdateMaintenanceRequest 员工处理工单
// PUT /api/v1/maintenance/:id
func (h *MaintenanceHandler) UpdateMaintenanceRequest(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "工单ID不能为空")
		return
	}

	var req dto.UpdateMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	request, err := h.maintenanceSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleMaintenanceError(c, err)
		return
	}

	response.OK(c, request)
}

// handleMaintenanceError 统一处理维修工单模块业务错误
func (h *MaintenanceHandler) handleMaintenanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMaintenanceNotFound):
		response.NotFound(c, 17001, "维修工单不存在")
	case errors.Is(err, service.ErrRoomNotFound):
		response.NotFound(c, 13001, "房间不存在")
	default:
		response.InternalError(c)
	}
}
