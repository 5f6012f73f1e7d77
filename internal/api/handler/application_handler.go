package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"hostel-portal/backend/internal/dto"
	"hostel-portal/backend/internal/service"
	apperrors "hostel-portal/backend/pkg/errors"
	"hostel-portal/backend/pkg/response"
)

// ApplicationHandler 住宿申请模块 HTTP 处理器
type ApplicationHandler struct {
	allocSvc service.AllocationService
}

// NewApplicationHandler 创建 ApplicationHandler
func NewApplicationHandler(allocSvc service.AllocationService) *ApplicationHandler {
	return &ApplicationHandler{allocSvc: allocSvc}
}

// SubmitApplication 学生提交住宿申请
// POST /api/v1/applications
func (h *ApplicationHandler) SubmitApplication(c *gin.Context) {
	var req dto.SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	app, err := h.allocSvc.Submit(c.Request.Context(), studentID, &req)
	if err != nil {
		h.handleAllocationError(c, err)
		return
	}

	response.Created(c, app)
}

// ListApplications 申请列表（员工端，支持按学期/房型/状态过滤）
// GET /api/v1/applications
func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	var req dto.ApplicationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 || req.PageSize > 100 {
		req.PageSize = 20
	}

	apps, total, err := h.allocSvc.ListApplications(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, apps, total, req.Page, req.PageSize)
}

// ListMyApplications 学生查看自己的申请
// GET /api/v1/applications/my
func (h *ApplicationHandler) ListMyApplications(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	apps, err := h.allocSvc.ListMyApplications(c.Request.Context(), studentID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": apps})
}

// GetApplication 获取申请详情
// GET /api/v1/applications/:id
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "申请ID不能为空")
		return
	}

	app, err := h.allocSvc.GetApplication(c.Request.Context(), id)
	if err != nil {
		h.handleAllocationError(c, err)
		return
	}

	// 学生只能查看自己的申请
	role, ok := MustGetRole(c)
	if !ok {
		return
	}
	if role == "student" {
		userID, ok := MustGetUserID(c)
		if !ok {
			return
		}
		if app.StudentID != userID {
			response.Forbidden(c, 10003, "无权限访问")
			return
		}
	}

	response.OK(c, app)
}

// ApproveApplication 员工批准申请
// PUT /api/v1/applications/:id/approve
func (h *ApplicationHandler) ApproveApplication(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "申请ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.allocSvc.Approve(c.Request.Context(), id, callerID)
	if err != nil {
		h.handleAllocationError(c, err)
		return
	}

	response.OK(c, result)
}

// RejectApplication 员工拒绝申请
// PUT /api/v1/applications/:id/reject
func (h *ApplicationHandler) RejectApplication(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "申请ID不能为空")
		return
	}

	var req dto.RejectApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	app, err := h.allocSvc.Reject(c.Request.Context(), id, req.Reason, callerID)
	if err != nil {
		h.handleAllocationError(c, err)
		return
	}

	response.OK(c, app)
}

// AssignRoom 员工为已批准申请指派房间
// POST /api/v1/applications/:id/assign-room
func (h *ApplicationHandler) AssignRoom(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "申请ID不能为空")
		return
	}

	var req dto.AssignRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	assignment, err := h.allocSvc.AssignRoom(c.Request.Context(), id, req.RoomID, callerID)
	if err != nil {
		h.handleAllocationError(c, err)
		return
	}

	response.Created(c, assignment)
}

// handleAllocationError 统一处理分配引擎业务错误
func (h *ApplicationHandler) handleAllocationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrApplicationNotFound):
		response.NotFound(c, 12001, "申请不存在")
	case errors.Is(err, service.ErrSemesterNotFound):
		response.NotFound(c, 12002, "学期不存在")
	case errors.Is(err, service.ErrSemesterInactive):
		response.BadRequest(c, 12003, "学期未激活，不可申请")
	case errors.Is(err, service.ErrApplyWindowClosed):
		response.BadRequest(c, 12004, "不在申请窗口期内")
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 12005, "入住日期区间无效")
	case errors.Is(err, service.ErrDuplicateActiveApplication):
		response.Conflict(c, 12006, "已存在未完结的住宿申请")
	case errors.Is(err, service.ErrInvalidTransition):
		response.Conflict(c, 12007, "当前状态不允许此操作")
	case errors.Is(err, service.ErrRoomNotFound):
		response.NotFound(c, 12008, "房间不存在")
	case errors.Is(err, service.ErrRoomTypeMismatch):
		response.BadRequest(c, 12009, "房间房型与申请不符")
	case errors.Is(err, service.ErrRoomUnderMaintenance):
		response.Conflict(c, 12010, "房间维修中，不可分配")
	case errors.Is(err, service.ErrRoomCapacityExceeded):
		response.Conflict(c, 12011, "该时段房间已满")
	case errors.Is(err, service.ErrAlreadyAssigned):
		response.Conflict(c, 12012, "该申请已分配房间")
	case errors.Is(err, service.ErrOverlappingAssignment):
		response.Conflict(c, 12013, "学生在该时段已有入住分配")
	case errors.Is(err, apperrors.ErrWriteConflict):
		response.Conflict(c, 10006, "数据已被其他操作修改，请重试")
	default:
		response.InternalError(c)
	}
}
