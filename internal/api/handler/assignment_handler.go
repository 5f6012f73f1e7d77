package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"hostel-portal/backend/internal/dto"
	"hostel-portal/backend/internal/service"
	"hostel-portal/backend/pkg/response"
)

// AssignmentHandler 入住分配模块 HTTP 处理器
type AssignmentHandler struct {
	allocSvc service.AllocationService
}

// NewAssignmentHandler 创建 AssignmentHandler
func NewAssignmentHandler(allocSvc service.AllocationService) *AssignmentHandler {
	return &AssignmentHandler{allocSvc: allocSvc}
}

// ListAssignments 获取入住分配列表（员工端，可按状态过滤）
// GET /api/v1/assignments?status=active
func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	status := c.Query("status")
	if status != "" && status != "active" && status != "completed" && status != "cancelled" {
		response.BadRequest(c, 10001, "status 无效")
		return
	}

	assignments, err := h.allocSvc.ListAssignments(c.Request.Context(), status)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": assignments})
}

// ListMyAssignments 学生查看自己的入住分配
// GET /api/v1/assignments/my
func (h *AssignmentHandler) ListMyAssignments(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	assignments, err := h.allocSvc.ListMyAssignments(c.Request.Context(), studentID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": assignments})
}

// ExpireAssignments 手动触发到期清扫（定时任务的幂等补充入口）
// POST /api/v1/assignments/expire
func (h *AssignmentHandler) ExpireAssignments(c *gin.Context) {
	count, err := h.allocSvc.ExpireAssignments(c.Request.Context(), time.Now())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, dto.ExpireResult{Completed: count})
}
