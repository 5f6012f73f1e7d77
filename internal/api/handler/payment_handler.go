package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"hostel-portal/backend/internal/dto"
	"hostel-portal/backend/internal/service"
	"hostel-portal/backend/pkg/response"
)

// PaymentHandler 缴费模块 HTTP 处理器
type PaymentHandler struct {
	paymentSvc service.PaymentService
}

// NewPaymentHandler 创建 PaymentHandler
func NewPaymentHandler(paymentSvc service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc}
}

// ListPayments 获取缴费单列表（员工端，可按状态过滤）
// GET /api/v1/payments?status=pending
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	status := c.Query("status")
	if status != "" && status != "pending" && status != "completed" && status != "failed" && status != "refunded" {
		response.BadRequest(c, 10001, "status 无效")
		return
	}

	payments, err := h.paymentSvc.List(c.Request.Context(), status)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": payments})
}

// ListMyPayments 学生查看自己的缴费单
// GET /api/v1/payments/my
func (h *PaymentHandler) ListMyPayments(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	payments, err := h.paymentSvc.ListMy(c.Request.Context(), studentID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": payments})
}

// GetPayment 获取缴费单详情
// GET /api/v1/payments/:id
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "缴费单ID不能为空")
		return
	}

	payment, err := h.paymentSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handlePaymentError(c, err)
		return
	}

	// 学生只能查看自己的缴费单
	role, ok := MustGetRole(c)
	if !ok {
		return
	}
	if role == "student" {
		userID, ok := MustGetUserID(c)
		if !ok {
			return
		}
		if payment.StudentID != userID {
			response.Forbidden(c, 10003, "无权限访问")
			return
		}
	}

	response.OK(c, payment)
}

// UpdatePaymentStatus 员工登记缴费结果
// PUT /api/v1/payments/:id/status
func (h *PaymentHandler) UpdatePaymentStatus(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "缴费单ID不能为空")
		return
	}

	var req dto.UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	payment, err := h.paymentSvc.UpdateStatus(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handlePaymentError(c, err)
		return
	}

	response.OK(c, payment)
}

// CleanupPayments 清理孤儿缴费单
// POST /api/v1/payments/cleanup
func (h *PaymentHandler) CleanupPayments(c *gin.Context) {
	result, err := h.paymentSvc.Cleanup(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// handlePaymentError 统一处理缴费模块业务错误
func (h *PaymentHandler) handlePaymentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPaymentNotFound):
		response.NotFound(c, 16001, "缴费单不存在")
	default:
		response.InternalError(c)
	}
}
