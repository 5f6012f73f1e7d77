package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"hostel-portal/backend/internal/service"
	"hostel-portal/backend/pkg/response"
)

// NotificationHandler 通知模块 HTTP 处理器
type NotificationHandler struct {
	notificationSvc service.NotificationService
}

// NewNotificationHandler 创建 NotificationHandler
func NewNotificationHandler(notificationSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationSvc: notificationSvc}
}

// ListMyNotifications 查看自己的通知
// GET /api/v1/notifications?unread_only=true
func (h *NotificationHandler) ListMyNotifications(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	unreadOnly := c.Query("unread_only") == "true"

	notifications, err := h.notificationSvc.ListMy(c.Request.Context(), userID, unreadOnly)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": notifications})
}

// MarkNotificationRead 标记通知已读
// PUT /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkNotificationRead(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "通知ID不能为空")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.notificationSvc.MarkRead(c.Request.Context(), id, userID); err != nil {
		switch {
		case errors.Is(err, service.ErrNotificationNotFound):
			response.NotFound(c, 18001, "通知不存在")
		case errors.Is(err, service.ErrNotificationNotOwned):
			response.Forbidden(c, 18002, "无权操作他人的通知")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}
