package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"hostel-portal/backend/internal/dto"
	"hostel-portal/backend/internal/model"
	"hostel-portal/backend/internal/repository"
)

// ── 通知模块业务错误 ──

var (
	ErrNotificationNotFound = errors.New("通知不存在")
	ErrNotificationNotOwned = errors.New("无权操作他人的通知")
)

// NotificationService 站内通知业务接口
// 通知的写入发生在分配引擎的事务内，这里只提供读取与已读标记
type NotificationService interface {
	ListMy(ctx context.Context, userID string, unreadOnly bool) ([]dto.NotificationResponse, error)
	MarkRead(ctx context.Context, id, userID string) error
}

type notificationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewNotificationService 创建 NotificationService 实例
func NewNotificationService(repo *repository.Repository, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, logger: logger}
}

func (s *notificationService) ListMy(ctx context.Context, userID string, unreadOnly bool) ([]dto.NotificationResponse, error) {
	notifications, err := s.repo.Notification.ListByUser(ctx, userID, unreadOnly)
	if err != nil {
		s.logger.Error("查询通知失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		result = append(result, toNotificationResponse(&notifications[i]))
	}
	return result, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID string) error {
	notification, err := s.repo.Notification.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		s.logger.Error("查询通知失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if notification.UserID != userID {
		return ErrNotificationNotOwned
	}

	if err := s.repo.Notification.MarkRead(ctx, id); err != nil {
		s.logger.Error("标记通知已读失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func toNotificationResponse(n *model.Notification) dto.NotificationResponse {
	resp := dto.NotificationResponse{
		ID:        n.NotificationID,
		Type:      n.Type,
		Title:     n.Title,
		Content:   n.Content,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
	if n.RelatedType != nil {
		resp.RelatedType = *n.RelatedType
	}
	if n.RelatedID != nil {
		resp.RelatedID = *n.RelatedID
	}
	return resp
}
