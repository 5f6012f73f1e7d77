package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"hostel-portal/backend/internal/model"
)

func setupTestNotificationService() (NotificationService, *testRepos) {
	repo, mocks := newTestRepository()
	return NewNotificationService(repo, zap.NewNop()), mocks
}

func seedNotification(mocks *testRepos, id, userID string, read bool) *model.Notification {
	n := &model.Notification{
		NotificationID: id,
		UserID:         userID,
		Type:           model.NotificationTypeApproved,
		Title:          "住宿申请已批准",
		Content:        "您的住宿申请已批准，请等待宿管分配房间。",
		IsRead:         read,
	}
	mocks.notifications.notifications[id] = n
	return n
}

func TestListMyNotifications(t *testing.T) {
	svc, mocks := setupTestNotificationService()
	seedNotification(mocks, "ntf-1", "stu-1", false)
	seedNotification(mocks, "ntf-2", "stu-1", true)
	seedNotification(mocks, "ntf-3", "stu-2", false)

	all, err := svc.ListMy(context.Background(), "stu-1", false)
	if err != nil {
		t.Fatalf("ListMy 应成功: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("期望本人 2 条通知，实际=%d", len(all))
	}

	unread, err := svc.ListMy(context.Background(), "stu-1", true)
	if err != nil {
		t.Fatalf("ListMy 应成功: %v", err)
	}
	if len(unread) != 1 || unread[0].ID != "ntf-1" {
		t.Errorf("期望仅 1 条未读，实际=%d", len(unread))
	}
}

func TestMarkNotificationRead(t *testing.T) {
	svc, mocks := setupTestNotificationService()
	n := seedNotification(mocks, "ntf-1", "stu-1", false)

	if err := svc.MarkRead(context.Background(), n.NotificationID, "stu-1"); err != nil {
		t.Fatalf("MarkRead 应成功: %v", err)
	}
	if !mocks.notifications.notifications[n.NotificationID].IsRead {
		t.Errorf("通知应被标记为已读")
	}
}

func TestMarkReadOwnership(t *testing.T) {
	svc, mocks := setupTestNotificationService()
	n := seedNotification(mocks, "ntf-1", "stu-1", false)

	if err := svc.MarkRead(context.Background(), n.NotificationID, "stu-2"); !errors.Is(err, ErrNotificationNotOwned) {
		t.Errorf("他人通知应报 ErrNotificationNotOwned，实际=%v", err)
	}
	if err := svc.MarkRead(context.Background(), "ntf-missing", "stu-1"); !errors.Is(err, ErrNotificationNotFound) {
		t.Errorf("期望 ErrNotificationNotFound，实际=%v", err)
	}
}
