package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"hostel-portal/backend/internal/model"
)

func setupTestDiagnosticsService() (DiagnosticsService, *testRepos) {
	repo, mocks := newTestRepository()
	return NewDiagnosticsService(repo, zap.NewNop()), mocks
}

func TestDiagnosticsSummary(t *testing.T) {
	svc, mocks := setupTestDiagnosticsService()
	sem := seedSemester(mocks, 2, 1)
	room := seedRoom(mocks, "room-201", "B-201", model.RoomTypeDouble, model.RoomStatusAvailable)
	seedApplication(mocks, "app-1", "stu-1", model.ApplicationStatusApproved, sem, model.RoomTypeDouble, time.Now())

	today := time.Now().Truncate(24 * time.Hour)
	mocks.assignments.assignments["assign-1"] = &model.RoomAssignment{
		AssignmentID: "assign-1",
		StudentID:    "stu-1",
		RoomID:       room.RoomID,
		StartDate:    today.AddDate(0, 0, -1),
		EndDate:      today.AddDate(0, 0, 30),
		Status:       model.AssignmentStatusActive,
	}
	// 级联漏网的孤儿缴费单
	cancelled := &model.RoomAssignment{
		AssignmentID: "assign-2",
		StudentID:    "stu-2",
		RoomID:       room.RoomID,
		Status:       model.AssignmentStatusCancelled,
		StartDate:    today.AddDate(0, 0, -60),
		EndDate:      today.AddDate(0, 0, -30),
	}
	mocks.assignments.assignments[cancelled.AssignmentID] = cancelled
	mocks.payments.payments["pay-orphan"] = &model.Payment{
		PaymentID:    "pay-orphan",
		StudentID:    "stu-2",
		AssignmentID: cancelled.AssignmentID,
		Amount:       100,
		Status:       model.PaymentStatusPending,
	}

	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary 应成功: %v", err)
	}

	if len(summary.Rooms) != 1 {
		t.Fatalf("期望 1 间房的占用信息，实际=%d", len(summary.Rooms))
	}
	if summary.Rooms[0].Occupied != 1 || summary.Rooms[0].Capacity != 2 {
		t.Errorf("期望占用 1/2，实际=%d/%d", summary.Rooms[0].Occupied, summary.Rooms[0].Capacity)
	}

	// 每学期两个房型各一条配额记录
	if len(summary.Quotas) != 2 {
		t.Fatalf("期望 2 条配额记录，实际=%d", len(summary.Quotas))
	}
	for _, q := range summary.Quotas {
		switch q.RoomType {
		case model.RoomTypeSingle:
			if q.Quota != 2 || q.Approved != 0 || q.Remaining != 2 {
				t.Errorf("单人间配额不符：quota=%d approved=%d remaining=%d", q.Quota, q.Approved, q.Remaining)
			}
		case model.RoomTypeDouble:
			// 双人间配额按房间数折算学生数 1×2=2
			if q.Quota != 2 || q.Approved != 1 || q.Remaining != 1 {
				t.Errorf("双人间配额不符：quota=%d approved=%d remaining=%d", q.Quota, q.Approved, q.Remaining)
			}
		}
	}

	if summary.OrphanedPayments != 1 {
		t.Errorf("期望 1 张孤儿缴费单，实际=%d", summary.OrphanedPayments)
	}
}

func TestDiagnosticsSummaryEmpty(t *testing.T) {
	svc, _ := setupTestDiagnosticsService()

	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary 应成功: %v", err)
	}
	if len(summary.Rooms) != 0 || len(summary.Quotas) != 0 || summary.OrphanedPayments != 0 {
		t.Errorf("空库诊断应全为零值")
	}
}
