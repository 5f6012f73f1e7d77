package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"hostel-portal/backend/internal/dto"
	"hostel-portal/backend/internal/model"
)

func setupTestSemesterService() (SemesterService, *testRepos) {
	repo, mocks := newTestRepository()
	return NewSemesterService(repo, zap.NewNop()), mocks
}

func TestCreateSemester(t *testing.T) {
	svc, _ := setupTestSemesterService()

	resp, err := svc.Create(context.Background(), &dto.CreateSemesterRequest{
		Name:        "2026 秋季学期",
		StartDate:   "2026-09-01",
		EndDate:     "2027-01-15",
		ApplyOpen:   "2026-08-01T00:00:00Z",
		ApplyClose:  "2026-08-25T23:59:59Z",
		QuotaSingle: 10,
		QuotaDouble: 5,
	}, "admin-1")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if resp.Name != "2026 秋季学期" {
		t.Errorf("期望Name=2026 秋季学期，实际=%s", resp.Name)
	}
	if resp.IsActive {
		t.Errorf("新建学期不应处于激活状态")
	}
	if resp.QuotaSingle != 10 || resp.QuotaDouble != 5 {
		t.Errorf("配额不符，实际 single=%d double=%d", resp.QuotaSingle, resp.QuotaDouble)
	}
}

func TestCreateSemesterInvalidDates(t *testing.T) {
	svc, _ := setupTestSemesterService()

	_, err := svc.Create(context.Background(), &dto.CreateSemesterRequest{
		Name:       "坏日期学期",
		StartDate:  "2027-01-15",
		EndDate:    "2026-09-01",
		ApplyOpen:  "2026-08-01T00:00:00Z",
		ApplyClose: "2026-08-25T23:59:59Z",
	}, "admin-1")
	if !errors.Is(err, ErrSemesterDateInvalid) {
		t.Errorf("结束早于开始应报 ErrSemesterDateInvalid，实际=%v", err)
	}

	_, err = svc.Create(context.Background(), &dto.CreateSemesterRequest{
		Name:       "坏窗口学期",
		StartDate:  "2026-09-01",
		EndDate:    "2027-01-15",
		ApplyOpen:  "2026-08-25T00:00:00Z",
		ApplyClose: "2026-08-01T00:00:00Z",
	}, "admin-1")
	if !errors.Is(err, ErrSemesterWindowInvalid) {
		t.Errorf("窗口关闭早于开放应报 ErrSemesterWindowInvalid，实际=%v", err)
	}
}

func TestCreateSemesterNameTaken(t *testing.T) {
	svc, mocks := setupTestSemesterService()
	seedSemester(mocks, 1, 1)

	_, err := svc.Create(context.Background(), &dto.CreateSemesterRequest{
		Name:       "2026 秋季学期",
		StartDate:  "2026-09-01",
		EndDate:    "2027-01-15",
		ApplyOpen:  "2026-08-01T00:00:00Z",
		ApplyClose: "2026-08-25T23:59:59Z",
	}, "admin-1")
	if !errors.Is(err, ErrSemesterNameTaken) {
		t.Errorf("重名学期应报 ErrSemesterNameTaken，实际=%v", err)
	}
}

func TestActivateSemester(t *testing.T) {
	svc, mocks := setupTestSemesterService()
	current := seedSemester(mocks, 1, 1)
	next := &model.Semester{
		SemesterID: "sem-2027a",
		Name:       "2027 春季学期",
		StartDate:  time.Date(2027, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2027, 6, 30, 0, 0, 0, 0, time.UTC),
		ApplyOpen:  time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		ApplyClose: time.Date(2027, 1, 20, 0, 0, 0, 0, time.UTC),
	}
	mocks.semesters.semesters[next.SemesterID] = next

	if err := svc.Activate(context.Background(), next.SemesterID, "admin-1"); err != nil {
		t.Fatalf("Activate 应成功: %v", err)
	}

	// 至多一个激活学期
	if mocks.semesters.semesters[current.SemesterID].IsActive {
		t.Errorf("原激活学期应被取消激活")
	}
	if !mocks.semesters.semesters[next.SemesterID].IsActive {
		t.Errorf("目标学期应处于激活状态")
	}
}

func TestUpdateSemesterQuota(t *testing.T) {
	svc, mocks := setupTestSemesterService()
	sem := seedSemester(mocks, 5, 5)

	lower := 1
	resp, err := svc.Update(context.Background(), sem.SemesterID, &dto.UpdateSemesterRequest{
		QuotaSingle: &lower,
	}, "admin-1")
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if resp.QuotaSingle != 1 {
		t.Errorf("期望配额降为 1，实际=%d", resp.QuotaSingle)
	}
	if resp.QuotaDouble != 5 {
		t.Errorf("未更新字段不应变化，实际=%d", resp.QuotaDouble)
	}
}

func TestDeleteSemester(t *testing.T) {
	svc, mocks := setupTestSemesterService()
	sem := seedSemester(mocks, 5, 5)

	// 未被申请引用，物理删除
	if err := svc.Delete(context.Background(), sem.SemesterID, "admin-1"); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), sem.SemesterID); !errors.Is(err, ErrSemesterNotFound) {
		t.Errorf("删除后应查不到该学期，实际=%v", err)
	}
}

func TestDeleteSemesterReferenced(t *testing.T) {
	svc, mocks := setupTestSemesterService()
	sem := seedSemester(mocks, 5, 5)
	seedApplication(mocks, "app-1", "stu-1", model.ApplicationStatusApproved, sem, model.RoomTypeSingle, time.Now())

	// 已被引用，走软删除而非报错
	if err := svc.Delete(context.Background(), sem.SemesterID, "admin-1"); err != nil {
		t.Fatalf("被引用学期删除应软删除: %v", err)
	}
}

func TestGetActiveSemester(t *testing.T) {
	svc, mocks := setupTestSemesterService()

	if _, err := svc.GetActive(context.Background()); !errors.Is(err, ErrSemesterNotFound) {
		t.Errorf("无激活学期应报 ErrSemesterNotFound，实际=%v", err)
	}

	sem := seedSemester(mocks, 1, 1)
	resp, err := svc.GetActive(context.Background())
	if err != nil {
		t.Fatalf("GetActive 应成功: %v", err)
	}
	if resp.ID != sem.SemesterID {
		t.Errorf("期望激活学期 %s，实际=%s", sem.SemesterID, resp.ID)
	}
}
