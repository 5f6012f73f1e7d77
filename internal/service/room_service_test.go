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

func setupTestRoomService() (RoomService, *testRepos) {
	repo, mocks := newTestRepository()
	return NewRoomService(repo, zap.NewNop()), mocks
}

func TestCreateRoom(t *testing.T) {
	svc, _ := setupTestRoomService()

	resp, err := svc.Create(context.Background(), &dto.CreateRoomRequest{
		RoomNumber: "A-101",
		RoomType:   model.RoomTypeDouble,
		Floor:      "1",
	}, "staff-1")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if resp.Status != model.RoomStatusAvailable {
		t.Errorf("新建房间应为 available，实际=%s", resp.Status)
	}
	if resp.Capacity != 2 {
		t.Errorf("双人间容量应为 2，实际=%d", resp.Capacity)
	}
}

func TestCreateRoomNumberTaken(t *testing.T) {
	svc, mocks := setupTestRoomService()
	seedRoom(mocks, "room-101", "A-101", model.RoomTypeSingle, model.RoomStatusAvailable)

	_, err := svc.Create(context.Background(), &dto.CreateRoomRequest{
		RoomNumber: "A-101",
		RoomType:   model.RoomTypeSingle,
	}, "staff-1")
	if !errors.Is(err, ErrRoomNumberTaken) {
		t.Errorf("重复房间号应报 ErrRoomNumberTaken，实际=%v", err)
	}
}

func TestUpdateRoomOccupiedForbidden(t *testing.T) {
	svc, mocks := setupTestRoomService()
	room := seedRoom(mocks, "room-101", "A-101", model.RoomTypeSingle, model.RoomStatusAvailable)

	occupied := model.RoomStatusOccupied
	_, err := svc.Update(context.Background(), room.RoomID, &dto.UpdateRoomRequest{
		Status: &occupied,
	}, "staff-1")
	if !errors.Is(err, ErrRoomStatusForbidden) {
		t.Errorf("occupied 不可手工设置，实际=%v", err)
	}
}

func TestUpdateRoomLeaveMaintenanceRecomputes(t *testing.T) {
	svc, mocks := setupTestRoomService()
	room := seedRoom(mocks, "room-101", "A-101", model.RoomTypeSingle, model.RoomStatusMaintenance)

	// 当前时点已有在住分配，解除维修后应直接重算为 occupied
	today := time.Now().Truncate(24 * time.Hour)
	mocks.assignments.assignments["assign-1"] = &model.RoomAssignment{
		AssignmentID: "assign-1",
		StudentID:    "stu-1",
		RoomID:       room.RoomID,
		StartDate:    today.AddDate(0, 0, -1),
		EndDate:      today.AddDate(0, 0, 30),
		Status:       model.AssignmentStatusActive,
	}

	available := model.RoomStatusAvailable
	resp, err := svc.Update(context.Background(), room.RoomID, &dto.UpdateRoomRequest{
		Status: &available,
	}, "staff-1")
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if resp.Status != model.RoomStatusOccupied {
		t.Errorf("解除维修后应重算为 occupied，实际=%s", resp.Status)
	}
}

func TestUpdateRoomSetMaintenance(t *testing.T) {
	svc, mocks := setupTestRoomService()
	room := seedRoom(mocks, "room-101", "A-101", model.RoomTypeSingle, model.RoomStatusAvailable)

	maintenance := model.RoomStatusMaintenance
	resp, err := svc.Update(context.Background(), room.RoomID, &dto.UpdateRoomRequest{
		Status: &maintenance,
	}, "staff-1")
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if resp.Status != model.RoomStatusMaintenance {
		t.Errorf("期望 maintenance，实际=%s", resp.Status)
	}
}

func TestDeleteRoomWithOccupants(t *testing.T) {
	svc, mocks := setupTestRoomService()
	room := seedRoom(mocks, "room-101", "A-101", model.RoomTypeSingle, model.RoomStatusOccupied)

	mocks.assignments.assignments["assign-1"] = &model.RoomAssignment{
		AssignmentID: "assign-1",
		StudentID:    "stu-1",
		RoomID:       room.RoomID,
		StartDate:    time.Now().AddDate(0, 1, 0),
		EndDate:      time.Now().AddDate(0, 5, 0),
		Status:       model.AssignmentStatusActive,
	}

	// 未来的在住分配同样阻止删除
	if err := svc.Delete(context.Background(), room.RoomID, "admin-1"); !errors.Is(err, ErrRoomHasOccupants) {
		t.Errorf("有在住分配的房间不可删除，实际=%v", err)
	}
}

func TestDeleteRoom(t *testing.T) {
	svc, mocks := setupTestRoomService()
	room := seedRoom(mocks, "room-101", "A-101", model.RoomTypeSingle, model.RoomStatusAvailable)

	if err := svc.Delete(context.Background(), room.RoomID, "admin-1"); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), room.RoomID); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("删除后应查不到该房间，实际=%v", err)
	}
}

func TestListRoomsByType(t *testing.T) {
	svc, mocks := setupTestRoomService()
	seedRoom(mocks, "room-101", "A-101", model.RoomTypeSingle, model.RoomStatusAvailable)
	seedRoom(mocks, "room-201", "B-201", model.RoomTypeDouble, model.RoomStatusAvailable)

	rooms, err := svc.List(context.Background(), model.RoomTypeDouble)
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(rooms) != 1 || rooms[0].RoomNumber != "B-201" {
		t.Errorf("期望仅返回双人间 B-201，实际=%d 条", len(rooms))
	}
}
