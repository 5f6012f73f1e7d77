package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"hostel-portal/backend/internal/model"
)

func setupTestExportService() (ExportService, *testRepos) {
	repo, mocks := newTestRepository()
	return NewExportService(repo, zap.NewNop()), mocks
}

func TestExportAssignmentsNoData(t *testing.T) {
	svc, _ := setupTestExportService()

	_, _, err := svc.ExportAssignments(context.Background())
	if !errors.Is(err, ErrExportNoData) {
		t.Errorf("空库导出应报 ErrExportNoData，实际=%v", err)
	}
}

func TestExportAssignments(t *testing.T) {
	svc, mocks := setupTestExportService()

	studentNo := "S20260001"
	student := &model.User{
		UserID:    "stu-1",
		Name:      "张三",
		Role:      model.RoleStudent,
		StudentNo: &studentNo,
	}
	room := &model.Room{RoomID: "room-101", RoomNumber: "A-101", RoomType: model.RoomTypeSingle}

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC)
	mocks.assignments.assignments["assign-1"] = &model.RoomAssignment{
		AssignmentID:  "assign-1",
		StudentID:     student.UserID,
		RoomID:        room.RoomID,
		ApplicationID: "app-1",
		StartDate:     start,
		EndDate:       end,
		Status:        model.AssignmentStatusActive,
		PaymentStatus: model.AssignmentPaymentPending,
		Student:       student,
		Room:          room,
	}
	mocks.payments.payments["pay-1"] = &model.Payment{
		PaymentID:    "pay-1",
		StudentID:    student.UserID,
		AssignmentID: "assign-1",
		Amount:       2740,
		Period:       "2026-09-01 ~ 2027-01-15",
		Status:       model.PaymentStatusPending,
	}

	buf, filename, err := svc.ExportAssignments(context.Background())
	if err != nil {
		t.Fatalf("ExportAssignments 应成功: %v", err)
	}
	if filename != "入住分配台账.xlsx" {
		t.Errorf("文件名不符，实际=%s", filename)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("导出内容应为合法 Excel: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("入住分配")
	if err != nil {
		t.Fatalf("读取入住分配 Sheet 失败: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("期望表头+1 行数据，实际=%d 行", len(rows))
	}
	if rows[1][0] != "张三" || rows[1][1] != "S20260001" {
		t.Errorf("学生信息不符，实际=%v", rows[1])
	}
	if rows[1][3] != "单人间" || rows[1][6] != "在住" {
		t.Errorf("枚举列应导出中文名，实际=%v", rows[1])
	}

	payRows, err := f.GetRows("缴费单")
	if err != nil {
		t.Fatalf("读取缴费单 Sheet 失败: %v", err)
	}
	if len(payRows) != 2 {
		t.Fatalf("期望表头+1 行缴费数据，实际=%d 行", len(payRows))
	}
	if payRows[1][0] != "pay-1" || payRows[1][5] != "待缴费" {
		t.Errorf("缴费数据不符，实际=%v", payRows[1])
	}
}
