package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"hostel-portal/backend/internal/model"
	"hostel-portal/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoData       = errors.New("暂无可导出的数据")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 导出面向宿管的对账场景：一个工作簿，两个 Sheet（入住分配、缴费单）
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportAssignments 导出入住分配与缴费单为 Excel
	ExportAssignments(ctx context.Context) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

var roomTypeNames = map[string]string{
	model.RoomTypeSingle: "单人间",
	model.RoomTypeDouble: "双人间",
}

var assignmentStatusNames = map[string]string{
	model.AssignmentStatusActive:    "在住",
	model.AssignmentStatusCompleted: "已完结",
	model.AssignmentStatusCancelled: "已取消",
}

var paymentStatusNames = map[string]string{
	model.PaymentStatusPending:   "待缴费",
	model.PaymentStatusCompleted: "已缴费",
	model.PaymentStatusFailed:    "缴费失败",
	model.PaymentStatusRefunded:  "已退款",
}

func (s *exportService) ExportAssignments(ctx context.Context) (*bytes.Buffer, string, error) {
	// 1. 查询全部分配与缴费单
	assignments, err := s.repo.Assignment.List(ctx, "")
	if err != nil {
		s.logger.Error("查询入住分配失败", zap.Error(err))
		return nil, "", err
	}
	payments, err := s.repo.Payment.List(ctx, "")
	if err != nil {
		s.logger.Error("查询缴费单失败", zap.Error(err))
		return nil, "", err
	}
	if len(assignments) == 0 && len(payments) == 0 {
		return nil, "", ErrExportNoData
	}

	// 2. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// ── Sheet 1: 入住分配 ──
	assignmentSheet := "入住分配"
	idx, _ := f.NewSheet(assignmentSheet)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	assignmentHeaders := []string{"学生姓名", "学号", "房间号", "房型", "入住日期", "退宿日期", "状态", "缴费状态"}
	widths := []float64{14, 14, 10, 8, 12, 12, 8, 10}
	for i, h := range assignmentHeaders {
		col := colName(i + 1)
		f.SetColWidth(assignmentSheet, col, col, widths[i])
		f.SetCellValue(assignmentSheet, cell(col, 1), h)
		f.SetCellStyle(assignmentSheet, cell(col, 1), cell(col, 1), headerStyle)
	}

	row := 2
	for i := range assignments {
		a := &assignments[i]
		studentName, studentNo := "-", "-"
		if a.Student != nil {
			studentName = a.Student.Name
			if a.Student.StudentNo != nil {
				studentNo = *a.Student.StudentNo
			}
		}
		roomNumber, roomType := "-", "-"
		if a.Room != nil {
			roomNumber = a.Room.RoomNumber
			roomType = roomTypeNames[a.Room.RoomType]
		}

		f.SetCellValue(assignmentSheet, cell("A", row), studentName)
		f.SetCellValue(assignmentSheet, cell("B", row), studentNo)
		f.SetCellValue(assignmentSheet, cell("C", row), roomNumber)
		f.SetCellValue(assignmentSheet, cell("D", row), roomType)
		f.SetCellValue(assignmentSheet, cell("E", row), a.StartDate.Format(dateLayout))
		f.SetCellValue(assignmentSheet, cell("F", row), a.EndDate.Format(dateLayout))
		f.SetCellValue(assignmentSheet, cell("G", row), assignmentStatusNames[a.Status])
		f.SetCellValue(assignmentSheet, cell("H", row), paymentStatusNames[a.PaymentStatus])
		row++
	}

	// ── Sheet 2: 缴费单 ──
	paymentSheet := "缴费单"
	f.NewSheet(paymentSheet)

	paymentHeaders := []string{"缴费单号", "学生ID", "分配ID", "计费区间", "金额", "状态"}
	paymentWidths := []float64{38, 38, 38, 26, 10, 10}
	for i, h := range paymentHeaders {
		col := colName(i + 1)
		f.SetColWidth(paymentSheet, col, col, paymentWidths[i])
		f.SetCellValue(paymentSheet, cell(col, 1), h)
		f.SetCellStyle(paymentSheet, cell(col, 1), cell(col, 1), headerStyle)
	}

	row = 2
	for i := range payments {
		p := &payments[i]
		f.SetCellValue(paymentSheet, cell("A", row), p.PaymentID)
		f.SetCellValue(paymentSheet, cell("B", row), p.StudentID)
		f.SetCellValue(paymentSheet, cell("C", row), p.AssignmentID)
		f.SetCellValue(paymentSheet, cell("D", row), p.Period)
		f.SetCellValue(paymentSheet, cell("E", row), p.Amount)
		f.SetCellValue(paymentSheet, cell("F", row), paymentStatusNames[p.Status])
		row++
	}

	// 3. 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	return buf, "入住分配台账.xlsx", nil
}

// colName 列序号转 Excel 列名（1 → "A"）
func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx)
	return name
}

// cell 拼接单元格坐标
func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
