package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"hostel-portal/backend/internal/dto"
	"hostel-portal/backend/internal/model"
	"hostel-portal/backend/internal/repository"
)

// DiagnosticsService 系统诊断只读查询面
//
// 面向宿管的巡检工具：逐房间的实时占用、逐学期逐房型的配额消耗、
// 级联漏网的孤儿缴费单数量。全部为只读推导，不落任何状态。
type DiagnosticsService interface {
	Summary(ctx context.Context) (*dto.DiagnosticsSummary, error)
}

type diagnosticsService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDiagnosticsService 创建 DiagnosticsService 实例
func NewDiagnosticsService(repo *repository.Repository, logger *zap.Logger) DiagnosticsService {
	return &diagnosticsService{repo: repo, logger: logger}
}

func (s *diagnosticsService) Summary(ctx context.Context) (*dto.DiagnosticsSummary, error) {
	summary := &dto.DiagnosticsSummary{
		Rooms:  []dto.RoomOccupancy{},
		Quotas: []dto.QuotaUsage{},
	}

	// 逐房间的当前时点占用
	today := time.Now().Truncate(24 * time.Hour)
	rooms, err := s.repo.Room.List(ctx, "")
	if err != nil {
		s.logger.Error("列出房间失败", zap.Error(err))
		return nil, err
	}
	for i := range rooms {
		room := &rooms[i]
		occupied, err := s.repo.Assignment.CountActiveOverlapping(ctx, room.RoomID, today, today.AddDate(0, 0, 1))
		if err != nil {
			s.logger.Error("统计房间占用失败", zap.Error(err))
			return nil, err
		}
		summary.Rooms = append(summary.Rooms, dto.RoomOccupancy{
			RoomID:     room.RoomID,
			RoomNumber: room.RoomNumber,
			RoomType:   room.RoomType,
			Status:     room.Status,
			Capacity:   room.Capacity(),
			Occupied:   int(occupied),
		})
	}

	// 逐学期逐房型的配额消耗（按学生数计）
	semesters, err := s.repo.Semester.List(ctx)
	if err != nil {
		s.logger.Error("列出学期失败", zap.Error(err))
		return nil, err
	}
	for i := range semesters {
		semester := &semesters[i]
		for _, roomType := range []string{model.RoomTypeSingle, model.RoomTypeDouble} {
			approved, err := s.repo.Application.CountApproved(ctx, semester.SemesterID, roomType)
			if err != nil {
				s.logger.Error("统计已批准申请失败", zap.Error(err))
				return nil, err
			}
			quota := semester.StudentQuota(roomType)
			remaining := quota - int(approved)
			if remaining < 0 {
				remaining = 0
			}
			summary.Quotas = append(summary.Quotas, dto.QuotaUsage{
				SemesterID:   semester.SemesterID,
				SemesterName: semester.Name,
				RoomType:     roomType,
				Quota:        quota,
				Approved:     int(approved),
				Remaining:    remaining,
			})
		}
	}

	// 孤儿缴费单
	orphans, err := s.repo.Payment.ListOrphaned(ctx)
	if err != nil {
		s.logger.Error("查询孤儿缴费单失败", zap.Error(err))
		return nil, err
	}
	summary.OrphanedPayments = len(orphans)

	return summary, nil
}
