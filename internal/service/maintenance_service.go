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

// ── 维修工单模块业务错误 ──

var (
	ErrMaintenanceNotFound = errors.New("维修工单不存在")
)

// MaintenanceService 维修工单业务接口
type MaintenanceService interface {
	Create(ctx context.Context, studentID string, req *dto.CreateMaintenanceRequest) (*dto.MaintenanceResponse, error)
	GetByID(ctx context.Context, id string) (*dto.MaintenanceResponse, error)
	List(ctx context.Context, status string) ([]dto.MaintenanceResponse, error)
	ListMy(ctx context.Context, studentID string) ([]dto.MaintenanceResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateMaintenanceRequest, callerID string) (*dto.MaintenanceResponse, error)
}

type maintenanceService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewMaintenanceService 创建 MaintenanceService 实例
func NewMaintenanceService(repo *repository.Repository, logger *zap.Logger) MaintenanceService {
	return &maintenanceService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *maintenanceService) Create(ctx context.Context, studentID string, req *dto.CreateMaintenanceRequest) (*dto.MaintenanceResponse, error) {
	if _, err := s.repo.Room.GetByID(ctx, req.RoomID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		s.logger.Error("查询房间失败", zap.Error(err))
		return nil, err
	}

	priority := req.Priority
	if priority == "" {
		priority = model.MaintenancePriorityMedium
	}

	request := &model.MaintenanceRequest{
		StudentID:   studentID,
		RoomID:      req.RoomID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		Status:      model.MaintenanceStatusOpen,
	}
	request.CreatedBy = &studentID
	request.UpdatedBy = &studentID

	if err := s.repo.Maintenance.Create(ctx, request); err != nil {
		s.logger.Error("创建维修工单失败", zap.Error(err))
		return nil, err
	}

	return toMaintenanceResponse(request), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *maintenanceService) GetByID(ctx context.Context, id string) (*dto.MaintenanceResponse, error) {
	request, err := s.repo.Maintenance.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMaintenanceNotFound
		}
		s.logger.Error("查询维修工单失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toMaintenanceResponse(request), nil
}

// ────────────────────── List ──────────────────────

func (s *maintenanceService) List(ctx context.Context, status string) ([]dto.MaintenanceResponse, error) {
	requests, err := s.repo.Maintenance.List(ctx, status)
	if err != nil {
		s.logger.Error("列出维修工单失败", zap.Error(err))
		return nil, err
	}
	return toMaintenanceResponses(requests), nil
}

// ────────────────────── ListMy ──────────────────────

func (s *maintenanceService) ListMy(ctx context.Context, studentID string) ([]dto.MaintenanceResponse, error) {
	requests, err := s.repo.Maintenance.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("查询学生维修工单失败", zap.Error(err))
		return nil, err
	}
	return toMaintenanceResponses(requests), nil
}

// ────────────────────── Update ──────────────────────

func (s *maintenanceService) Update(ctx context.Context, id string, req *dto.UpdateMaintenanceRequest, callerID string) (*dto.MaintenanceResponse, error) {
	request, err := s.repo.Maintenance.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMaintenanceNotFound
		}
		s.logger.Error("查询维修工单失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Priority != nil {
		request.Priority = *req.Priority
	}
	if req.AssignedStaffID != nil {
		request.AssignedStaffID = req.AssignedStaffID
	}
	if req.Status != nil {
		request.Status = *req.Status
		if *req.Status == model.MaintenanceStatusResolved && request.ResolvedAt == nil {
			now := time.Now()
			request.ResolvedAt = &now
		}
		if *req.Status != model.MaintenanceStatusResolved {
			request.ResolvedAt = nil
		}
	}

	request.UpdatedBy = &callerID
	if err := s.repo.Maintenance.Update(ctx, request); err != nil {
		s.logger.Error("更新维修工单失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toMaintenanceResponse(request), nil
}

// ────────────────────── 响应转换 ──────────────────────

func toMaintenanceResponse(request *model.MaintenanceRequest) *dto.MaintenanceResponse {
	resp := &dto.MaintenanceResponse{
		ID:          request.RequestID,
		StudentID:   request.StudentID,
		RoomID:      request.RoomID,
		Title:       request.Title,
		Description: request.Description,
		Priority:    request.Priority,
		Status:      request.Status,
		CreatedAt:   request.CreatedAt.Format(time.RFC3339),
	}
	if request.AssignedStaffID != nil {
		resp.AssignedStaffID = *request.AssignedStaffID
	}
	if request.ResolvedAt != nil {
		resp.ResolvedAt = request.ResolvedAt.Format(time.RFC3339)
	}
	if request.Student != nil {
		resp.StudentName = request.Student.Name
	}
	if request.Room != nil {
		resp.RoomNumber = request.Room.RoomNumber
	}
	return resp
}

func toMaintenanceResponses(requests []model.MaintenanceRequest) []dto.MaintenanceResponse {
	out := make([]dto.MaintenanceResponse, 0, len(requests))
	for i := range requests {
		out = append(out, *toMaintenanceResponse(&requests[i]))
	}
	return out
}
