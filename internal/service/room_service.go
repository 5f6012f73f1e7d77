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

// ── 房间模块业务错误 ──

var (
	ErrRoomNumberTaken     = errors.New("房间号已存在")
	ErrRoomHasOccupants    = errors.New("房间存在在住分配，不可删除")
	ErrRoomStatusForbidden = errors.New("occupied 状态由系统重算，不可手工设置")
)

// RoomService 房间业务接口
//
// occupied 状态不接受手工设置：它是分配数据的投影，
// 由 recomputeRoomStatus 在每次分配写操作后重算。
// 员工可手工设置的只有 available 与 maintenance。
type RoomService interface {
	Create(ctx context.Context, req *dto.CreateRoomRequest, callerID string) (*dto.RoomResponse, error)
	GetByID(ctx context.Context, id string) (*dto.RoomResponse, error)
	List(ctx context.Context, roomType string) ([]dto.RoomResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateRoomRequest, callerID string) (*dto.RoomResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type roomService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRoomService 创建 RoomService 实例
func NewRoomService(repo *repository.Repository, logger *zap.Logger) RoomService {
	return &roomService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *roomService) Create(ctx context.Context, req *dto.CreateRoomRequest, callerID string) (*dto.RoomResponse, error) {
	if _, err := s.repo.Room.GetByNumber(ctx, req.RoomNumber); err == nil {
		return nil, ErrRoomNumberTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询房间号失败", zap.Error(err))
		return nil, err
	}

	room := &model.Room{
		RoomNumber:  req.RoomNumber,
		RoomType:    req.RoomType,
		Status:      model.RoomStatusAvailable,
		Floor:       req.Floor,
		Description: req.Description,
	}
	room.CreatedBy = &callerID
	room.UpdatedBy = &callerID

	if err := s.repo.Room.Create(ctx, room); err != nil {
		s.logger.Error("创建房间失败", zap.Error(err))
		return nil, err
	}

	return toRoomResponse(room), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *roomService) GetByID(ctx context.Context, id string) (*dto.RoomResponse, error) {
	room, err := s.repo.Room.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		s.logger.Error("查询房间失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toRoomResponse(room), nil
}

// ────────────────────── List ──────────────────────

func (s *roomService) List(ctx context.Context, roomType string) ([]dto.RoomResponse, error) {
	rooms, err := s.repo.Room.List(ctx, roomType)
	if err != nil {
		s.logger.Error("列出房间失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.RoomResponse, 0, len(rooms))
	for i := range rooms {
		result = append(result, *toRoomResponse(&rooms[i]))
	}

	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *roomService) Update(ctx context.Context, id string, req *dto.UpdateRoomRequest, callerID string) (*dto.RoomResponse, error) {
	var room *model.Room
	err := s.repo.Transaction(ctx, func(r *repository.Repository) error {
		var err error
		room, err = r.Room.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			s.logger.Error("查询房间失败", zap.String("id", id), zap.Error(err))
			return err
		}

		if req.RoomNumber != nil && *req.RoomNumber != room.RoomNumber {
			if _, err := r.Room.GetByNumber(ctx, *req.RoomNumber); err == nil {
				return ErrRoomNumberTaken
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				s.logger.Error("查询房间号失败", zap.Error(err))
				return err
			}
			room.RoomNumber = *req.RoomNumber
		}
		if req.Floor != nil {
			room.Floor = *req.Floor
		}
		if req.Description != nil {
			room.Description = *req.Description
		}
		if req.Status != nil {
			if *req.Status == model.RoomStatusOccupied {
				return ErrRoomStatusForbidden
			}
			room.Status = *req.Status
		}

		room.UpdatedBy = &callerID
		if err := r.Room.Update(ctx, room); err != nil {
			s.logger.Error("更新房间失败", zap.String("id", id), zap.Error(err))
			return err
		}

		// 解除维修后按实际占用重算 available/occupied
		if req.Status != nil && *req.Status != model.RoomStatusMaintenance {
			if err := recomputeRoomStatus(ctx, r, room); err != nil {
				s.logger.Error("重算房间状态失败", zap.String("id", id), zap.Error(err))
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toRoomResponse(room), nil
}

// ────────────────────── Delete ──────────────────────

func (s *roomService) Delete(ctx context.Context, id string, callerID string) error {
	room, err := s.repo.Room.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomNotFound
		}
		s.logger.Error("查询房间失败", zap.String("id", id), zap.Error(err))
		return err
	}

	// 任何未来或当前的在住分配都阻止删除
	occupants, err := s.repo.Assignment.CountActiveOverlapping(ctx, room.RoomID, time.Now().AddDate(-100, 0, 0), time.Now().AddDate(100, 0, 0))
	if err != nil {
		s.logger.Error("统计房间占用失败", zap.Error(err))
		return err
	}
	if occupants > 0 {
		return ErrRoomHasOccupants
	}

	if err := s.repo.Room.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除房间失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── 响应转换 ──────────────────────

func toRoomResponse(room *model.Room) *dto.RoomResponse {
	return &dto.RoomResponse{
		ID:          room.RoomID,
		RoomNumber:  room.RoomNumber,
		RoomType:    room.RoomType,
		Status:      room.Status,
		Capacity:    room.Capacity(),
		Floor:       room.Floor,
		Description: room.Description,
		CreatedAt:   room.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   room.UpdatedAt.Format(time.RFC3339),
	}
}
