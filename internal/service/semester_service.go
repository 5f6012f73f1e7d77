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

// ── 学期模块业务错误 ──

var (
	ErrSemesterDateInvalid   = errors.New("学期结束日期必须晚于开始日期")
	ErrSemesterWindowInvalid = errors.New("申请窗口关闭时刻必须晚于开放时刻")
	ErrSemesterNameTaken     = errors.New("学期名称已存在")
)

// SemesterService 学期业务接口
type SemesterService interface {
	Create(ctx context.Context, req *dto.CreateSemesterRequest, callerID string) (*dto.SemesterResponse, error)
	GetByID(ctx context.Context, id string) (*dto.SemesterResponse, error)
	GetActive(ctx context.Context) (*dto.SemesterResponse, error)
	List(ctx context.Context) ([]dto.SemesterResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateSemesterRequest, callerID string) (*dto.SemesterResponse, error)
	Activate(ctx context.Context, id string, callerID string) error
	Delete(ctx context.Context, id string, callerID string) error
}

type semesterService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSemesterService 创建 SemesterService 实例
func NewSemesterService(repo *repository.Repository, logger *zap.Logger) SemesterService {
	return &semesterService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *semesterService) Create(ctx context.Context, req *dto.CreateSemesterRequest, callerID string) (*dto.SemesterResponse, error) {
	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, ErrSemesterDateInvalid
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, ErrSemesterDateInvalid
	}
	if !endDate.After(startDate) {
		return nil, ErrSemesterDateInvalid
	}
	applyOpen, err := time.Parse(time.RFC3339, req.ApplyOpen)
	if err != nil {
		return nil, ErrSemesterWindowInvalid
	}
	applyClose, err := time.Parse(time.RFC3339, req.ApplyClose)
	if err != nil {
		return nil, ErrSemesterWindowInvalid
	}
	if !applyClose.After(applyOpen) {
		return nil, ErrSemesterWindowInvalid
	}

	if _, err := s.repo.Semester.GetByName(ctx, req.Name); err == nil {
		return nil, ErrSemesterNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询学期名称失败", zap.Error(err))
		return nil, err
	}

	semester := &model.Semester{
		Name:        req.Name,
		StartDate:   startDate,
		EndDate:     endDate,
		ApplyOpen:   applyOpen,
		ApplyClose:  applyClose,
		IsActive:    false,
		QuotaSingle: req.QuotaSingle,
		QuotaDouble: req.QuotaDouble,
	}
	semester.CreatedBy = &callerID
	semester.UpdatedBy = &callerID

	if err := s.repo.Semester.Create(ctx, semester); err != nil {
		s.logger.Error("创建学期失败", zap.Error(err))
		return nil, err
	}

	return toSemesterResponse(semester), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *semesterService) GetByID(ctx context.Context, id string) (*dto.SemesterResponse, error) {
	semester, err := s.repo.Semester.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		s.logger.Error("查询学期失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toSemesterResponse(semester), nil
}

// ────────────────────── GetActive ──────────────────────

func (s *semesterService) GetActive(ctx context.Context) (*dto.SemesterResponse, error) {
	semester, err := s.repo.Semester.GetActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		s.logger.Error("查询激活学期失败", zap.Error(err))
		return nil, err
	}

	return toSemesterResponse(semester), nil
}

// ────────────────────── List ──────────────────────

func (s *semesterService) List(ctx context.Context) ([]dto.SemesterResponse, error) {
	semesters, err := s.repo.Semester.List(ctx)
	if err != nil {
		s.logger.Error("列出学期失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SemesterResponse, 0, len(semesters))
	for i := range semesters {
		result = append(result, *toSemesterResponse(&semesters[i]))
	}

	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *semesterService) Update(ctx context.Context, id string, req *dto.UpdateSemesterRequest, callerID string) (*dto.SemesterResponse, error) {
	semester, err := s.repo.Semester.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		s.logger.Error("查询学期失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		semester.Name = *req.Name
	}
	if req.StartDate != nil {
		startDate, err := time.Parse(dateLayout, *req.StartDate)
		if err != nil {
			return nil, ErrSemesterDateInvalid
		}
		semester.StartDate = startDate
	}
	if req.EndDate != nil {
		endDate, err := time.Parse(dateLayout, *req.EndDate)
		if err != nil {
			return nil, ErrSemesterDateInvalid
		}
		semester.EndDate = endDate
	}
	if !semester.EndDate.After(semester.StartDate) {
		return nil, ErrSemesterDateInvalid
	}
	if req.ApplyOpen != nil {
		applyOpen, err := time.Parse(time.RFC3339, *req.ApplyOpen)
		if err != nil {
			return nil, ErrSemesterWindowInvalid
		}
		semester.ApplyOpen = applyOpen
	}
	if req.ApplyClose != nil {
		applyClose, err := time.Parse(time.RFC3339, *req.ApplyClose)
		if err != nil {
			return nil, ErrSemesterWindowInvalid
		}
		semester.ApplyClose = applyClose
	}
	if !semester.ApplyClose.After(semester.ApplyOpen) {
		return nil, ErrSemesterWindowInvalid
	}

	// 降低配额不追溯已批准的申请，只影响后续判定
	if req.QuotaSingle != nil {
		semester.QuotaSingle = *req.QuotaSingle
	}
	if req.QuotaDouble != nil {
		semester.QuotaDouble = *req.QuotaDouble
	}

	semester.UpdatedBy = &callerID

	if err := s.repo.Semester.Update(ctx, semester); err != nil {
		s.logger.Error("更新学期失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toSemesterResponse(semester), nil
}

// ────────────────────── Activate ──────────────────────

// Activate 激活指定学期，同时取消其它学期的激活状态（至多一个激活学期）
func (s *semesterService) Activate(ctx context.Context, id string, callerID string) error {
	return s.repo.Transaction(ctx, func(r *repository.Repository) error {
		semester, err := r.Semester.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSemesterNotFound
			}
			s.logger.Error("查询学期失败", zap.String("id", id), zap.Error(err))
			return err
		}

		if err := r.Semester.ClearActive(ctx); err != nil {
			s.logger.Error("取消激活失败", zap.Error(err))
			return err
		}

		semester.IsActive = true
		semester.UpdatedBy = &callerID
		if err := r.Semester.Update(ctx, semester); err != nil {
			s.logger.Error("激活学期失败", zap.String("id", id), zap.Error(err))
			return err
		}
		return nil
	})
}

// ────────────────────── Delete ──────────────────────

// Delete 删除学期。已被申请引用的学期仅软删除（保留历史），
// 未被引用的学期物理删除。
func (s *semesterService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.Semester.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSemesterNotFound
		}
		s.logger.Error("查询学期失败", zap.String("id", id), zap.Error(err))
		return err
	}

	referenced, err := s.repo.Application.CountBySemester(ctx, id)
	if err != nil {
		s.logger.Error("统计学期引用失败", zap.Error(err))
		return err
	}

	if referenced > 0 {
		if err := s.repo.Semester.SoftDelete(ctx, id, callerID); err != nil {
			s.logger.Error("软删除学期失败", zap.String("id", id), zap.Error(err))
			return err
		}
		return nil
	}

	if err := s.repo.Semester.HardDelete(ctx, id); err != nil {
		s.logger.Error("删除学期失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── 响应转换 ──────────────────────

func toSemesterResponse(semester *model.Semester) *dto.SemesterResponse {
	return &dto.SemesterResponse{
		ID:          semester.SemesterID,
		Name:        semester.Name,
		StartDate:   semester.StartDate.Format(dateLayout),
		EndDate:     semester.EndDate.Format(dateLayout),
		ApplyOpen:   semester.ApplyOpen.Format(time.RFC3339),
		ApplyClose:  semester.ApplyClose.Format(time.RFC3339),
		IsActive:    semester.IsActive,
		QuotaSingle: semester.QuotaSingle,
		QuotaDouble: semester.QuotaDouble,
		CreatedAt:   semester.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   semester.UpdatedAt.Format(time.RFC3339),
	}
}
