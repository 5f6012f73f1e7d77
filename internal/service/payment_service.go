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

// ── 缴费模块业务错误 ──

var (
	ErrPaymentNotFound = errors.New("缴费单不存在")
)

// PaymentService 缴费业务接口
type PaymentService interface {
	GetByID(ctx context.Context, id string) (*dto.PaymentResponse, error)
	List(ctx context.Context, status string) ([]dto.PaymentResponse, error)
	ListMy(ctx context.Context, studentID string) ([]dto.PaymentResponse, error)
	// UpdateStatus 员工登记缴费结果，入住分配的 payment_status 同步更新
	UpdateStatus(ctx context.Context, id string, req *dto.UpdatePaymentStatusRequest, callerID string) (*dto.PaymentResponse, error)
	// Cleanup 删除归属分配已取消的孤儿缴费单（级联未覆盖到的历史数据）
	Cleanup(ctx context.Context) (*dto.CleanupResult, error)
}

type paymentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPaymentService 创建 PaymentService 实例
func NewPaymentService(repo *repository.Repository, logger *zap.Logger) PaymentService {
	return &paymentService{repo: repo, logger: logger}
}

// ────────────────────── GetByID ──────────────────────

func (s *paymentService) GetByID(ctx context.Context, id string) (*dto.PaymentResponse, error) {
	payment, err := s.repo.Payment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		s.logger.Error("查询缴费单失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toPaymentResponse(payment), nil
}

// ────────────────────── List ──────────────────────

func (s *paymentService) List(ctx context.Context, status string) ([]dto.PaymentResponse, error) {
	payments, err := s.repo.Payment.List(ctx, status)
	if err != nil {
		s.logger.Error("列出缴费单失败", zap.Error(err))
		return nil, err
	}
	return toPaymentResponses(payments), nil
}

// ────────────────────── ListMy ──────────────────────

func (s *paymentService) ListMy(ctx context.Context, studentID string) ([]dto.PaymentResponse, error) {
	payments, err := s.repo.Payment.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("查询学生缴费单失败", zap.Error(err))
		return nil, err
	}
	return toPaymentResponses(payments), nil
}

// ────────────────────── UpdateStatus ──────────────────────

func (s *paymentService) UpdateStatus(ctx context.Context, id string, req *dto.UpdatePaymentStatusRequest, callerID string) (*dto.PaymentResponse, error) {
	var payment *model.Payment
	err := s.repo.Transaction(ctx, func(r *repository.Repository) error {
		var err error
		payment, err = r.Payment.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			s.logger.Error("查询缴费单失败", zap.String("id", id), zap.Error(err))
			return err
		}

		payment.Status = req.Status
		payment.UpdatedBy = &callerID
		if err := r.Payment.Update(ctx, payment); err != nil {
			s.logger.Error("更新缴费单失败", zap.String("id", id), zap.Error(err))
			return err
		}

		// 同步分配上的缴费标记：completed 视为已缴，其余一律未缴
		assignment, err := r.Assignment.GetByID(ctx, payment.AssignmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			s.logger.Error("查询入住分配失败", zap.Error(err))
			return err
		}
		assignmentPayment := model.AssignmentPaymentPending
		if payment.Status == model.PaymentStatusCompleted {
			assignmentPayment = model.AssignmentPaymentPaid
		}
		if assignment.PaymentStatus != assignmentPayment {
			assignment.PaymentStatus = assignmentPayment
			assignment.UpdatedBy = &callerID
			if err := r.Assignment.Update(ctx, assignment); err != nil {
				s.logger.Error("同步分配缴费状态失败", zap.Error(err))
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toPaymentResponse(payment), nil
}

// ────────────────────── Cleanup ──────────────────────

func (s *paymentService) Cleanup(ctx context.Context) (*dto.CleanupResult, error) {
	deleted := 0
	err := s.repo.Transaction(ctx, func(r *repository.Repository) error {
		orphans, err := r.Payment.ListOrphaned(ctx)
		if err != nil {
			s.logger.Error("查询孤儿缴费单失败", zap.Error(err))
			return err
		}
		for i := range orphans {
			if err := r.Payment.Delete(ctx, orphans[i].PaymentID); err != nil {
				s.logger.Error("删除孤儿缴费单失败", zap.String("id", orphans[i].PaymentID), zap.Error(err))
				return err
			}
			deleted++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if deleted > 0 {
		s.logger.Info("孤儿缴费单清理完成", zap.Int("deleted", deleted))
	}
	return &dto.CleanupResult{Deleted: deleted}, nil
}

// ────────────────────── 响应转换 ──────────────────────

func toPaymentResponse(payment *model.Payment) *dto.PaymentResponse {
	return &dto.PaymentResponse{
		ID:           payment.PaymentID,
		StudentID:    payment.StudentID,
		AssignmentID: payment.AssignmentID,
		Amount:       payment.Amount,
		Period:       payment.Period,
		Status:       payment.Status,
		CreatedAt:    payment.CreatedAt.Format(time.RFC3339),
	}
}

func toPaymentResponses(payments []model.Payment) []dto.PaymentResponse {
	out := make([]dto.PaymentResponse, 0, len(payments))
	for i := range payments {
		out = append(out, *toPaymentResponse(&payments[i]))
	}
	return out
}
