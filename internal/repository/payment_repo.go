package repository

import (
	"context"

	"gorm.io/gorm"

	"hostel-portal/backend/internal/model"
)

// PaymentRepository 缴费单数据访问接口
type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	GetByID(ctx context.Context, id string) (*model.Payment, error)
	Update(ctx context.Context, payment *model.Payment) error
	List(ctx context.Context, status string) ([]model.Payment, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.Payment, error)
	DeleteByAssignment(ctx context.Context, assignmentID string) error
	// ListOrphaned 返回归属分配已取消的缴费单（历史数据清理）
	ListOrphaned(ctx context.Context) ([]model.Payment, error)
	Delete(ctx context.Context, id string) error
}

type paymentRepo struct {
	db *gorm.DB
}

// NewPaymentRepo 创建 PaymentRepository 实例
func NewPaymentRepo(db *gorm.DB) PaymentRepository {
	return &paymentRepo{db: db}
}

func (r *paymentRepo) Create(ctx context.Context, payment *model.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepo) GetByID(ctx context.Context, id string) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.WithContext(ctx).
		Preload("Assignment").
		Where("payment_id = ?", id).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepo) Update(ctx context.Context, payment *model.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

func (r *paymentRepo) List(ctx context.Context, status string) ([]model.Payment, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var payments []model.Payment
	err := q.Find(&payments).Error
	return payments, err
}

func (r *paymentRepo) ListByStudent(ctx context.Context, studentID string) ([]model.Payment, error) {
	var payments []model.Payment
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepo) DeleteByAssignment(ctx context.Context, assignmentID string) error {
	return r.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Delete(&model.Payment{}).Error
}

func (r *paymentRepo) ListOrphaned(ctx context.Context) ([]model.Payment, error) {
	var payments []model.Payment
	err := r.db.WithContext(ctx).
		Joins("JOIN room_assignments ON room_assignments.assignment_id = payments.assignment_id").
		Where("room_assignments.status = ?", model.AssignmentStatusCancelled).
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("payment_id = ?", id).
		Delete(&model.Payment{}).Error
}
