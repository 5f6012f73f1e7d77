package repository

import (
	"context"

	"gorm.io/gorm"

	"hostel-portal/backend/internal/model"
)

// MaintenanceRepository 维修工单数据访问接口
type MaintenanceRepository interface {
	Create(ctx context.Context, req *model.MaintenanceRequest) error
	GetByID(ctx context.Context, id string) (*model.MaintenanceRequest, error)
	Update(ctx context.Context, req *model.MaintenanceRequest) error
	List(ctx context.Context, status string) ([]model.MaintenanceRequest, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.MaintenanceRequest, error)
}

type maintenanceRepo struct {
	db *gorm.DB
}

// NewMaintenanceRepo 创建 MaintenanceRepository 实例
func NewMaintenanceRepo(db *gorm.DB) MaintenanceRepository {
	return &maintenanceRepo{db: db}
}

func (r *maintenanceRepo) Create(ctx context.Context, req *model.MaintenanceRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *maintenanceRepo) GetByID(ctx context.Context, id string) (*model.MaintenanceRequest, error) {
	var req model.MaintenanceRequest
	err := r.db.WithContext(ctx).
		Preload("Room").
		Preload("Student").
		Where("request_id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *maintenanceRepo) Update(ctx context.Context, req *model.MaintenanceRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *maintenanceRepo) List(ctx context.Context, status string) ([]model.MaintenanceRequest, error) {
	q := r.db.WithContext(ctx).
		Preload("Room").
		Preload("Student").
		Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var reqs []model.MaintenanceRequest
	err := q.Find(&reqs).Error
	return reqs, err
}

func (r *maintenanceRepo) ListByStudent(ctx context.Context, studentID string) ([]model.MaintenanceRequest, error) {
	var reqs []model.MaintenanceRequest
	err := r.db.WithContext(ctx).
		Preload("Room").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}
