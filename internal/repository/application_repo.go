package repository

import (
	"context"

	"gorm.io/gorm"

	"hostel-portal/backend/internal/model"
)

// ApplicationFilter 申请列表过滤条件（员工端）
type ApplicationFilter struct {
	SemesterID string
	RoomType   string
	Status     string
	Page       int
	PageSize   int
}

// ApplicationRepository 住宿申请数据访问接口
type ApplicationRepository interface {
	Create(ctx context.Context, app *model.Application) error
	GetByID(ctx context.Context, id string) (*model.Application, error)
	Update(ctx context.Context, app *model.Application) error
	List(ctx context.Context, filter *ApplicationFilter) ([]model.Application, int64, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.Application, error)
	// CountActiveByStudent 统计学生当前非 rejected 的申请数（一人一单不变量）
	CountActiveByStudent(ctx context.Context, studentID string) (int64, error)
	// CountApproved 统计某学期某房型已批准申请数（配额消耗口径，按学生数计）
	CountApproved(ctx context.Context, semesterID, roomType string) (int64, error)
	CountBySemester(ctx context.Context, semesterID string) (int64, error)
	// ListPending 某学期某房型全部待处理申请（配额耗尽时批量自动拒绝用）
	ListPending(ctx context.Context, semesterID, roomType string) ([]model.Application, error)
	// ListAutoRejected 某学期某房型被系统自动拒绝的申请，按申请时间升序（复活公平性）
	ListAutoRejected(ctx context.Context, semesterID, roomType string, limit int) ([]model.Application, error)
}

type applicationRepo struct {
	db *gorm.DB
}

// NewApplicationRepo 创建 ApplicationRepository 实例
func NewApplicationRepo(db *gorm.DB) ApplicationRepository {
	return &applicationRepo{db: db}
}

func (r *applicationRepo) Create(ctx context.Context, app *model.Application) error {
	return r.db.WithContext(ctx).Create(app).Error
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*model.Application, error) {
	var app model.Application
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Semester").
		Where("application_id = ?", id).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepo) Update(ctx context.Context, app *model.Application) error {
	return r.db.WithContext(ctx).Save(app).Error
}

func (r *applicationRepo) List(ctx context.Context, filter *ApplicationFilter) ([]model.Application, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Application{})
	if filter.SemesterID != "" {
		q = q.Where("semester_id = ?", filter.SemesterID)
	}
	if filter.RoomType != "" {
		q = q.Where("room_type = ?", filter.RoomType)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var apps []model.Application
	err := q.Preload("Student").
		Order("date_applied ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&apps).Error
	return apps, total, err
}

func (r *applicationRepo) ListByStudent(ctx context.Context, studentID string) ([]model.Application, error) {
	var apps []model.Application
	err := r.db.WithContext(ctx).
		Preload("Semester").
		Where("student_id = ?", studentID).
		Order("date_applied DESC").
		Find(&apps).Error
	return apps, err
}

func (r *applicationRepo) CountActiveByStudent(ctx context.Context, studentID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Application{}).
		Where("student_id = ? AND status <> ?", studentID, model.ApplicationStatusRejected).
		Count(&count).Error
	return count, err
}

func (r *applicationRepo) CountApproved(ctx context.Context, semesterID, roomType string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Application{}).
		Where("semester_id = ? AND room_type = ? AND status = ?",
			semesterID, roomType, model.ApplicationStatusApproved).
		Count(&count).Error
	return count, err
}

func (r *applicationRepo) CountBySemester(ctx context.Context, semesterID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Application{}).
		Where("semester_id = ?", semesterID).
		Count(&count).Error
	return count, err
}

func (r *applicationRepo) ListPending(ctx context.Context, semesterID, roomType string) ([]model.Application, error) {
	var apps []model.Application
	err := r.db.WithContext(ctx).
		Where("semester_id = ? AND room_type = ? AND status = ?",
			semesterID, roomType, model.ApplicationStatusPending).
		Order("date_applied ASC").
		Find(&apps).Error
	return apps, err
}

func (r *applicationRepo) ListAutoRejected(ctx context.Context, semesterID, roomType string, limit int) ([]model.Application, error) {
	var apps []model.Application
	err := r.db.WithContext(ctx).
		Where("semester_id = ? AND room_type = ? AND status = ? AND is_auto_rejected = ?",
			semesterID, roomType, model.ApplicationStatusRejected, true).
		Order("date_applied ASC").
		Limit(limit).
		Find(&apps).Error
	return apps, err
}
