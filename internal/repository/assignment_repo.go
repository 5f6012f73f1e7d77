package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"hostel-portal/backend/internal/model"
)

// AssignmentRepository 入住分配数据访问接口
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *model.RoomAssignment) error
	GetByID(ctx context.Context, id string) (*model.RoomAssignment, error)
	GetByApplication(ctx context.Context, applicationID string) (*model.RoomAssignment, error)
	Update(ctx context.Context, assignment *model.RoomAssignment) error
	List(ctx context.Context, status string) ([]model.RoomAssignment, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.RoomAssignment, error)
	// CountActiveOverlapping 统计房间内与 [start, end) 重叠的 active 分配数
	// 重叠判定：existing.start < end AND existing.end > start
	CountActiveOverlapping(ctx context.Context, roomID string, start, end time.Time) (int64, error)
	// CountStudentActiveOverlapping 统计学生本人与 [start, end) 重叠的 active 分配数
	CountStudentActiveOverlapping(ctx context.Context, studentID string, start, end time.Time) (int64, error)
	// ListActiveEndedBefore 返回 end_date 早于 today 的 active 分配（到期清扫）
	ListActiveEndedBefore(ctx context.Context, today time.Time) ([]model.RoomAssignment, error)
}

type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo 创建 AssignmentRepository 实例
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) Create(ctx context.Context, assignment *model.RoomAssignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepo) GetByID(ctx context.Context, id string) (*model.RoomAssignment, error) {
	var assignment model.RoomAssignment
	err := r.db.WithContext(ctx).
		Preload("Room").
		Preload("Student").
		Where("assignment_id = ?", id).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepo) GetByApplication(ctx context.Context, applicationID string) (*model.RoomAssignment, error) {
	var assignment model.RoomAssignment
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepo) Update(ctx context.Context, assignment *model.RoomAssignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}

func (r *assignmentRepo) List(ctx context.Context, status string) ([]model.RoomAssignment, error) {
	q := r.db.WithContext(ctx).
		Preload("Room").
		Preload("Student").
		Order("start_date DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var assignments []model.RoomAssignment
	err := q.Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) ListByStudent(ctx context.Context, studentID string) ([]model.RoomAssignment, error) {
	var assignments []model.RoomAssignment
	err := r.db.WithContext(ctx).
		Preload("Room").
		Where("student_id = ?", studentID).
		Order("start_date DESC").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) CountActiveOverlapping(ctx context.Context, roomID string, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.RoomAssignment{}).
		Where("room_id = ? AND status = ? AND start_date < ? AND end_date > ?",
			roomID, model.AssignmentStatusActive, end, start).
		Count(&count).Error
	return count, err
}

func (r *assignmentRepo) CountStudentActiveOverlapping(ctx context.Context, studentID string, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.RoomAssignment{}).
		Where("student_id = ? AND status = ? AND start_date < ? AND end_date > ?",
			studentID, model.AssignmentStatusActive, end, start).
		Count(&count).Error
	return count, err
}

func (r *assignmentRepo) ListActiveEndedBefore(ctx context.Context, today time.Time) ([]model.RoomAssignment, error) {
	var assignments []model.RoomAssignment
	err := r.db.WithContext(ctx).
		Where("status = ? AND end_date < ?", model.AssignmentStatusActive, today).
		Find(&assignments).Error
	return assignments, err
}
