package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	apperrors "hostel-portal/backend/pkg/errors"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User         UserRepository
	Semester     SemesterRepository
	Room         RoomRepository
	Application  ApplicationRepository
	Assignment   AssignmentRepository
	Payment      PaymentRepository
	Maintenance  MaintenanceRepository
	Notification NotificationRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:           db,
		User:         NewUserRepo(db),
		Semester:     NewSemesterRepo(db),
		Room:         NewRoomRepo(db),
		Application:  NewApplicationRepo(db),
		Assignment:   NewAssignmentRepo(db),
		Payment:      NewPaymentRepo(db),
		Maintenance:  NewMaintenanceRepo(db),
		Notification: NewNotificationRepo(db),
	}
}

// Transaction 在单个数据库事务中执行 fn，fn 拿到的是绑定该事务的 Repository。
// 分配引擎的每次决策（提交/批准/拒绝/分配）都必须在这里执行，
// 保证级联状态变更要么整体提交、要么整体回滚。
// db 为空时（单测用 mock 仓储直接构造聚合）退化为直接调用 fn。
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
	return translateConflict(err)
}

// translateConflict 将 PostgreSQL 的串行化失败与死锁翻译为业务可重试的写冲突
func translateConflict(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 40001 serialization_failure / 40P01 deadlock_detected
		if pgErr.Code == "40001" || pgErr.Code == "40P01" {
			return apperrors.ErrWriteConflict
		}
	}
	return err
}

// IsUniqueViolation 判断 err 是否为指定约束（或索引）上的唯一性冲突。
// constraint 为空时匹配任意唯一性冲突。
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	// 23505 unique_violation
	if pgErr.Code != "23505" {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
