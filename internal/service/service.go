package service

import (
	"go.uber.org/zap"

	"hostel-portal/backend/config"
	"hostel-portal/backend/internal/queue"
	"hostel-portal/backend/internal/repository"
	"hostel-portal/backend/pkg/jwt"
	"hostel-portal/backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth         AuthService
	Allocation   AllocationService
	Semester     SemesterService
	Room         RoomService
	Payment      PaymentService
	Maintenance  MaintenanceService
	Notification NotificationService
	Diagnostics  DiagnosticsService
	Export       ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	publisher *queue.Publisher,
	logger *zap.Logger,
) *Service {
	prices := NewPriceTable(&cfg.Pricing)

	return &Service{
		Auth:         NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		Allocation:   NewAllocationService(repo, publisher, prices, logger),
		Semester:     NewSemesterService(repo, logger),
		Room:         NewRoomService(repo, logger),
		Payment:      NewPaymentService(repo, logger),
		Maintenance:  NewMaintenanceService(repo, logger),
		Notification: NewNotificationService(repo, logger),
		Diagnostics:  NewDiagnosticsService(repo, logger),
		Export:       NewExportService(repo, logger),
	}
}
