package handler

import "hostel-portal/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	Application  *ApplicationHandler
	Semester     *SemesterHandler
	Room         *RoomHandler
	Assignment   *AssignmentHandler
	Payment      *PaymentHandler
	Maintenance  *MaintenanceHandler
	Notification *NotificationHandler
	Diagnostics  *DiagnosticsHandler
	Export       *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		Application:  NewApplicationHandler(svc.Allocation),
		Semester:     NewSemesterHandler(svc.Semester, svc.Allocation),
		Room:         NewRoomHandler(svc.Room, svc.Allocation),
		Assignment:   NewAssignmentHandler(svc.Allocation),
		Payment:      NewPaymentHandler(svc.Payment),
		Maintenance:  NewMaintenanceHandler(svc.Maintenance),
		Notification: NewNotificationHandler(svc.Notification),
		Diagnostics:  NewDiagnosticsHandler(svc.Diagnostics),
		Export:       NewExportHandler(svc.Export),
	}
}
