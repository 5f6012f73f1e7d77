package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hostel-portal/backend/config"
	"hostel-portal/backend/internal/api/handler"
	"hostel-portal/backend/internal/api/middleware"
	"hostel-portal/backend/pkg/jwt"
	"hostel-portal/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			// 住宿申请模块
			applications := authorized.Group("/applications")
			{
				applications.POST("", middleware.RoleAuth("student"), h.Application.SubmitApplication)
				applications.GET("/my", middleware.RoleAuth("student"), h.Application.ListMyApplications)
				applications.GET("", middleware.RoleAuth("staff", "admin"), h.Application.ListApplications)
				applications.GET("/:id", h.Application.GetApplication) // 员工或本人（Handler 层鉴权）
				applications.PUT("/:id/approve", middleware.RoleAuth("staff", "admin"), h.Application.ApproveApplication)
				applications.PUT("/:id/reject", middleware.RoleAuth("staff", "admin"), h.Application.RejectApplication)
				applications.POST("/:id/assign-room", middleware.RoleAuth("staff", "admin"), h.Application.AssignRoom)
			}

			// 学期模块
			semesters := authorized.Group("/semesters")
			{
				semesters.GET("", h.Semester.ListSemesters)
				semesters.GET("/active", h.Semester.GetActiveSemester)
				semesters.GET("/:id", h.Semester.GetSemester)
				semesters.GET("/:id/quota", h.Semester.GetSemesterQuota)
				semesters.POST("", middleware.RoleAuth("admin"), h.Semester.CreateSemester)
				semesters.PUT("/:id", middleware.RoleAuth("admin"), h.Semester.UpdateSemester)
				semesters.PUT("/:id/activate", middleware.RoleAuth("admin"), h.Semester.ActivateSemester)
				semesters.DELETE("/:id", middleware.RoleAuth("admin"), h.Semester.DeleteSemester)
			}

			// 房间模块
			rooms := authorized.Group("/rooms")
			{
				rooms.GET("", h.Room.ListRooms)
				rooms.GET("/availability", h.Room.GetRoomAvailability)
				rooms.GET("/:id", h.Room.GetRoom)
				rooms.GET("/:id/full", h.Room.GetRoomFull)
				rooms.POST("", middleware.RoleAuth("staff", "admin"), h.Room.CreateRoom)
				rooms.PUT("/:id", middleware.RoleAuth("staff", "admin"), h.Room.UpdateRoom)
				rooms.DELETE("/:id", middleware.RoleAuth("admin"), h.Room.DeleteRoom)
			}

			// 入住分配模块
			assignments := authorized.Group("/assignments")
			{
				assignments.GET("", middleware.RoleAuth("staff", "admin"), h.Assignment.ListAssignments)
				assignments.GET("/my", middleware.RoleAuth("student"), h.Assignment.ListMyAssignments)
				assignments.POST("/expire", middleware.RoleAuth("staff", "admin"), h.Assignment.ExpireAssignments)
			}

			// 缴费模块
			payments := authorized.Group("/payments")
			{
				payments.GET("", middleware.RoleAuth("staff", "admin"), h.Payment.ListPayments)
				payments.GET("/my", middleware.RoleAuth("student"), h.Payment.ListMyPayments)
				payments.GET("/:id", h.Payment.GetPayment) // 员工或本人（Handler 层鉴权）
				payments.PUT("/:id/status", middleware.RoleAuth("staff", "admin"), h.Payment.UpdatePaymentStatus)
				payments.POST("/cleanup", middleware.RoleAuth("admin"), h.Payment.CleanupPayments)
			}

			// 维修工单模块
			maintenance := authorized.Group("/maintenance")
			{
				maintenance.POST("", middleware.RoleAuth("student"), h.Maintenance.CreateMaintenanceRequest)
				maintenance.GET("/my", middleware.RoleAuth("student"), h.Maintenance.ListMyMaintenanceRequests)
				maintenance.GET("", middleware.RoleAuth("staff", "admin"), h.Maintenance.ListMaintenanceRequests)
				maintenance.GET("/:id", middleware.RoleAuth("staff", "admin"), h.Maintenance.GetMaintenanceRequest)
				maintenance.PUT("/:id", middleware.RoleAuth("staff", "admin"), h.Maintenance.UpdateMaintenanceRequest)
			}

			// 通知模块
			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", h.Notification.ListMyNotifications)
				notifications.PUT("/:id/read", h.Notification.MarkNotificationRead)
			}

			// 诊断模块
			diagnostics := authorized.Group("/diagnostics")
			{
				diagnostics.GET("/summary", middleware.RoleAuth("staff", "admin"), h.Diagnostics.GetSummary)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/assignments", middleware.RoleAuth("staff", "admin"), h.Export.ExportAssignments)
			}
		}
	}

	return r
}
