package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wfm/backend/config"
	"wfm/backend/internal/api/handler"
	"wfm/backend/internal/api/middleware"
	"wfm/backend/pkg/jwt"
	"wfm/backend/pkg/redis"
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
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

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
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.GET("", middleware.RoleAuth("admin", "supervisor"), h.User.ListUsers)
				users.GET("/:id", middleware.RoleAuth("admin", "supervisor"), h.User.GetUser)
				users.POST("", middleware.RoleAuth("admin"), h.User.CreateUser)
				users.PUT("/:id", middleware.RoleAuth("admin"), h.User.UpdateUser)
				users.DELETE("/:id", middleware.RoleAuth("admin"), h.User.DeleteUser)
			}

			// 部门模块
			departments := authorized.Group("/departments")
			{
				departments.GET("", h.Department.ListDepartments)
				departments.GET("/:id", h.Department.GetDepartment)
				departments.POST("", middleware.RoleAuth("admin"), h.Department.CreateDepartment)
				departments.PUT("/:id", middleware.RoleAuth("admin"), h.Department.UpdateDepartment)
				departments.DELETE("/:id", middleware.RoleAuth("admin"), h.Department.DeleteDepartment)
			}

			// 班次类型模块
			shiftTypes := authorized.Group("/shift-types")
			{
				shiftTypes.GET("", h.Shift.ListShiftTypes)
				shiftTypes.POST("", middleware.RoleAuth("admin", "supervisor"), h.Shift.CreateShiftType)
				shiftTypes.PUT("/:id", middleware.RoleAuth("admin", "supervisor"), h.Shift.UpdateShiftType)
				shiftTypes.DELETE("/:id", middleware.RoleAuth("admin"), h.Shift.DeleteShiftType)
			}

			// 坐席排班模块（花名册）
			agentShifts := authorized.Group("/agent-shifts")
			{
				agentShifts.GET("", h.Shift.ListShiftsByDate)
				agentShifts.POST("", middleware.RoleAuth("admin", "supervisor"), h.Shift.AssignShifts)
				agentShifts.DELETE("/:id", middleware.RoleAuth("admin", "supervisor"), h.Shift.RemoveShift)
			}

			// 排休规则模块
			breakRules := authorized.Group("/break-rules")
			{
				breakRules.GET("", h.BreakRule.ListBreakRules)
				breakRules.GET("/:id", h.BreakRule.GetBreakRule)
				breakRules.POST("", middleware.RoleAuth("admin"), h.BreakRule.CreateBreakRule)
				breakRules.PUT("/:id", middleware.RoleAuth("admin"), h.BreakRule.UpdateBreakRule)
				breakRules.DELETE("/:id", middleware.RoleAuth("admin"), h.BreakRule.DeleteBreakRule)
			}

			// 排休模块
			breakSchedules := authorized.Group("/break-schedules")
			{
				breakSchedules.GET("", h.BreakSchedule.GetDay)
				breakSchedules.POST("/auto-distribute/preview", middleware.RoleAuth("admin", "supervisor"), h.BreakSchedule.Preview)
				breakSchedules.POST("/auto-distribute/apply", middleware.RoleAuth("admin", "supervisor"), h.BreakSchedule.Apply)
				breakSchedules.PUT("/intervals", middleware.RoleAuth("admin", "supervisor"), h.BreakSchedule.UpdateIntervals)
				breakSchedules.POST("/edit", middleware.RoleAuth("admin", "supervisor"), h.BreakSchedule.SubmitEdit)
				breakSchedules.POST("/import", middleware.RoleAuth("admin", "supervisor"), h.BreakSchedule.ImportCSV)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/break-schedules", h.BreakSchedule.ExportCSV)
				export.GET("/break-schedules.xlsx", middleware.RoleAuth("admin", "supervisor"), h.Export.ExportDaySchedule)
			}
		}
	}

	return r
}
