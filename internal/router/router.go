package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/authz"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/cache"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/config"
	guardianhandlers "github.com/FeexSystems/Rainbow-childcare-sub000/internal/http/handlers/guardian"
	staffhandlers "github.com/FeexSystems/Rainbow-childcare-sub000/internal/http/handlers/staff"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/http/response"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/logger"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按家长端/员工端分组）
	guardianHandler := guardianhandlers.New(c)
	staffHandler := staffhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "rc"
	}
	redisClient := cache.Client()
	guardianLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:guardian_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_too_many",
	}
	staffLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:staff_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_too_many",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	if cfg.Metrics.Enabled {
		r.Use(MetricsMiddleware())
	}

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/captcha/image", guardianHandler.GetImageCaptcha)
		}

		// 家长端接口
		guardian := apiV1.Group("/guardian")
		{
			// 登录接口（无需鉴权）
			guardian.POST("/login", RateLimitMiddleware(redisClient, guardianLoginRule, KeyByIPAndJSONField("email")), guardianHandler.GuardianLogin)

			// 需要鉴权的接口
			authed := guardian.Use(GuardianJWTAuthMiddleware(cfg.GuardianJWT.SecretKey, c.GuardianRepo))
			{
				authed.GET("/me", guardianHandler.GetGuardianProfile)
				authed.PUT("/me/profile", guardianHandler.UpdateGuardianProfile)
				authed.PUT("/me/password", guardianHandler.UpdateGuardianPassword)

				// 儿童与接送码
				authed.GET("/children", guardianHandler.ListMyChildren)
				authed.GET("/children/:id", guardianHandler.GetMyChild)
				authed.POST("/children/:id/pickup-codes", guardianHandler.IssuePickupCode)
				authed.GET("/pickup-codes", guardianHandler.ListMyPickupCodes)
				authed.GET("/pickup-codes/:uuid", guardianHandler.GetMyPickupCode)
				authed.GET("/pickup-codes/:uuid/qr", guardianHandler.GetMyPickupCodeQR)

				// 考勤与日报
				authed.GET("/attendance", guardianHandler.ListMyAttendance)
				authed.GET("/daily-updates", guardianHandler.ListMyDailyUpdates)

				// 公告与论坛
				authed.GET("/announcements", guardianHandler.ListMyAnnouncements)
				authed.GET("/forum/threads", guardianHandler.ListForumThreads)
				authed.POST("/forum/threads", guardianHandler.CreateForumThread)
				authed.GET("/forum/threads/:id", guardianHandler.GetForumThread)
				authed.GET("/forum/threads/:id/replies", guardianHandler.ListForumReplies)
				authed.POST("/forum/threads/:id/replies", guardianHandler.CreateForumReply)

				// 账单
				authed.GET("/invoices", guardianHandler.ListMyInvoices)
				authed.GET("/invoices/:id", guardianHandler.GetMyInvoice)

				// 通知
				authed.GET("/notifications", guardianHandler.ListMyNotifications)
				authed.GET("/notifications/unread-count", guardianHandler.CountMyUnreadNotifications)
				authed.POST("/notifications/:id/read", guardianHandler.MarkMyNotificationRead)
			}
		}

		// 员工端接口
		staff := apiV1.Group("/staff")
		{
			// 登录接口（无需鉴权）
			staff.POST("/login", RateLimitMiddleware(redisClient, staffLoginRule, KeyByIP), staffHandler.StaffLogin)

			// 需要鉴权的接口
			authorized := staff.Use(StaffJWTAuthMiddleware(cfg.JWT.SecretKey, c.StaffRepo), StaffRBACMiddleware(c.AuthzService))
			{
				authorized.GET("/me", staffHandler.GetStaffMe)
				authorized.PUT("/password", staffHandler.UpdateStaffPassword)

				// 仪表盘
				authorized.GET("/dashboard/overview", staffHandler.GetDashboardOverview)
				authorized.GET("/dashboard/trends", staffHandler.GetDashboardTrends)
				authorized.GET("/dashboard/occupancy", staffHandler.GetDashboardOccupancy)

				// 接送码核销
				authorized.POST("/pickup/redeem", staffHandler.RedeemPickupCode)
				authorized.GET("/pickup/redemptions/recent", staffHandler.RecentPickupRedemptions)
				authorized.GET("/pickup/codes", staffHandler.ListPickupCodes)
				authorized.GET("/pickup/codes/:ref/status", staffHandler.GetPickupCodeStatus)

				// 儿童档案管理
				authorized.GET("/children", staffHandler.ListChildren)
				authorized.POST("/children", staffHandler.CreateChild)
				authorized.GET("/children/:id", staffHandler.GetChild)
				authorized.PUT("/children/:id", staffHandler.UpdateChild)
				authorized.DELETE("/children/:id", staffHandler.DeleteChild)
				authorized.GET("/children/:id/guardians", staffHandler.ListChildGuardians)
				authorized.POST("/children/:id/guardians", staffHandler.LinkChildGuardian)
				authorized.DELETE("/children/:id/guardians/:guardian_id", staffHandler.UnlinkChildGuardian)

				// 班级管理
				authorized.GET("/rooms", staffHandler.ListRooms)
				authorized.POST("/rooms", staffHandler.CreateRoom)
				authorized.GET("/rooms/:id", staffHandler.GetRoom)
				authorized.PUT("/rooms/:id", staffHandler.UpdateRoom)
				authorized.DELETE("/rooms/:id", staffHandler.DeleteRoom)

				// 考勤管理
				authorized.POST("/attendance/check-in", staffHandler.AttendanceCheckIn)
				authorized.POST("/attendance/check-out", staffHandler.AttendanceCheckOut)
				authorized.POST("/attendance/mark", staffHandler.AttendanceMark)
				authorized.GET("/attendance", staffHandler.ListAttendanceRecords)
				authorized.GET("/attendance/:id", staffHandler.GetAttendanceRecord)

				// 日报管理
				authorized.POST("/daily-updates", staffHandler.CreateDailyUpdate)
				authorized.GET("/daily-updates", staffHandler.ListDailyUpdates)
				authorized.GET("/daily-updates/:id", staffHandler.GetDailyUpdate)
				authorized.DELETE("/daily-updates/:id", staffHandler.DeleteDailyUpdate)

				// 公告管理
				authorized.GET("/announcements", staffHandler.ListAnnouncements)
				authorized.POST("/announcements", staffHandler.CreateAnnouncement)
				authorized.GET("/announcements/:id", staffHandler.GetAnnouncement)
				authorized.PUT("/announcements/:id", staffHandler.UpdateAnnouncement)
				authorized.DELETE("/announcements/:id", staffHandler.DeleteAnnouncement)
				authorized.POST("/announcements/:id/publish", staffHandler.PublishAnnouncement)

				// 论坛管理
				authorized.GET("/forum/threads", staffHandler.ListForumThreads)
				authorized.GET("/forum/threads/:id", staffHandler.GetForumThread)
				authorized.GET("/forum/threads/:id/replies", staffHandler.ListForumReplies)
				authorized.POST("/forum/threads/:id/replies", staffHandler.CreateForumReply)
				authorized.POST("/forum/threads/:id/lock", staffHandler.LockForumThread)
				authorized.POST("/forum/threads/:id/pin", staffHandler.PinForumThread)
				authorized.DELETE("/forum/threads/:id", staffHandler.DeleteForumThread)
				authorized.DELETE("/forum/replies/:id", staffHandler.DeleteForumReply)

				// 账单管理
				authorized.GET("/invoices", staffHandler.ListInvoices)
				authorized.POST("/invoices", staffHandler.CreateInvoice)
				authorized.GET("/invoices/:id", staffHandler.GetInvoice)
				authorized.POST("/invoices/:id/pay", staffHandler.MarkInvoicePaid)
				authorized.POST("/invoices/:id/void", staffHandler.MarkInvoiceVoid)

				// 家长账号管理
				authorized.GET("/guardians", staffHandler.ListGuardians)
				authorized.POST("/guardians", staffHandler.CreateGuardian)
				authorized.GET("/guardians/:id", staffHandler.GetGuardian)
				authorized.PUT("/guardians/:id/status", staffHandler.SetGuardianStatus)
				authorized.GET("/guardian-login-logs", staffHandler.GetGuardianLoginLogs)

				// 通知
				authorized.POST("/notifications/send", staffHandler.SendNotification)
				authorized.GET("/notifications", staffHandler.ListStaffNotifications)
				authorized.POST("/notifications/:id/read", staffHandler.MarkStaffNotificationRead)

				// 权限管理
				authorized.GET("/authz/me", staffHandler.GetAuthzMe)
				authorized.GET("/authz/roles", staffHandler.ListAuthzRoles)
				authorized.GET("/authz/staff", staffHandler.ListAuthzStaff)
				authorized.GET("/authz/audit-logs", staffHandler.ListAuthzAuditLogs)
				authorized.POST("/authz/staff", staffHandler.CreateStaffAccount)
				authorized.PUT("/authz/staff/:id", staffHandler.UpdateStaffAccount)
				authorized.DELETE("/authz/staff/:id", staffHandler.DeleteStaffAccount)
				authorized.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
					response.Success(ctx, buildStaffPermissionCatalog(r))
				})
				authorized.POST("/authz/roles", staffHandler.CreateAuthzRole)
				authorized.DELETE("/authz/roles/:role", staffHandler.DeleteAuthzRole)
				authorized.GET("/authz/roles/:role/policies", staffHandler.GetAuthzRolePolicies)
				authorized.POST("/authz/policies", staffHandler.GrantAuthzPolicy)
				authorized.DELETE("/authz/policies", staffHandler.RevokeAuthzPolicy)
				authorized.GET("/authz/staff/:id/roles", staffHandler.GetAuthzStaffRoles)
				authorized.PUT("/authz/staff/:id/roles", staffHandler.SetAuthzStaffRoles)
			}
		}
	}

	// 指标暴露
	if cfg.Metrics.Enabled {
		metricsPath := strings.TrimSpace(cfg.Metrics.Path)
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
		r.GET(metricsPath, gin.WrapH(promhttp.Handler()))
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type staffPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func buildStaffPermissionCatalog(engine *gin.Engine) []staffPermissionCatalogItem {
	if engine == nil {
		return []staffPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]staffPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/staff/") {
			continue
		}
		if item.Path == "/api/v1/staff/login" {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, staffPermissionCatalogItem{
			Module:     deriveStaffPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveStaffPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "staff" {
		return segments[0]
	}
	if segments[1] == "authz" {
		return "authz"
	}
	return segments[1]
}
