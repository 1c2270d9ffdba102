package provider

import (
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/authz"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/cache"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/config"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/logger"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/models"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/queue"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/repository"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	StaffRepo            repository.StaffRepository
	GuardianRepo         repository.GuardianRepository
	GuardianLoginLogRepo repository.GuardianLoginLogRepository
	RoomRepo             repository.RoomRepository
	ChildRepo            repository.ChildRepository
	PickupRepo           repository.PickupAuthorizationRepository
	AttendanceRepo       repository.AttendanceRepository
	DailyUpdateRepo      repository.DailyUpdateRepository
	AnnouncementRepo     repository.AnnouncementRepository
	ForumRepo            repository.ForumRepository
	InvoiceRepo          repository.InvoiceRepository
	NotificationRepo     repository.NotificationRepository
	AuthzAuditLogRepo    repository.AuthzAuditLogRepository
	DashboardRepo        repository.DashboardRepository

	// Services
	AuthzService        *authz.Service
	AuthService         *service.AuthService
	GuardianAuthService *service.GuardianAuthService
	GuardianService     *service.GuardianService
	EmailService        *service.EmailService
	CaptchaService      *service.CaptchaService
	ChildService        *service.ChildService
	PickupService       *service.PickupService
	AttendanceService   *service.AttendanceService
	DailyUpdateService  *service.DailyUpdateService
	AnnouncementService *service.AnnouncementService
	ForumService        *service.ForumService
	InvoiceService      *service.InvoiceService
	NotificationService *service.NotificationService
	AuthzAuditService   *service.AuthzAuditService
	DashboardService    *service.DashboardService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.StaffRepo = repository.NewStaffRepository(db)
	c.GuardianRepo = repository.NewGuardianRepository(db)
	c.GuardianLoginLogRepo = repository.NewGuardianLoginLogRepository(db)
	c.RoomRepo = repository.NewRoomRepository(db)
	c.ChildRepo = repository.NewChildRepository(db)
	c.PickupRepo = repository.NewPickupAuthorizationRepository(db)
	c.AttendanceRepo = repository.NewAttendanceRepository(db)
	c.DailyUpdateRepo = repository.NewDailyUpdateRepository(db)
	c.AnnouncementRepo = repository.NewAnnouncementRepository(db)
	c.ForumRepo = repository.NewForumRepository(db)
	c.InvoiceRepo = repository.NewInvoiceRepository(db)
	c.NotificationRepo = repository.NewNotificationRepository(db)
	c.AuthzAuditLogRepo = repository.NewAuthzAuditLogRepository(db)
	c.DashboardRepo = repository.NewDashboardRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.AuthService = service.NewAuthService(c.Config, c.StaffRepo)
	c.GuardianAuthService = service.NewGuardianAuthService(c.Config, c.GuardianRepo, c.GuardianLoginLogRepo)
	c.GuardianService = service.NewGuardianService(c.Config, c.GuardianRepo, c.GuardianLoginLogRepo)
	c.ChildService = service.NewChildService(c.ChildRepo, c.RoomRepo, c.GuardianRepo)
	c.PickupService = service.NewPickupService(c.PickupRepo, c.ChildRepo, c.AttendanceRepo, c.QueueClient, c.Config.Pickup)
	c.AttendanceService = service.NewAttendanceService(c.AttendanceRepo, c.ChildRepo)
	c.DailyUpdateService = service.NewDailyUpdateService(c.DailyUpdateRepo, c.ChildRepo, c.QueueClient)
	c.AnnouncementService = service.NewAnnouncementService(c.AnnouncementRepo, c.RoomRepo, c.QueueClient)
	c.ForumService = service.NewForumService(c.ForumRepo)
	c.InvoiceService = service.NewInvoiceService(models.DB, c.InvoiceRepo, c.GuardianRepo, c.ChildRepo, c.QueueClient)
	c.NotificationService = service.NewNotificationService(c.NotificationRepo)
	c.AuthzAuditService = service.NewAuthzAuditService(c.AuthzAuditLogRepo)
	c.DashboardService = service.NewDashboardService(c.DashboardRepo)
}
