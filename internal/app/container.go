package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/nexus/jobboard/domain"
	"github.com/nexus/jobboard/internal/config"
	httpx "github.com/nexus/jobboard/internal/http"
	"github.com/nexus/jobboard/internal/http/handlers"
	"github.com/nexus/jobboard/internal/http/middleware"
	"github.com/nexus/jobboard/internal/infrastructure/audit"
	"github.com/nexus/jobboard/internal/infrastructure/auth"
	"github.com/nexus/jobboard/internal/infrastructure/cache"
	"github.com/nexus/jobboard/internal/infrastructure/database"
	"github.com/nexus/jobboard/internal/infrastructure/notifications"
	"github.com/nexus/jobboard/internal/infrastructure/queue"
	"github.com/nexus/jobboard/internal/infrastructure/repositories"
	"github.com/nexus/jobboard/internal/infrastructure/storage"
	"github.com/nexus/jobboard/internal/services"
)

// Container holds all dependencies
type Container struct {
	// Config
	Config *config.Config
	Log    logrus.FieldLogger

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.Client
	Casbin      *auth.CasbinService
	Queue       domain.EmailQueue
	Dispatcher  *services.EmailDispatcher
	Lists       *cache.ReadThrough

	// Repositories
	UserRepo         domain.UserRepository
	SessionRepo      domain.SessionRepository
	TokenRepo        domain.EmailTokenRepository
	OTPRepo          domain.EmailOTPRepository
	CompanyRepo      domain.CompanyRepository
	TaxonomyRepo     domain.TaxonomyRepository
	JobRepo          domain.JobRepository
	ApplicationRepo  domain.ApplicationRepository
	NotificationRepo domain.NotificationRepository

	// Services
	PasswordSvc     domain.PasswordService
	TokenSvc        domain.TokenService
	SMSSvc          domain.SMSSender
	OTPSvc          domain.OTPService
	AuthSvc         domain.AuthService
	PolicySvc       domain.PolicyService
	JobSvc          domain.JobService
	CompanySvc      domain.CompanyService
	TaxonomySvc     domain.TaxonomyService
	ApplicationSvc  domain.ApplicationService
	NotificationSvc domain.NotificationService

	Router *gin.Engine
}

// NewContainer connects to the database, Redis and the email queue and wires everything
func NewContainer(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*Container, error) {
	db, err := database.Open(cfg.DBDriver, cfg.DSN, log)
	if err != nil {
		return nil, err
	}
	partial := &Container{Log: log, DB: db}
	if err := database.AutoMigrate(db); err != nil {
		partial.Close()
		return nil, err
	}

	rdb, err := database.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, 5*time.Second)
	if err != nil {
		partial.Close()
		return nil, err
	}
	partial.RedisClient = rdb

	q, err := NewQueue(cfg, log)
	if err != nil {
		partial.Close()
		return nil, err
	}
	partial.Queue = q

	c, err := Wire(cfg, log, db, rdb, q)
	if err != nil {
		partial.Close()
		return nil, err
	}
	return c, nil
}

// NewMailer selects the configured email transport
func NewMailer(cfg *config.Config, log logrus.FieldLogger) domain.Mailer {
	if cfg.EmailTransport == "smtp" {
		return notifications.NewSMTPMailer(notifications.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.EmailFrom,
		})
	}
	return notifications.NewConsoleMailer(cfg.EmailFrom, log.WithField("component", "mailer"))
}

// NewQueue publishes to RabbitMQ when a broker URL is set, else delivers in process
func NewQueue(cfg *config.Config, log logrus.FieldLogger) (domain.EmailQueue, error) {
	if cfg.QueueURL != "" {
		q, err := queue.NewRabbitMQ(queue.RabbitConfig{
			URL:                cfg.QueueURL,
			Queue:              cfg.QueueName,
			DeadLetterExchange: cfg.QueueDeadLetterEx,
		}, log.WithField("component", "queue"))
		if err != nil {
			return nil, err
		}
		return q, nil
	}
	return queue.NewInProcess(NewMailer(cfg, log), cfg.QueueWorkers, cfg.QueueBuffer, log.WithField("component", "queue")), nil
}

// Wire builds repositories, services, handlers and the router on top of
// already opened infrastructure.
func Wire(cfg *config.Config, log logrus.FieldLogger, db *gorm.DB, rdb *redis.Client, q domain.EmailQueue) (*Container, error) {
	c := &Container{Config: cfg, Log: log, DB: db, RedisClient: rdb, Queue: q}

	cas, err := auth.NewCasbinService(db, cfg.CasbinModelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize casbin: %w", err)
	}
	if err := cas.SeedDefaultPolicies(); err != nil {
		return nil, err
	}
	c.Casbin = cas

	c.initRepositories()
	c.initServices()
	c.initRouter()
	return c, nil
}

func (c *Container) initRepositories() {
	c.UserRepo = repositories.NewUserRepository(c.DB)
	c.SessionRepo = repositories.NewSessionRepository(c.RedisClient)
	c.TokenRepo = repositories.NewEmailTokenRepository(c.DB)
	c.OTPRepo = repositories.NewEmailOTPRepository(c.DB)
	c.CompanyRepo = repositories.NewCompanyRepository(c.DB)
	c.TaxonomyRepo = repositories.NewTaxonomyRepository(c.DB)
	c.JobRepo = repositories.NewJobRepository(c.DB)
	c.ApplicationRepo = repositories.NewApplicationRepository(c.DB)
	c.NotificationRepo = repositories.NewNotificationRepository(c.DB)
}

func (c *Container) initServices() {
	cfg := c.Config

	var store domain.Cache = cache.NewNoopCache()
	if cfg.CacheEnabled {
		store = cache.NewRedisCache(c.RedisClient)
	}
	c.Lists = cache.NewReadThrough(store, c.Log.WithField("component", "cache"))

	auditLog := audit.NewLogrusAuditLogger(c.Log)
	c.Dispatcher = services.NewEmailDispatcher(c.Queue, cfg.DefaultFromEmail, cfg.EmailSendTimeout, c.Log)

	c.PasswordSvc = auth.NewPasswordService(0)
	c.TokenSvc = auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTTL, cfg.RefreshTTL)
	c.SMSSvc = notifications.NewTwilioService(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioFrom, c.Log.WithField("component", "sms"))
	c.OTPSvc = services.NewOTPService(c.OTPRepo, c.RedisClient, services.OTPConfig{
		Length:       cfg.OTP_Length,
		TTL:          cfg.OTP_TTL,
		MaxAttempts:  cfg.OTP_MaxAttempts,
		ResendWindow: cfg.OTP_ResendWindow,
	})
	c.AuthSvc = services.NewAuthService(
		c.UserRepo,
		c.SessionRepo,
		c.TokenRepo,
		c.PasswordSvc,
		c.TokenSvc,
		c.OTPSvc,
		c.Dispatcher,
		c.SMSSvc,
		auditLog,
		services.AuthConfig{
			AccessTTL:     cfg.AccessTTL,
			RefreshTTL:    cfg.RefreshTTL,
			EmailTokenTTL: cfg.EmailTokenTTL,
			VerifyBaseURL: cfg.VerifyBaseURL,
		},
		c.Log,
	)
	c.PolicySvc = services.NewPolicyService(c.Casbin.E)

	c.JobSvc = services.NewJobService(c.JobRepo, c.CompanyRepo, c.TaxonomyRepo, c.Lists)
	c.CompanySvc = services.NewCompanyService(c.CompanyRepo, c.Lists)
	c.TaxonomySvc = services.NewTaxonomyService(c.TaxonomyRepo)
	c.ApplicationSvc = services.NewApplicationService(
		c.ApplicationRepo,
		c.JobRepo,
		storage.NewLocalResumeStore(cfg.MediaRoot, cfg.MaxResumeBytes),
		c.Dispatcher,
		c.Lists,
		auditLog,
		c.Log,
	)
	c.NotificationSvc = services.NewNotificationService(c.NotificationRepo, c.Lists)
}

func (c *Container) initRouter() {
	cfg := c.Config
	lc := handlers.ListCache{RT: c.Lists, JobsTTL: cfg.JobsCacheTTL, ListTTL: cfg.ListCacheTTL}

	h := httpx.Handlers{
		Auth:          handlers.NewAuthHandlers(c.AuthSvc, cfg.Debug),
		Jobs:          handlers.NewJobHandlers(c.JobSvc, c.ApplicationSvc, lc),
		Companies:     handlers.NewCompanyHandlers(c.CompanySvc),
		Taxonomy:      handlers.NewTaxonomyHandlers(c.TaxonomySvc),
		Applications:  handlers.NewApplicationHandlers(c.ApplicationSvc, lc),
		Notifications: handlers.NewNotificationHandlers(c.NotificationSvc, lc),
		Policies:      handlers.NewPolicyHandlers(c.PolicySvc),
	}

	var rl *middleware.RateLimiter
	if cfg.RateLimitEnabled {
		rl = middleware.NewRateLimiter(middleware.RateLimitConfig{
			UserPerDay: cfg.UserPerDay,
			AnonPerDay: cfg.AnonPerDay,
		})
	}

	c.Router = httpx.BuildRouter(
		h,
		middleware.NewAuthMW(c.TokenSvc, c.SessionRepo, c.UserRepo),
		middleware.NewCasbinMW(c.PolicySvc, c.Log),
		rl,
		c.Log,
	)
}

// Close drains pending email, then closes all connections
func (c *Container) Close() error {
	if c.Dispatcher != nil {
		c.Dispatcher.Wait()
	}
	if c.Queue != nil {
		if err := c.Queue.Close(); err != nil {
			c.Log.WithError(err).Warn("email queue close failed")
		}
	}
	if c.RedisClient != nil {
		c.RedisClient.Close()
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return nil
}
