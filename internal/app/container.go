package app

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/you/accountsvc/domain"
	"github.com/you/accountsvc/internal/config"
	"github.com/you/accountsvc/internal/http/middleware"
	"github.com/you/accountsvc/internal/infrastructure/auth"
	"github.com/you/accountsvc/internal/infrastructure/database"
	"github.com/you/accountsvc/internal/infrastructure/events"
	"github.com/you/accountsvc/internal/infrastructure/repositories"
	"github.com/you/accountsvc/internal/metrics"
	"github.com/you/accountsvc/internal/services"
)

// Container holds all dependencies
type Container struct {
	Config *config.Config
	Logger *zap.Logger
	Clock  clockwork.Clock

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.Client
	Casbin      *auth.CasbinService
	Registry    *prometheus.Registry

	// Repositories
	Repos    services.AccountRepositories
	Tx       domain.TransactionHandler
	Sessions *repositories.MemorySessionStore

	// Services
	Hasher     domain.PasswordHasher
	Publisher  domain.EventPublisher
	AccountSvc *services.AccountServiceImpl
	SessionSvc *services.SessionServiceImpl

	// HTTP
	LoginLimiter *middleware.RateLimiter
	HTTPMetrics  *metrics.HTTPMetrics
}

// NewContainer opens the configured database and initializes all dependencies
func NewContainer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	db, err := database.Open(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return NewContainerWithDB(ctx, cfg, logger, db)
}

// NewContainerWithDB initializes all dependencies on an already opened database.
// The container takes ownership of db.
func NewContainerWithDB(ctx context.Context, cfg *config.Config, logger *zap.Logger, db *gorm.DB) (*Container, error) {
	c := &Container{
		Config:   cfg,
		Logger:   logger,
		Clock:    clockwork.NewRealClock(),
		Registry: metrics.NewRegistry(),
		DB:       db,
	}

	if err := c.initDatabase(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	if err := c.initRedis(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	if err := c.initAuthorization(); err != nil {
		_ = c.Close()
		return nil, err
	}

	c.initRepositories()
	c.initServices()

	return c, nil
}

func (c *Container) initDatabase(ctx context.Context) error {
	if err := database.AutoMigrate(c.DB); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	if err := database.SeedUserTypes(ctx, c.DB); err != nil {
		return fmt.Errorf("failed to seed user types: %w", err)
	}
	return nil
}

// initRedis connects the event stream. Without an address events are only logged.
func (c *Container) initRedis(ctx context.Context) error {
	if c.Config.RedisAddr == "" {
		c.Logger.Info("redis not configured, account events will be logged only")
		c.Publisher = events.NewLogPublisher(c.Logger)
		return nil
	}

	c.RedisClient = redis.NewClient(&redis.Options{
		Addr:     c.Config.RedisAddr,
		Password: c.Config.RedisPassword,
		DB:       c.Config.RedisDB,
	})
	if err := c.RedisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to reach redis at %s: %w", c.Config.RedisAddr, err)
	}
	c.Publisher = events.NewRedisPublisher(c.RedisClient, c.Config.EventStream)
	return nil
}

func (c *Container) initAuthorization() error {
	cas, err := auth.NewCasbinService(c.DB, c.Config.CasbinModelPath)
	if err != nil {
		return fmt.Errorf("failed to initialize casbin: %w", err)
	}
	seeded, err := cas.SeedDefaultPolicies()
	if err != nil {
		return fmt.Errorf("failed to seed casbin policies: %w", err)
	}
	if seeded {
		c.Logger.Info("casbin: seeded default policies")
	}
	c.Casbin = cas
	return nil
}

func (c *Container) initRepositories() {
	c.Repos = services.AccountRepositories{
		Users:     repositories.NewUserRepository(c.DB),
		Cities:    repositories.NewCityRepository(c.DB, c.Logger.Named("cities")),
		Addresses: repositories.NewAddressRepository(c.DB),
		Contacts:  repositories.NewContactInfoRepository(c.DB),
		Logins:    repositories.NewLoginInfoRepository(c.DB),
	}
	c.Tx = repositories.NewTransactionHandler(c.DB)
	c.Sessions = repositories.NewSessionStore(c.Clock)
}

func (c *Container) initServices() {
	accountMetrics := metrics.NewAccountMetrics(c.Registry)
	metrics.RegisterActiveSessions(c.Registry, c.Sessions.ActiveCount)
	c.HTTPMetrics = metrics.NewHTTPMetrics(c.Registry)

	c.Hasher = auth.NewPasswordHasher()

	c.AccountSvc = services.NewAccountService(
		c.Repos,
		c.Tx,
		services.NewValidator(),
		c.Hasher,
		c.Sessions,
		c.Publisher,
		accountMetrics,
		c.Logger.Named("accounts"),
		c.Config.AdminCredentials,
	)
	c.SessionSvc = services.NewSessionService(
		c.AccountSvc,
		c.Sessions,
		c.Publisher,
		accountMetrics,
		c.Logger.Named("sessions"),
		c.Clock,
		c.Config.SessionTTL,
	)

	limiterCfg := middleware.DefaultRateLimiterConfig()
	if c.Config.LoginRate > 0 {
		limiterCfg.Rate = rate.Limit(c.Config.LoginRate)
	}
	if c.Config.LoginBurst > 0 {
		limiterCfg.Burst = c.Config.LoginBurst
	}
	c.LoginLimiter = middleware.NewRateLimiter(limiterCfg, c.Clock, c.Logger.Named("ratelimit"))
}

// Close closes all connections
func (c *Container) Close() error {
	if c.LoginLimiter != nil {
		c.LoginLimiter.Stop()
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("failed to close redis client", zap.Error(err))
		}
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
