package di

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/visatide/identity-service/internal/app"
	"github.com/visatide/identity-service/internal/config"
	"github.com/visatide/identity-service/internal/database"
	"github.com/visatide/identity-service/internal/health"
	"github.com/visatide/identity-service/internal/http/handler"
	"github.com/visatide/identity-service/internal/http/router"
	"github.com/visatide/identity-service/internal/observability"
	"github.com/visatide/identity-service/internal/repository"
	"github.com/visatide/identity-service/internal/security"
	"github.com/visatide/identity-service/internal/service"
)

var ConfigSet = wire.NewSet(config.Load)

var ObservabilitySet = wire.NewSet(
	provideObservabilityRuntime,
	provideAppLogger,
)

var RuntimeInfraSet = wire.NewSet(
	provideRuntimeDB,
	provideRedisClient,
	provideReadinessChecker,
)

var RepositorySet = wire.NewSet(
	repository.NewUserRepository,
	repository.NewCredentialRepository,
)

var SecuritySet = wire.NewSet(provideJWTManager)

var ServiceSet = wire.NewSet(
	provideTokenService,
	provideNotifier,
	service.NewAuthService,
	service.NewUserService,
	wire.Bind(new(service.AuthServiceInterface), new(*service.AuthService)),
	wire.Bind(new(service.UserServiceInterface), new(*service.UserService)),
)

var HTTPSet = wire.NewSet(
	handler.NewAuthHandler,
	handler.NewUserHandler,
	provideRouterDependencies,
	router.NewRouter,
	provideHTTPServer,
)

var AppSet = wire.NewSet(app.New)

type SeedRunner struct {
	cfg *config.Config
	db  *gorm.DB
}

func NewSeedRunner(cfg *config.Config, db *gorm.DB) *SeedRunner {
	return &SeedRunner{cfg: cfg, db: db}
}

func (s *SeedRunner) Run(adminPhone, adminPassword string) error {
	if err := database.Migrate(s.db); err != nil {
		return err
	}
	if adminPhone == "" {
		adminPhone = s.cfg.BootstrapAdminPhone
	}
	if adminPhone == "" {
		return fmt.Errorf("no bootstrap admin phone configured")
	}
	return database.SeedAdmin(s.db, adminPhone, adminPassword, s.cfg.BcryptCost)
}

func provideObservabilityRuntime(cfg *config.Config) (*observability.Runtime, error) {
	bootstrapLogger := observability.NewBootstrapLogger(cfg)
	ctx := context.Background()

	runtime := &observability.Runtime{}
	if cfg.OTELLogsEnabled {
		lp, err := observability.InitLogs(ctx, cfg, bootstrapLogger)
		if err != nil {
			return nil, err
		}
		runtime.LoggerProvider = lp
	}
	if cfg.OTELMetricsEnabled {
		mp, err := observability.InitMetrics(ctx, cfg, bootstrapLogger)
		if err != nil {
			return nil, err
		}
		runtime.MeterProvider = mp
	}
	return runtime, nil
}

func provideAppLogger(cfg *config.Config, runtime *observability.Runtime) *slog.Logger {
	return observability.InitLogger(cfg, runtime.LoggerProvider)
}

func provideOpenDB(cfg *config.Config) (*gorm.DB, error) {
	return database.Open(cfg)
}

func provideRuntimeDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func provideRedisClient(cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

func provideJWTManager(cfg *config.Config) *security.JWTManager {
	return security.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer)
}

func provideTokenService(cfg *config.Config, jwtMgr *security.JWTManager) *service.TokenService {
	return service.NewTokenService(jwtMgr, cfg.JWTTTL)
}

func provideNotifier(redisClient *redis.Client, logger *slog.Logger) service.Notifier {
	if redisClient == nil {
		return service.NewLogNotifier(logger)
	}
	return service.NewRedisNotifier(redisClient, logger)
}

func provideReadinessChecker(db *gorm.DB, redisClient *redis.Client) *health.Checker {
	checker := health.NewChecker(2 * time.Second)
	checker.Register("postgres", func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})
	if redisClient != nil {
		checker.Register("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	return checker
}

func provideRouterDependencies(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	jwtMgr *security.JWTManager,
	readiness *health.Checker,
	cfg *config.Config,
) router.Dependencies {
	return router.Dependencies{
		AuthHandler:    authHandler,
		UserHandler:    userHandler,
		JWTManager:     jwtMgr,
		CORSOrigins:    cfg.CORSAllowedOrigins,
		Readiness:      readiness,
		AppName:        cfg.OTELServiceName,
		EnableOTelHTTP: cfg.OTELMetricsEnabled,
	}
}

func provideHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           h,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
