package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	authrepo "github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/auth/repository"
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/auth/service"
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/clock"
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/config"
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/constants"
	commoncrypto "github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/crypto"
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/db"
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/logger"
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/resilience"
)

type App struct {
	Log           *logger.Logger
	Pool          *pgxpool.Pool
	UserRepo      *authrepo.PgUserRepository
	RevokedTokens *authrepo.PgRevokedTokenRepository
}

type AuthApp struct {
	App
	Config  config.AuthConfig
	Breaker *resilience.CircuitBreaker
	Auth    *service.AuthService
}

// NewAuthApp wires the auth service from cfg. The returned app owns the pool
// and the log file; call Close when done.
func NewAuthApp(ctx context.Context, cfg config.AuthConfig) (*AuthApp, error) {
	log, err := logger.New(cfg.LogDir, "auth", cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if cfg.AutoMigrate {
		if err := migrate(ctx, log, cfg.DatabaseURL); err != nil {
			_ = log.Close()
			return nil, err
		}
	}

	app, err := initializeApp(ctx, log, cfg.DatabaseURL)
	if err != nil {
		_ = log.Close()
		return nil, err
	}

	clk := clock.NewRealClock()
	idGenerator := commoncrypto.NewUUIDGenerator()

	tokens, err := service.NewTokenService(service.TokenConfig{
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		TTL:      cfg.SessionTTL,
	}, idGenerator, clk)
	if err != nil {
		app.Close()
		return nil, err
	}

	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Threshold:  int32(cfg.CircuitBreakerThreshold),
		Timeout:    cfg.CircuitBreakerTimeout,
		ResetAfter: cfg.CircuitBreakerReset,
		Name:       "auth-db",
		IsFailure:  service.IsRepositoryFailure,
		Clock:      clk,
		Logger:     log,
	})

	auth := service.NewAuthService(service.AuthServiceDeps{
		Users:          app.UserRepo,
		RevokedTokens:  app.RevokedTokens,
		Hasher:         commoncrypto.NewPBKDF2Hasher(),
		IDGenerator:    idGenerator,
		ResetTokens:    commoncrypto.NewRandomTokenGenerator(),
		Tokens:         tokens,
		Notifier:       service.NewLogNotifier(log),
		CircuitBreaker: breaker,
		Clock:          clk,
		Logger:         log,
	}, service.AuthServiceConfig{
		ResetTokenTTL:   cfg.ResetTokenTTL,
		TokenRevocation: cfg.TokenRevocation,
	})

	return &AuthApp{
		App:     *app,
		Config:  cfg,
		Breaker: breaker,
		Auth:    auth,
	}, nil
}

func initializeApp(ctx context.Context, log *logger.Logger, databaseURL string) (*App, error) {
	pool, err := db.NewPool(ctx, log, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}

	db.StartPoolMetrics(ctx, pool, constants.DBPoolMetricsInterval)

	return &App{
		Log:           log,
		Pool:          pool,
		UserRepo:      authrepo.NewPgUserRepository(pool, log),
		RevokedTokens: authrepo.NewPgRevokedTokenRepository(pool, log),
	}, nil
}

func migrate(ctx context.Context, log *logger.Logger, databaseURL string) error {
	migrator, err := db.NewMigrator(databaseURL, log)
	if err != nil {
		return fmt.Errorf("failed to open migrator: %w", err)
	}
	defer migrator.Close()

	applied, err := migrator.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	log.Infof("auto-migrate: applied %d migration(s)", applied)
	return nil
}

func (a *App) Close() {
	if a.Pool != nil {
		a.Pool.Close()
	}
	if a.Log != nil {
		_ = a.Log.Close()
	}
}
