package constants

import "time"

const (
	UsernameMinLength       = 3
	UsernameMaxLength       = 100
	EmailMaxLength          = 255
	PasswordMinLength       = 8
	PasswordMaxLength       = 256
	ProfilePictureMaxLength = 2048
	JWTSecretMinLength      = 32

	PasswordSaltSize       = 16
	PasswordKeySize        = 32
	PasswordHashIterations = 10000
	ResetTokenSize         = 32

	DefaultMaxRequestSize = 1 << 20

	DefaultSessionTTL    = 1 * time.Hour
	DefaultResetTokenTTL = 1 * time.Hour

	DefaultSessionCookieName = "jwt"
	DefaultSessionCookiePath = "/"

	DBPoolMaxConns        = 25
	DBPoolMinConns        = 5
	DBPoolConnMaxLifetime = 1 * time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = 1 * time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = 1 * time.Second
	DBPoolMetricsInterval = 30 * time.Second
	DBQueryTimeout        = 30 * time.Second
	DBApplicationName     = "aidrams-auth"

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultAuthHTTPPort       = "8081"
	DefaultAuthRequestTimeout = 5 * time.Second
	DefaultCleanupInterval    = 1 * time.Hour

	DefaultCircuitBreakerThreshold = 500
	DefaultCircuitBreakerTimeout   = 15 * time.Second
	DefaultCircuitBreakerReset     = 10 * time.Second

	RateLimitCleanupInterval = 5 * time.Minute

	RateLimitLoginRequestsPerSecond    = 1.0
	RateLimitLoginBurst                = 5
	RateLimitRegisterRequestsPerSecond = 0.2
	RateLimitRegisterBurst             = 3
	RateLimitResetRequestsPerSecond    = 0.1
	RateLimitResetBurst                = 3
	RateLimitLogoutRequestsPerSecond   = 2.0
	RateLimitLogoutBurst               = 10
	RateLimitGeneralRequestsPerSecond  = 10.0
	RateLimitGeneralBurst              = 20

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
