package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/constants"
	commonerrors "github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/errors"
)

type AuthConfig struct {
	HTTPPort    string `koanf:"http-port"`
	DatabaseURL string `koanf:"database-url"`

	JWTSecret   string        `koanf:"jwt-secret"`
	JWTIssuer   string        `koanf:"jwt-issuer"`
	JWTAudience string        `koanf:"jwt-audience"`
	SessionTTL  time.Duration `koanf:"session-ttl"`

	CookieName     string `koanf:"cookie-name"`
	CookieDomain   string `koanf:"cookie-domain"`
	CookiePath     string `koanf:"cookie-path"`
	CookieSecure   bool   `koanf:"cookie-secure"`
	CookieSameSite string `koanf:"cookie-samesite"`

	ResetTokenTTL        time.Duration `koanf:"reset-token-ttl"`
	ResetTokenInResponse bool          `koanf:"reset-token-in-response"`
	TokenRevocation      bool          `koanf:"token-revocation"`

	RequestTimeout     time.Duration `koanf:"request-timeout"`
	CleanupInterval    time.Duration `koanf:"cleanup-interval"`
	CORSAllowedOrigins []string      `koanf:"cors-allowed-origins"`
	TrustedProxies     []string      `koanf:"trusted-proxies"`
	AutoMigrate        bool          `koanf:"auto-migrate"`

	CircuitBreakerThreshold int           `koanf:"circuit-breaker-threshold"`
	CircuitBreakerTimeout   time.Duration `koanf:"circuit-breaker-timeout"`
	CircuitBreakerReset     time.Duration `koanf:"circuit-breaker-reset"`

	LogDir   string `koanf:"log-dir"`
	LogLevel string `koanf:"log-level"`
}

var envKeys = map[string]string{
	"AUTH_HTTP_PORT":               "http-port",
	"DATABASE_URL":                 "database-url",
	"JWT_SECRET":                   "jwt-secret",
	"JWT_ISSUER":                   "jwt-issuer",
	"JWT_AUDIENCE":                 "jwt-audience",
	"AUTH_SESSION_TTL":             "session-ttl",
	"AUTH_COOKIE_NAME":             "cookie-name",
	"AUTH_COOKIE_DOMAIN":           "cookie-domain",
	"AUTH_COOKIE_PATH":             "cookie-path",
	"AUTH_COOKIE_SECURE":           "cookie-secure",
	"AUTH_COOKIE_SAMESITE":         "cookie-samesite",
	"AUTH_RESET_TOKEN_TTL":         "reset-token-ttl",
	"AUTH_RESET_TOKEN_IN_RESPONSE": "reset-token-in-response",
	"AUTH_TOKEN_REVOCATION":        "token-revocation",
	"AUTH_REQUEST_TIMEOUT":         "request-timeout",
	"AUTH_CLEANUP_INTERVAL":        "cleanup-interval",
	"AUTH_CORS_ALLOWED_ORIGINS":    "cors-allowed-origins",
	"AUTH_TRUSTED_PROXIES":         "trusted-proxies",
	"AUTH_AUTO_MIGRATE":            "auto-migrate",
	"AUTH_CB_THRESHOLD":            "circuit-breaker-threshold",
	"AUTH_CB_TIMEOUT":              "circuit-breaker-timeout",
	"AUTH_CB_RESET":                "circuit-breaker-reset",
	"LOG_DIR":                      "log-dir",
	"LOG_LEVEL":                    "log-level",
}

// RegisterAuthFlags declares every setting as a flag so that defaults live in
// one place and explicit flags take precedence over file and environment.
func RegisterAuthFlags(fs *pflag.FlagSet) {
	fs.String("http-port", constants.DefaultAuthHTTPPort, "HTTP listen port")
	fs.String("database-url", "", "PostgreSQL connection URL")
	fs.String("jwt-secret", "", "HMAC secret for session tokens (at least 32 bytes)")
	fs.String("jwt-issuer", "", "session token issuer")
	fs.String("jwt-audience", "", "session token audience")
	fs.Duration("session-ttl", constants.DefaultSessionTTL, "session token lifetime")
	fs.String("cookie-name", constants.DefaultSessionCookieName, "session cookie name")
	fs.String("cookie-domain", "", "session cookie domain")
	fs.String("cookie-path", constants.DefaultSessionCookiePath, "session cookie path")
	fs.Bool("cookie-secure", true, "mark the session cookie Secure")
	fs.String("cookie-samesite", "lax", "session cookie SameSite mode (lax, strict, none)")
	fs.Duration("reset-token-ttl", constants.DefaultResetTokenTTL, "password reset token lifetime")
	fs.Bool("reset-token-in-response", false, "return the reset token in the forgot-password response")
	fs.Bool("token-revocation", true, "deny-list session tokens on logout")
	fs.Duration("request-timeout", constants.DefaultAuthRequestTimeout, "per-request timeout")
	fs.Duration("cleanup-interval", constants.DefaultCleanupInterval, "expired token cleanup interval")
	fs.StringSlice("cors-allowed-origins", nil, "origins allowed to call the API with credentials")
	fs.StringSlice("trusted-proxies", nil, "proxy addresses or CIDRs whose X-Forwarded-For is honoured")
	fs.Bool("auto-migrate", false, "apply pending migrations on startup")
	fs.Int("circuit-breaker-threshold", constants.DefaultCircuitBreakerThreshold, "consecutive failures before the database circuit opens")
	fs.Duration("circuit-breaker-timeout", constants.DefaultCircuitBreakerTimeout, "how long the database circuit stays open")
	fs.Duration("circuit-breaker-reset", constants.DefaultCircuitBreakerReset, "failure counter reset window")
	fs.String("log-dir", "", "directory for rotated log files (stdout only when empty)")
	fs.String("log-level", "info", "log level")
}

func LoadAuthConfig(configFile string, flags *pflag.FlagSet) (AuthConfig, error) {
	k, err := load(configFile, flags)
	if err != nil {
		return AuthConfig{}, err
	}

	cfg := defaultAuthConfig()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return AuthConfig{}, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return AuthConfig{}, err
	}
	return cfg, nil
}

// MigrateConfig is the subset of settings the migrate command needs, so that
// schema changes can run without session secrets.
type MigrateConfig struct {
	DatabaseURL string `koanf:"database-url"`
	LogDir      string `koanf:"log-dir"`
	LogLevel    string `koanf:"log-level"`
}

func RegisterMigrateFlags(fs *pflag.FlagSet) {
	fs.String("database-url", "", "PostgreSQL connection URL")
	fs.String("log-dir", "", "directory for rotated log files (stdout only when empty)")
	fs.String("log-level", "info", "log level")
}

func LoadMigrateConfig(configFile string, flags *pflag.FlagSet) (MigrateConfig, error) {
	k, err := load(configFile, flags)
	if err != nil {
		return MigrateConfig{}, err
	}

	cfg := MigrateConfig{LogLevel: "info"}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return MigrateConfig{}, fmt.Errorf("decode config: %w", err)
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return MigrateConfig{}, commonerrors.ErrMissingRequiredConfig.WithCause(fmt.Errorf("database-url is not set"))
	}
	return cfg, nil
}

// load layers the optional YAML file, the known environment variables and
// the flags that were set explicitly, in increasing order of precedence.
func load(configFile string, flags *pflag.FlagSet) (*koanf.Koanf, error) {
	k := koanf.New(".")

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configFile, err)
		}
	}

	envProvider := env.ProviderWithValue("", ".", func(key, value string) (string, any) {
		name, ok := envKeys[key]
		if !ok {
			return "", nil
		}
		if name == "cors-allowed-origins" || name == "trusted-proxies" {
			return name, splitList(value)
		}
		return name, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}
	return k, nil
}

func defaultAuthConfig() AuthConfig {
	return AuthConfig{
		HTTPPort:                constants.DefaultAuthHTTPPort,
		SessionTTL:              constants.DefaultSessionTTL,
		CookieName:              constants.DefaultSessionCookieName,
		CookiePath:              constants.DefaultSessionCookiePath,
		CookieSecure:            true,
		CookieSameSite:          "lax",
		ResetTokenTTL:           constants.DefaultResetTokenTTL,
		TokenRevocation:         true,
		RequestTimeout:          constants.DefaultAuthRequestTimeout,
		CleanupInterval:         constants.DefaultCleanupInterval,
		CircuitBreakerThreshold: constants.DefaultCircuitBreakerThreshold,
		CircuitBreakerTimeout:   constants.DefaultCircuitBreakerTimeout,
		CircuitBreakerReset:     constants.DefaultCircuitBreakerReset,
		LogLevel:                "info",
	}
}

func (c AuthConfig) Validate() error {
	required := map[string]string{
		"database-url": c.DatabaseURL,
		"jwt-secret":   c.JWTSecret,
		"jwt-issuer":   c.JWTIssuer,
		"jwt-audience": c.JWTAudience,
	}
	for _, key := range []string{"database-url", "jwt-secret", "jwt-issuer", "jwt-audience"} {
		if strings.TrimSpace(required[key]) == "" {
			return commonerrors.ErrMissingRequiredConfig.WithCause(fmt.Errorf("%s is not set", key))
		}
	}

	if err := validateJWTSecret(c.JWTSecret); err != nil {
		return err
	}

	switch strings.ToLower(c.CookieSameSite) {
	case "lax", "strict":
	case "none":
		if !c.CookieSecure {
			return invalid("cookie-samesite", "SameSite=None requires cookie-secure")
		}
	default:
		return invalid("cookie-samesite", "must be one of lax, strict, none")
	}

	if c.SessionTTL <= 0 {
		return invalid("session-ttl", "must be positive")
	}
	if c.ResetTokenTTL <= 0 {
		return invalid("reset-token-ttl", "must be positive")
	}
	if c.RequestTimeout <= 0 {
		return invalid("request-timeout", "must be positive")
	}
	if c.CleanupInterval <= 0 {
		return invalid("cleanup-interval", "must be positive")
	}
	return nil
}

func validateJWTSecret(secret string) error {
	if len(secret) < constants.JWTSecretMinLength {
		return commonerrors.ErrInvalidJWTSecret.WithCause(fmt.Errorf("got %d bytes", len(secret)))
	}
	return nil
}

func invalid(key, reason string) error {
	return commonerrors.ErrInvalidConfig.WithCause(fmt.Errorf("%s: %s", key, reason))
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
