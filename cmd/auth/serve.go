package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	authcleanup "github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/auth/cleanup"
	authhttp "github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/auth/http"
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/bootstrap"
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/config"
	commonhttp "github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/http"
	srv "github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/server"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the auth HTTP API",
		RunE:  runServe,
	}
	config.RegisterAuthFlags(cmd.Flags())
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadAuthConfig(configFile, cmd.Flags())
	if err != nil {
		return oops.Code("CONFIG_INVALID").With("operation", "load config").Wrap(err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.NewAuthApp(ctx, cfg)
	if err != nil {
		return oops.Code("STARTUP_FAILED").With("operation", "initialize auth service").Wrap(err)
	}
	defer app.Close()

	cleanupCtx, cancelCleanup := context.WithCancel(ctx)
	defer cancelCleanup()
	waitCleanup := authcleanup.Start(cleanupCtx, cfg.CleanupInterval, app.Log,
		authcleanup.RevokedTokenTask(app.RevokedTokens),
		authcleanup.ResetTokenTask(app.UserRepo),
	)

	proxies, err := commonhttp.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return oops.Code("CONFIG_INVALID").With("key", "trusted-proxies").Wrap(err)
	}

	cookies := authhttp.NewCookiePolicy(cfg.CookieName, cfg.CookieDomain, cfg.CookiePath, cfg.CookieSecure, cfg.CookieSameSite)
	router := authhttp.NewRouter(app.Auth, authhttp.RouterConfig{
		Cookies:          cookies,
		RequestTimeout:   cfg.RequestTimeout,
		ExposeResetToken: cfg.ResetTokenInResponse,
		RateLimiter:      commonhttp.NewStrictRateLimiter(ctx, proxies),
		DB:               app.Pool,
	}, app.Log)
	router.Handle("/metrics", promhttp.Handler())

	if cfg.ResetTokenInResponse {
		app.Log.Warn("reset-token-in-response is enabled; reset tokens are returned to callers")
	}
	if !cfg.TokenRevocation {
		app.Log.Warn("token-revocation is disabled; logged out sessions stay valid until expiry")
	}

	serverConfig := srv.DefaultServerConfig(cfg.HTTPPort)
	server := srv.NewServer(serverConfig, commonhttp.BuildBaseHandler(app.Log, cfg.CORSAllowedOrigins, router))

	err = srv.Run(ctx, server, serverConfig, app.Log, "auth", func(context.Context) error {
		app.Log.Info("auth service: stopping cleanup workers")
		cancelCleanup()
		waitCleanup()
		return nil
	})
	if err != nil {
		return oops.Code("SERVER_FAILED").With("addr", serverConfig.Addr).Wrap(err)
	}
	return nil
}
