package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AuthRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_requests_total",
			Help: "Total number of auth requests",
		},
		[]string{"method", "path"},
	)

	AuthRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "auth_requests_in_flight",
			Help: "Number of auth requests currently being processed",
		},
	)

	AuthRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "auth_request_duration_seconds",
			Help:    "Duration of auth requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	AuthOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_operations_total",
			Help: "Total number of auth operations by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	UsersRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "users_registered_total",
			Help: "Total number of registered users",
		},
	)

	SessionTokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "session_tokens_issued_total",
			Help: "Total number of session tokens issued",
		},
	)

	SessionTokensRevoked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "session_tokens_revoked_total",
			Help: "Total number of session tokens revoked on logout",
		},
	)

	RevokedTokensCleanupDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "revoked_tokens_cleanup_deleted_total",
			Help: "Total number of expired revoked tokens deleted during cleanup",
		},
	)

	ResetTokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "password_reset_tokens_issued_total",
			Help: "Total number of password reset tokens issued",
		},
	)

	ResetTokensCleanupCleared = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "password_reset_tokens_cleanup_cleared_total",
			Help: "Total number of expired password reset tokens cleared during cleanup",
		},
	)

	PasswordResetsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "password_resets_completed_total",
			Help: "Total number of completed password resets",
		},
	)

	JWTValidationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jwt_validations_total",
			Help: "Total number of JWT validations",
		},
	)

	JWTValidationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jwt_validations_failed_total",
			Help: "Total number of failed JWT validations by reason",
		},
		[]string{"reason"},
	)

	JWTRevokedChecksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jwt_revoked_checks_total",
			Help: "Total number of revoked token checks",
		},
	)
)
