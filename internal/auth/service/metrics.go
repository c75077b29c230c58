package service

import (
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/observability/metrics"
)

func recordOperation(operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	metrics.AuthOperationsTotal.WithLabelValues(operation, outcome).Inc()
}

func incrementUsersRegistered() {
	metrics.UsersRegistered.Inc()
}

func incrementSessionTokensIssued() {
	metrics.SessionTokensIssued.Inc()
}

func incrementSessionTokensRevoked() {
	metrics.SessionTokensRevoked.Inc()
}

func incrementResetTokensIssued() {
	metrics.ResetTokensIssued.Inc()
}

func incrementPasswordResetsCompleted() {
	metrics.PasswordResetsCompleted.Inc()
}

func incrementJWTValidations() {
	metrics.JWTValidationsTotal.Inc()
}

func incrementJWTValidationFailed(reason string) {
	metrics.JWTValidationsFailed.WithLabelValues(reason).Inc()
}

func incrementRevokedChecks() {
	metrics.JWTRevokedChecksTotal.Inc()
}
