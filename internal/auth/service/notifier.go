package service

import (
	"context"
	"time"

	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/auth/domain"
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/logger"
)

// ResetTokenNotifier delivers a freshly issued reset token to its owner.
type ResetTokenNotifier interface {
	NotifyResetToken(ctx context.Context, user domain.User, token string, expiresAt time.Time) error
}

// LogNotifier records that a token was issued. The token itself is not logged.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) NotifyResetToken(ctx context.Context, user domain.User, _ string, expiresAt time.Time) error {
	n.log.WithFields(ctx, logger.Fields{
		"user_id":    string(user.ID),
		"expires_at": expiresAt.UTC().Format(time.RFC3339),
		"action":     "reset_token_issued",
	}).Info("password reset token issued, delivery left to operator")
	return nil
}
