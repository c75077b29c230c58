package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/sethvargo/go-retry"

	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/logger"
)

type RetryConfig struct {
	MaxAttempts  uint64
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

var DefaultRetryConfig = RetryConfig{
	MaxAttempts:  3,
	InitialDelay: 100 * time.Millisecond,
	MaxDelay:     2 * time.Second,
}

func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgerrcode.IsConnectionException(pgErr.Code) ||
			pgerrcode.IsTransactionRollback(pgErr.Code) ||
			pgErr.Code == pgerrcode.LockNotAvailable
	}

	return pgconn.SafeToRetry(err)
}

// WithRetry runs operation with exponential backoff while it keeps failing
// with transient PostgreSQL errors. Any other error is returned immediately.
func WithRetry(ctx context.Context, log *logger.Logger, config RetryConfig, operation func(context.Context) error) error {
	if config.MaxAttempts == 0 {
		config = DefaultRetryConfig
	}

	backoff := retry.NewExponential(config.InitialDelay)
	backoff = retry.WithCappedDuration(config.MaxDelay, backoff)
	backoff = retry.WithMaxRetries(config.MaxAttempts-1, backoff)

	attempt := uint64(0)
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := operation(ctx)
		if err == nil {
			if attempt > 1 && log != nil {
				log.Infof("database operation succeeded after %d attempts", attempt)
			}
			return nil
		}
		if !IsRetryableError(err) {
			return err
		}
		if log != nil {
			log.Warnf("database operation failed (attempt %d/%d): %v", attempt, config.MaxAttempts, err)
		}
		return retry.RetryableError(err)
	})
}
