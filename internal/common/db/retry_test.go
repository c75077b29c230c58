package db_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	pgx "github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"

	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/db"
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/logger"
)

var fastRetry = db.RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

func TestIsRetryableError(t *testing.T) {
	assert.False(t, db.IsRetryableError(nil))
	assert.False(t, db.IsRetryableError(pgx.ErrNoRows))
	assert.False(t, db.IsRetryableError(context.DeadlineExceeded))
	assert.True(t, db.IsRetryableError(&pgconn.PgError{Code: pgerrcode.SerializationFailure}))
	assert.True(t, db.IsRetryableError(&pgconn.PgError{Code: pgerrcode.ConnectionFailure}))
	assert.True(t, db.IsRetryableError(&pgconn.PgError{Code: pgerrcode.LockNotAvailable}))
	assert.False(t, db.IsRetryableError(&pgconn.PgError{Code: pgerrcode.UniqueViolation}))
}

func TestWithRetry_RetriesTransientErrors(t *testing.T) {
	log, _ := logger.New("", "test", "error")
	calls := 0

	err := db.WithRetry(context.Background(), log, fastRetry, func(context.Context) error {
		calls++
		if calls < 3 {
			return &pgconn.PgError{Code: pgerrcode.DeadlockDetected}
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_StopsOnPermanentError(t *testing.T) {
	log, _ := logger.New("", "test", "error")
	permanent := errors.New("syntax error")
	calls := 0

	err := db.WithRetry(context.Background(), log, fastRetry, func(context.Context) error {
		calls++
		return permanent
	})

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	log, _ := logger.New("", "test", "error")
	calls := 0

	err := db.WithRetry(context.Background(), log, fastRetry, func(context.Context) error {
		calls++
		return &pgconn.PgError{Code: pgerrcode.SerializationFailure}
	})

	assert.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestUniqueViolation(t *testing.T) {
	name, ok := db.UniqueViolation(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"})
	assert.True(t, ok)
	assert.Equal(t, "users_email_key", name)

	_, ok = db.UniqueViolation(errors.New("other"))
	assert.False(t, ok)
}
