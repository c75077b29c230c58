package resilience_test

import (
	"context"
	"errors"
	"testing"
	"time"

	pgx "github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"

	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/clock"
	commonerrors "github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/errors"
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/resilience"
)

var errBoom = errors.New("connection refused")

func failing(context.Context) error { return errBoom }

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Threshold:  2,
		Timeout:    time.Second,
		ResetAfter: 10 * time.Second,
		Name:       "test-open",
		Clock:      clk,
	})

	assert.ErrorIs(t, cb.Call(context.Background(), failing), errBoom)
	assert.ErrorIs(t, cb.Call(context.Background(), failing), errBoom)
	assert.True(t, cb.IsOpen())

	called := false
	err := cb.Call(context.Background(), func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, commonerrors.ErrCircuitOpen)
	assert.False(t, called)

	clk.SetTime(clk.Now().Add(11 * time.Second))
	assert.False(t, cb.IsOpen())
	assert.NoError(t, cb.Call(context.Background(), func(context.Context) error { return nil }))
}

func TestCircuitBreaker_IgnoresExpectedErrors(t *testing.T) {
	expected := errors.New("not found")
	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Threshold:  1,
		Timeout:    time.Second,
		ResetAfter: time.Minute,
		IsFailure:  func(err error) bool { return !errors.Is(err, expected) },
	})

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Call(context.Background(), func(context.Context) error { return expected }), expected)
	}
	assert.False(t, cb.IsOpen())
}

func TestCircuitBreaker_DefaultIgnoresNoRows(t *testing.T) {
	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{Threshold: 1, ResetAfter: time.Minute})

	_ = cb.Call(context.Background(), func(context.Context) error { return pgx.ErrNoRows })
	assert.False(t, cb.IsOpen())
}

func TestCircuitBreaker_Fallback(t *testing.T) {
	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{Threshold: 5, ResetAfter: time.Minute})

	err := cb.CallWithFallback(context.Background(), failing, func() error { return nil })
	assert.NoError(t, err)
}
