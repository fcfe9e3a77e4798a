package migrations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingRetrier returns a retrier whose sleeps are counted instead of slept
func countingRetrier(t *testing.T, attempts int, delay time.Duration, sleeps *int) *Retrier {
	t.Helper()
	r := NewRetrier(attempts, delay)
	r.sleep = func(_ context.Context, d time.Duration) error {
		assert.Equal(t, delay, d)
		*sleeps++
		return nil
	}
	return r
}

func TestRetrierFirstAttemptSucceeds(t *testing.T) {
	var sleeps, calls int
	r := countingRetrier(t, 5, 300*time.Second, &sleeps)

	err := r.Run(context.Background(), "migrations", func(context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, sleeps, "a first-try success must not sleep")
}

func TestRetrierSleepsOncePerFailure(t *testing.T) {
	var sleeps, calls int
	r := countingRetrier(t, 5, 300*time.Second, &sleeps)

	err := r.Run(context.Background(), "migrations", func(context.Context) error {
		calls++
		if calls <= 3 {
			return errors.New("connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 4, calls)
	assert.Equal(t, 3, sleeps, "three failures mean three waits")
}

func TestRetrierExhaustsBudget(t *testing.T) {
	var sleeps, calls int
	r := countingRetrier(t, 5, 300*time.Second, &sleeps)

	opErr := errors.New("connection refused")
	err := r.Run(context.Background(), "migrations", func(context.Context) error {
		calls++
		return opErr
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, opErr)
	assert.Contains(t, err.Error(), "failed after 5 attempts")
	assert.Equal(t, 5, calls)
	assert.Equal(t, 4, sleeps, "no sleep follows the final failure")
}

func TestRetrierSingleAttempt(t *testing.T) {
	var sleeps, calls int
	r := countingRetrier(t, 1, time.Second, &sleeps)

	err := r.Run(context.Background(), "migrations", func(context.Context) error {
		calls++
		return errors.New("boom")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, sleeps)
}

func TestRetrierClampsAttempts(t *testing.T) {
	r := NewRetrier(0, time.Second)
	assert.Equal(t, 1, r.Attempts)

	r = NewRetrier(-3, time.Second)
	assert.Equal(t, 1, r.Attempts)
}

func TestRetrierCancelledContextStopsWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var calls int
	r := NewRetrier(5, time.Hour)
	r.sleep = sleepCtx

	err := r.Run(ctx, "migrations", func(context.Context) error {
		calls++
		cancel()
		return errors.New("connection refused")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls, "cancellation must interrupt the wait, not start another attempt")
}

func TestSleepCtxElapses(t *testing.T) {
	start := time.Now()
	err := sleepCtx(context.Background(), 10*time.Millisecond)

	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestSleepCtxCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sleepCtx(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 5, cfg.RetryAttempts)
	assert.Equal(t, 300*time.Second, cfg.RetryDelay)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("MIGRATE_RETRIES", "3")
	t.Setenv("MIGRATE_RETRY_WAIT", "2s")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "exchange")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "exchange")

	cfg := ConfigFromEnv()
	assert.Equal(t, 3, cfg.RetryAttempts)
	assert.Equal(t, 2*time.Second, cfg.RetryDelay)
	assert.Equal(t, "postgres://exchange:secret@db:5433/exchange?sslmode=disable", cfg.DatabaseURL)
}
