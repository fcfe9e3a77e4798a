package migrations

import (
	"context"
	"fmt"
	"time"

	"github.com/CatDevelop/exchange-tochka/internal/logger"
)

// Retrier runs an operation up to a fixed number of attempts with a fixed
// delay between failed attempts. There is no delay after a success or after
// the final failure.
type Retrier struct {
	Attempts int
	Delay    time.Duration

	// sleep is swapped out in tests
	sleep func(context.Context, time.Duration) error
}

// NewRetrier creates a retrier with the given budget
func NewRetrier(attempts int, delay time.Duration) *Retrier {
	if attempts < 1 {
		attempts = 1
	}
	return &Retrier{
		Attempts: attempts,
		Delay:    delay,
		sleep:    sleepCtx,
	}
}

// Run invokes attempt until it returns nil or the budget is exhausted.
// A cancelled context interrupts the between-attempt wait.
func (r *Retrier) Run(ctx context.Context, name string, attempt func(context.Context) error) error {
	var err error
	for i := 1; i <= r.Attempts; i++ {
		err = attempt(ctx)
		if err == nil {
			logger.Infof("%s succeeded on attempt %d/%d", name, i, r.Attempts)
			return nil
		}
		logger.Errorf("%s failed on attempt %d/%d: %v", name, i, r.Attempts, err)

		if i == r.Attempts {
			break
		}
		if serr := r.sleep(ctx, r.Delay); serr != nil {
			return fmt.Errorf("%s interrupted while waiting to retry: %w", name, serr)
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", name, r.Attempts, err)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
