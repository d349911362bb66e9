package throttle

import (
	"context"
	"fmt"
	"time"

	boff "github.com/Andrej220/go-utils/backoff"
	lg "github.com/Andrej220/go-utils/zlog"
)

const (
	defaultAttempts     = 3
	defaultInitialRetry = 200 * time.Millisecond
	defaultMaxRetry     = 5 * time.Second
)

// RetryPolicy describes how many times and how often work should be retried.
// Zero values are treated as "use defaults".
type RetryPolicy struct {
	// Attempts is the maximum number of tries, the first one included.
	Attempts int

	// Initial is the first backoff duration.
	Initial time.Duration

	// Max is the cap for backoff duration.
	Max time.Duration
}

// GetDefaultRP returns a pointer to the default retry policy.
func GetDefaultRP() *RetryPolicy {
	rp := RetryPolicy{
		Attempts: defaultAttempts,
		Initial:  defaultInitialRetry,
		Max:      defaultMaxRetry,
	}
	return &rp
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.Attempts <= 0 {
		p.Attempts = defaultAttempts
	}
	if p.Initial <= 0 {
		p.Initial = defaultInitialRetry
	}
	if p.Max <= 0 {
		p.Max = defaultMaxRetry
	}
	if p.Max < p.Initial {
		p.Max = p.Initial
	}
	return p
}

// Retry wraps work so that a failing call is repeated with jittered
// exponential backoff, up to policy.Attempts times.
//
// Retrying happens inside one job: the Semaphore admits the wrapped work
// once and keeps its slot across attempts. Errors wrapped with NoRetry
// and ctx cancellation during backoff end the loop early.
func Retry[R any](policy RetryPolicy, work Work[R]) Work[R] {
	pol := policy.withDefaults()
	return func(ctx context.Context) (R, error) {
		logger := lg.FromContext(ctx)
		bo := boff.New(pol.Initial, pol.Max, time.Now().UnixNano())

		for attempt := 1; ; attempt++ {
			val, err := work(ctx)
			if err == nil {
				return val, nil
			}
			if attempt >= pol.Attempts || IsNoRetry(err) {
				return val, err
			}

			delay := bo.Next()
			logger.Warn("Job attempt failed; backing off",
				lg.Int("attempt", attempt),
				lg.String("sleep", delay.String()),
				lg.Any("error", err),
			)
			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				var zero R
				return zero, fmt.Errorf("throttle: retry canceled after %d attempts: %w (last error: %v)", attempt, ctx.Err(), err)
			}
		}
	}
}
