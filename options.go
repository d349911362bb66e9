package throttle

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// Options configure a Semaphore.
//
// MaxConcurrency is required. The remaining zero values are replaced
// with defaults in FillDefaults.
type Options struct {
	// MaxConcurrency is the number of slots, i.e. the most jobs
	// running at once. It is fixed for the life of the Semaphore.
	MaxConcurrency int

	// QueueCapacity sizes the pending queue before its first growth.
	QueueCapacity int

	// StartRate, when positive, limits how many admitted jobs may start
	// their work per second. An admitted job holds its slot while it
	// waits for the limiter.
	StartRate float64

	// StartBurst is the limiter bucket size. Defaults to 1.
	StartBurst int

	// Metrics receives job counters. Defaults to NoopMetrics; pass an
	// *AtomicMetrics to have the counters reported by Stats. Its methods
	// are called on the scheduling path and must not block.
	Metrics MetricsPolicy

	// OnJobError is called with the id and error of every job that
	// failed or panicked, after its Future is resolved. It runs outside
	// the job's slot and may submit to the same Semaphore.
	OnJobError func(id string, err error)

	// OnInternalError receives unexpected failures inside the Semaphore.
	OnInternalError func(error)

	// Ctx is the default job context and the source of the logger used
	// for semaphore-level events.
	Ctx context.Context
}

// FillDefaults fills optional fields. It never picks a concurrency limit.
func (o *Options) FillDefaults() {
	if o.QueueCapacity <= 0 {
		o.QueueCapacity = initialQueueCapacity
	}
	if o.StartRate > 0 && o.StartBurst <= 0 {
		o.StartBurst = 1
	}
	if o.Metrics == nil {
		o.Metrics = &NoopMetrics{}
	}
	if o.Ctx == nil {
		o.Ctx = context.Background()
	}
}

// Validate reports configuration errors.
func (o Options) Validate() error {
	if o.MaxConcurrency <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidConcurrency, o.MaxConcurrency)
	}
	if o.StartRate < 0 {
		return fmt.Errorf("throttle: start rate must not be negative: got %v", o.StartRate)
	}
	return nil
}

func (o Options) limiter() *rate.Limiter {
	if o.StartRate <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(o.StartRate), o.StartBurst)
}
