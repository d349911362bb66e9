package throttle

import (
	"context"
	"fmt"
	"sync"
	"time"

	lg "github.com/Andrej220/go-utils/zlog"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Work is one asynchronous unit of work. ctx is the context given at
// submission; the Semaphore never cancels it.
type Work[R any] func(ctx context.Context) (R, error)

// JobFunc is work that takes a payload, see Call.
type JobFunc[T, R any] func(ctx context.Context, payload T) (R, error)

// Semaphore admits at most MaxConcurrency jobs at once and queues the
// rest in submission order.
//
// The running count and the queue are mutated only under mu, on two
// edges: a submission and a job completion. There is no polling.
type Semaphore[R any] struct {
	mu      sync.Mutex
	queue   *jobQueue[R]
	running int
	closed  bool

	// idle is closed while nothing is running or queued and replaced
	// with an open channel when work arrives.
	idle chan struct{}
	busy bool

	maxConcurrency int
	opts           Options
	metrics        MetricsPolicy
	limiter        *rate.Limiter
}

// Stats is a point-in-time view of a Semaphore. The job counters are
// filled only when Options.Metrics is an *AtomicMetrics and stay zero
// otherwise.
type Stats struct {
	MaxConcurrency int
	Running        int
	Queued         int

	Submitted uint64
	Admitted  uint64
	Completed uint64
	Failed    uint64
	Rejected  uint64
}

// New creates a Semaphore with maxConcurrency slots.
func New[R any](maxConcurrency int) (*Semaphore[R], error) {
	return NewFromOptions[R](Options{MaxConcurrency: maxConcurrency})
}

// NewFromOptions creates a Semaphore from opts. It fails with
// ErrInvalidConcurrency when opts.MaxConcurrency is not positive.
func NewFromOptions[R any](opts Options) (*Semaphore[R], error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts.FillDefaults()

	idle := make(chan struct{})
	close(idle)

	return &Semaphore[R]{
		queue:          newJobQueue[R](opts.QueueCapacity),
		idle:           idle,
		maxConcurrency: opts.MaxConcurrency,
		opts:           opts,
		metrics:        opts.Metrics,
		limiter:        opts.limiter(),
	}, nil
}

// Submit queues work and returns its Future. It never blocks.
func (s *Semaphore[R]) Submit(work Work[R]) *Future[R] {
	return s.SubmitCtx(s.opts.Ctx, work)
}

// SubmitCtx is Submit with an explicit job context. ctx is handed to the
// work and used for logging; cancelling it does not remove the job.
func (s *Semaphore[R]) SubmitCtx(ctx context.Context, work Work[R]) *Future[R] {
	if ctx == nil {
		ctx = s.opts.Ctx
	}
	f := newFuture[R](uuid.NewString())
	if work == nil {
		s.reject(ctx, f, ErrNilWork)
		return f
	}
	j := &job[R]{
		id:       f.id,
		ctx:      ctx,
		work:     work,
		future:   f,
		queuedAt: time.Now(),
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.reject(ctx, f, ErrClosed)
		return f
	}
	s.queue.enqueue(j)
	s.markBusyLocked()
	s.metrics.IncSubmitted()
	admitted := s.admitLocked()
	running, queued := s.running, s.queue.Len()
	s.mu.Unlock()

	// j is the tail, so it is still queued exactly when the queue is not empty.
	if queued > 0 {
		lg.FromContext(ctx).Info("Job queued",
			lg.String("job", j.id),
			lg.Int("running", running),
			lg.Int("queued", queued),
		)
	}
	for _, a := range admitted {
		s.spawn(a)
	}
	return f
}

// Call submits fn bound to payload.
func Call[T, R any](ctx context.Context, s *Semaphore[R], fn JobFunc[T, R], payload T) *Future[R] {
	if fn == nil {
		return s.SubmitCtx(ctx, nil)
	}
	return s.SubmitCtx(ctx, func(ctx context.Context) (R, error) {
		return fn(ctx, payload)
	})
}

// admitLocked moves jobs from the head of the queue to running while a
// slot is free. It returns the admitted jobs in admission order.
func (s *Semaphore[R]) admitLocked() []*job[R] {
	var admitted []*job[R]
	for s.running < s.maxConcurrency {
		j, ok := s.queue.dequeueNext()
		if !ok {
			break
		}
		s.running++
		s.metrics.IncAdmitted()
		admitted = append(admitted, j)
	}
	return admitted
}

// release frees the slot of a completed job and admits the next queued
// job, if any. The first admitted job is returned for the calling runner
// to execute; any others get their own runner.
func (s *Semaphore[R]) release() *job[R] {
	s.mu.Lock()
	s.running--
	admitted := s.admitLocked()
	s.markIdleLocked()
	s.mu.Unlock()

	if len(admitted) == 0 {
		return nil
	}
	for _, a := range admitted[1:] {
		s.spawn(a)
	}
	return admitted[0]
}

func (s *Semaphore[R]) markBusyLocked() {
	if !s.busy {
		s.busy = true
		s.idle = make(chan struct{})
	}
}

func (s *Semaphore[R]) markIdleLocked() {
	if s.busy && s.running == 0 && s.queue.Len() == 0 {
		s.busy = false
		close(s.idle)
	}
}

// reject resolves f with err for a job that will never run.
func (s *Semaphore[R]) reject(ctx context.Context, f *Future[R], err error) {
	var zero R
	s.metrics.IncRejected()
	lg.FromContext(ctx).Warn("Job rejected", lg.String("job", f.id), lg.Any("error", err))
	if !f.resolve(zero, err) {
		s.reportInternalError(fmt.Errorf("throttle: job %s resolved twice", f.id))
	}
}

// Stats returns the current running and queued counts and, with
// AtomicMetrics configured, the job counters.
func (s *Semaphore[R]) Stats() Stats {
	s.mu.Lock()
	st := Stats{
		MaxConcurrency: s.maxConcurrency,
		Running:        s.running,
		Queued:         s.queue.Len(),
	}
	s.mu.Unlock()

	if m, ok := s.metrics.(*AtomicMetrics); ok {
		st.Submitted = m.Submitted()
		st.Admitted = m.Admitted()
		st.Completed = m.Completed()
		st.Failed = m.Failed()
		st.Rejected = m.Rejected()
	}
	return st
}

// MaxConcurrency returns the number of slots.
func (s *Semaphore[R]) MaxConcurrency() int { return s.maxConcurrency }

// Wait blocks until no job is running or queued, or ctx ends.
// Jobs submitted after Wait returns are not covered.
func (s *Semaphore[R]) Wait(ctx context.Context) error {
	s.mu.Lock()
	idle := s.idle
	s.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting work and abandons the queue: every job that
// has not been admitted yet is resolved with ErrShutdown and never runs.
// Running jobs are not interrupted; Shutdown waits for them until ctx
// ends. It is safe to call more than once.
func (s *Semaphore[R]) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	pending := s.queue.drain()
	s.markIdleLocked()
	idle := s.idle
	running := s.running
	s.mu.Unlock()

	if len(pending) > 0 {
		lg.FromContext(s.opts.Ctx).Warn("Abandoning queued jobs",
			lg.Int("queued", len(pending)),
			lg.Int("running", running),
		)
	}
	for _, j := range pending {
		s.reject(j.ctx, j.future, ErrShutdown)
	}

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop is a blocking Shutdown.
func (s *Semaphore[R]) Stop() { _ = s.Shutdown(context.Background()) }
