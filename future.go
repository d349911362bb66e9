package throttle

import (
	"context"
	"sync"
)

// Future is the completion handle returned by Submit.
//
// It is resolved exactly once with the job's outcome: the value and
// error returned by its work, a *PanicError, or one of ErrNilWork,
// ErrClosed and ErrShutdown when the job never ran.
type Future[R any] struct {
	id   string
	once sync.Once
	done chan struct{}
	val  R
	err  error
}

func newFuture[R any](id string) *Future[R] {
	return &Future[R]{id: id, done: make(chan struct{})}
}

// ID returns the job identifier used in log records.
func (f *Future[R]) ID() string { return f.id }

// Done is closed once the outcome is available.
func (f *Future[R]) Done() <-chan struct{} { return f.done }

// Wait blocks until the job completes or ctx ends.
//
// A ctx error only ends the wait; the job keeps its place and still runs.
func (f *Future[R]) Wait(ctx context.Context) (R, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

// Result returns the outcome without blocking. ok is false while the
// job is still queued or running.
func (f *Future[R]) Result() (val R, err error, ok bool) {
	select {
	case <-f.done:
		return f.val, f.err, true
	default:
		return val, nil, false
	}
}

// resolve stores the outcome. It reports false if the Future was
// already resolved, in which case the new outcome is discarded.
func (f *Future[R]) resolve(val R, err error) bool {
	resolved := false
	f.once.Do(func() {
		f.val, f.err = val, err
		close(f.done)
		resolved = true
	})
	return resolved
}
