package throttle

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConcurrency is returned by the constructors when the
	// concurrency limit is not a positive integer.
	ErrInvalidConcurrency = errors.New("throttle: max concurrency must be positive")

	// ErrNilWork resolves the Future of a submission without work.
	ErrNilWork = errors.New("throttle: work func is nil")

	// ErrClosed resolves the Future of a job submitted after Shutdown.
	ErrClosed = errors.New("throttle: semaphore closed")

	// ErrShutdown resolves the Future of a job that was still queued
	// when Shutdown was called. The job never ran.
	ErrShutdown = errors.New("throttle: semaphore shut down before job was admitted")
)

// PanicError is the outcome of a job whose work panicked.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("throttle: job panicked: %v", e.Value)
}

// NoRetry marks an error as permanent so Retry gives up immediately.
//
//	return "", throttle.NoRetry(fmt.Errorf("bad input: %w", err))
func NoRetry(err error) error {
	if err == nil {
		return nil
	}
	return noRetryError{err: err}
}

// IsNoRetry reports whether err is wrapped with NoRetry.
func IsNoRetry(err error) bool {
	var e noRetryError
	return errors.As(err, &e)
}

type noRetryError struct{ err error }

func (e noRetryError) Error() string { return fmt.Sprintf("no-retry: %v", e.err) }
func (e noRetryError) Unwrap() error { return e.err }
