package throttle

import (
	"fmt"
	"runtime/debug"
	"time"

	lg "github.com/Andrej220/go-utils/zlog"
)

// spawn starts a runner goroutine for an admitted job.
func (s *Semaphore[R]) spawn(j *job[R]) {
	statSpawned()
	go s.runner(j)
}

// runner executes admitted jobs until release has nothing more to hand
// over. The slot is released before the Future is resolved, so a caller
// that observed every Future also observes the running count at zero.
//
// OnJobError is user code and may block or submit to s. When it has to
// run, the next job gets its own runner first and this one exits after
// the hook returns.
func (s *Semaphore[R]) runner(j *job[R]) {
	for j != nil {
		started := time.Now()
		val, err := s.execute(j)
		next := s.release()
		resolved := s.complete(j, val, err, started)
		if resolved && err != nil && s.opts.OnJobError != nil {
			if next != nil {
				s.spawn(next)
			}
			s.reportJobError(j.id, err)
			return
		}
		if next != nil {
			statHandoff()
		}
		j = next
	}
}

// execute runs the job's work, converting a panic into a *PanicError.
func (s *Semaphore[R]) execute(j *job[R]) (val R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()

	if s.limiter != nil {
		if werr := s.limiter.Wait(j.ctx); werr != nil {
			return val, fmt.Errorf("throttle: waiting for start: %w", werr)
		}
	}
	return j.work(j.ctx)
}

// complete records the outcome of j and resolves its Future. It reports
// false if the Future was already resolved.
func (s *Semaphore[R]) complete(j *job[R], val R, err error, started time.Time) bool {
	logger := lg.FromContext(j.ctx).With(lg.String("job", j.id))

	s.metrics.IncCompleted()
	if err != nil {
		s.metrics.IncFailed()
		logger.Warn("Job failed",
			lg.String("waited", started.Sub(j.queuedAt).String()),
			lg.String("ran", time.Since(started).String()),
			lg.Any("error", err),
		)
	} else {
		logger.Info("Job finished",
			lg.String("waited", started.Sub(j.queuedAt).String()),
			lg.String("ran", time.Since(started).String()),
		)
	}

	if !j.future.resolve(val, err) {
		s.reportInternalError(fmt.Errorf("throttle: job %s resolved twice", j.id))
		return false
	}
	return true
}
