package throttle

import (
	lg "github.com/Andrej220/go-utils/zlog"
)

// reportInternalError reports a failure inside the Semaphore itself,
// such as a Future resolved twice. If no handler is registered the
// error is only logged.
func (s *Semaphore[R]) reportInternalError(e error) {
	lg.FromContext(s.opts.Ctx).Error("internal error", lg.Any("error", e))
	if s.opts.OnInternalError != nil {
		s.opts.OnInternalError(e)
	}
}

// reportJobError reports an error returned by a job or produced by
// panic recovery. The job's Future already carries the same error.
func (s *Semaphore[R]) reportJobError(id string, err error) {
	if s.opts.OnJobError != nil {
		s.opts.OnJobError(id, err)
	}
}
