package throttle

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// MetricsPolicy defines hooks used by the Semaphore to report
// job lifecycle transitions.
//
// Implementations must be safe for concurrent use.
// All methods are expected to be lightweight and non-blocking.
type MetricsPolicy interface {
	// IncSubmitted counts a job accepted into the queue.
	IncSubmitted()

	// IncAdmitted counts a queued→running transition.
	IncAdmitted()

	// IncCompleted counts a running→completed transition,
	// whatever the outcome.
	IncCompleted()

	// IncFailed counts a completed job whose outcome is an error.
	IncFailed()

	// IncRejected counts a submission resolved without running:
	// nil work, closed semaphore or shutdown while queued.
	IncRejected()
}

// AtomicMetrics is a lock-free metrics implementation backed by atomics.
//
// Writes happen on the submit and completion paths.
// Reads are intended for cold-path observation.
type AtomicMetrics struct {
	submitted atomic.Uint64
	_         cpu.CacheLinePad

	admitted atomic.Uint64
	_        cpu.CacheLinePad

	completed atomic.Uint64
	failed    atomic.Uint64
	rejected  atomic.Uint64
}

func (m *AtomicMetrics) Submitted() uint64 { return m.submitted.Load() }
func (m *AtomicMetrics) Admitted() uint64  { return m.admitted.Load() }
func (m *AtomicMetrics) Completed() uint64 { return m.completed.Load() }
func (m *AtomicMetrics) Failed() uint64    { return m.failed.Load() }
func (m *AtomicMetrics) Rejected() uint64  { return m.rejected.Load() }

func (m *AtomicMetrics) IncSubmitted() { m.submitted.Add(1) }
func (m *AtomicMetrics) IncAdmitted()  { m.admitted.Add(1) }
func (m *AtomicMetrics) IncCompleted() { m.completed.Add(1) }
func (m *AtomicMetrics) IncFailed()    { m.failed.Add(1) }
func (m *AtomicMetrics) IncRejected()  { m.rejected.Add(1) }

//------------- NoopMetrics ----------------------------------

// NoopMetrics is a MetricsPolicy implementation that discards
// all metric updates.
type NoopMetrics struct{}

func (m *NoopMetrics) IncSubmitted() {}
func (m *NoopMetrics) IncAdmitted()  {}
func (m *NoopMetrics) IncCompleted() {}
func (m *NoopMetrics) IncFailed()    {}
func (m *NoopMetrics) IncRejected()  {}
