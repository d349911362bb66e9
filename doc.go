// Package throttle provides a bounded-concurrency job scheduler: a
// counting semaphore that runs asynchronous jobs, at most N at a time,
// and queues the rest in submission order.
//
// Model
//
// A Semaphore owns two pieces of shared state, guarded by one mutex:
//
//   - running, the number of occupied slots (0 <= running <= N)
//   - a FIFO queue of jobs that have not been admitted yet
//
// Submit appends the job to the queue and tries to admit. When a job
// completes, its slot is released and admission is tried again. These
// two edges are the only admission points; there is no polling and no
// background goroutine.
//
// Admission is strictly first-in-first-out. A job submitted earlier is
// never admitted after one submitted later, whatever the duration of the
// jobs already running. Completion order is not guaranteed.
//
// Runners
//
// An admitted job runs on a runner goroutine. When it finishes and the
// queue is not empty, the same runner takes the next job over, so a long
// queue does not grow the number of goroutines. A failed job whose
// OnJobError hook must run is the exception: the next job starts on a
// fresh runner and the old one exits once the hook returns, so a slow or
// re-submitting hook never holds up the queue.
//
// Outcomes
//
// Every submission returns a Future that is resolved exactly once:
//
//   - with the value and error returned by the work
//   - with a *PanicError if the work panicked
//   - with ErrNilWork, ErrClosed or ErrShutdown if the job never ran
//
// A failing job only affects its own Future. Its slot is released and
// the next queued job is promoted regardless of the outcome.
//
// Shutdown
//
// Shutdown stops accepting work and resolves every job still in the
// queue with ErrShutdown. Running jobs are never interrupted; Shutdown
// waits for them until its context ends.
//
// Retries and pacing
//
// Retry wraps work with a backoff loop; it runs inside one job and keeps
// its slot across attempts. Options.StartRate paces job starts with a
// token bucket after admission.
package throttle
