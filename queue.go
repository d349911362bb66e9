package throttle

import (
	"context"
	"time"
)

const (
	initialQueueCapacity = 16
)

// job is the descriptor of one submitted unit of work.
//
// It is owned by the jobQueue while queued and by a runner goroutine
// once admitted. The Future outlives it.
type job[R any] struct {
	id       string
	ctx      context.Context
	work     Work[R]
	future   *Future[R]
	queuedAt time.Time
}

// jobQueue is a growable first-in-first-out ring buffer of pending jobs.
//
// Jobs leave the queue strictly in the order they were enqueued.
// No priorities, no aging, no reordering.
//
// jobQueue is not safe for concurrent use; the Semaphore guards it
// with its own mutex.
type jobQueue[R any] struct {
	buf        []*job[R] // circular buffer
	head, tail int       // read/write indices
	size       int       // number of jobs currently buffered
}

// newJobQueue creates a queue with room for capacity jobs before
// the first reallocation.
func newJobQueue[R any](capacity int) *jobQueue[R] {
	if capacity <= 0 {
		capacity = initialQueueCapacity
	}
	return &jobQueue[R]{
		buf: make([]*job[R], capacity),
	}
}

// Len returns the number of jobs currently waiting in the queue.
func (q *jobQueue[R]) Len() int { return q.size }

// enqueue appends j at the tail, growing the buffer when it is full.
func (q *jobQueue[R]) enqueue(j *job[R]) {
	if q.size == len(q.buf) {
		q.grow()
	}
	q.buf[q.tail] = j
	q.tail++
	if q.tail == len(q.buf) {
		q.tail = 0
	}
	q.size++
}

// dequeueNext removes and returns the oldest job.
//
// If the queue is empty, it returns nil and false.
func (q *jobQueue[R]) dequeueNext() (*job[R], bool) {
	if q.size == 0 {
		return nil, false
	}
	j := q.buf[q.head]
	q.buf[q.head] = nil
	q.head++
	if q.head == len(q.buf) {
		q.head = 0
	}
	q.size--
	return j, true
}

// drain removes every pending job and returns them oldest first.
func (q *jobQueue[R]) drain() []*job[R] {
	if q.size == 0 {
		return nil
	}
	out := make([]*job[R], 0, q.size)
	for {
		j, ok := q.dequeueNext()
		if !ok {
			return out
		}
		out = append(out, j)
	}
}

// grow doubles the buffer and unwraps it so head is at index zero.
func (q *jobQueue[R]) grow() {
	n := max(len(q.buf)*2, initialQueueCapacity)
	buf := make([]*job[R], n)
	if q.size > 0 {
		if q.head < q.tail {
			copy(buf, q.buf[q.head:q.tail])
		} else {
			k := copy(buf, q.buf[q.head:])
			copy(buf[k:], q.buf[:q.tail])
		}
	}
	q.buf = buf
	q.head = 0
	q.tail = q.size
}
