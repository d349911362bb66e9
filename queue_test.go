package throttle

import (
	"testing"
)

func mkJob(id string) *job[int] {
	return &job[int]{id: id}
}

func popIDs(t *testing.T, q *jobQueue[int], n int) []string {
	t.Helper()
	var out []string
	for range n {
		j, ok := q.dequeueNext()
		if !ok {
			t.Fatalf("dequeueNext returned false after %d jobs, expected %d", len(out), n)
		}
		out = append(out, j.id)
	}
	return out
}

func TestJobQueueEmpty(t *testing.T) {
	q := newJobQueue[int](0)

	if q.Len() != 0 {
		t.Fatalf("expected empty queue, got len=%d", q.Len())
	}
	if j, ok := q.dequeueNext(); ok || j != nil {
		t.Fatalf("dequeueNext on empty queue = (%v, %v); want (nil, false)", j, ok)
	}
	if got := q.drain(); got != nil {
		t.Fatalf("drain on empty queue = %v; want nil", got)
	}
}

func TestJobQueueGrow_NoWrap(t *testing.T) {
	capacity := 4
	q := newJobQueue[int](capacity)

	for _, id := range []string{"1", "2", "3", "4"} {
		q.enqueue(mkJob(id))
	}
	if q.Len() != capacity {
		t.Fatalf("expected size=4, got %d", q.Len())
	}

	q.enqueue(mkJob("5"))

	if len(q.buf) <= capacity {
		t.Fatalf("grow() didn't increase capacity, got %d", len(q.buf))
	}
	if q.Len() != 5 {
		t.Fatalf("after grow: expected size=5, got %d", q.Len())
	}

	got := popIDs(t, q, 5)
	for i, want := range []string{"1", "2", "3", "4", "5"} {
		if got[i] != want {
			t.Fatalf("FIFO order broken: expected %s, got %v", want, got)
		}
	}
}

func TestJobQueueGrow_WithWrap(t *testing.T) {
	q := newJobQueue[int](4)

	q.enqueue(mkJob("1"))
	q.enqueue(mkJob("2"))
	q.enqueue(mkJob("3"))

	if got := popIDs(t, q, 1); got[0] != "1" {
		t.Fatalf("expected to pop 1, got %s", got[0])
	}

	// head=1, tail wraps around to 1
	q.enqueue(mkJob("4"))
	q.enqueue(mkJob("5"))
	if q.head != 1 || q.tail != 1 {
		t.Fatalf("expected wrapped buffer, head=%d tail=%d", q.head, q.tail)
	}

	// full and wrapped: next push must unwrap in order
	q.enqueue(mkJob("6"))
	if q.head != 0 {
		t.Fatalf("expected head=0 after grow, got %d", q.head)
	}

	got := popIDs(t, q, 5)
	for i, want := range []string{"2", "3", "4", "5", "6"} {
		if got[i] != want {
			t.Fatalf("FIFO order broken after wrap: expected %s at %d, got %v", want, i, got)
		}
	}
	if q.Len() != 0 {
		t.Fatalf("expected empty queue, got len=%d", q.Len())
	}
}

func TestJobQueueDequeueClearsSlot(t *testing.T) {
	q := newJobQueue[int](2)
	q.enqueue(mkJob("a"))
	q.dequeueNext()

	if q.buf[0] != nil {
		t.Fatal("dequeued slot still references the job")
	}
}

func TestJobQueueDrain(t *testing.T) {
	q := newJobQueue[int](2)
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		q.enqueue(mkJob(id))
	}
	q.dequeueNext()

	drained := q.drain()
	if len(drained) != 4 {
		t.Fatalf("drained %d jobs; want 4", len(drained))
	}
	for i, want := range []string{"b", "c", "d", "e"} {
		if drained[i].id != want {
			t.Fatalf("drain order broken: expected %s at %d, got %s", want, i, drained[i].id)
		}
	}
	if q.Len() != 0 {
		t.Fatalf("queue not empty after drain, len=%d", q.Len())
	}

	q.enqueue(mkJob("f"))
	if got := popIDs(t, q, 1); got[0] != "f" {
		t.Fatalf("queue unusable after drain, got %s", got[0])
	}
}
