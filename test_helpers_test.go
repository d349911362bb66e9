package throttle_test

import (
	"context"
	"crypto/sha256"
	"os"
	"runtime"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/azargarov/throttle"
)

var shaData = []byte("some deterministic payloadsome deterministic payloadsome deterministic payloadsome deterministic payload")

var (
	emptyWork = func(context.Context) (int, error) {
		return 0, nil
	}

	cpuWork = func(context.Context) (int, error) {
		x := 0
		for i := range 1000 {
			x += i * i
		}
		return x, nil
	}

	ioWork = func(context.Context) (int, error) {
		time.Sleep(5 * time.Microsecond)
		return 0, nil
	}

	shaWork = func(context.Context) (int, error) {
		sum := sha256.Sum256(shaData)
		return int(sum[0]), nil
	}
)

type workload struct {
	name string
	fn   throttle.Work[int]
}

var workloads = []workload{
	{"empty ", emptyWork},
	{"sha256", shaWork},
	{"cpu   ", cpuWork},
	{"io    ", ioWork},
}

func newTestSemaphore[R any](t testing.TB, maxConcurrency int) *throttle.Semaphore[R] {
	t.Helper()

	s, err := throttle.New[R](maxConcurrency)
	if err != nil {
		t.Fatalf("New(%d): %v", maxConcurrency, err)
	}
	t.Cleanup(s.Stop)
	return s
}

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		runtime.Gosched()
	}
	t.Fatal("condition not satisfied before timeout")
}

func waitFuture[R any](t *testing.T, f *throttle.Future[R]) (R, error) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	val, err := f.Wait(ctx)
	if ctx.Err() != nil {
		t.Fatalf("job %s did not complete", f.ID())
	}
	return val, err
}

// tracker records how many tracked jobs run at once and the order in
// which they started.
type tracker struct {
	mu      sync.Mutex
	running int
	peak    int
	started []int
}

func (tr *tracker) enter(id int) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.running++
	tr.peak = max(tr.peak, tr.running)
	tr.started = append(tr.started, id)
}

func (tr *tracker) leave() {
	tr.mu.Lock()
	tr.running--
	tr.mu.Unlock()
}

func (tr *tracker) startedIDs() []int {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return append([]int(nil), tr.started...)
}

func (tr *tracker) peakRunning() int {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.peak
}

// gated returns work that reports id to tr and blocks until gate is closed.
func gated(tr *tracker, id int, gate <-chan struct{}) throttle.Work[int] {
	return func(context.Context) (int, error) {
		tr.enter(id)
		defer tr.leave()
		<-gate
		return id, nil
	}
}

func getenvInt(name string, def int) int {
	if v := os.Getenv(name); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}
