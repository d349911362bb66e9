package throttle_test

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"testing"

	"github.com/azargarov/throttle"
)

// runSubmitters pushes exactly jobsToRun jobs into s using `submitters`
// goroutines and waits for the semaphore to drain.
func runSubmitters(b *testing.B, s *throttle.Semaphore[int], work throttle.Work[int], submitters, jobsToRun int) {
	var wg sync.WaitGroup
	wg.Add(submitters)

	perSubmitter := jobsToRun / submitters
	for range submitters {
		go func() {
			defer wg.Done()
			for range perSubmitter {
				s.Submit(work)
			}
		}()
	}
	wg.Wait()

	if err := s.Wait(context.Background()); err != nil {
		b.Fatalf("Wait: %v", err)
	}
}

// BenchmarkThroughput measures submit-to-completion throughput for
// different workloads, slot counts and submitter counts.
func BenchmarkThroughput(b *testing.B) {
	jobsToRun := getenvInt("THROTTLE_BENCH_JOBS", 10_000)
	limits := []int{1, 4, runtime.GOMAXPROCS(0)}
	submitterCounts := []int{1, 8}

	for _, wl := range workloads {
		for _, limit := range limits {
			for _, submitters := range submitterCounts {
				name := fmt.Sprintf("%s/limit=%d/submitters=%d", wl.name, limit, submitters)
				b.Run(name, func(b *testing.B) {
					s := newTestSemaphore[int](b, limit)

					b.ReportAllocs()
					b.ResetTimer()
					for range b.N {
						runSubmitters(b, s, wl.fn, submitters, jobsToRun)
					}
					b.StopTimer()

					b.ReportMetric(float64(jobsToRun*b.N)/b.Elapsed().Seconds(), "jobs/s")
				})
			}
		}
	}
}

// BenchmarkSubmitFuture measures one submit plus one wait on the Future.
func BenchmarkSubmitFuture(b *testing.B) {
	s := newTestSemaphore[int](b, runtime.GOMAXPROCS(0))
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		if _, err := s.Submit(emptyWork).Wait(ctx); err != nil {
			b.Fatal(err)
		}
	}
}
