package scenario

import (
	"context"
	"fmt"
	"sync"
	"time"

	lg "github.com/Andrej220/go-utils/zlog"

	"github.com/azargarov/throttle"
)

// Report is the observed timeline of one job, relative to the moment
// the first job was submitted.
type Report struct {
	Name     string
	Started  time.Duration
	Finished time.Duration
	Result   string
	Err      error
}

// Run submits every job of s in order and waits for all of them.
// Reports are returned in submission order.
func Run(ctx context.Context, s *Scenario) ([]Report, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	sem, err := throttle.NewFromOptions[string](throttle.Options{
		MaxConcurrency: s.MaxConcurrency,
		StartRate:      s.StartRate,
		Ctx:            ctx,
	})
	if err != nil {
		return nil, err
	}
	defer sem.Stop()

	var mu sync.Mutex
	reports := make([]Report, len(s.Jobs))
	futures := make([]*throttle.Future[string], len(s.Jobs))

	begin := time.Now()
	for i, j := range s.Jobs {
		reports[i].Name = j.Name
		futures[i] = throttle.Call[int, string](ctx, sem, func(ctx context.Context, idx int) (string, error) {
			mu.Lock()
			reports[idx].Started = time.Since(begin)
			mu.Unlock()

			val, err := sleepThen(ctx, s.Jobs[idx])

			mu.Lock()
			reports[idx].Finished = time.Since(begin)
			mu.Unlock()
			return val, err
		}, i)
	}

	logger := lg.FromContext(ctx)
	for i, f := range futures {
		val, err := f.Wait(ctx)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		mu.Lock()
		reports[i].Result = val
		reports[i].Err = err
		mu.Unlock()
		if err != nil {
			logger.Warn("Scenario job failed", lg.String("name", reports[i].Name), lg.Any("error", err))
		}
	}
	return reports, nil
}

func sleepThen(ctx context.Context, j Job) (string, error) {
	timer := time.NewTimer(j.Delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	if j.Fail {
		return "", fmt.Errorf("scheduled error! delay %s", j.Delay)
	}
	return fmt.Sprintf("Yay! Delay %s", j.Delay), nil
}
