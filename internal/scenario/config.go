// Package scenario describes and replays timed job workloads against a
// throttle.Semaphore.
package scenario

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Scenario is a list of jobs submitted in order to one Semaphore.
type Scenario struct {
	MaxConcurrency int     `yaml:"max_concurrency"`
	StartRate      float64 `yaml:"start_rate"`
	Jobs           []Job   `yaml:"jobs"`
}

// Job sleeps for Delay and then succeeds, or fails when Fail is set.
type Job struct {
	Name  string        `yaml:"name"`
	Delay time.Duration `yaml:"delay"`
	Fail  bool          `yaml:"fail"`
}

// Default is two slots and three jobs: one failing after 1s, one
// succeeding after 2s, one succeeding after 1s.
func Default() *Scenario {
	return &Scenario{
		MaxConcurrency: 2,
		Jobs: []Job{
			{Name: "J1", Delay: time.Second, Fail: true},
			{Name: "J2", Delay: 2 * time.Second},
			{Name: "J3", Delay: time.Second},
		},
	}
}

// Load reads a YAML scenario file from the given path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parsing scenario file: %w", err)
	}

	sc.fillNames()
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks that all scenario values are usable.
func (s *Scenario) Validate() error {
	if s.MaxConcurrency <= 0 {
		return fmt.Errorf("invalid max_concurrency %d: must be positive", s.MaxConcurrency)
	}
	if s.StartRate < 0 {
		return fmt.Errorf("invalid start_rate %v: must not be negative", s.StartRate)
	}
	if len(s.Jobs) == 0 {
		return fmt.Errorf("scenario has no jobs")
	}
	seen := make(map[string]struct{}, len(s.Jobs))
	for _, j := range s.Jobs {
		if j.Delay < 0 {
			return fmt.Errorf("job %q: delay cannot be negative", j.Name)
		}
		if _, dup := seen[j.Name]; dup {
			return fmt.Errorf("job %q: duplicate name", j.Name)
		}
		seen[j.Name] = struct{}{}
	}
	return nil
}

func (s *Scenario) fillNames() {
	for i := range s.Jobs {
		if strings.TrimSpace(s.Jobs[i].Name) == "" {
			s.Jobs[i].Name = fmt.Sprintf("J%d", i+1)
		}
	}
}
