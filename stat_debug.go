//go:build debug

package throttle

import (
	"sync/atomic"
)

var (
	spawned  atomic.Int64
	handoffs atomic.Int64
)

// RunnerStats counts how admitted jobs reached a goroutine: a fresh
// runner, or the runner of the job whose slot they took over.
type RunnerStats struct {
	Spawned  int64
	Handoffs int64
}

func statSpawned() { spawned.Add(1) }
func statHandoff() { handoffs.Add(1) }

// SnapshotStats returns the process-wide runner counters.
func SnapshotStats() RunnerStats {
	return RunnerStats{
		Spawned:  spawned.Load(),
		Handoffs: handoffs.Load(),
	}
}

// PrintStat writes the runner counters to stderr.
func PrintStat() {
	println(
		"spawned / handoffs :",
		spawned.Load(),
		handoffs.Load(),
	)
}
