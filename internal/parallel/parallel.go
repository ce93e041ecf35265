// Package parallel provides the worker fan-out used by the gradient estimator.
package parallel

import (
	"runtime"
	"sync"

	"github.com/klauspost/cpuid/v2"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns defaults sized to the number of physical cores.
//
// Each work item in this module is a full batch cost evaluation, so the
// minimum chunk is much smaller than for element-wise kernels.
func DefaultConfig() Config {
	n := Workers()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 8,
	}
}

// Sequential returns a Config that always runs on the calling goroutine.
func Sequential() Config {
	return Config{Enabled: false, NumWorkers: 1}
}

// Workers reports the number of physical cores, or the logical CPU count
// when cpuid cannot determine it.
func Workers() int {
	if n := cpuid.CPU.PhysicalCores; n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// ForRange splits [0, n) into contiguous chunks and calls f once per chunk.
// Every chunk runs on its own goroutine, so f may hold per-chunk scratch state.
func ForRange(n int, f func(start, end int), cfg Config) {
	if n <= 0 {
		return
	}
	workers := cfg.NumWorkers
	if !cfg.Enabled || workers <= 1 || n < cfg.MinChunkSize {
		f(0, n)
		return
	}

	var wg sync.WaitGroup
	chunkSize := max((n+workers-1)/workers, cfg.MinChunkSize, 1)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			f(s, e)
		}(start, end)
	}
	wg.Wait()
}
