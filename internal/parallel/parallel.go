// Package parallel fans read-only work out across goroutines.
//
// Work is split into contiguous index ranges, one goroutine per range. Results
// are always written by index, so callers that reduce them afterwards see the
// same values in the same order as a sequential run.
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

// DefaultConfig returns sensible defaults based on CPU count.
//
// NumWorkers is the number of physical cores when cpuid can detect it and
// runtime.NumCPU otherwise.
func DefaultConfig() Config {
	n := cpuid.CPU.PhysicalCores
	if n <= 0 {
		n = runtime.NumCPU()
	}
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 256,
	}
}

// Sequential returns a Config that runs everything on the calling goroutine.
func Sequential() Config {
	return Config{}
}

// ForChunks calls f(start, end) for contiguous ranges covering [0, n).
// Falls back to a single f(0, n) call if parallelism is disabled or n is too small.
func ForChunks(n int, f func(start, end int), cfg Config) {
	if n <= 0 {
		return
	}
	workers := max(cfg.NumWorkers, 1)
	if !cfg.Enabled || workers == 1 || n < cfg.MinChunkSize {
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

// For executes f(i) for i in [0, n) with optional parallelism.
func For(n int, f func(i int), cfg Config) {
	ForChunks(n, func(start, end int) {
		for i := start; i < end; i++ {
			f(i)
		}
	}, cfg)
}

// Map returns []T{f(0), ..., f(n-1)}, evaluating f with optional parallelism.
// f must be safe for concurrent use when cfg enables parallelism.
func Map[T any](n int, f func(i int) T, cfg Config) []T {
	out := make([]T, max(n, 0))
	For(n, func(i int) {
		out[i] = f(i)
	}, cfg)
	return out
}
