// Package parallel provides index-range parallelism for embarrassingly
// parallel loops, such as running the independent per-label sub-models of a
// binary-relevance ensemble.
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize splits [0, items) across the available CPU cores and runs fn
// on each sub-range concurrently. fn must be safe to call concurrently and
// should write results only into per-index slots.
func Parallelize(items int, fn func(start, end int)) {
	if items <= 0 {
		return
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}

	// ceiling division so every item lands in exactly one chunk
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}

// ParallelizeWithThreshold runs fn sequentially when items is at or below
// threshold, and in parallel otherwise. Small ensembles are cheaper to run
// inline than to fan out.
func ParallelizeWithThreshold(items, threshold int, fn func(start, end int)) {
	if items <= threshold {
		if items > 0 {
			fn(0, items)
		}
		return
	}
	Parallelize(items, fn)
}
