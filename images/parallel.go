package images

import (
	"runtime"
	"sync"
)

// Parallel splits [0, dataSize) into contiguous partitions and processes them
// concurrently.
//
// Arguments:
// - dataSize: The number of items to process.
// - workers: The number of goroutines; values below 1 use runtime.NumCPU().
// - fn: Called once per partition with its half-open bounds.
//
// @example
//
//	Parallel(len(frames), 4, func(start, end int) {
//	    for i := start; i < end; i++ {
//	        // Process frame i
//	    }
//	})
func Parallel(dataSize, workers int, fn func(partStart, partEnd int)) {
	if dataSize <= 0 {
		return
	}
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, dataSize)

	// One partition runs on the calling goroutine.
	if workers == 1 {
		fn(0, dataSize)
		return
	}

	partSize := dataSize / workers

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		partStart := i * partSize
		partEnd := partStart + partSize

		// Last partition gets any remaining data.
		if i == workers-1 {
			partEnd = dataSize
		}

		go func(start, end int) {
			defer wg.Done()
			fn(start, end)
		}(partStart, partEnd)
	}
	wg.Wait()
}
