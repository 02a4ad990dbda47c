package calculator

import (
	"runtime"
	"sync"
)

// Inputs shorter than parallelThreshold run on the calling goroutine.
const parallelThreshold = 4096

// forEachChunk splits [0, total) into one contiguous chunk per CPU and runs
// fn on each chunk concurrently.
func forEachChunk(total int, fn func(start, end int)) {
	if total <= 0 {
		return
	}
	numCPU := runtime.NumCPU()
	if total < parallelThreshold || numCPU < 2 {
		fn(0, total)
		return
	}

	chunkSize := (total + numCPU - 1) / numCPU

	var wg sync.WaitGroup
	for i := 0; i < numCPU; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if start >= total {
			break
		}
		if end > total {
			end = total
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
