package ce

import (
	"runtime"
	"sync"
)

// forEachOrbit runs fn(n) for every orbit index in [0, count), fanning out
// across a bounded worker pool. Callers guarantee fn writes only
// orbit-disjoint state, so no synchronization beyond the join is needed and
// results are invariant to worker count and visit order.
func forEachOrbit(workers, count int, fn func(n int)) {
	if count == 0 {
		return
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > count {
		workers = count
	}
	if workers == 1 {
		for n := 0; n < count; n++ {
			fn(n)
		}
		return
	}

	work := make(chan int, count)
	for n := 0; n < count; n++ {
		work <- n
	}
	close(work)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := range work {
				fn(n)
			}
		}()
	}
	wg.Wait()
}
