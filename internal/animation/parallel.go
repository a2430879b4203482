package animation

import (
	"context"
	"sync"
)

// ForEach lays out every frame of a on up to workers goroutines and calls
// fn with each one. fn may run concurrently and frames arrive in any order.
// It returns the error of the lowest-numbered frame that failed. ForEach
// does not move a's iterator.
func ForEach(ctx context.Context, a *Animator, workers int, fn func(Frame) error) error {
	n := a.Len()
	if n == 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers

	errs := make([]error, n)
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				if err := ctx.Err(); err != nil {
					errs[i] = err
					return
				}
				f, err := a.At(i)
				if err == nil {
					err = fn(f)
				}
				if err != nil {
					errs[i] = err
					return
				}
			}
		}(start, end)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
