package extraction

import (
	"context"
	"sync"
	"time"
)

// BatchConfig bounds a batch run.
type BatchConfig struct {
	Concurrency     int
	DocumentTimeout time.Duration
}

// RunBatch calls fn for every index in [0, n) with at most cfg.Concurrency
// calls in flight. Each call gets its own context bounded by
// cfg.DocumentTimeout. It blocks until every call has returned.
func RunBatch(ctx context.Context, n int, cfg BatchConfig, fn func(ctx context.Context, i int)) {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		sem <- struct{}{} // acquire
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }() // release

			docCtx := ctx
			cancel := func() {}
			if cfg.DocumentTimeout > 0 {
				docCtx, cancel = context.WithTimeout(ctx, cfg.DocumentTimeout)
			}
			defer cancel()

			fn(docCtx, i)
		}(i)
	}
	wg.Wait()
}
