// Package worker runs independent design solves on a bounded goroutine
// pool. Builds share nothing mutable, so the pool needs no locking beyond
// the job counter.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/L1xtopher/hytempo/internal/logging"
)

// Dependencies holds all dependencies for the pool.
type Dependencies struct {
	LogManager *logging.SlogManager
	// Workers bounds the concurrency; 0 means one worker per CPU.
	Workers int
}

// Pool fans a fixed number of jobs out over a bounded set of goroutines.
type Pool struct {
	deps Dependencies
}

// NewPool creates a pool with the given dependencies.
func NewPool(deps Dependencies) *Pool {
	return &Pool{deps: deps}
}

// Job computes one unit of work, identified by its index.
type Job func(ctx context.Context, index int) error

// Run executes n jobs and blocks until all have finished or the context is
// cancelled. Failed jobs are logged and counted; the first error is
// returned after the remaining jobs have drained.
func (p *Pool) Run(ctx context.Context, n int, job Job) error {
	if n <= 0 {
		return nil
	}
	workers := p.deps.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}

	logger := p.deps.LogManager.Logger()
	logger.Debug("Starting job pool", "jobs", n, "workers", workers)

	indexes := make(chan int)
	var wg sync.WaitGroup

	var mu sync.Mutex
	var firstErr error
	failed := 0

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				if err := ctx.Err(); err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					return
				}
				if err := job(ctx, i); err != nil {
					logger.Error("Job failed", "index", i, "error", err)
					mu.Lock()
					failed++
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
				}
			}
		}()
	}

feed:
	for i := 0; i < n; i++ {
		select {
		case indexes <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(indexes)
	wg.Wait()

	if firstErr == nil {
		firstErr = ctx.Err()
	}
	if firstErr != nil {
		return fmt.Errorf("worker: %d of %d jobs failed: %w", failed, n, firstErr)
	}
	logger.Debug("Job pool finished", "jobs", n)
	return nil
}
