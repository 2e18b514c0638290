package pipeline

import (
	"context"
	"sync"

	"go-visual-diff/pkg/models"
)

// TaskFunc executes the full unit of work for one target, retries included,
// and always produces a terminal outcome.
type TaskFunc func(ctx context.Context, target string) models.TaskOutcome

// Scheduler fans tasks out with a fixed concurrency ceiling. Admission is
// first-come-first-served in target order: a pending target starts as soon
// as the in-flight count drops below the limit. Tasks are homogeneous in
// cost, so plain FIFO is enough; there is no priority lane.
type Scheduler struct {
	limit int
}

// NewScheduler creates a scheduler with the given concurrency ceiling.
// Anything below 1 degrades to fully sequential execution.
func NewScheduler(limit int) *Scheduler {
	if limit < 1 {
		limit = 1
	}
	return &Scheduler{limit: limit}
}

// Run executes task for every target and returns one outcome per target
// once all of them have either succeeded or exhausted their retries. A
// per-target failure never aborts the run. If ctx is cancelled, no further
// targets are admitted, in-flight tasks run to completion, and the targets
// that never started are reported as failures with zero attempts, keeping
// the outcome set total.
func (s *Scheduler) Run(ctx context.Context, targets []string, task TaskFunc) []models.TaskOutcome {
	inFlight := make(chan struct{}, s.limit)
	outcomes := make([]models.TaskOutcome, 0, len(targets))

	var mu sync.Mutex
	var wg sync.WaitGroup

	collect := func(o models.TaskOutcome) {
		mu.Lock()
		outcomes = append(outcomes, o)
		mu.Unlock()
	}

	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			collect(failureOutcome(target, "run cancelled: "+err.Error(), 0))
			continue
		}

		select {
		case inFlight <- struct{}{}:
		case <-ctx.Done():
			collect(failureOutcome(target, "run cancelled: "+ctx.Err().Error(), 0))
			continue
		}

		wg.Add(1)
		go func(t string) {
			defer wg.Done()
			defer func() { <-inFlight }()
			collect(task(ctx, t))
		}(target)
	}

	wg.Wait()
	return outcomes
}
