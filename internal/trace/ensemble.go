package trace

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Ensemble runs the same trace for consecutive seeds in parallel.
type Ensemble struct {
	log        *slog.Logger
	newMetrics func() []Metric
	numRuns    int
	seedStart  int64
}

// NewEnsemble creates an ensemble of numRuns runs. newMetrics is called once
// per run, since metrics carry state; it may be nil.
func NewEnsemble(log *slog.Logger, newMetrics func() []Metric, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{log: log, newMetrics: newMetrics, numRuns: numRuns, seedStart: seedStart}
}

// Run returns one result per seed, in seed order. The first error wins.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if e.numRuns < 1 {
		return nil, fmt.Errorf("%w: runs must be positive, got %d", ErrInvalidConfig, e.numRuns)
	}

	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			r := New(e.log)
			if e.newMetrics != nil {
				for _, m := range e.newMetrics() {
					r.AddMetric(m)
				}
			}

			results[idx], errs[idx] = r.Run(ctx, cfgCopy)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
