// Package batch dispatches MAP estimation across independent inference
// targets. Targets share no mutable state, so the batch is data-parallel:
// a scoped worker pool is built before dispatch and is gone once the batch
// returns, and results come back in input order regardless of completion
// order.
package batch

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Service coordinates a batch of MAP fits.
type Service struct {
	est    Estimator
	logger *zap.Logger
}

// New creates a batch coordinator.
func New(est Estimator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{est: est, logger: logger}
}

// Run processes every job under the given mode and returns one result per
// job, indexed like the input. A failed fit is captured in its own result
// and never aborts sibling jobs. The mode resolves to a worker count before
// any dispatch; an invalid count fails the whole batch up front.
//
// The progress callback, if non-nil, fires after each completed job and is
// never invoked concurrently.
func (s *Service) Run(ctx context.Context, jobs []Job, mode Mode, progress ProgressFunc) ([]Result, error) {
	workers, err := mode.Workers()
	if err != nil {
		return nil, err
	}
	results := make([]Result, len(jobs))
	if len(jobs) == 0 {
		return results, nil
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	s.logger.Debug("starting MAP batch",
		zap.Int("jobs", len(jobs)),
		zap.Int("workers", workers),
	)

	if workers == 1 {
		s.runSequential(ctx, jobs, results, progress)
	} else {
		s.runParallel(ctx, jobs, results, workers, progress)
	}

	failed := 0
	for i := range results {
		if results[i].Err() != nil {
			failed++
		}
	}
	s.logger.Info("MAP batch finished",
		zap.Int("jobs", len(jobs)),
		zap.Int("failed", failed),
	)
	return results, nil
}

func (s *Service) runSequential(ctx context.Context, jobs []Job, results []Result, progress ProgressFunc) {
	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			results[i] = NewError(job.ID, err)
			continue
		}
		results[i] = s.fit(job)
		if progress != nil {
			progress(Done{
				Index:     i,
				ID:        job.ID,
				Err:       results[i].Err(),
				Completed: i + 1,
				Total:     len(jobs),
			})
		}
	}
}

func (s *Service) runParallel(ctx context.Context, jobs []Job, results []Result, workers int, progress ProgressFunc) {
	type indexed struct {
		i   int
		job Job
	}

	feed := make(chan indexed)
	events := make(chan Done, workers)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for it := range feed {
				// Distinct indices per job: no locking needed on results.
				results[it.i] = s.fit(it.job)
				events <- Done{
					Index: it.i,
					ID:    it.job.ID,
					Err:   results[it.i].Err(),
					Total: len(jobs),
				}
			}
		}()
	}

	go func() {
		defer close(feed)
		for i, job := range jobs {
			select {
			case <-ctx.Done():
				return
			case feed <- indexed{i: i, job: job}:
			}
		}
	}()

	// Single collector serializes progress callbacks.
	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		completed := 0
		for ev := range events {
			completed++
			ev.Completed = completed
			if progress != nil {
				progress(ev)
			}
		}
	}()

	wg.Wait()
	close(events)
	<-collectorDone

	// Jobs never dispatched because the context ended.
	for i := range results {
		if results[i].Status() == "" {
			results[i] = NewError(jobs[i].ID, ctx.Err())
		}
	}
}

func (s *Service) fit(job Job) Result {
	point, err := s.est.Estimate(job.Sample, job.Bounds)
	if err != nil {
		s.logger.Debug("MAP fit failed",
			zap.String("target", job.ID),
			zap.Error(err),
		)
		return NewError(job.ID, err)
	}
	return NewOK(job.ID, point)
}
