// Package scheduler owns the fixed registry of recurring jobs and
// re-derives their firing cadence when the virtual clock mode changes.
package scheduler

import (
	"context"
	"sync"
	"time"

	"coffeebot/internal/clock"

	"go.uber.org/zap"
)

// Job is one named recurring job with two cadence profiles: a
// cron-like schedule for normal operation and a short fixed interval
// used while the virtual clock is enabled.
type Job struct {
	Name        string
	Normal      Cadence
	Accelerated time.Duration
	Run         func(ctx context.Context) error

	// mu prevents overlapping runs of the same job: a firing that
	// arrives while the previous run is in flight is skipped, not queued
	mu sync.Mutex
}

// Scheduler runs registered jobs under the cadence profile selected by
// the virtual clock mode. A mode switch atomically cancels all pending
// firings and re-registers every job under the other profile; runs
// already in progress are never aborted.
type Scheduler struct {
	clock  *clock.Clock
	logger *zap.Logger

	mu      sync.Mutex
	jobs    []*Job
	parent  context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

// New creates a scheduler bound to the given virtual clock
func New(clk *clock.Clock, logger *zap.Logger) *Scheduler {
	return &Scheduler{clock: clk, logger: logger}
}

// Register adds a job to the registry. Must be called before Start.
func (s *Scheduler) Register(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job)
}

// Start launches all jobs and subscribes to clock mode changes.
// The context bounds the scheduler's lifetime.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.parent = ctx
	s.mu.Unlock()

	s.clock.OnChange(func(enabled bool) {
		s.logger.Info("Clock mode changed, re-registering jobs", zap.Bool("accelerated", enabled))
		s.reschedule()
	})
	s.reschedule()
}

// Stop cancels all pending firings and waits for in-flight runs
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()
	s.wg.Wait()
	s.logger.Info("Scheduler stopped")
}

// reschedule replaces every job's pending firing with one derived from
// the current cadence profile
func (s *Scheduler) reschedule() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started || s.parent == nil || s.parent.Err() != nil {
		return
	}
	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithCancel(s.parent)
	s.cancel = cancel

	accelerated := s.clock.Enabled()
	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.runLoop(ctx, job, accelerated)
	}
}

func (s *Scheduler) runLoop(ctx context.Context, job *Job, accelerated bool) {
	defer s.wg.Done()

	for {
		wait := job.Accelerated
		if !accelerated {
			wait = time.Until(job.Normal.Next(time.Now()))
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		s.fire(job)
	}
}

// fire runs a job once. The run gets the scheduler's parent context,
// so a cadence switch cancels only pending firings, never this run.
func (s *Scheduler) fire(job *Job) {
	if !job.mu.TryLock() {
		s.logger.Warn("Skipping job firing, previous run still in flight",
			zap.String("job", job.Name))
		return
	}
	defer job.mu.Unlock()

	s.logger.Info("Running scheduled job", zap.String("job", job.Name))
	start := time.Now()

	if err := job.Run(s.parent); err != nil {
		s.logger.Error("Scheduled job failed",
			zap.String("job", job.Name),
			zap.Error(err))
		return
	}

	s.logger.Info("Scheduled job completed",
		zap.String("job", job.Name),
		zap.Duration("duration", time.Since(start)))
}
