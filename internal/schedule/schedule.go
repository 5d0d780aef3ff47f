// Package schedule runs the periodic background jobs: deadline and reminder
// announcements, the unpaid-RSVP payment sweep, reaction reconciliation, and
// snapshot export.
package schedule

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Job is one unit of periodic work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Runner executes a job at a fixed interval.
type Runner struct {
	job      Job
	interval time.Duration
	logger   *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRunner creates a runner for the given job and interval.
func NewRunner(job Job, interval time.Duration, logger *slog.Logger) *Runner {
	return &Runner{job: job, interval: interval, logger: logger}
}

// Start begins periodic execution. The job runs once immediately, then on
// each tick.
func (r *Runner) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.run(ctx)
	}()
}

// Stop cancels the runner and waits for an in-flight run to finish.
func (r *Runner) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
}

func (r *Runner) run(ctx context.Context) {
	r.runOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

func (r *Runner) runOnce(ctx context.Context) {
	start := time.Now()
	if err := r.job.Run(ctx); err != nil {
		r.logger.Error("job failed", "job", r.job.Name(), "err", err)
		return
	}
	r.logger.Debug("job completed", "job", r.job.Name(), "elapsed", time.Since(start))
}
