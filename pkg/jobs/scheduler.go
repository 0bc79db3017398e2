package jobs

import (
	"context"
	"sync"
	"time"

	"log/slog"
)

// Job represents a recurring background task.
type Job interface {
	Name() string
	Execute(ctx context.Context) error
}

// Scheduler runs registered jobs on fixed intervals until stopped.
type Scheduler struct {
	jobs   []scheduledJob
	logger *slog.Logger
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type scheduledJob struct {
	job      Job
	interval time.Duration
}

// NewScheduler creates an empty scheduler.
func NewScheduler(logger *slog.Logger) *Scheduler {
	return &Scheduler{logger: logger}
}

// AddJob registers a job to run every interval. Register before Start.
func (s *Scheduler) AddJob(job Job, interval time.Duration) {
	s.jobs = append(s.jobs, scheduledJob{job: job, interval: interval})
}

// Start launches one goroutine per job. Each job also runs once shortly
// after startup so a restart does not postpone overdue work.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	for _, sj := range s.jobs {
		s.wg.Add(1)
		go s.run(ctx, sj)
	}
}

// Stop cancels all jobs and waits for in-flight executions to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context, sj scheduledJob) {
	defer s.wg.Done()

	ticker := time.NewTicker(sj.interval)
	defer ticker.Stop()

	s.execute(ctx, sj.job)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.execute(ctx, sj.job)
		}
	}
}

func (s *Scheduler) execute(ctx context.Context, job Job) {
	start := time.Now()
	if err := job.Execute(ctx); err != nil {
		s.logger.Error("background job failed",
			slog.String("job", job.Name()),
			slog.String("error", err.Error()),
		)
		return
	}

	s.logger.Debug("background job completed",
		slog.String("job", job.Name()),
		slog.Duration("elapsed", time.Since(start)),
	)
}
