package job

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Runnable is a background task triggered by the scheduler.
type Runnable interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler wraps cron with logging and graceful shutdown.
type Scheduler struct {
	cron    *cron.Cron
	logger  *slog.Logger
	mu      sync.Mutex
	started bool
}

const defaultJobTimeout = 2 * time.Minute

// NewScheduler builds a scheduler supporting seconds and descriptors.
func NewScheduler(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	c := cron.New(cron.WithParser(parser))
	return &Scheduler{cron: c, logger: logger}
}

// Register binds a cron expression to a task.
func (s *Scheduler) Register(spec string, runnable Runnable) (cron.EntryID, error) {
	if runnable == nil {
		return 0, fmt.Errorf("scheduler: runnable is required")
	}
	if spec == "" {
		return 0, fmt.Errorf("scheduler: spec is required")
	}
	entryID, err := s.cron.AddFunc(spec, s.wrap(runnable))
	if err != nil {
		return 0, err
	}
	s.logger.Info("job registered", "job", runnable.Name(), "spec", spec)
	return entryID, nil
}

// Start runs the scheduler.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.cron.Start()
	s.started = true
	s.mu.Unlock()
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return context.Background()
	}
	s.started = false
	return s.cron.Stop()
}

// wrap adds a timeout and uniform logging around the task.
func (s *Scheduler) wrap(runnable Runnable) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), defaultJobTimeout)
		defer cancel()
		start := time.Now()
		if err := runnable.Run(ctx); err != nil {
			s.logger.Error("job failed", "job", runnable.Name(), "error", err, "elapsed", time.Since(start))
			return
		}
		s.logger.Debug("job completed", "job", runnable.Name(), "elapsed", time.Since(start))
	}
}
