package job

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/creamcroissant/namegate/internal/repository"
)

// CheckLogCleanupJob deletes check logs older than the retention window.
type CheckLogCleanupJob struct {
	Logs   repository.CheckLogRepository
	MaxAge time.Duration
	Logger *slog.Logger

	now func() time.Time
}

// NewCheckLogCleanupJob creates a new CheckLogCleanupJob.
func NewCheckLogCleanupJob(logs repository.CheckLogRepository, maxAge time.Duration, logger *slog.Logger) *CheckLogCleanupJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &CheckLogCleanupJob{
		Logs:   logs,
		MaxAge: maxAge,
		Logger: logger,
		now:    time.Now,
	}
}

// Name implements Runnable.
func (j *CheckLogCleanupJob) Name() string {
	return "check_log.cleanup"
}

// Run implements Runnable.
func (j *CheckLogCleanupJob) Run(ctx context.Context) error {
	if j == nil || j.Logs == nil {
		return fmt.Errorf("check log cleanup job dependencies not configured")
	}
	if j.MaxAge <= 0 {
		return nil
	}

	cutoff := j.now().Add(-j.MaxAge).Unix()
	deleted, err := j.Logs.DeleteBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("check log cleanup job: %w", err)
	}

	if deleted > 0 {
		j.Logger.Info("cleaned up old check logs", "deleted_rows", deleted)
	}

	return nil
}
