package repository

import "context"

// Store exposes the repository for each aggregate root.
type Store interface {
	CheckLogs() CheckLogRepository
}

// CheckLogRepository defines data access for the check audit trail.
type CheckLogRepository interface {
	Create(ctx context.Context, log *CheckLog) error
	BatchCreate(ctx context.Context, logs []*CheckLog) error
	FindByCheckID(ctx context.Context, checkID string) (*CheckLog, error)
	List(ctx context.Context, filter CheckLogFilter) ([]*CheckLog, error)
	Count(ctx context.Context, filter CheckLogFilter) (int64, error)
	DeleteBefore(ctx context.Context, cutoffUnix int64) (int64, error)
}
