package job

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creamcroissant/namegate/internal/repository"
)

type cleanupRepo struct {
	repository.CheckLogRepository
	gotCutoff int64
	deleted   int64
}

func (r *cleanupRepo) DeleteBefore(_ context.Context, cutoff int64) (int64, error) {
	r.gotCutoff = cutoff
	return r.deleted, nil
}

func TestCheckLogCleanupUsesRetentionCutoff(t *testing.T) {
	repo := &cleanupRepo{deleted: 3}
	job := NewCheckLogCleanupJob(repo, 24*time.Hour, nil)
	fixed := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	job.now = func() time.Time { return fixed }

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, fixed.Add(-24*time.Hour).Unix(), repo.gotCutoff)
}

func TestCheckLogCleanupSkipsWhenDisabled(t *testing.T) {
	repo := &cleanupRepo{}
	job := NewCheckLogCleanupJob(repo, 0, nil)

	require.NoError(t, job.Run(context.Background()))
	assert.Zero(t, repo.gotCutoff)
}

func TestCheckLogCleanupRequiresRepo(t *testing.T) {
	job := NewCheckLogCleanupJob(nil, time.Hour, nil)
	assert.Error(t, job.Run(context.Background()))
}
