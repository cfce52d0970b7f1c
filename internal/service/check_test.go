package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creamcroissant/namegate/internal/cache"
	"github.com/creamcroissant/namegate/internal/repository"
	"github.com/creamcroissant/namegate/internal/security"
	"github.com/creamcroissant/namegate/internal/validate"
)

type memoryCheckLogRepo struct {
	mu   sync.Mutex
	logs []*repository.CheckLog
}

func (r *memoryCheckLogRepo) Create(_ context.Context, log *repository.CheckLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	log.ID = int64(len(r.logs) + 1)
	if log.CreatedAt == 0 {
		log.CreatedAt = time.Now().Unix()
	}
	r.logs = append(r.logs, log)
	return nil
}

func (r *memoryCheckLogRepo) BatchCreate(ctx context.Context, logs []*repository.CheckLog) error {
	for _, log := range logs {
		if err := r.Create(ctx, log); err != nil {
			return err
		}
	}
	return nil
}

func (r *memoryCheckLogRepo) FindByCheckID(_ context.Context, checkID string) (*repository.CheckLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, log := range r.logs {
		if log.CheckID == checkID {
			return log, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memoryCheckLogRepo) List(_ context.Context, _ repository.CheckLogFilter) ([]*repository.CheckLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*repository.CheckLog(nil), r.logs...), nil
}

func (r *memoryCheckLogRepo) Count(_ context.Context, _ repository.CheckLogFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.logs)), nil
}

func (r *memoryCheckLogRepo) DeleteBefore(_ context.Context, cutoff int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.logs[:0]
	var deleted int64
	for _, log := range r.logs {
		if log.CreatedAt < cutoff {
			deleted++
			continue
		}
		kept = append(kept, log)
	}
	r.logs = kept
	return deleted, nil
}

func newTestService(t *testing.T, repo repository.CheckLogRepository) CheckService {
	t.Helper()
	store := cache.NewStore(cache.Options{DefaultTTL: time.Minute})
	limiter, err := security.NewRateLimiter(store)
	require.NoError(t, err)
	return NewCheckService(CheckOptions{
		Policy:     validate.DefaultPolicy(),
		Logs:       repo,
		Cache:      store,
		Limiter:    limiter,
		Audit:      security.NewLoggerRecorder(nil),
		RateLimit:  5,
		RateWindow: time.Minute,
	})
}

func TestCheckVerdictsAndMessages(t *testing.T) {
	svc := newTestService(t, &memoryCheckLogRepo{})
	ctx := context.Background()

	cases := []struct {
		username string
		valid    bool
		message  string
	}{
		{"R2D2", false, "'R2D2' is invalid."},
		{"R2D2XY", true, "'R2D2XY' is a valid username."},
		{"Robot#1", false, "'Robot#1' is invalid."},
		{"Robotss", false, "'Robotss' is invalid."},
		{"", false, "'' is invalid."},
	}

	for _, tc := range cases {
		out, err := svc.Check(ctx, CheckInput{Username: tc.username, Source: "cli"})
		require.NoError(t, err)
		assert.Equal(t, tc.valid, out.Valid, tc.username)
		assert.Equal(t, tc.message, out.Message)
		assert.NotEmpty(t, out.CheckID)
	}
}

func TestCheckPersistsAuditTrail(t *testing.T) {
	repo := &memoryCheckLogRepo{}
	svc := newTestService(t, repo)
	ctx := context.Background()

	out, err := svc.Check(ctx, CheckInput{Username: "Robot#1", Source: "http", IP: "10.0.0.1"})
	require.NoError(t, err)

	log, err := repo.FindByCheckID(ctx, out.CheckID)
	require.NoError(t, err)
	assert.Equal(t, "Robot#1", log.Username)
	assert.False(t, log.Valid)
	assert.Equal(t, "bad_character", log.Reasons)
	assert.Equal(t, "http", log.Source)
	assert.Equal(t, "10.0.0.1", log.SourceIP)
}

func TestCheckMemoizesVerdictsPerUsername(t *testing.T) {
	repo := &memoryCheckLogRepo{}
	svc := newTestService(t, repo)
	ctx := context.Background()

	first, err := svc.Check(ctx, CheckInput{Username: "R2D2XY", Source: "cli"})
	require.NoError(t, err)
	second, err := svc.Check(ctx, CheckInput{Username: "R2D2XY", Source: "cli"})
	require.NoError(t, err)

	assert.Equal(t, first.Valid, second.Valid)
	assert.Equal(t, first.Message, second.Message)
	// Every request keeps its own audit identity.
	assert.NotEqual(t, first.CheckID, second.CheckID)

	count, err := repo.Count(ctx, repository.CheckLogFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestCheckNormalizesWhitespace(t *testing.T) {
	svc := newTestService(t, &memoryCheckLogRepo{})

	out, err := svc.Check(context.Background(), CheckInput{Username: "  R2D2XY \n", Source: "cli"})
	require.NoError(t, err)
	assert.True(t, out.Valid)
	assert.Equal(t, "R2D2XY", out.Username)
}

func TestCheckRateLimitsPerIP(t *testing.T) {
	store := cache.NewStore(cache.Options{DefaultTTL: time.Minute})
	limiter, err := security.NewRateLimiter(store)
	require.NoError(t, err)
	svc := NewCheckService(CheckOptions{
		Policy:     validate.DefaultPolicy(),
		Cache:      store,
		Limiter:    limiter,
		RateLimit:  2,
		RateWindow: time.Minute,
	})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := svc.Check(ctx, CheckInput{Username: "R2D2XY", IP: "10.0.0.9", Source: "http"})
		require.NoError(t, err)
	}
	_, err = svc.Check(ctx, CheckInput{Username: "R2D2XY", IP: "10.0.0.9", Source: "http"})
	assert.ErrorIs(t, err, ErrRateLimited)

	// CLI checks carry no IP and are never throttled.
	_, err = svc.Check(ctx, CheckInput{Username: "R2D2XY", Source: "cli"})
	assert.NoError(t, err)
}
