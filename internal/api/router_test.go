package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creamcroissant/namegate/internal/auth/token"
	"github.com/creamcroissant/namegate/internal/config"
	"github.com/creamcroissant/namegate/internal/repository"
	"github.com/creamcroissant/namegate/internal/service"
	"github.com/creamcroissant/namegate/internal/validate"
)

type stubCheckLogRepo struct {
	logs []*repository.CheckLog
}

func (r *stubCheckLogRepo) Create(_ context.Context, log *repository.CheckLog) error {
	log.ID = int64(len(r.logs) + 1)
	if log.CreatedAt == 0 {
		log.CreatedAt = time.Now().Unix()
	}
	r.logs = append(r.logs, log)
	return nil
}

func (r *stubCheckLogRepo) BatchCreate(ctx context.Context, logs []*repository.CheckLog) error {
	for _, log := range logs {
		if err := r.Create(ctx, log); err != nil {
			return err
		}
	}
	return nil
}

func (r *stubCheckLogRepo) FindByCheckID(_ context.Context, checkID string) (*repository.CheckLog, error) {
	for _, log := range r.logs {
		if log.CheckID == checkID {
			return log, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubCheckLogRepo) List(_ context.Context, _ repository.CheckLogFilter) ([]*repository.CheckLog, error) {
	return r.logs, nil
}

func (r *stubCheckLogRepo) Count(_ context.Context, _ repository.CheckLogFilter) (int64, error) {
	return int64(len(r.logs)), nil
}

func (r *stubCheckLogRepo) DeleteBefore(_ context.Context, _ int64) (int64, error) {
	return 0, nil
}

func newTestRouter(t *testing.T) (http.Handler, *token.Manager, *stubCheckLogRepo) {
	t.Helper()

	repo := &stubCheckLogRepo{}
	checks := service.NewCheckService(service.CheckOptions{
		Policy: validate.DefaultPolicy(),
		Logs:   repo,
	})
	manager, err := token.NewManager(token.Options{
		SigningKey: []byte("router-test-key"),
		Issuer:     "namegate",
		TTL:        time.Hour,
	})
	require.NoError(t, err)

	logger := slog.New(slog.DiscardHandler)
	router := NewRouter(logger, Services{
		Check: checks,
		Logs:  repo,
		Token: manager,
	}, config.MetricsConfig{Enabled: false})

	return router, manager, repo
}

func postCheck(t *testing.T, router http.Handler, username string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(map[string]string{"username": username})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/check", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCheckEndpointVerdicts(t *testing.T) {
	router, _, _ := newTestRouter(t)

	cases := []struct {
		username string
		valid    bool
		message  string
	}{
		{"R2D2XY", true, "'R2D2XY' is a valid username."},
		{"R2D2", false, "'R2D2' is invalid."},
		{"Robot#1", false, "'Robot#1' is invalid."},
	}

	for _, tc := range cases {
		rec := postCheck(t, router, tc.username)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			CheckID string `json:"check_id"`
			Valid   bool   `json:"valid"`
			Message string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, tc.valid, resp.Valid)
		assert.Equal(t, tc.message, resp.Message)
		assert.NotEmpty(t, resp.CheckID)
	}
}

func TestCheckEndpointRejectsBadJSON(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/check", bytes.NewReader([]byte("{")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPolicyEndpoint(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/policy", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		MinLength    int  `json:"min_length"`
		MaxLength    int  `json:"max_length"`
		RequireDigit bool `json:"require_digit"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 5, resp.MinLength)
	assert.Equal(t, 10, resp.MaxLength)
	assert.True(t, resp.RequireDigit)
}

func TestLogsEndpointRequiresToken(t *testing.T) {
	router, manager, _ := newTestRouter(t)

	// Seed one log entry through the public endpoint.
	rec := postCheck(t, router, "Robot#1")
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/logs", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	signed, _, err := manager.Issue(token.IssueInput{Subject: "ops", TokenType: "admin"})
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/logs", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Total int64 `json:"total"`
		Items []struct {
			Username string `json:"username"`
			Valid    bool   `json:"valid"`
			Reasons  string `json:"reasons"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, int64(1), resp.Total)
	assert.Equal(t, "Robot#1", resp.Items[0].Username)
	assert.False(t, resp.Items[0].Valid)
	assert.Equal(t, "bad_character", resp.Items[0].Reasons)
}

func TestHealthEndpoints(t *testing.T) {
	router, _, _ := newTestRouter(t)

	for _, path := range []string{"/healthz", "/health", "/_internal/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
