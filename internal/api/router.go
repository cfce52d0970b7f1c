package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/creamcroissant/namegate/internal/api/handler"
	"github.com/creamcroissant/namegate/internal/api/middleware"
	"github.com/creamcroissant/namegate/internal/auth/token"
	"github.com/creamcroissant/namegate/internal/config"
	"github.com/creamcroissant/namegate/internal/repository"
	"github.com/creamcroissant/namegate/internal/service"
)

// Services bundles everything the router needs.
type Services struct {
	Check service.CheckService
	Logs  repository.CheckLogRepository
	Token *token.Manager
}

// NewRouter wires the HTTP surface.
func NewRouter(logger *slog.Logger, services Services, metricsCfg config.MetricsConfig) http.Handler {
	if services.Check == nil {
		panic("router requires CheckService")
	}

	r := chi.NewRouter()

	mCfg := middleware.DefaultMetricsConfig()
	if metricsCfg.Namespace != "" {
		mCfg.Namespace = metricsCfg.Namespace
	}
	if metricsCfg.Subsystem != "" {
		mCfg.Subsystem = metricsCfg.Subsystem
	}
	if len(metricsCfg.Buckets) > 0 {
		mCfg.Buckets = metricsCfg.Buckets
	}

	var metrics *middleware.Metrics
	if metricsCfg.Enabled {
		metrics = middleware.NewMetrics(mCfg)
	}

	r.Use(
		chiMiddleware.RequestID,
		chiMiddleware.RealIP,
	)

	if metrics != nil {
		r.Use(metrics.Middleware(mCfg))
	}

	r.Use(
		middleware.StructuredLogger(middleware.LoggingConfig{
			Logger:        logger,
			SlowThreshold: 500 * time.Millisecond,
			SkipPaths:     []string{"/health", "/healthz", "/_internal/ready", "/metrics"},
		}),
		chiMiddleware.Recoverer,
		chiMiddleware.Compress(5),
	)

	healthz := func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{
			"status": "ok",
			"ts":     time.Now().UTC().Format(time.RFC3339Nano),
		})
	}
	r.Get("/healthz", healthz)
	// Alias for Docker health check
	r.Get("/health", healthz)

	r.Get("/_internal/ready", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	if metrics != nil {
		if metricsCfg.Token != "" {
			r.With(middleware.MetricsGuard(metricsCfg.Token)).Handle("/metrics", promhttp.Handler())
		} else {
			r.Handle("/metrics", promhttp.Handler())
		}
	}

	checkHandler := handler.NewCheckHandler(services.Check, metrics)
	policyHandler := handler.NewPolicyHandler(services.Check)

	r.Route("/api/v1", func(api chi.Router) {
		api.Post("/check", checkHandler.HandleCheck)
		api.Get("/policy", policyHandler.HandleGet)

		if services.Logs != nil && services.Token != nil {
			logsHandler := handler.NewLogsHandler(services.Logs)
			api.With(middleware.RequireToken(services.Token)).Get("/logs", logsHandler.HandleList)
		}
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		logger.Warn("unmapped route hit", "method", req.Method, "path", req.URL.Path)
		http.NotFound(w, req)
	})

	return r
}
