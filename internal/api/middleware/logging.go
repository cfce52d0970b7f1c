package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// LoggingConfig configures the request logging middleware.
type LoggingConfig struct {
	Logger        *slog.Logger
	SlowThreshold time.Duration // requests slower than this log at WARN
	SkipPaths     []string      // paths to skip, e.g. health checks
}

// DefaultLoggingConfig returns the default configuration.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Logger:        slog.Default(),
		SlowThreshold: 500 * time.Millisecond,
		SkipPaths:     []string{"/health", "/healthz", "/_internal/ready"},
	}
}

// StructuredLogger logs one line per request with request id, status and
// latency.
func StructuredLogger(config LoggingConfig) func(http.Handler) http.Handler {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.SlowThreshold == 0 {
		config.SlowThreshold = 500 * time.Millisecond
	}

	skipPathMap := make(map[string]bool)
	for _, p := range config.SkipPaths {
		skipPathMap[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipPathMap[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID == "" {
				requestID = "unknown"
			}

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Header().Set("X-Request-ID", requestID)

			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			status := ww.Status()
			if status == 0 {
				status = 200
			}

			attrs := []slog.Attr{
				slog.String("request_id", requestID),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Duration("duration", duration),
				slog.String("remote_addr", r.RemoteAddr),
				slog.Int("bytes", ww.BytesWritten()),
			}

			if ua := r.Header.Get("User-Agent"); ua != "" {
				attrs = append(attrs, slog.String("user_agent", ua))
			}

			level := slog.LevelInfo
			msg := "request completed"

			if status >= 500 {
				level = slog.LevelError
				msg = "request failed"
			} else if status >= 400 {
				level = slog.LevelWarn
				msg = "request error"
			} else if duration > config.SlowThreshold {
				level = slog.LevelWarn
				msg = "slow request"
				attrs = append(attrs, slog.Duration("slow_threshold", config.SlowThreshold))
			}

			config.Logger.LogAttrs(r.Context(), level, msg, attrs...)
		})
	}
}
