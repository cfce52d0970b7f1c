package bootstrap

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/creamcroissant/namegate/internal/auth/token"
	"github.com/creamcroissant/namegate/internal/cache"
	"github.com/creamcroissant/namegate/internal/config"
	"github.com/creamcroissant/namegate/internal/security"
)

// Infrastructure bundles the shared helpers required by the check pipeline.
type Infrastructure struct {
	Cache       cache.Store
	Token       *token.Manager
	RateLimiter *security.RateLimiter
	Audit       security.Recorder
}

// BuildInfrastructure wires the default cache/token/rate-limit/audit helpers.
func BuildInfrastructure(cfg *config.Config, logger *slog.Logger) (*Infrastructure, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	cacheStore := cache.NewStore(cache.Options{
		Prefix:          "namegate",
		DefaultTTL:      5 * time.Minute,
		CleanupInterval: time.Minute,
	})

	if cfg.Auth.SigningKey == "change-me" {
		return nil, fmt.Errorf("auth.signing_key must be changed from default value")
	}

	tokenManager, err := token.NewManager(token.Options{
		SigningKey: []byte(cfg.Auth.SigningKey),
		Issuer:     cfg.Auth.Issuer,
		Audience:   cfg.Auth.Audience,
		TTL:        cfg.Auth.TokenTTL,
		Leeway:     cfg.Auth.Leeway,
	})
	if err != nil {
		return nil, fmt.Errorf("token manager: %w", err)
	}

	rateLimiter, err := security.NewRateLimiter(cacheStore)
	if err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	audit := security.NewLoggerRecorder(logger)

	return &Infrastructure{
		Cache:       cacheStore,
		Token:       tokenManager,
		RateLimiter: rateLimiter,
		Audit:       audit,
	}, nil
}
