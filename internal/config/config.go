package config

import (
	"log/slog"
	"time"
)

// Config aggregates all runtime settings.
type Config struct {
	HTTP      HTTPConfig      `mapstructure:"http"`
	Log       LogConfig       `mapstructure:"log"`
	DB        DBConfig        `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Policy    PolicyConfig    `mapstructure:"policy"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Retention RetentionConfig `mapstructure:"retention"`
}

// HTTPConfig defines the HTTP listener behavior.
type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig defines slog handler behavior.
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Format      string `mapstructure:"format"`
	AddSource   bool   `mapstructure:"add_source"`
	Environment string `mapstructure:"environment"`
}

// DBConfig defines the SQLite store location.
type DBConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

// AuthConfig defines JWT settings for the logs API.
type AuthConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	Issuer     string        `mapstructure:"issuer"`
	Audience   string        `mapstructure:"audience"`
	Leeway     time.Duration `mapstructure:"leeway"`
}

// MetricsConfig defines Prometheus exposure.
type MetricsConfig struct {
	Enabled   bool      `mapstructure:"enabled"`
	Namespace string    `mapstructure:"namespace"`
	Subsystem string    `mapstructure:"subsystem"`
	Token     string    `mapstructure:"token"`
	Buckets   []float64 `mapstructure:"buckets"`
}

// PolicyConfig overrides the stock username acceptance rules.
type PolicyConfig struct {
	MinLength    int      `mapstructure:"min_length"`
	MaxLength    int      `mapstructure:"max_length"`
	RequireDigit bool     `mapstructure:"require_digit"`
	Reserved     []string `mapstructure:"reserved"`
}

// RateLimitConfig throttles check requests per source IP.
type RateLimitConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Limit   int           `mapstructure:"limit"`
	Window  time.Duration `mapstructure:"window"`
}

// RetentionConfig controls the check-log cleanup job.
type RetentionConfig struct {
	MaxAge   time.Duration `mapstructure:"max_age"`
	Schedule string        `mapstructure:"schedule"`
}

func (c LogConfig) SlogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
