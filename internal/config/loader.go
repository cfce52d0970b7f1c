package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	v := viper.New()

	// Default settings
	setDefaults(v)

	// Config file settings
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/namegate/")

	// Environment variable settings
	v.SetEnvPrefix("NAMEGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 1. Try to read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// It's okay if config file is missing, we might rely on Envs/Defaults
	}

	// 2. Load .env file (deployment convenience)
	if err := loadDotEnv(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", "0.0.0.0:8080")
	v.SetDefault("http.shutdown_timeout", "15s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.environment", "production")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "data/namegate.db")

	v.SetDefault("auth.signing_key", "change-me")
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("auth.issuer", "namegate")
	v.SetDefault("auth.audience", "namegate-admin")
	v.SetDefault("auth.leeway", "30s")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", "namegate")
	v.SetDefault("metrics.subsystem", "http")

	v.SetDefault("policy.min_length", 5)
	v.SetDefault("policy.max_length", 10)
	v.SetDefault("policy.require_digit", true)
	v.SetDefault("policy.reserved", []string{})

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.limit", 100)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("retention.max_age", "720h")
	v.SetDefault("retention.schedule", "0 30 3 * * *")
}

func loadDotEnv(v *viper.Viper) error {
	candidates := []string{".", "..", "../.."}
	for _, path := range candidates {
		file := filepath.Clean(filepath.Join(path, ".env"))
		if _, err := os.Stat(file); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("stat .env: %w", err)
		}

		// Separate viper instance for .env to avoid type confusion with the
		// main config
		envViper := viper.New()
		envViper.SetConfigFile(file)
		envViper.SetConfigType("env")
		if err := envViper.ReadInConfig(); err != nil {
			return fmt.Errorf("read .env: %w", err)
		}

		bindFlatEnv(v, envViper)
	}
	return nil
}

// bindFlatEnv maps flat .env variables to the hierarchical structure.
func bindFlatEnv(target *viper.Viper, source *viper.Viper) {
	mappings := map[string]string{
		"HTTP_ADDR":        "http.addr",
		"SHUTDOWN_TIMEOUT": "http.shutdown_timeout",
		"LOG_LEVEL":        "log.level",
		"LOG_FORMAT":       "log.format",
		"LOG_ADD_SOURCE":   "log.add_source",
		"ENV":              "log.environment",
		"DB_PATH":          "database.path",
		"AUTH_SIGNING_KEY": "auth.signing_key",
		"AUTH_TOKEN_TTL":   "auth.token_ttl",
		"AUTH_ISSUER":      "auth.issuer",
		"AUTH_AUDIENCE":    "auth.audience",
		"AUTH_LEEWAY":      "auth.leeway",
		"METRICS_ENABLED":  "metrics.enabled",
		"METRICS_TOKEN":    "metrics.token",
	}

	for envKey, configKey := range mappings {
		if val := source.GetString(envKey); val != "" {
			// Real environment variables still win via AutomaticEnv.
			target.Set(configKey, val)
		}
	}
}
