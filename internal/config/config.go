// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Database (PostgreSQL)
	DatabaseURL   string        `env:"DATABASE_URL,required"`
	DBMaxConns    int32         `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns    int32         `env:"DB_MIN_CONNS" envDefault:"2"`
	DBMaxConnIdle time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"5m"`

	// Cache (Redis)
	RedisURL          string `env:"REDIS_URL,required"`
	RedisPoolSize     int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
	RedisMinIdleConns int    `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts. Uploads of large exports need a longer read window
	// than a JSON API.
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"45s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Upload and analysis
	MaxUploadSize   int64         `env:"MAX_UPLOAD_SIZE" envDefault:"52428800"`
	AnalysisTimeout time.Duration `env:"ANALYSIS_TIMEOUT" envDefault:"30s"`
	VocabularyFile  string        `env:"VOCABULARY_FILE"`
	Timezone        string        `env:"TIMEZONE" envDefault:"Local"`

	// Report lifetime
	ReportTTL       time.Duration `env:"REPORT_TTL" envDefault:"24h"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"10m"`

	// Share tokens
	ShareSecret   string        `env:"SHARE_SECRET,required,unset"`
	ShareTokenTTL time.Duration `env:"SHARE_TOKEN_TTL" envDefault:"168h"`

	// Rate limiting
	RateLimitUploadEnabled bool    `env:"RATE_LIMIT_UPLOAD_ENABLED" envDefault:"true"`
	RateLimitUploadRPS     float64 `env:"RATE_LIMIT_UPLOAD_RPS" envDefault:"0.1"`
	RateLimitUploadBurst   int     `env:"RATE_LIMIT_UPLOAD_BURST" envDefault:"5"`

	// CORS configuration
	// Comma-separated list of allowed origins (e.g., "https://example.com,*.example.com")
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// GetCORSAllowedOrigins returns the configured origins with blanks removed.
func (c *Config) GetCORSAllowedOrigins() []string {
	result := make([]string, 0, len(c.CORSAllowedOrigins))
	for _, origin := range c.CORSAllowedOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

// SlogLevel maps LOG_LEVEL to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
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

// Location resolves TIMEZONE. "Local" and "" mean the host zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Validate checks values that env parsing alone cannot.
func (c *Config) Validate() error {
	var errs []error

	if c.AppPort <= 0 || c.AppPort > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT out of range: %d", c.AppPort))
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat))
	}
	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		errs = append(errs, fmt.Errorf("DB_MIN_CONNS (%d) must be between 0 and DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns))
	}
	if c.RedisPoolSize <= 0 || c.RedisMinIdleConns < 0 || c.RedisMinIdleConns > c.RedisPoolSize {
		errs = append(errs, fmt.Errorf("REDIS_MIN_IDLE_CONNS (%d) must be between 0 and REDIS_POOL_SIZE (%d)", c.RedisMinIdleConns, c.RedisPoolSize))
	}
	if c.MaxUploadSize <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_SIZE must be positive"))
	}
	if c.AnalysisTimeout <= 0 {
		errs = append(errs, errors.New("ANALYSIS_TIMEOUT must be positive"))
	}
	if c.ReportTTL <= 0 {
		errs = append(errs, errors.New("REPORT_TTL must be positive"))
	}
	if c.CleanupInterval <= 0 {
		errs = append(errs, errors.New("CLEANUP_INTERVAL must be positive"))
	}
	if c.ShareTokenTTL <= 0 {
		errs = append(errs, errors.New("SHARE_TOKEN_TTL must be positive"))
	}
	if len(c.ShareSecret) < 32 && c.IsProduction() {
		errs = append(errs, errors.New("SHARE_SECRET must be at least 32 bytes in production"))
	}
	if c.RateLimitUploadEnabled && (c.RateLimitUploadRPS <= 0 || c.RateLimitUploadBurst <= 0) {
		errs = append(errs, errors.New("RATE_LIMIT_UPLOAD_RPS and RATE_LIMIT_UPLOAD_BURST must be positive when upload rate limiting is enabled"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Load parses environment variables and returns a validated Config.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	return load(env.Options{})
}

// LoadFrom is Load over an explicit environment instead of the process's.
func LoadFrom(environ map[string]string) (*Config, error) {
	return load(env.Options{Environment: environ})
}

func load(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
