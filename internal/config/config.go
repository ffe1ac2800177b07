// Package config loads server settings from LOMBA17_* environment variables.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
)

// Storage backends for the key/value store.
const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
	StorageNone   = "none"
)

const csrfKeyBytes = 32

var (
	ErrUnknownStorage       = errors.New("LOMBA17_STORAGE must be sqlite, memory or none")
	ErrCSRFKeyRequired      = errors.New("LOMBA17_CSRF_KEY is required in production")
	ErrInvalidCSRFKey       = errors.New("LOMBA17_CSRF_KEY must be 64 hex characters")
	ErrNonPositiveInterval  = errors.New("LOMBA17_HEALTH_INTERVAL must be positive")
	ErrEmptyAdminPassword   = errors.New("LOMBA17_ADMIN_PASSWORD must not be empty")
	ErrNonPositiveRateLimit = errors.New("LOMBA17_RATE_LIMIT must be positive")
)

// Config is the full server configuration.
type Config struct {
	Addr    string `env:"LOMBA17_ADDR"     envDefault:":8080"`
	Env     string `env:"LOMBA17_ENV"      envDefault:"development"`
	DBPath  string `env:"LOMBA17_DB_PATH"  envDefault:"lomba17.db"`
	Storage string `env:"LOMBA17_STORAGE"  envDefault:"sqlite"`

	APIURL      string        `env:"LOMBA17_API_URL"      envDefault:"http://localhost:5000"`
	HTTPTimeout time.Duration `env:"LOMBA17_HTTP_TIMEOUT" envDefault:"10s"`

	AdminPassword  string   `env:"LOMBA17_ADMIN_PASSWORD" envDefault:"merdeka17"`
	CSRFKey        string   `env:"LOMBA17_CSRF_KEY"`
	TrustedOrigins []string `env:"LOMBA17_TRUSTED_ORIGINS" envDefault:"localhost:8080,127.0.0.1:8080" envSeparator:","`

	HealthInterval time.Duration `env:"LOMBA17_HEALTH_INTERVAL" envDefault:"30s"`

	ResendKey   string `env:"LOMBA17_RESEND_KEY"`
	EmailFrom   string `env:"LOMBA17_EMAIL_FROM"   envDefault:"Panitia Lomba 17 Agustus <noreply@lomba17.id>"`
	NotifyEmail string `env:"LOMBA17_NOTIFY_EMAIL"`

	Timezone string `env:"LOMBA17_TIMEZONE"  envDefault:"Asia/Jakarta"`
	LogLevel string `env:"LOMBA17_LOG_LEVEL" envDefault:"info"`

	SlowQueryMs   int `env:"LOMBA17_SLOW_QUERY_MS"   envDefault:"50"`
	SlowRequestMs int `env:"LOMBA17_SLOW_REQUEST_MS" envDefault:"200"`
	// RateLimit is requests per minute per client address.
	RateLimit int `env:"LOMBA17_RATE_LIMIT" envDefault:"120"`
}

// Load parses the environment and validates the result.
// POST: Returns a Config with defaults applied, or the first problem found
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field rules env tags cannot express.
func (c Config) Validate() error {
	switch c.Storage {
	case StorageSQLite, StorageMemory, StorageNone:
	default:
		return ErrUnknownStorage
	}
	if c.IsProduction() && c.CSRFKey == "" {
		return ErrCSRFKeyRequired
	}
	if c.CSRFKey != "" {
		if b, err := hex.DecodeString(c.CSRFKey); err != nil || len(b) != csrfKeyBytes {
			return ErrInvalidCSRFKey
		}
	}
	if c.HealthInterval <= 0 {
		return ErrNonPositiveInterval
	}
	if c.AdminPassword == "" {
		return ErrEmptyAdminPassword
	}
	if c.RateLimit <= 0 {
		return ErrNonPositiveRateLimit
	}
	return nil
}

// IsProduction reports whether LOMBA17_ENV is "production".
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// CSRFKeyBytes decodes the configured key. Outside production an empty key
// yields a random one, so form tokens do not survive a restart.
func (c Config) CSRFKeyBytes() ([]byte, error) {
	if c.CSRFKey != "" {
		b, err := hex.DecodeString(c.CSRFKey)
		if err != nil || len(b) != csrfKeyBytes {
			return nil, ErrInvalidCSRFKey
		}
		return b, nil
	}
	if c.IsProduction() {
		return nil, ErrCSRFKeyRequired
	}
	b := make([]byte, csrfKeyBytes)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("generate csrf key: %w", err)
	}
	return b, nil
}

// Location loads the configured time zone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// SlogLevel maps LOMBA17_LOG_LEVEL to a slog level. Unknown values mean info.
func (c Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
