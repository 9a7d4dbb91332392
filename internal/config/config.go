// Package config loads server settings from defaults, an optional TOML
// file, a .env file and DAILYCOST_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable the server reads.
const EnvPrefix = "DAILYCOST_"

// Config holds the server settings.
type Config struct {
	DBPath         string        `toml:"db_path" env:"DB_PATH"`
	Addr           string        `toml:"addr" env:"ADDR"`
	JWTSecret      string        `toml:"jwt_secret" env:"JWT_SECRET"` // empty: generated and kept in the database
	TokenTTL       time.Duration `toml:"token_ttl" env:"TOKEN_TTL"`
	LogLevel       string        `toml:"log_level" env:"LOG_LEVEL"`
	LogPath        string        `toml:"log_path" env:"LOG_PATH"`
	AdminUsername  string        `toml:"admin_username" env:"ADMIN_USERNAME"`
	CORSOrigins    string        `toml:"cors_origins" env:"CORS_ORIGINS"`
	LoginRateLimit int           `toml:"login_rate_limit" env:"LOGIN_RATE_LIMIT"`
	SentryDSN      string        `toml:"sentry_dsn" env:"SENTRY_DSN"`
	Environment    string        `toml:"environment" env:"ENVIRONMENT"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		DBPath:         "dailycost.db",
		Addr:           ":8080",
		TokenTTL:       7 * 24 * time.Hour,
		LogLevel:       "info",
		AdminUsername:  "admin",
		LoginRateLimit: 10,
		Environment:    "production",
	}
}

// Load builds a Config. tomlPath and dotenvPath may be empty; a missing
// .env file is not an error, a missing TOML file that was asked for is.
func Load(tomlPath, dotenvPath string) (*Config, error) {
	cfg := Default()

	if tomlPath != "" {
		f, err := os.Open(tomlPath)
		if err != nil {
			return nil, fmt.Errorf("opening config file: %w", err)
		}
		defer f.Close()
		if err := cfg.Read(f); err != nil {
			return nil, fmt.Errorf("reading config from %s: %w", tomlPath, err)
		}
	}

	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", dotenvPath, err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read overlays TOML settings from r onto cfg.
func (c *Config) Read(r io.Reader) error {
	md, err := toml.NewDecoder(r).Decode(c)
	if err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown config keys: %v", undecoded)
	}
	return nil
}

// Write encodes cfg as TOML.
func (c *Config) Write(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.DBPath == "" {
		errs = append(errs, errors.New("db_path must not be empty"))
	}
	if c.Addr == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("token_ttl must be positive"))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.AdminUsername == "" {
		errs = append(errs, errors.New("admin_username must not be empty"))
	}
	if c.LoginRateLimit < 0 {
		errs = append(errs, errors.New("login_rate_limit must not be negative"))
	}
	if c.JWTSecret != "" && len(c.JWTSecret) < 32 {
		errs = append(errs, errors.New("jwt_secret must be at least 32 characters"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

// ParseLevel maps a level name onto a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}
