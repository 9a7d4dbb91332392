package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadLayering(t *testing.T) {
	dir := t.TempDir()

	tomlPath := filepath.Join(dir, "dailycost.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(`
db_path = "/var/lib/dailycost/data.db"
addr = ":9000"
token_ttl = "24h"
log_level = "debug"
`), 0o600))

	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("DAILYCOST_LOG_LEVEL=warn\nDAILYCOST_CORS_ORIGINS=https://a.example\n"), 0o600))

	t.Setenv("DAILYCOST_ADDR", ":7000")
	t.Cleanup(func() {
		os.Unsetenv("DAILYCOST_LOG_LEVEL")
		os.Unsetenv("DAILYCOST_CORS_ORIGINS")
	})

	cfg, err := Load(tomlPath, envPath)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/dailycost/data.db", cfg.DBPath)
	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "https://a.example", cfg.CORSOrigins)
}

func TestLoadMissingFiles(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"), "")
	assert.Error(t, err)

	_, err = Load("", filepath.Join(t.TempDir(), ".env"))
	assert.NoError(t, err)
}

func TestReadRejectsUnknownKeys(t *testing.T) {
	cfg := Default()
	err := cfg.Read(strings.NewReader(`colour = "blue"`))
	assert.ErrorContains(t, err, "colour")
}

func TestWriteRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Default().Write(&buf))

	cfg := &Config{}
	require.NoError(t, cfg.Read(&buf))
	assert.Equal(t, Default(), cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty db path", func(c *Config) { c.DBPath = "" }},
		{"empty addr", func(c *Config) { c.Addr = "" }},
		{"zero ttl", func(c *Config) { c.TokenTTL = 0 }},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }},
		{"empty admin", func(c *Config) { c.AdminUsername = "" }},
		{"negative rate", func(c *Config) { c.LoginRateLimit = -1 }},
		{"short secret", func(c *Config) { c.JWTSecret = "short" }},
	}

	require.NoError(t, Default().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}
