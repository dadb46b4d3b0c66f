package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"ENV_FILE", "PORT", "DETECTOR_URL", "DETECTOR_TIMEOUT", "MAX_UPLOAD_MB",
	"ALLOWED_EXTENSIONS", "TAXONOMY_PATH", "DB_PATH", "LEDGER_BUFFER_LIMIT",
	"LEDGER_FLUSH_INTERVAL", "STATS_WORKERS", "ALLOWED_ORIGIN", "STATIC_DIR", "LOG_DIR",
}

// clearEnv unsets every config key for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "http://localhost:5000", cfg.DetectorURL)
	assert.Equal(t, 30, cfg.DetectorTimeout)
	assert.Equal(t, 16, cfg.MaxUploadMB)
	assert.Equal(t, int64(16<<20), cfg.MaxUploadBytes())
	assert.Equal(t, []string{"png", "jpg", "jpeg"}, cfg.AllowedExtensions)
	assert.Empty(t, cfg.TaxonomyPath)
	assert.Equal(t, filepath.Join(".", "data", "ledger.db"), cfg.DBPath)
	assert.True(t, cfg.LedgerEnabled())
	assert.Equal(t, 20, cfg.LedgerBufferLimit)
	assert.Equal(t, 10, cfg.LedgerFlushInterval)
	assert.Equal(t, 2, cfg.StatsWorkers)
	assert.Equal(t, "*", cfg.AllowedOrigin)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DETECTOR_URL", "https://detector.internal:5000")
	t.Setenv("ALLOWED_EXTENSIONS", " PNG, .webp ,,jpg")
	t.Setenv("DB_PATH", "")
	t.Setenv("STATS_WORKERS", "not-a-number")

	cfg := Load()

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "https://detector.internal:5000", cfg.DetectorURL)
	assert.Equal(t, []string{"png", "webp", "jpg"}, cfg.AllowedExtensions)
	assert.Empty(t, cfg.DBPath)
	assert.False(t, cfg.LedgerEnabled())
	assert.Equal(t, 2, cfg.StatsWorkers)
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)

	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("PORT=7070\nMAX_UPLOAD_MB=4\n"), 0o644))
	t.Setenv("ENV_FILE", envFile)
	t.Setenv("MAX_UPLOAD_MB", "8")

	cfg := Load()

	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, 8, cfg.MaxUploadMB, "process environment wins over the file")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:                8080,
			DetectorURL:         "http://localhost:5000",
			DetectorTimeout:     30,
			MaxUploadMB:         16,
			AllowedExtensions:   []string{"png"},
			LedgerBufferLimit:   20,
			LedgerFlushInterval: 10,
			StatsWorkers:        2,
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"port zero", func(c *Config) { c.Port = 0 }},
		{"port too large", func(c *Config) { c.Port = 70000 }},
		{"relative detector url", func(c *Config) { c.DetectorURL = "localhost:5000" }},
		{"detector url without host", func(c *Config) { c.DetectorURL = "http://" }},
		{"zero timeout", func(c *Config) { c.DetectorTimeout = 0 }},
		{"negative upload size", func(c *Config) { c.MaxUploadMB = -1 }},
		{"zero buffer", func(c *Config) { c.LedgerBufferLimit = 0 }},
		{"zero flush interval", func(c *Config) { c.LedgerFlushInterval = 0 }},
		{"zero workers", func(c *Config) { c.StatsWorkers = 0 }},
		{"no extensions", func(c *Config) { c.AllowedExtensions = nil }},
	}

	require.NoError(t, valid().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
