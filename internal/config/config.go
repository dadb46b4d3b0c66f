package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                int
	DetectorURL         string
	DetectorTimeout     int // seconds
	MaxUploadMB         int
	AllowedExtensions   []string
	TaxonomyPath        string // empty uses the built-in taxonomy
	DBPath              string // empty disables the ledger
	LedgerBufferLimit   int
	LedgerFlushInterval int // seconds
	StatsWorkers        int
	AllowedOrigin       string
	StaticDirectory     string
	LogDirectory        string
}

// Load reads an optional .env file (ENV_FILE, default ".env") and then the
// process environment. Variables already set in the environment win.
func Load() *Config {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "⚠️  Could not load %s: %v\n", envFile, err)
	}

	return &Config{
		Port:                getEnvAsInt("PORT", 8080),
		DetectorURL:         getEnv("DETECTOR_URL", "http://localhost:5000"),
		DetectorTimeout:     getEnvAsInt("DETECTOR_TIMEOUT", 30),
		MaxUploadMB:         getEnvAsInt("MAX_UPLOAD_MB", 16),
		AllowedExtensions:   getEnvAsList("ALLOWED_EXTENSIONS", []string{"png", "jpg", "jpeg"}),
		TaxonomyPath:        os.Getenv("TAXONOMY_PATH"),
		DBPath:              getEnvAllowEmpty("DB_PATH", filepath.Join(".", "data", "ledger.db")),
		LedgerBufferLimit:   getEnvAsInt("LEDGER_BUFFER_LIMIT", 20),
		LedgerFlushInterval: getEnvAsInt("LEDGER_FLUSH_INTERVAL", 10),
		StatsWorkers:        getEnvAsInt("STATS_WORKERS", 2),
		AllowedOrigin:       getEnv("ALLOWED_ORIGIN", "*"),
		StaticDirectory:     getEnv("STATIC_DIR", filepath.Join(".", "static")),
		LogDirectory:        getEnv("LOG_DIR", filepath.Join(".", "logs")),
	}
}

// MaxUploadBytes is the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// LedgerEnabled reports whether uploads are recorded locally.
func (c *Config) LedgerEnabled() bool {
	return c.DBPath != ""
}

// Validate rejects values the server cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}

	u, err := url.Parse(c.DetectorURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("DETECTOR_URL must be an absolute http(s) url, got %q", c.DetectorURL))
	}

	positives := []struct {
		key   string
		value int
	}{
		{"DETECTOR_TIMEOUT", c.DetectorTimeout},
		{"MAX_UPLOAD_MB", c.MaxUploadMB},
		{"LEDGER_BUFFER_LIMIT", c.LedgerBufferLimit},
		{"LEDGER_FLUSH_INTERVAL", c.LedgerFlushInterval},
		{"STATS_WORKERS", c.StatsWorkers},
	}
	for _, p := range positives {
		if p.value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", p.key, p.value))
		}
	}

	if len(c.AllowedExtensions) == 0 {
		errs = append(errs, errors.New("ALLOWED_EXTENSIONS must not be empty"))
	}

	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAllowEmpty distinguishes an unset variable from one set to "".
func getEnvAllowEmpty(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		item = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(item), "."))
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
