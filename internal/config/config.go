// Package config loads process settings from the environment, with an
// optional .env file.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/goliatone/go-legaldocs/pkg/model"
)

// Config holds everything the CLI and server read from the environment.
type Config struct {
	Addr           string
	DataDir        string
	Language       model.Language
	TamilFont      string
	PDFFingerprint bool
	WatchDebounce  time.Duration
	LogLevel       string
	LogFormat      string
	GinMode        string
}

// Load reads an optional .env (or the given files) and the LEGALDOCS_*
// variables. Values already set in the environment win over .env entries.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		// A missing .env is fine.
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("config: load env files: %w", err)
	}

	lang, err := model.ParseLanguage(getEnv("LEGALDOCS_LANGUAGE", string(model.English)))
	if err != nil {
		return nil, fmt.Errorf("config: LEGALDOCS_LANGUAGE: %w", err)
	}

	cfg := &Config{
		Addr:           getEnv("LEGALDOCS_ADDR", ":8080"),
		DataDir:        getEnv("LEGALDOCS_DATA_DIR", "data/drafts"),
		Language:       lang,
		TamilFont:      getEnv("LEGALDOCS_TAMIL_FONT", ""),
		PDFFingerprint: getEnvBool("LEGALDOCS_PDF_FINGERPRINT", false),
		WatchDebounce:  getEnvDuration("LEGALDOCS_WATCH_DEBOUNCE", 300*time.Millisecond),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:      strings.ToLower(getEnv("LOG_FORMAT", "text")),
		GinMode:        getEnv("GIN_MODE", ""),
	}
	return cfg, nil
}

// Level maps LogLevel onto slog, defaulting to info.
func (c *Config) Level() slog.Level {
	switch c.LogLevel {
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

// NewLogger builds a text or JSON logger writing to w.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.Level()}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := strings.ToLower(getEnv(key, ""))
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return defaultValue
	}
	return d
}
