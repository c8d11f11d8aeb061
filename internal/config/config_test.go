package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-legaldocs/pkg/model"
)

var envKeys = []string{
	"LEGALDOCS_ADDR", "LEGALDOCS_DATA_DIR", "LEGALDOCS_LANGUAGE", "LEGALDOCS_TAMIL_FONT",
	"LEGALDOCS_PDF_FINGERPRINT", "LEGALDOCS_WATCH_DEBOUNCE", "LOG_LEVEL", "LOG_FORMAT", "GIN_MODE",
}

// clearEnv blanks every variable for the test. t.Setenv restores them.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	empty := filepath.Join(t.TempDir(), "empty.env")
	if err := os.WriteFile(empty, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(empty)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := &Config{
		Addr:          ":8080",
		DataDir:       "data/drafts",
		Language:      model.English,
		WatchDebounce: 300 * time.Millisecond,
		LogLevel:      "info",
		LogFormat:     "text",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadEnvFileAndOverrides(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), "test.env")
	contents := "LEGALDOCS_ADDR=:9090\nLEGALDOCS_LANGUAGE=ta\nLEGALDOCS_PDF_FINGERPRINT=yes\nLEGALDOCS_WATCH_DEBOUNCE=1s\nLOG_LEVEL=DEBUG\n"
	if err := os.WriteFile(envFile, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LEGALDOCS_ADDR", ":7070")

	cfg, err := Load(envFile)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7070" {
		t.Fatalf("process env should win over .env, got %q", cfg.Addr)
	}
	if cfg.Language != model.Tamil || !cfg.PDFFingerprint || cfg.WatchDebounce != time.Second {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Fatalf("level = %v, want debug", cfg.Level())
	}
}

func TestLoadRejectsUnknownLanguage(t *testing.T) {
	clearEnv(t)
	t.Setenv("LEGALDOCS_LANGUAGE", "fr")
	empty := filepath.Join(t.TempDir(), "empty.env")
	if err := os.WriteFile(empty, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(empty); err == nil {
		t.Fatal("expected error for unsupported language")
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("LEGALDOCS_TEST_DURATION", "bogus")
	if got := getEnvDuration("LEGALDOCS_TEST_DURATION", time.Minute); got != time.Minute {
		t.Fatalf("invalid duration should fall back, got %v", got)
	}
	t.Setenv("LEGALDOCS_TEST_BOOL", "0")
	if getEnvBool("LEGALDOCS_TEST_BOOL", true) {
		t.Fatal("explicit 0 should be false")
	}
}
