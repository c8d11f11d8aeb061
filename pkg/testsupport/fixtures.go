// Package testsupport holds helpers shared by package tests: a fixed clock
// instant, golden JSON files and writer capture.
package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// UpdateEnv rewrites golden files instead of comparing when set.
const UpdateEnv = "UPDATE_GOLDENS"

// FixedTime is the instant used by fixed test clocks (October 2026).
var FixedTime = time.Date(2026, time.October, 19, 9, 30, 0, 0, time.UTC)

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// AssertGoldenJSON compares value, marshalled as indented JSON, with the
// golden file at path. Surrounding whitespace is ignored. With UPDATE_GOLDENS
// set the file is rewritten and the comparison skipped.
func AssertGoldenJSON(t *testing.T, path string, value any) {
	t.Helper()

	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal value: %v", err)
	}
	if os.Getenv(UpdateEnv) != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir golden dir: %v", err)
		}
		if err := os.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
			t.Fatalf("write golden: %v", err)
		}
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	if diff := cmp.Diff(strings.TrimSpace(string(want)), strings.TrimSpace(string(payload))); diff != "" {
		t.Fatalf("golden mismatch for %s (-want +got):\n%s", path, diff)
	}
}

// CaptureTemplateOutput runs render against a buffer and returns both the
// returned string and what was written.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
