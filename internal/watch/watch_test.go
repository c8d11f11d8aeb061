package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRelevant(t *testing.T) {
	dir := t.TempDir()
	values := filepath.Join(dir, "values.json")
	out := filepath.Join(dir, "Lease.pdf")
	if err := os.WriteFile(values, []byte(`{}`), 0o600); err != nil {
		t.Fatal(err)
	}

	w, err := New([]string{values}, WithIgnore(func(p string) bool { return p == out }))
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Close()

	cases := map[string]bool{
		values:                             true,
		filepath.Join(dir, "other.json"):   false,
		filepath.Join(dir, "values.json~"): false,
		out:                                false,
	}
	for path, want := range cases {
		if got := w.Relevant(path); got != want {
			t.Errorf("Relevant(%s) = %v, want %v", filepath.Base(path), got, want)
		}
	}
}

func TestRelevantDirectory(t *testing.T) {
	dir := t.TempDir()
	w, err := New([]string{dir})
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Close()
	if !w.Relevant(filepath.Join(dir, "any.tpl")) {
		t.Fatal("files inside a watched directory should be relevant")
	}
	if w.Relevant(filepath.Join(dir, ".#any.tpl")) {
		t.Fatal("editor lock files should be ignored")
	}
}

func TestNewRequiresPaths(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("expected error without paths")
	}
	if _, err := New([]string{" "}); err == nil {
		t.Fatal("expected error for blank paths")
	}
}

func TestRunDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	values := filepath.Join(dir, "values.json")
	if err := os.WriteFile(values, []byte(`{}`), 0o600); err != nil {
		t.Fatal(err)
	}

	w, err := New([]string{values}, WithDebounce(100*time.Millisecond))
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runs := make(chan struct{}, 10)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(context.Context) error {
			runs <- struct{}{}
			return nil
		})
	}()

	if err := os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	select {
	case <-runs:
		t.Fatal("unrelated file should not trigger a run")
	case <-time.After(300 * time.Millisecond):
	}

	for i := 0; i < 3; i++ {
		if err := os.WriteFile(values, []byte(strings.Repeat("{}", i+1)), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	select {
	case <-runs:
	case <-time.After(3 * time.Second):
		t.Fatal("expected a run after writing the watched file")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop after cancel")
	}
}
