// Package watch re-runs a build step when input files change, coalescing
// bursts of filesystem events with a debounce.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when no positive debounce is configured.
const DefaultDebounce = 300 * time.Millisecond

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before the callback runs.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger for change and error events.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithIgnore adds a predicate for paths that never trigger a run, such as
// the export output.
func WithIgnore(ignore func(path string) bool) Option {
	return func(w *Watcher) {
		if ignore != nil {
			w.ignores = append(w.ignores, ignore)
		}
	}
}

// Watcher observes a set of files, or every file in a set of directories.
type Watcher struct {
	fs       *fsnotify.Watcher
	files    map[string]bool
	dirs     map[string]bool
	debounce time.Duration
	logger   *slog.Logger
	ignores  []func(string) bool
}

// New starts watching paths. Files are watched through their parent
// directory so editors that save by rename are still seen.
func New(paths []string, options ...Option) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, errors.New("watch: no paths to watch")
	}
	w := &Watcher{
		files:    map[string]bool{},
		dirs:     map[string]bool{},
		debounce: DefaultDebounce,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt != nil {
			opt(w)
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}
	w.fs = fsw

	added := map[string]bool{}
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch: resolve %s: %w", p, err)
		}
		dir := filepath.Dir(abs)
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			dir = abs
			w.dirs[abs] = true
		} else {
			w.files[abs] = true
		}
		if added[dir] {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch: add %s: %w", dir, err)
		}
		added[dir] = true
	}
	if len(added) == 0 {
		fsw.Close()
		return nil, errors.New("watch: no paths to watch")
	}
	return w, nil
}

// Close stops the underlying watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// Relevant reports whether an event on name should schedule a run.
func (w *Watcher) Relevant(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	for _, ignore := range w.ignores {
		if ignore(abs) {
			return false
		}
	}
	if isScratch(abs) {
		return false
	}
	return w.files[abs] || w.dirs[filepath.Dir(abs)]
}

// Run calls fn after every burst of relevant changes until ctx is done.
// Errors from fn are logged and watching continues. Runs never overlap.
func (w *Watcher) Run(ctx context.Context, fn func(context.Context) error) error {
	defer w.fs.Close()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !w.Relevant(ev.Name) {
				continue
			}
			w.logger.Debug("change detected", "path", ev.Name, "op", ev.Op.String())
			if pending && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)
			pending = true

		case <-timer.C:
			pending = false
			if err := fn(ctx); err != nil {
				w.logger.Error("rebuild failed", "error", err)
				continue
			}
			w.logger.Info("rebuilt")

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

func isScratch(path string) bool {
	low := strings.ToLower(filepath.Base(path))
	for _, suffix := range []string{"~", ".tmp", ".swp", ".lock"} {
		if strings.HasSuffix(low, suffix) {
			return true
		}
	}
	return strings.HasPrefix(low, ".#")
}
