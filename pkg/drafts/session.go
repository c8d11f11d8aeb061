package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/goliatone/go-legaldocs/pkg/model"
)

// KeyPrefix is prepended to the document type key to form the storage key.
const KeyPrefix = "docform-"

// ErrNoSelection is returned when a session is written without a selected
// document type.
var ErrNoSelection = errors.New("drafts: no document type selected")

// Key returns the storage key for a document type.
func Key(doc model.DocumentTypeKey) string {
	return KeyPrefix + string(doc)
}

// Load reads the draft for doc. Missing and unparsable drafts both yield
// empty values; the latter is logged. Only store failures are returned.
func Load(ctx context.Context, store Store, doc model.DocumentTypeKey, logger *slog.Logger) (model.FormValues, error) {
	if logger == nil {
		logger = discardLogger()
	}
	data, ok, err := store.Get(ctx, Key(doc))
	if err != nil {
		return model.FormValues{}, err
	}
	if !ok || len(strings.TrimSpace(string(data))) == 0 {
		return model.FormValues{}, nil
	}
	var values model.FormValues
	if err := json.Unmarshal(data, &values); err != nil {
		logger.Warn("discarding corrupt draft", "type", doc, "error", err)
		return model.FormValues{}, nil
	}
	if values == nil {
		values = model.FormValues{}
	}
	return values, nil
}

// Save writes values as the draft for doc.
func Save(ctx context.Context, store Store, doc model.DocumentTypeKey, values model.FormValues) error {
	if values == nil {
		values = model.FormValues{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("drafts: encode %s: %w", doc, err)
	}
	return store.Set(ctx, Key(doc), data)
}

// SessionOption customises a Session.
type SessionOption func(*Session)

// WithLogger sets the logger used for fail-soft warnings.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Session holds the selected document type and its values for one user.
// Every mutation is written through to the store.
type Session struct {
	mu       sync.Mutex
	store    Store
	logger   *slog.Logger
	selected model.DocumentTypeKey
	values   model.FormValues
}

// NewSession returns a session backed by store.
func NewSession(store Store, options ...SessionOption) *Session {
	s := &Session{store: store, logger: discardLogger(), values: model.FormValues{}}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Select switches to doc and loads its draft. On a store error the session
// still switches, with empty values.
func (s *Session) Select(ctx context.Context, doc model.DocumentTypeKey) error {
	values, err := Load(ctx, s.store, doc, s.logger)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = doc
	s.values = values
	if err != nil {
		return fmt.Errorf("drafts: select %s: %w", doc, err)
	}
	return nil
}

// Deselect forgets the in-memory selection. Stored drafts are kept.
func (s *Session) Deselect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = ""
	s.values = model.FormValues{}
}

// Selected returns the current document type, or "".
func (s *Session) Selected() model.DocumentTypeKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Values returns a copy of the current values.
func (s *Session) Values() model.FormValues {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values.Clone()
}

// Set updates one field and persists the draft.
func (s *Session) Set(ctx context.Context, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == "" {
		return ErrNoSelection
	}
	s.values[field] = value
	return Save(ctx, s.store, s.selected, s.values)
}

// Replace swaps in a whole value map and persists it.
func (s *Session) Replace(ctx context.Context, values model.FormValues) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == "" {
		return ErrNoSelection
	}
	s.values = values.Clone()
	return Save(ctx, s.store, s.selected, s.values)
}

// Clear empties the values and deletes the stored draft.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == "" {
		return ErrNoSelection
	}
	s.values = model.FormValues{}
	return s.store.Delete(ctx, Key(s.selected))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
