package drafts_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-legaldocs/pkg/drafts"
	"github.com/goliatone/go-legaldocs/pkg/model"
)

func newFileStore(t *testing.T) *drafts.FileStore {
	t.Helper()
	store, err := drafts.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	return store
}

func stores(t *testing.T) map[string]drafts.Store {
	return map[string]drafts.Store{
		"memory": drafts.NewMemoryStore(),
		"file":   newFileStore(t),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := store.Get(ctx, "docform-nda"); err != nil || ok {
				t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
			}
			if err := store.Set(ctx, "docform-nda", []byte(`{"a":"1"}`)); err != nil {
				t.Fatalf("set: %v", err)
			}
			if err := store.Set(ctx, "docform-nda", []byte(`{"a":"2"}`)); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			data, ok, err := store.Get(ctx, "docform-nda")
			if err != nil || !ok || string(data) != `{"a":"2"}` {
				t.Fatalf("get = %q ok=%v err=%v", data, ok, err)
			}
			if err := store.Delete(ctx, "docform-nda"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if err := store.Delete(ctx, "docform-nda"); err != nil {
				t.Fatalf("deleting a missing key should succeed: %v", err)
			}
			if _, ok, _ := store.Get(ctx, "docform-nda"); ok {
				t.Fatal("expected miss after delete")
			}
		})
	}
}

func TestFileStoreRejectsTraversal(t *testing.T) {
	store := newFileStore(t)
	for _, key := range []string{"", "../escape", "a/b", `a\b`, ".."} {
		if err := store.Set(context.Background(), key, []byte("x")); !errors.Is(err, drafts.ErrInvalidKey) {
			t.Errorf("key %q: expected ErrInvalidKey, got %v", key, err)
		}
	}
	entries, err := os.ReadDir(filepath.Dir(store.Root()))
	if err != nil {
		t.Fatalf("read parent: %v", err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), "escape") {
			t.Fatalf("file escaped the store root: %s", e.Name())
		}
	}
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	store := newFileStore(t)
	if err := store.Set(context.Background(), "docform-will-agreement", []byte("{}")); err != nil {
		t.Fatalf("set: %v", err)
	}
	entries, err := os.ReadDir(store.Root())
	if err != nil {
		t.Fatalf("read root: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if diff := cmp.Diff([]string{"docform-will-agreement.json"}, names); diff != "" {
		t.Fatalf("unexpected files (-want +got):\n%s", diff)
	}
}

func TestSessionCacheIsolation(t *testing.T) {
	ctx := context.Background()
	store := drafts.NewMemoryStore()
	s := drafts.NewSession(store)

	if err := s.Select(ctx, "sale-deed"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := s.Set(ctx, "sellerName", "Ravi"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(ctx, "buyerName", "Meena"); err != nil {
		t.Fatalf("set: %v", err)
	}
	saleValues := s.Values()

	if err := s.Select(ctx, "nda"); err != nil {
		t.Fatalf("select nda: %v", err)
	}
	if got := s.Values(); len(got) != 0 {
		t.Fatalf("nda should start empty, got %v", got)
	}
	if err := s.Set(ctx, "partyOneName", "Acme"); err != nil {
		t.Fatalf("set: %v", err)
	}

	if err := s.Select(ctx, "sale-deed"); err != nil {
		t.Fatalf("reselect: %v", err)
	}
	if diff := cmp.Diff(saleValues, s.Values()); diff != "" {
		t.Fatalf("sale-deed draft changed (-want +got):\n%s", diff)
	}

	data, ok, err := store.Get(ctx, "docform-nda")
	if err != nil || !ok || !strings.Contains(string(data), "Acme") {
		t.Fatalf("nda draft not persisted: %q ok=%v err=%v", data, ok, err)
	}
}

func TestSessionValuesAreCopies(t *testing.T) {
	ctx := context.Background()
	s := drafts.NewSession(drafts.NewMemoryStore())
	if err := s.Select(ctx, "nda"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := s.Set(ctx, "purpose", "talks"); err != nil {
		t.Fatalf("set: %v", err)
	}
	got := s.Values()
	got["purpose"] = "changed"
	if s.Values()["purpose"] != "talks" {
		t.Fatal("Values must return a copy")
	}
}

func TestSessionCorruptDraftFailsSoft(t *testing.T) {
	ctx := context.Background()
	store := drafts.NewMemoryStore()
	if err := store.Set(ctx, drafts.Key("nda"), []byte("{not json")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var logs bytes.Buffer
	s := drafts.NewSession(store, drafts.WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	if err := s.Select(ctx, "nda"); err != nil {
		t.Fatalf("corrupt draft should not fail: %v", err)
	}
	if got := s.Values(); len(got) != 0 {
		t.Fatalf("expected empty values, got %v", got)
	}
	if !strings.Contains(logs.String(), "discarding corrupt draft") {
		t.Fatalf("expected a warning, got %q", logs.String())
	}
}

func TestSessionRequiresSelection(t *testing.T) {
	ctx := context.Background()
	s := drafts.NewSession(drafts.NewMemoryStore())
	if err := s.Set(ctx, "a", "b"); !errors.Is(err, drafts.ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
	if err := s.Select(ctx, "nda"); err != nil {
		t.Fatalf("select: %v", err)
	}
	s.Deselect()
	if s.Selected() != "" {
		t.Fatal("deselect should clear the selection")
	}
	if err := s.Clear(ctx); !errors.Is(err, drafts.ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
}

func TestSessionReplaceAndClear(t *testing.T) {
	ctx := context.Background()
	store := newFileStore(t)
	s := drafts.NewSession(store)
	if err := s.Select(ctx, "gift-deed"); err != nil {
		t.Fatalf("select: %v", err)
	}
	values := model.FormValues{"donorName": "Lakshmi", "doneeName": "Arun"}
	if err := s.Replace(ctx, values); err != nil {
		t.Fatalf("replace: %v", err)
	}
	values["donorName"] = "mutated"

	loaded, err := drafts.Load(ctx, store, "gift-deed", nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(model.FormValues{"donorName": "Lakshmi", "doneeName": "Arun"}, loaded); diff != "" {
		t.Fatalf("stored draft mismatch (-want +got):\n%s", diff)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok, _ := store.Get(ctx, drafts.Key("gift-deed")); ok {
		t.Fatal("clear should delete the stored draft")
	}
	if len(s.Values()) != 0 {
		t.Fatal("clear should empty the session values")
	}
}
