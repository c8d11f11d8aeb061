package templates

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-legaldocs/pkg/catalog"
	"github.com/goliatone/go-legaldocs/pkg/model"
)

func TestEmbeddedBankCoversCatalogue(t *testing.T) {
	bank, err := New()
	if err != nil {
		t.Fatalf("new bank: %v", err)
	}
	store, err := catalog.Default()
	if err != nil {
		t.Fatalf("default catalogue: %v", err)
	}

	for _, lang := range model.Languages() {
		for _, key := range store.Keys() {
			if !bank.Has(key, lang) {
				t.Errorf("missing template for %s/%s", lang, key)
			}
		}
		if got, want := len(bank.Keys(lang)), len(store.Keys()); got != want {
			t.Errorf("%s: expected %d templates, got %d", lang, want, got)
		}
	}
}

func TestBankRenderUsesDefaultsAndKeepsPunctuation(t *testing.T) {
	bank, err := New()
	if err != nil {
		t.Fatalf("new bank: %v", err)
	}

	out, err := bank.Render("nda", model.English, map[string]any{
		"purpose": "R&D \"Phase 1\"",
		"phrase":  map[string]any{},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(out, "NON-DISCLOSURE AGREEMENT (Mutual)\n") {
		t.Fatalf("unexpected title: %q", strings.SplitN(out, "\n", 2)[0])
	}
	if !strings.Contains(out, `information for R&D "Phase 1" ("Purpose").`) {
		t.Fatalf("purpose not rendered verbatim:\n%s", out)
	}
	if !strings.Contains(out, "[First Party]") {
		t.Fatalf("expected placeholder for blank party:\n%s", out)
	}
}

func TestBankCustomFS(t *testing.T) {
	files := fstest.MapFS{
		"en/memo.txt":  {Data: []byte(`MEMO {{ subject|default:"____" }}`)},
		"ta/memo.txt":  {Data: []byte(`குறிப்பு {{ subject|default:"____" }}`)},
		"partials.txt": {Data: []byte(`ignored`)},
	}
	bank, err := New(WithFS(files), WithExtension("txt"))
	if err != nil {
		t.Fatalf("new bank: %v", err)
	}

	if diff := cmp.Diff([]model.DocumentTypeKey{"memo"}, bank.Keys(model.Tamil)); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	out, err := bank.Render("memo", model.Tamil, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "குறிப்பு ____" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestBankRenderUnknownTemplate(t *testing.T) {
	bank, err := New()
	if err != nil {
		t.Fatalf("new bank: %v", err)
	}
	_, err = bank.Render("lease-deed", model.English, nil)
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}
