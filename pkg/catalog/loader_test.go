package catalog

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-legaldocs/pkg/model"
)

func TestDefault_LoadsEmbeddedCatalogInOrder(t *testing.T) {
	store, err := Default()
	if err != nil {
		t.Fatalf("load default catalog: %v", err)
	}

	want := []model.DocumentTypeKey{
		"sale-deed",
		"gift-deed",
		"relinquishment-deed",
		"rental-agreement",
		"will-agreement",
		"power-of-attorney",
		"agreement-to-sell",
		"partition-deed",
		"nda",
	}
	if diff := cmp.Diff(want, store.Keys()); diff != "" {
		t.Fatalf("catalog order mismatch (-want +got):\n%s", diff)
	}

	nda, ok := store.Type("nda")
	if !ok {
		t.Fatalf("expected nda in catalog")
	}
	if nda.Category != model.CategoryBusiness {
		t.Fatalf("expected business category, got %q", nda.Category)
	}
	if got := nda.Name.Get(model.Tamil); got != "ரகசியத்தன்மை ஒப்பந்தம்" {
		t.Fatalf("unexpected tamil name %q", got)
	}
}

func TestStore_GroupedFollowsSectionLayout(t *testing.T) {
	store, err := Default()
	if err != nil {
		t.Fatalf("load default catalog: %v", err)
	}

	groups := store.Grouped("sale-deed")
	var got []string
	for _, g := range groups {
		got = append(got, g.Section.Key)
	}
	if diff := cmp.Diff([]string{"execution", "vendor", "purchaser", "property"}, got); diff != "" {
		t.Fatalf("section order mismatch (-want +got):\n%s", diff)
	}
	if n := len(groups[1].Fields); n != 3 {
		t.Fatalf("expected 3 vendor fields, got %d", n)
	}

	flat := store.Grouped("nda")
	if len(flat) != 1 || flat[0].Section.Key != "" || len(flat[0].Fields) != 5 {
		t.Fatalf("expected one unnamed group with 5 nda fields, got %+v", flat)
	}
}

func TestStore_RentalTermDurationIsReadOnlyWithOverride(t *testing.T) {
	store, err := Default()
	if err != nil {
		t.Fatalf("load default catalog: %v", err)
	}
	rental := store.MustType("rental-agreement")
	field, ok := rental.Field("termDuration")
	if !ok {
		t.Fatalf("termDuration missing")
	}
	if !field.ReadOnly || field.Required {
		t.Fatalf("termDuration should be read-only and optional: %+v", field)
	}
	if len(rental.Overrides) != 1 || rental.Overrides[0].Name != "fixed-term-duration" {
		t.Fatalf("expected fixed-term-duration override, got %+v", rental.Overrides)
	}
	landlord, _ := rental.Field("landlordName")
	if landlord.MaxLength != 25 {
		t.Fatalf("expected landlordName maxLength 25, got %d", landlord.MaxLength)
	}
}

func TestLoadFS_RejectsInvalidDocuments(t *testing.T) {
	cases := map[string]string{
		"empty key": `name: {en: X}`,
		"unknown kind": `
key: x
name: {en: X}
fields:
  - id: a
    kind: slider`,
		"select without options": `
key: x
name: {en: X}
fields:
  - id: a
    kind: select`,
		"unknown section": `
key: x
name: {en: X}
sections:
  - key: one
    title: {en: One}
fields:
  - id: a
    section: two`,
		"duplicate field": `
key: x
name: {en: X}
fields:
  - id: a
  - id: a`,
		"override unknown field": `
key: x
name: {en: X}
fields:
  - id: a
overrides:
  - name: fixed
    field: b
    value: {en: v}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			fsys := fstest.MapFS{"doc.yaml": {Data: []byte(body)}}
			_, err := LoadFS(fsys)
			if !errors.Is(err, ErrInvalidDocument) {
				t.Fatalf("expected ErrInvalidDocument, got %v", err)
			}
		})
	}
}

func TestLoadFS_AcceptsJSONAndRejectsDuplicateKeys(t *testing.T) {
	fsys := fstest.MapFS{
		"a.json": {Data: []byte(`{"key":"memo","order":2,"name":{"en":"Memo"},"fields":[{"id":"body","kind":"textarea"}]}`)},
		"b.yaml": {Data: []byte("key: note\norder: 1\nname: {en: Note}\n")},
		"c.txt":  {Data: []byte("ignored")},
	}
	store, err := LoadFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]model.DocumentTypeKey{"note", "memo"}, store.Keys()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	dup := fstest.MapFS{
		"a.yaml": {Data: []byte("key: memo\nname: {en: A}\n")},
		"b.yaml": {Data: []byte("key: memo\nname: {en: B}\n")},
	}
	if _, err := LoadFS(dup); !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("expected duplicate key error, got %v", err)
	}
}
