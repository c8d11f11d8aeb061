package catalog

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-legaldocs/pkg/model"
)

// Store holds the loaded catalogue. It is immutable after LoadFS returns and
// safe for concurrent readers.
type Store struct {
	types map[model.DocumentTypeKey]model.DocumentType
	order []model.DocumentTypeKey
}

// SectionGroup pairs a section with the fields it contains. Section is the
// zero value for types that declare no layout.
type SectionGroup struct {
	Section model.SectionDescriptor `json:"section"`
	Fields  []model.FieldDescriptor `json:"fields"`
}

func newStore() *Store {
	return &Store{types: make(map[model.DocumentTypeKey]model.DocumentType)}
}

func (s *Store) add(doc model.DocumentType) {
	s.types[doc.Key] = doc
	s.order = append(s.order, doc.Key)
}

func (s *Store) sort() {
	sort.SliceStable(s.order, func(i, j int) bool {
		a, b := s.types[s.order[i]], s.types[s.order[j]]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.Key < b.Key
	})
}

// Empty reports whether the store holds no document types.
func (s *Store) Empty() bool {
	return s == nil || len(s.types) == 0
}

// Keys returns the document type keys in catalogue order.
func (s *Store) Keys() []model.DocumentTypeKey {
	if s == nil {
		return nil
	}
	return append([]model.DocumentTypeKey(nil), s.order...)
}

// Types returns every document type in catalogue order.
func (s *Store) Types() []model.DocumentType {
	if s == nil {
		return nil
	}
	out := make([]model.DocumentType, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.types[key])
	}
	return out
}

// Type looks up a document type by key.
func (s *Store) Type(key model.DocumentTypeKey) (model.DocumentType, bool) {
	if s == nil {
		return model.DocumentType{}, false
	}
	doc, ok := s.types[key]
	return doc, ok
}

// MustType is Type for callers that already validated the key.
func (s *Store) MustType(key model.DocumentTypeKey) model.DocumentType {
	doc, ok := s.Type(key)
	if !ok {
		panic(fmt.Errorf("%w: %q", ErrUnknownDocumentType, key))
	}
	return doc
}

// Fields returns the ordered field descriptors of key, or nil when unknown.
func (s *Store) Fields(key model.DocumentTypeKey) []model.FieldDescriptor {
	doc, ok := s.Type(key)
	if !ok {
		return nil
	}
	return append([]model.FieldDescriptor(nil), doc.Fields...)
}

// Sections returns the ordered section layout of key.
func (s *Store) Sections(key model.DocumentTypeKey) []model.SectionDescriptor {
	doc, ok := s.Type(key)
	if !ok {
		return nil
	}
	return append([]model.SectionDescriptor(nil), doc.Sections...)
}

// FieldsBySection filters the fields of key down to one section.
func (s *Store) FieldsBySection(key model.DocumentTypeKey, section string) []model.FieldDescriptor {
	var out []model.FieldDescriptor
	for _, f := range s.Fields(key) {
		if f.Section == section {
			out = append(out, f)
		}
	}
	return out
}

// Grouped returns fields grouped by the section layout, skipping sections
// without fields. Types without a layout get a single unnamed group.
func (s *Store) Grouped(key model.DocumentTypeKey) []SectionGroup {
	doc, ok := s.Type(key)
	if !ok {
		return nil
	}
	if len(doc.Sections) == 0 {
		if len(doc.Fields) == 0 {
			return nil
		}
		return []SectionGroup{{Fields: append([]model.FieldDescriptor(nil), doc.Fields...)}}
	}

	groups := make([]SectionGroup, 0, len(doc.Sections))
	for _, section := range doc.Sections {
		fields := s.FieldsBySection(key, section.Key)
		if len(fields) == 0 {
			continue
		}
		groups = append(groups, SectionGroup{Section: section, Fields: fields})
	}
	return groups
}
