package catalog

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-legaldocs/pkg/model"
)

// LoadFS walks fsys and parses every JSON/YAML catalogue file. A nil fsys
// yields an empty store.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := newStore()
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isCatalogFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("catalog: read %s: %w", path, err)
		}

		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}
		doc = normaliseDocument(doc)
		if err := validateDocument(doc, path); err != nil {
			return err
		}
		if _, exists := store.types[doc.Key]; exists {
			return fmt.Errorf("%w: duplicate key %q (file %s)", ErrInvalidDocument, doc.Key, path)
		}
		store.add(doc)
		return nil
	})
	if err != nil {
		return nil, err
	}

	store.sort()
	return store, nil
}

func parseDocument(data []byte, source string) (model.DocumentType, error) {
	var doc model.DocumentType
	if len(strings.TrimSpace(string(data))) == 0 {
		return doc, fmt.Errorf("%w: file %s is empty", ErrInvalidDocument, source)
	}

	if strings.EqualFold(filepath.Ext(source), ".json") {
		if err := json.Unmarshal(data, &doc); err != nil {
			return doc, fmt.Errorf("catalog: parse %s: %w", source, err)
		}
		return doc, nil
	}

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("catalog: parse %s: %w", source, err)
	}
	return doc, nil
}

func normaliseDocument(doc model.DocumentType) model.DocumentType {
	doc.Key = model.DocumentTypeKey(strings.TrimSpace(string(doc.Key)))
	doc.Category = model.Category(strings.ToLower(strings.TrimSpace(string(doc.Category))))
	for i := range doc.Sections {
		doc.Sections[i].Key = strings.TrimSpace(doc.Sections[i].Key)
	}
	for i := range doc.Fields {
		f := &doc.Fields[i]
		f.ID = strings.TrimSpace(f.ID)
		f.Section = strings.TrimSpace(f.Section)
		f.Kind = model.FieldKind(strings.ToLower(strings.TrimSpace(string(f.Kind))))
		if f.Kind == "" {
			f.Kind = model.KindText
		}
	}
	return doc
}

func validateDocument(doc model.DocumentType, source string) error {
	if doc.Key == "" {
		return fmt.Errorf("%w: file %s defines an empty key", ErrInvalidDocument, source)
	}
	if doc.Name.IsZero() {
		return fmt.Errorf("%w: %s has no name (file %s)", ErrInvalidDocument, doc.Key, source)
	}

	sections := make(map[string]struct{}, len(doc.Sections))
	for _, section := range doc.Sections {
		if section.Key == "" {
			return fmt.Errorf("%w: %s declares a section without key", ErrInvalidDocument, doc.Key)
		}
		if _, dup := sections[section.Key]; dup {
			return fmt.Errorf("%w: %s declares section %q twice", ErrInvalidDocument, doc.Key, section.Key)
		}
		sections[section.Key] = struct{}{}
	}

	fields := make(map[string]struct{}, len(doc.Fields))
	for _, field := range doc.Fields {
		if field.ID == "" {
			return fmt.Errorf("%w: %s declares a field without id", ErrInvalidDocument, doc.Key)
		}
		if _, dup := fields[field.ID]; dup {
			return fmt.Errorf("%w: %s declares field %q twice", ErrInvalidDocument, doc.Key, field.ID)
		}
		fields[field.ID] = struct{}{}

		if !field.Kind.Valid() {
			return fmt.Errorf("%w: %s.%s has unknown kind %q", ErrInvalidDocument, doc.Key, field.ID, field.Kind)
		}
		if field.Kind.HasOptions() && len(field.Options) == 0 {
			return fmt.Errorf("%w: %s.%s is a %s field without options", ErrInvalidDocument, doc.Key, field.ID, field.Kind)
		}
		if field.MaxLength < 0 {
			return fmt.Errorf("%w: %s.%s has negative maxLength", ErrInvalidDocument, doc.Key, field.ID)
		}
		if len(sections) > 0 {
			if _, ok := sections[field.Section]; !ok {
				return fmt.Errorf("%w: %s.%s references unknown section %q", ErrInvalidDocument, doc.Key, field.ID, field.Section)
			}
		}
	}

	phrases := make(map[string]struct{}, len(doc.Phrases))
	for _, phrase := range doc.Phrases {
		name := strings.TrimSpace(phrase.Name)
		if name == "" {
			return fmt.Errorf("%w: %s declares a phrase table without name", ErrInvalidDocument, doc.Key)
		}
		if _, dup := phrases[name]; dup {
			return fmt.Errorf("%w: %s declares phrase table %q twice", ErrInvalidDocument, doc.Key, name)
		}
		phrases[name] = struct{}{}
		if phrase.Fallback.IsZero() {
			return fmt.Errorf("%w: %s phrase table %q has no fallback", ErrInvalidDocument, doc.Key, name)
		}
	}

	for _, rule := range doc.Overrides {
		if strings.TrimSpace(rule.Name) == "" {
			return fmt.Errorf("%w: %s declares an override without name", ErrInvalidDocument, doc.Key)
		}
		if _, ok := fields[strings.TrimSpace(rule.Field)]; !ok {
			return fmt.Errorf("%w: %s override %q targets unknown field %q", ErrInvalidDocument, doc.Key, rule.Name, rule.Field)
		}
	}
	return nil
}

func isCatalogFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}
