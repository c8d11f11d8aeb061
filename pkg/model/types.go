package model

import "strings"

// DocumentTypeKey identifies one legal instrument in the catalogue, e.g. "sale-deed".
type DocumentTypeKey string

// Category groups document types in listings.
type Category string

const (
	CategoryProperty Category = "property"
	CategoryLegal    Category = "legal"
	CategoryBusiness Category = "business"
)

// FieldKind enumerates the input kinds a field descriptor can declare.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindTextarea FieldKind = "textarea"
	KindDate     FieldKind = "date"
	KindNumber   FieldKind = "number"
	KindRadio    FieldKind = "radio"
	KindSelect   FieldKind = "select"
)

// Valid reports whether k is a known field kind.
func (k FieldKind) Valid() bool {
	switch k {
	case KindText, KindTextarea, KindDate, KindNumber, KindRadio, KindSelect:
		return true
	}
	return false
}

// HasOptions reports whether the kind is choice based.
func (k FieldKind) HasOptions() bool {
	return k == KindRadio || k == KindSelect
}

// LocalizedText carries the English and Tamil variants of a string.
type LocalizedText struct {
	EN string `json:"en" yaml:"en"`
	TA string `json:"ta" yaml:"ta"`
}

// Get returns the variant for lang, falling back to English when the Tamil
// text is blank.
func (t LocalizedText) Get(lang Language) string {
	if lang == Tamil && strings.TrimSpace(t.TA) != "" {
		return t.TA
	}
	return t.EN
}

// IsZero reports whether both variants are blank.
func (t LocalizedText) IsZero() bool {
	return strings.TrimSpace(t.EN) == "" && strings.TrimSpace(t.TA) == ""
}

// FieldOption is one choice of a select or radio field.
type FieldOption struct {
	Value string        `json:"value" yaml:"value"`
	Label LocalizedText `json:"label" yaml:"label"`
}

// FieldDescriptor describes one form input.
type FieldDescriptor struct {
	ID          string        `json:"id" yaml:"id"`
	Label       LocalizedText `json:"label" yaml:"label"`
	Kind        FieldKind     `json:"kind" yaml:"kind"`
	Required    bool          `json:"required,omitempty" yaml:"required"`
	Section     string        `json:"section" yaml:"section"`
	Options     []FieldOption `json:"options,omitempty" yaml:"options"`
	Placeholder LocalizedText `json:"placeholder,omitempty" yaml:"placeholder"`
	MaxLength   int           `json:"maxLength,omitempty" yaml:"maxLength"`
	ReadOnly    bool          `json:"readOnly,omitempty" yaml:"readOnly"`
}

// Option returns the option with the given value.
func (f FieldDescriptor) Option(value string) (FieldOption, bool) {
	for _, opt := range f.Options {
		if opt.Value == value {
			return opt, true
		}
	}
	return FieldOption{}, false
}

// SectionDescriptor groups fields visually.
type SectionDescriptor struct {
	Key   string        `json:"key" yaml:"key"`
	Title LocalizedText `json:"title" yaml:"title"`
}

// PhraseTable maps a stored code to a display phrase. Blank applies when the
// field is unset (Fallback is used if Blank is zero); Fallback applies to
// codes missing from Choices.
type PhraseTable struct {
	Name     string                   `json:"name" yaml:"name"`
	Field    string                   `json:"field" yaml:"field"`
	Blank    LocalizedText            `json:"blank,omitempty" yaml:"blank"`
	Fallback LocalizedText            `json:"fallback" yaml:"fallback"`
	Choices  map[string]LocalizedText `json:"choices" yaml:"choices"`
}

// Resolve picks the phrase for value in lang.
func (p PhraseTable) Resolve(value string, lang Language) string {
	code := strings.TrimSpace(value)
	if code == "" {
		if !p.Blank.IsZero() {
			return p.Blank.Get(lang)
		}
		return p.Fallback.Get(lang)
	}
	if phrase, ok := p.Choices[code]; ok {
		return phrase.Get(lang)
	}
	return p.Fallback.Get(lang)
}

// OverrideRule forces a field to a fixed value regardless of stored input.
type OverrideRule struct {
	Name  string        `json:"name" yaml:"name"`
	Field string        `json:"field" yaml:"field"`
	Value LocalizedText `json:"value" yaml:"value"`
}

// DocumentType is a catalogue entry: identity, form layout and the template
// side tables used during generation.
type DocumentType struct {
	Key         DocumentTypeKey     `json:"key" yaml:"key"`
	Order       int                 `json:"order" yaml:"order"`
	Category    Category            `json:"category" yaml:"category"`
	Name        LocalizedText       `json:"name" yaml:"name"`
	Description LocalizedText       `json:"description" yaml:"description"`
	Sections    []SectionDescriptor `json:"sections,omitempty" yaml:"sections"`
	Fields      []FieldDescriptor   `json:"fields" yaml:"fields"`
	Phrases     []PhraseTable       `json:"phrases,omitempty" yaml:"phrases"`
	Overrides   []OverrideRule      `json:"overrides,omitempty" yaml:"overrides"`
}

// Field returns the descriptor with the given id.
func (d DocumentType) Field(id string) (FieldDescriptor, bool) {
	for _, f := range d.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return FieldDescriptor{}, false
}

// FileName returns "<localised name>.<ext>", or "document.<ext>" when the
// type has no name in either language.
func (d DocumentType) FileName(lang Language, ext string) string {
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	name := strings.TrimSpace(d.Name.Get(lang))
	if name == "" {
		name = "document"
	}
	if ext == "" {
		return name
	}
	return name + "." + ext
}
