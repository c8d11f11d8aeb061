// Package tui fills a document type's form interactively in the terminal,
// writing every answer through a drafts.Session.
package tui

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-legaldocs/pkg/catalog"
	"github.com/goliatone/go-legaldocs/pkg/drafts"
	"github.com/goliatone/go-legaldocs/pkg/model"
)

// Theme captures optional message prefixes.
type Theme struct {
	SectionPrefix  string
	RequiredSuffix string
	ReadOnlyNote   string
}

// DefaultTheme marks sections with "==" and required fields with "*".
var DefaultTheme = Theme{
	SectionPrefix:  "== ",
	RequiredSuffix: " *",
	ReadOnlyNote:   "(read-only)",
}

// Option configures the Filler.
type Option func(*Filler)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(f *Filler) {
		if driver != nil {
			f.driver = driver
		}
	}
}

// WithCatalog replaces the embedded catalogue.
func WithCatalog(store *catalog.Store) Option {
	return func(f *Filler) {
		if store != nil {
			f.catalog = store
		}
	}
}

// WithLanguage selects the language of labels and options.
func WithLanguage(lang model.Language) Option {
	return func(f *Filler) {
		if lang.Valid() {
			f.lang = lang
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(f *Filler) {
		f.theme = theme
	}
}

// Filler walks the grouped fields of a document type and prompts for each.
type Filler struct {
	driver  PromptDriver
	catalog *catalog.Store
	lang    model.Language
	theme   Theme
}

// New returns a Filler using survey on stdout unless a driver is supplied.
func New(options ...Option) (*Filler, error) {
	f := &Filler{lang: model.English, theme: DefaultTheme}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	if f.catalog == nil {
		store, err := catalog.Default()
		if err != nil {
			return nil, fmt.Errorf("tui: load catalogue: %w", err)
		}
		f.catalog = store
	}
	if f.driver == nil {
		f.driver = NewSurveyDriver(os.Stdout)
	}
	return f, nil
}

// Fill selects key in session and prompts for every editable field, section
// by section. Existing draft values are offered as defaults. Answers are
// persisted as they are given, so an aborted fill keeps what was entered.
func (f *Filler) Fill(ctx context.Context, session *drafts.Session, key model.DocumentTypeKey) (model.FormValues, error) {
	doc, ok := f.catalog.Type(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", catalog.ErrUnknownDocumentType, key)
	}
	if err := session.Select(ctx, key); err != nil {
		return nil, err
	}
	current := session.Values()

	if err := f.driver.Info(ctx, doc.Name.Get(f.lang)); err != nil {
		return current, err
	}
	for _, group := range f.catalog.Grouped(key) {
		if !group.Section.Title.IsZero() {
			if err := f.driver.Info(ctx, f.theme.SectionPrefix+group.Section.Title.Get(f.lang)); err != nil {
				return session.Values(), err
			}
		}
		for _, field := range group.Fields {
			if field.ReadOnly {
				if err := f.driver.Info(ctx, f.readOnlyLine(field, current)); err != nil {
					return session.Values(), err
				}
				continue
			}
			value, err := f.ask(ctx, field, current.Get(field.ID))
			if err != nil {
				return session.Values(), err
			}
			if err := session.Set(ctx, field.ID, value); err != nil {
				return session.Values(), fmt.Errorf("tui: save %s: %w", field.ID, err)
			}
		}
	}
	return session.Values(), nil
}

func (f *Filler) message(field model.FieldDescriptor) string {
	msg := field.Label.Get(f.lang)
	if field.Required {
		msg += f.theme.RequiredSuffix
	}
	return msg
}

func (f *Filler) readOnlyLine(field model.FieldDescriptor, current model.FormValues) string {
	value := current.Get(field.ID)
	if value == "" {
		value = field.Placeholder.Get(f.lang)
	}
	return strings.TrimSpace(fmt.Sprintf("%s: %s %s", field.Label.Get(f.lang), value, f.theme.ReadOnlyNote))
}

func (f *Filler) ask(ctx context.Context, field model.FieldDescriptor, current string) (string, error) {
	help := field.Placeholder.Get(f.lang)
	switch field.Kind {
	case model.KindTextarea:
		return f.driver.TextArea(ctx, TextAreaConfig{
			Message:   f.message(field),
			Default:   current,
			Help:      help,
			Validator: MaxLength(field.MaxLength),
		})
	case model.KindSelect, model.KindRadio:
		return f.choose(ctx, field, current, help)
	case model.KindNumber:
		return f.driver.Input(ctx, InputConfig{
			Message:   f.message(field),
			Default:   current,
			Help:      help,
			Validator: chain(MaxLength(field.MaxLength), Number),
		})
	default:
		return f.driver.Input(ctx, InputConfig{
			Message:   f.message(field),
			Default:   current,
			Help:      help,
			Validator: MaxLength(field.MaxLength),
		})
	}
}

func (f *Filler) choose(ctx context.Context, field model.FieldDescriptor, current, help string) (string, error) {
	labels := make([]string, len(field.Options))
	selected := 0
	for i, opt := range field.Options {
		labels[i] = opt.Label.Get(f.lang)
		if opt.Value == current {
			selected = i
		}
	}
	idx, err := f.driver.Select(ctx, SelectConfig{
		Message:      f.message(field),
		Options:      labels,
		DefaultIndex: selected,
		Help:         help,
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(field.Options) {
		return "", fmt.Errorf("%w for %s", ErrInvalidChoice, field.ID)
	}
	return field.Options[idx].Value, nil
}

// MaxLength rejects answers longer than n runes. n <= 0 disables the check.
func MaxLength(n int) func(string) error {
	if n <= 0 {
		return nil
	}
	return func(s string) error {
		if count := utf8.RuneCountInString(strings.TrimSpace(s)); count > n {
			return fmt.Errorf("at most %d characters (got %d)", n, count)
		}
		return nil
	}
}

// Number accepts blank input or a number, allowing thousands separators.
func Number(s string) error {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return nil
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return fmt.Errorf("%q is not a number", s)
	}
	return nil
}

func chain(validators ...func(string) error) func(string) error {
	return func(s string) error {
		for _, v := range validators {
			if v == nil {
				continue
			}
			if err := v(s); err != nil {
				return err
			}
		}
		return nil
	}
}
