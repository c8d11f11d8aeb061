package generator

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/goliatone/go-legaldocs/pkg/catalog"
	"github.com/goliatone/go-legaldocs/pkg/model"
	"github.com/goliatone/go-legaldocs/pkg/templates"
)

const (
	phraseKey    = "phrase"
	monthYearKey = "monthYear"
)

// Option customises a Generator.
type Option func(*Generator)

// WithClock sets the clock used for the month/year caption.
func WithClock(clock Clock) Option {
	return func(g *Generator) {
		if clock != nil {
			g.clock = clock
		}
	}
}

// WithCatalog replaces the embedded catalogue.
func WithCatalog(store *catalog.Store) Option {
	return func(g *Generator) {
		if store != nil {
			g.catalog = store
		}
	}
}

// WithBank replaces the embedded template bank.
func WithBank(bank *templates.Bank) Option {
	return func(g *Generator) {
		if bank != nil {
			g.bank = bank
		}
	}
}

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// Generator turns a document type, form values and a language into text.
// It holds no per-call state and is safe for concurrent use.
type Generator struct {
	catalog *catalog.Store
	bank    *templates.Bank
	clock   Clock
	logger  *slog.Logger
}

// New builds a Generator, loading the embedded catalogue and bank unless
// replacements are supplied.
func New(options ...Option) (*Generator, error) {
	g := &Generator{
		clock:  SystemClock{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt != nil {
			opt(g)
		}
	}

	if g.catalog == nil {
		store, err := catalog.Default()
		if err != nil {
			return nil, fmt.Errorf("generator: load catalogue: %w", err)
		}
		g.catalog = store
	}
	if g.bank == nil {
		bank, err := templates.New()
		if err != nil {
			return nil, fmt.Errorf("generator: load templates: %w", err)
		}
		g.bank = bank
	}
	return g, nil
}

// Catalog returns the catalogue the generator resolves types against.
func (g *Generator) Catalog() *catalog.Store {
	return g.catalog
}

// Generate renders the document text. Unknown types, and types without a
// template for lang, yield "" and a nil error. Blank values never fail: the
// template placeholder is substituted instead.
func (g *Generator) Generate(key model.DocumentTypeKey, values model.FormValues, lang model.Language) (string, error) {
	doc, ok := g.catalog.Type(key)
	if !ok {
		g.logger.Debug("generate: unknown document type", "type", key)
		return "", nil
	}
	if !g.bank.Has(key, lang) {
		g.logger.Debug("generate: no template", "type", key, "lang", lang)
		return "", nil
	}

	out, err := g.bank.Render(key, lang, g.Context(doc, values, lang))
	if err != nil {
		if errors.Is(err, templates.ErrTemplateNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("generator: %w", err)
	}
	return normalizeText(out), nil
}

// Context builds the template data for doc: prepared values, resolved
// phrases, overrides and the month/year caption.
func (g *Generator) Context(doc model.DocumentType, values model.FormValues, lang model.Language) map[string]any {
	prepared := PrepareValues(values)
	for _, rule := range doc.Overrides {
		if v := rule.Value.Get(lang); v != "" {
			prepared[rule.Field] = v
		}
	}

	ctx := make(map[string]any, len(prepared)+2)
	for id, v := range prepared {
		ctx[id] = v
	}

	phrases := make(map[string]any, len(doc.Phrases))
	for _, table := range doc.Phrases {
		phrases[table.Name] = table.Resolve(prepared[table.Field], lang)
	}
	ctx[phraseKey] = phrases
	ctx[monthYearKey] = MonthYear(g.clock.Now(), lang)
	return ctx
}

// PrepareValues clones values, trims and NFC-normalises each one, and drops
// blanks so template defaults apply.
func PrepareValues(values model.FormValues) model.FormValues {
	out := make(model.FormValues, len(values))
	for id, raw := range values {
		id = strings.TrimSpace(id)
		v := norm.NFC.String(strings.TrimSpace(raw))
		if id == "" || v == "" {
			continue
		}
		out[id] = v
	}
	return out
}

func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n")
}
