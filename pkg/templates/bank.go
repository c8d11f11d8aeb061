package templates

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/goliatone/go-legaldocs/pkg/model"
	"github.com/goliatone/go-legaldocs/pkg/render/template"
	"github.com/goliatone/go-legaldocs/pkg/render/template/gotemplate"
)

// ErrTemplateNotFound is returned when the bank has no template for a
// (type, language) pair.
var ErrTemplateNotFound = errors.New("templates: template not found")

// Option customises a Bank.
type Option func(*Bank)

// WithFS replaces the embedded template files. Files must be laid out as
// "<lang>/<type><ext>".
func WithFS(fsys fs.FS) Option {
	return func(b *Bank) {
		if fsys != nil {
			b.files = fsys
		}
	}
}

// WithEngine supplies a pre-built renderer. It must resolve the same paths
// as the bank's file system and should have autoescape disabled.
func WithEngine(engine template.TemplateRenderer) Option {
	return func(b *Bank) {
		if engine != nil {
			b.engine = engine
		}
	}
}

// WithExtension overrides the ".tpl" file extension.
func WithExtension(ext string) Option {
	return func(b *Bank) {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		b.ext = ext
	}
}

// Bank indexes the available templates and renders them.
type Bank struct {
	files  fs.FS
	engine template.TemplateRenderer
	ext    string
	index  map[model.Language]map[model.DocumentTypeKey]struct{}
}

// New scans the template files and prepares the render engine.
func New(options ...Option) (*Bank, error) {
	bank := &Bank{ext: ".tpl"}
	for _, opt := range options {
		if opt != nil {
			opt(bank)
		}
	}
	if bank.files == nil {
		bank.files = EmbeddedFS()
	}

	index, err := scan(bank.files, bank.ext)
	if err != nil {
		return nil, err
	}
	bank.index = index

	if bank.engine == nil {
		engine, err := gotemplate.New(
			gotemplate.WithName("legaldocs-bank"),
			gotemplate.WithFS(bank.files),
			gotemplate.WithExtension(bank.ext),
			gotemplate.WithAutoescape(false),
		)
		if err != nil {
			return nil, fmt.Errorf("templates: init engine: %w", err)
		}
		bank.engine = engine
	}
	return bank, nil
}

func scan(fsys fs.FS, ext string) (map[model.Language]map[model.DocumentTypeKey]struct{}, error) {
	index := make(map[model.Language]map[model.DocumentTypeKey]struct{})
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ext {
			return nil
		}
		dir, file := path.Split(p)
		lang, err := model.ParseLanguage(strings.Trim(dir, "/"))
		if err != nil {
			// Files outside a language directory are partials.
			return nil
		}
		key := model.DocumentTypeKey(strings.TrimSuffix(file, ext))
		if index[lang] == nil {
			index[lang] = make(map[model.DocumentTypeKey]struct{})
		}
		index[lang][key] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("templates: scan bank: %w", err)
	}
	return index, nil
}

// Has reports whether a template exists for key in lang.
func (b *Bank) Has(key model.DocumentTypeKey, lang model.Language) bool {
	if b == nil {
		return false
	}
	_, ok := b.index[lang][key]
	return ok
}

// Keys lists the document types with a template in lang, sorted.
func (b *Bank) Keys(lang model.Language) []model.DocumentTypeKey {
	if b == nil {
		return nil
	}
	out := make([]model.DocumentTypeKey, 0, len(b.index[lang]))
	for key := range b.index[lang] {
		out = append(out, key)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Render executes the template for key in lang against ctx.
func (b *Bank) Render(key model.DocumentTypeKey, lang model.Language, ctx map[string]any) (string, error) {
	if !b.Has(key, lang) {
		return "", fmt.Errorf("%w: %s/%s", ErrTemplateNotFound, lang, key)
	}
	name := path.Join(lang.String(), string(key)) + b.ext
	out, err := b.engine.RenderTemplate(name, ctx)
	if err != nil {
		return "", fmt.Errorf("templates: render %s/%s: %w", lang, key, err)
	}
	return out, nil
}
