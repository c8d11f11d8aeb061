package preview

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-legaldocs/pkg/model"
	"github.com/goliatone/go-legaldocs/pkg/render"
	rendertemplate "github.com/goliatone/go-legaldocs/pkg/render/template"
	"github.com/goliatone/go-legaldocs/pkg/render/template/gotemplate"
)

const (
	fragmentTemplate = "templates/fragment.tmpl"
	pageTemplate     = "templates/page.tmpl"
)

// Option customises the renderer configuration.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	policy           render.Policy
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. It must
// contain templates/fragment.tmpl and templates/page.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templateFS = files
		}
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithPolicy overrides the value emphasis policy (render.PreviewPolicy).
func WithPolicy(policy render.Policy) Option {
	return func(cfg *config) {
		cfg.policy = policy
	}
}

// Renderer turns a classified document into a sanitised HTML fragment, or a
// full page when RenderOptions.FullPage is set.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	policy    render.Policy
}

// New constructs a preview renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS: TemplatesFS(),
		policy:     render.PreviewPolicy,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	templateRenderer := cfg.templateRenderer
	if templateRenderer == nil {
		for _, name := range []string{fragmentTemplate, pageTemplate} {
			if err := ensureTemplate(cfg.templateFS, name); err != nil {
				return nil, err
			}
		}
		engine, err := gotemplate.New(
			gotemplate.WithName("legaldocs-preview"),
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("preview renderer: configure template renderer: %w", err)
		}
		templateRenderer = engine
	}

	return &Renderer{templates: templateRenderer, policy: cfg.policy}, nil
}

// Name identifies the renderer inside the registry.
func (r *Renderer) Name() string {
	return "preview"
}

// ContentType returns the MIME type for generated documents.
func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// FileExtension is used for download names.
func (r *Renderer) FileExtension() string {
	return "html"
}

// Render produces the preview markup.
func (r *Renderer) Render(_ context.Context, doc render.Document, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("preview renderer: template renderer is nil")
	}

	data := r.templateData(doc, opts)
	raw, err := r.templates.RenderTemplate(fragmentTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("preview renderer: render fragment: %w", err)
	}
	fragment := Sanitize(raw)
	if !opts.FullPage {
		return []byte(fragment), nil
	}

	data["fragment"] = fragment
	data["title"] = opts.Translate(doc.Language, "page.title", doc.Type.Name.Get(doc.Language), doc.Type.Name.Get(doc.Language))
	data["fontFamily"] = fontFamily(doc.Language)
	page, err := r.templates.RenderTemplate(pageTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("preview renderer: render page: %w", err)
	}
	return []byte(page), nil
}

func (r *Renderer) templateData(doc render.Document, opts render.RenderOptions) map[string]any {
	blocks := render.Blocks(doc, r.policy)
	items := make([]any, 0, len(blocks))
	for _, block := range blocks {
		spans := make([]any, 0, len(block.Spans))
		for _, span := range block.Spans {
			spans = append(spans, map[string]any{"text": span.Text, "strong": span.Emphasis})
		}
		items = append(items, map[string]any{
			"kind":     string(block.Line.Kind),
			"centered": block.Centered,
			"blank":    block.Blank(),
			"spans":    spans,
		})
	}

	funcs := render.TemplateI18nFuncs(opts.Translator, render.TemplateI18nConfig{OnMissing: opts.OnMissing})
	return map[string]any{
		"type":      string(doc.Type.Key),
		"lang":      doc.Language.String(),
		"locale":    doc.Language.Locale(),
		"advisory":  strings.TrimSpace(opts.Advisory),
		"empty":     doc.Empty(),
		"blocks":    items,
		"translate": funcs["translate"],
	}
}

func fontFamily(lang model.Language) string {
	if lang == model.Tamil {
		return `"Nirmala UI", "Latha", "Noto Sans Tamil", sans-serif`
	}
	return `Georgia, "Times New Roman", serif`
}

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// Sanitize strips everything but the preview markup vocabulary.
func Sanitize(raw string) string {
	return strings.TrimSpace(sanitizer().Sanitize(raw))
}

func sanitizer() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.StrictPolicy()
		p.AllowElements("article", "p", "strong", "span")
		p.AllowAttrs("class", "lang", "dir").OnElements("article", "p", "strong", "span")
		policy = p
	})
	return policy
}

func ensureTemplate(store fs.FS, name string) error {
	if store == nil {
		return fmt.Errorf("preview renderer: template file system is nil")
	}
	if _, err := fs.Stat(store, name); err != nil {
		return fmt.Errorf("preview renderer: template %q not found: %w", name, err)
	}
	return nil
}
