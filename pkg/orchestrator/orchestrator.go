package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goliatone/go-legaldocs/pkg/catalog"
	"github.com/goliatone/go-legaldocs/pkg/classify"
	"github.com/goliatone/go-legaldocs/pkg/generator"
	"github.com/goliatone/go-legaldocs/pkg/model"
	"github.com/goliatone/go-legaldocs/pkg/render"
	"github.com/goliatone/go-legaldocs/pkg/renderers/docx"
	"github.com/goliatone/go-legaldocs/pkg/renderers/pdf"
	"github.com/goliatone/go-legaldocs/pkg/renderers/preview"
	"github.com/goliatone/go-legaldocs/pkg/renderers/text"
	"github.com/goliatone/go-legaldocs/pkg/validation"
)

const (
	defaultPreviewRenderer = "preview"
	defaultExportRenderer  = "pdf"
)

var (
	// ErrUnknownDocumentType is returned for keys missing from the catalogue.
	ErrUnknownDocumentType = catalog.ErrUnknownDocumentType
	// ErrEmptyDocument is returned by Export when generation produced no
	// text.
	ErrEmptyDocument = errors.New("orchestrator: document is empty")
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithGenerator injects a content generator. Its catalogue is used for type
// lookups.
func WithGenerator(g *generator.Generator) Option {
	return func(o *Orchestrator) {
		o.generator = g
	}
}

// WithClock sets the clock of the default generator. Ignored when
// WithGenerator is used.
func WithClock(clock generator.Clock) Option {
	return func(o *Orchestrator) {
		o.clock = clock
	}
}

// WithClassifier replaces the default line classifier.
func WithClassifier(c *classify.Classifier) Option {
	return func(o *Orchestrator) {
		o.classifier = c
	}
}

// WithRegistry injects a renderer registry. The default registers preview,
// text, pdf and docx.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithPDFOptions configures the default PDF renderer.
func WithPDFOptions(options ...pdf.Option) Option {
	return func(o *Orchestrator) {
		o.pdfOptions = append(o.pdfOptions, options...)
	}
}

// WithDOCXOptions configures the default DOCX renderer.
func WithDOCXOptions(options ...docx.Option) Option {
	return func(o *Orchestrator) {
		o.docxOptions = append(o.docxOptions, options...)
	}
}

// WithPreviewRenderer overrides the renderer used by Preview.
func WithPreviewRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.previewRenderer = name
	}
}

// WithDefaultRenderer overrides the renderer used when an export request
// omits an explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithAdvisoryLimit caps the labels listed in the missing-fields advisory.
func WithAdvisoryLimit(limit int) Option {
	return func(o *Orchestrator) {
		o.advisoryLimit = limit
	}
}

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator coordinates generation, classification and rendering. It
// keeps no per-request state and is safe for concurrent use.
type Orchestrator struct {
	generator       *generator.Generator
	clock           generator.Clock
	classifier      *classify.Classifier
	registry        *render.Registry
	pdfOptions      []pdf.Option
	docxOptions     []docx.Option
	previewRenderer string
	defaultRenderer string
	advisoryLimit   int
	logger          *slog.Logger
}

// New constructs an Orchestrator. Missing dependencies are initialised with
// the built-in implementations.
func New(options ...Option) (*Orchestrator, error) {
	o := &Orchestrator{
		previewRenderer: defaultPreviewRenderer,
		defaultRenderer: defaultExportRenderer,
		advisoryLimit:   validation.DefaultLimit,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt != nil {
			opt(o)
		}
	}
	if err := o.applyDefaults(); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *Orchestrator) applyDefaults() error {
	if o.generator == nil {
		opts := []generator.Option{generator.WithLogger(o.logger)}
		if o.clock != nil {
			opts = append(opts, generator.WithClock(o.clock))
		}
		g, err := generator.New(opts...)
		if err != nil {
			return fmt.Errorf("orchestrator: default generator: %w", err)
		}
		o.generator = g
	}
	if o.classifier == nil {
		o.classifier = classify.Default()
	}
	if o.registry == nil {
		registry, err := DefaultRegistry(o.pdfOptions, o.docxOptions)
		if err != nil {
			return err
		}
		o.registry = registry
	}
	return nil
}

// DefaultRegistry registers the built-in renderers.
func DefaultRegistry(pdfOptions []pdf.Option, docxOptions []docx.Option) (*render.Registry, error) {
	registry := render.NewRegistry()

	previewRenderer, err := preview.New()
	if err != nil {
		return nil, fmt.Errorf("orchestrator: preview renderer: %w", err)
	}
	pdfRenderer, err := pdf.New(pdfOptions...)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: pdf renderer: %w", err)
	}

	for _, r := range []render.Renderer{previewRenderer, text.New(), pdfRenderer, docx.New(docxOptions...)} {
		if err := registry.Register(r); err != nil {
			return nil, fmt.Errorf("orchestrator: %w", err)
		}
	}
	return registry, nil
}

// Catalog exposes the document catalogue.
func (o *Orchestrator) Catalog() *catalog.Store {
	return o.generator.Catalog()
}

// Registry exposes the renderer registry.
func (o *Orchestrator) Registry() *render.Registry {
	return o.registry
}

// Request describes one preview or export.
type Request struct {
	Type     model.DocumentTypeKey
	Language model.Language
	Values   model.FormValues
	// Renderer names the export renderer. Preview ignores it.
	Renderer string
	// Options carries per-request renderer options. An empty Advisory is
	// filled from the required-field check.
	Options render.RenderOptions
}

// Preview is the live view of a document.
type Preview struct {
	Type     model.DocumentType `json:"-"`
	Language model.Language     `json:"language"`
	Text     string             `json:"text"`
	Lines    []classify.Line    `json:"lines"`
	HTML     string             `json:"html"`
	Advice   validation.Advice  `json:"advice"`
}

// Empty reports whether generation produced no text.
func (p Preview) Empty() bool {
	return strings.TrimSpace(p.Text) == ""
}

// Artifact is a rendered download.
type Artifact struct {
	Bytes       []byte
	ContentType string
	FileName    string
	Renderer    string
}

type prepared struct {
	doc    model.DocumentType
	lang   model.Language
	text   string
	values model.FormValues
	advice validation.Advice
}

func (o *Orchestrator) prepare(ctx context.Context, req Request) (prepared, error) {
	if ctx == nil {
		return prepared{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return prepared{}, err
	}

	lang := req.Language
	if lang == "" {
		lang = model.English
	}
	if !lang.Valid() {
		return prepared{}, fmt.Errorf("orchestrator: %w: %q", model.ErrUnknownLanguage, lang)
	}

	doc, ok := o.Catalog().Type(req.Type)
	if !ok {
		return prepared{}, fmt.Errorf("%w: %q", ErrUnknownDocumentType, req.Type)
	}

	values := req.Values.Clone()
	out, err := o.generator.Generate(doc.Key, values, lang)
	if err != nil {
		o.logger.Error("generate failed", "type", doc.Key, "lang", lang, "error", err)
		return prepared{}, fmt.Errorf("orchestrator: generate: %w", err)
	}

	return prepared{
		doc:    doc,
		lang:   lang,
		text:   out,
		values: values,
		advice: validation.Advisory(doc.Fields, values, lang, o.advisoryLimit),
	}, nil
}

func (o *Orchestrator) document(p prepared) render.Document {
	return render.NewDocument(p.doc, p.lang, p.text, p.values, o.classifier)
}

// Preview generates, classifies and renders the live preview. Missing
// required fields are reported in Advice and never block the preview.
func (o *Orchestrator) Preview(ctx context.Context, req Request) (Preview, error) {
	p, err := o.prepare(ctx, req)
	if err != nil {
		return Preview{}, err
	}
	doc := o.document(p)

	result := Preview{
		Type:     p.doc,
		Language: p.lang,
		Text:     p.text,
		Lines:    doc.Lines,
		Advice:   p.advice,
	}

	renderer, err := o.registry.Get(o.previewRenderer)
	if err != nil {
		return result, fmt.Errorf("orchestrator: preview renderer: %w", err)
	}
	opts := req.Options
	if opts.Advisory == "" {
		opts.Advisory = p.advice.Message
	}
	html, err := renderer.Render(ctx, doc, opts)
	if err != nil {
		o.logger.Error("preview render failed", "type", p.doc.Key, "renderer", renderer.Name(), "error", err)
		return result, fmt.Errorf("orchestrator: render preview: %w", err)
	}
	result.HTML = string(html)
	return result, nil
}

// Export renders a downloadable artifact. Failures are logged and returned;
// nothing is cached, so the caller may retry.
func (o *Orchestrator) Export(ctx context.Context, req Request) (Artifact, error) {
	p, err := o.prepare(ctx, req)
	if err != nil {
		return Artifact{}, err
	}
	if strings.TrimSpace(p.text) == "" {
		return Artifact{}, fmt.Errorf("%w: %q in %s", ErrEmptyDocument, p.doc.Key, p.lang)
	}

	name := req.Renderer
	if name == "" {
		name = o.defaultRenderer
	}
	renderer, err := o.registry.Get(name)
	if err != nil {
		if byExt, ok := o.registry.ByExtension(name); ok {
			renderer = byExt
		} else {
			return Artifact{}, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	doc := o.document(p)
	out, err := renderer.Render(ctx, doc, req.Options)
	if err != nil {
		o.logger.Error("export failed",
			"type", p.doc.Key,
			"lang", p.lang,
			"renderer", renderer.Name(),
			"error", err,
		)
		return Artifact{}, fmt.Errorf("orchestrator: render %s: %w", renderer.Name(), err)
	}

	o.logger.Info("document exported",
		"type", p.doc.Key,
		"lang", p.lang,
		"renderer", renderer.Name(),
		"bytes", len(out),
	)
	return Artifact{
		Bytes:       out,
		ContentType: renderer.ContentType(),
		FileName:    doc.FileName(renderer.FileExtension()),
		Renderer:    renderer.Name(),
	}, nil
}

// Advise runs the required-field check without generating text.
func (o *Orchestrator) Advise(key model.DocumentTypeKey, values model.FormValues, lang model.Language) (validation.Advice, error) {
	doc, ok := o.Catalog().Type(key)
	if !ok {
		return validation.Advice{}, fmt.Errorf("%w: %q", ErrUnknownDocumentType, key)
	}
	return validation.Advisory(doc.Fields, values, lang, o.advisoryLimit), nil
}
