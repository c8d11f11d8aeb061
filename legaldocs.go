// Package legaldocs is the top-level entry point for generating bilingual
// legal documents. It re-exports the orchestrator so callers can preview and
// export without importing the individual packages.
package legaldocs

import (
	"context"

	"github.com/goliatone/go-legaldocs/pkg/catalog"
	"github.com/goliatone/go-legaldocs/pkg/generator"
	"github.com/goliatone/go-legaldocs/pkg/model"
	"github.com/goliatone/go-legaldocs/pkg/orchestrator"
	"github.com/goliatone/go-legaldocs/pkg/render"
	"github.com/goliatone/go-legaldocs/pkg/renderers/pdf"
	"github.com/goliatone/go-legaldocs/pkg/templates"
)

// Language selects English or Tamil output.
type Language = model.Language

// Supported languages.
const (
	English = model.English
	Tamil   = model.Tamil
)

// FormValues maps field ids to user input.
type FormValues = model.FormValues

// Request describes one preview or export.
type Request = orchestrator.Request

// Preview is the generated text, its classified lines and the preview HTML.
type Preview = orchestrator.Preview

// Artifact is a rendered download.
type Artifact = orchestrator.Artifact

// RenderOptions carries per-request renderer overrides.
type RenderOptions = render.RenderOptions

// Sentinel errors surfaced by Preview and Export.
var (
	ErrUnknownDocumentType = orchestrator.ErrUnknownDocumentType
	ErrEmptyDocument       = orchestrator.ErrEmptyDocument
	ErrFontUnavailable     = pdf.ErrFontUnavailable
)

// NewOrchestrator builds an orchestrator over the embedded catalogue and
// template bank unless options replace them.
func NewOrchestrator(options ...orchestrator.Option) (*orchestrator.Orchestrator, error) {
	return orchestrator.New(options...)
}

// GeneratePreview is the simplest way to get the live preview of a document.
func GeneratePreview(ctx context.Context, key model.DocumentTypeKey, lang Language, values FormValues, options ...orchestrator.Option) (Preview, error) {
	o, err := orchestrator.New(options...)
	if err != nil {
		return Preview{}, err
	}
	return o.Preview(ctx, Request{Type: key, Language: lang, Values: values})
}

// Export renders key with the named renderer ("pdf", "docx", "preview",
// "text", or a file extension such as "html").
func Export(ctx context.Context, key model.DocumentTypeKey, lang Language, values FormValues, rendererName string, options ...orchestrator.Option) (Artifact, error) {
	o, err := orchestrator.New(options...)
	if err != nil {
		return Artifact{}, err
	}
	return o.Export(ctx, Request{Type: key, Language: lang, Values: values, Renderer: rendererName})
}

// WithTamilFont registers the TrueType font used for Tamil PDFs.
func WithTamilFont(data []byte) orchestrator.Option {
	return orchestrator.WithPDFOptions(pdf.WithTamilFont(data))
}

// WithSources replaces the embedded catalogue and template bank, for callers
// that ship their own document types.
func WithSources(store *catalog.Store, bank *templates.Bank, clock generator.Clock) (orchestrator.Option, error) {
	options := []generator.Option{generator.WithCatalog(store), generator.WithBank(bank)}
	if clock != nil {
		options = append(options, generator.WithClock(clock))
	}
	g, err := generator.New(options...)
	if err != nil {
		return nil, err
	}
	return orchestrator.WithGenerator(g), nil
}
