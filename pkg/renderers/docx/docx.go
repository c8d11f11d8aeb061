// Package docx writes classified documents as WordprocessingML packages.
//
// The package is assembled directly with archive/zip: one paragraph per
// generated line, bold runs for headings, labels and emphasised values, and a
// Title style for the first line.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-legaldocs/pkg/classify"
	"github.com/goliatone/go-legaldocs/pkg/model"
	"github.com/goliatone/go-legaldocs/pkg/render"
)

// ContentType is the MIME type of .docx files.
const ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

const (
	bodySize    = 24 // half-points
	titleSize   = 32
	lineSpacing = 276

	// A4 in twentieths of a point, margins matching the PDF column.
	pageWidth  = 11906
	pageHeight = 16838
	marginX    = 800
	marginY    = 1200
)

// Font is the default run font for a language.
type Font struct {
	Face string
	Size int
	Lang string
}

// DefaultFonts maps languages to their document font.
var DefaultFonts = map[model.Language]Font{
	model.English: {Face: "Calibri", Size: bodySize, Lang: "en-US"},
	model.Tamil:   {Face: "Nirmala UI", Size: bodySize, Lang: "ta-IN"},
}

// Option customises the renderer.
type Option func(*Renderer)

// WithFont overrides the font used for lang.
func WithFont(lang model.Language, font Font) Option {
	return func(r *Renderer) {
		if font.Size <= 0 {
			font.Size = bodySize
		}
		if font.Lang == "" {
			font.Lang = lang.Locale()
		}
		r.fonts[lang] = font
	}
}

// WithCreationDate fixes the package timestamps.
func WithCreationDate(t time.Time) Option {
	return func(r *Renderer) {
		r.created = t
	}
}

// Renderer produces .docx bytes.
type Renderer struct {
	fonts   map[model.Language]Font
	created time.Time
}

// New returns a DOCX renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{fonts: make(map[model.Language]Font, len(DefaultFonts))}
	for lang, font := range DefaultFonts {
		r.fonts[lang] = font
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string          { return "docx" }
func (r *Renderer) ContentType() string   { return ContentType }
func (r *Renderer) FileExtension() string { return "docx" }

func (r *Renderer) font(lang model.Language) Font {
	if font, ok := r.fonts[lang]; ok {
		return font
	}
	return r.fonts[model.English]
}

// Render writes the package for doc.
func (r *Renderer) Render(ctx context.Context, doc render.Document, _ render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	created := r.created
	if created.IsZero() {
		created = time.Now()
	}
	created = created.UTC().Truncate(time.Second)

	font := r.font(doc.Language)
	parts := []struct {
		name string
		data string
	}{
		{partContentTypes, contentTypesXML},
		{partRels, relsXML},
		{partDocument, DocumentXML(render.Blocks(doc, render.ExportPolicy))},
		{partDocumentRels, documentRelsXML},
		{partStyles, stylesXML(font)},
		{partCore, coreXML(doc.Type.Name.Get(doc.Language), created.Format(time.RFC3339))},
	}

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	for _, part := range parts {
		h := &zip.FileHeader{
			Name:     part.name,
			Method:   zip.Deflate,
			Modified: created,
		}
		w, err := zw.CreateHeader(h)
		if err != nil {
			return nil, fmt.Errorf("docx: create %s: %w", part.name, err)
		}
		if _, err := w.Write([]byte(part.data)); err != nil {
			return nil, fmt.Errorf("docx: write %s: %w", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("docx: close package: %w", err)
	}
	return buf.Bytes(), nil
}

// DocumentXML renders the main document part for blocks.
func DocumentXML(blocks []render.Block) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<w:document xmlns:w="%s"><w:body>`, nsMain)
	for _, block := range blocks {
		writeParagraph(&b, block)
	}
	fmt.Fprintf(&b, `<w:sectPr><w:pgSz w:w="%d" w:h="%d"/><w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="708" w:footer="708" w:gutter="0"/></w:sectPr>`,
		pageWidth, pageHeight, marginY, marginX, marginY, marginX)
	b.WriteString(`</w:body></w:document>`)
	return b.String()
}

func writeParagraph(b *strings.Builder, block render.Block) {
	if block.Blank() {
		b.WriteString(`<w:p/>`)
		return
	}
	title := block.Line.Kind == classify.KindTitle
	b.WriteString(`<w:p>`)
	if title {
		b.WriteString(`<w:pPr><w:pStyle w:val="Title"/><w:jc w:val="center"/></w:pPr>`)
	}
	for _, span := range block.Spans {
		writeRun(b, span, title)
	}
	b.WriteString(`</w:p>`)
}

func writeRun(b *strings.Builder, span classify.Span, title bool) {
	if span.Text == "" {
		return
	}
	b.WriteString(`<w:r>`)
	switch {
	case title:
		fmt.Fprintf(b, `<w:rPr><w:b/><w:bCs/><w:sz w:val="%d"/><w:szCs w:val="%d"/></w:rPr>`, titleSize, titleSize)
	case span.Emphasis:
		b.WriteString(`<w:rPr><w:b/><w:bCs/></w:rPr>`)
	}
	b.WriteString(`<w:t xml:space="preserve">`)
	b.WriteString(escapeText(span.Text))
	b.WriteString(`</w:t></w:r>`)
}

func escapeText(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
