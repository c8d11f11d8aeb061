// Package pdf renders classified documents to A4 PDF with go-pdf/fpdf.
//
// Layout is computed by Plan before anything is drawn, so pagination can be
// tested with a fake Measurer. English uses the Helvetica core font. Tamil
// requires a TrueType font registered with WithTamilFont.
package pdf

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/skip2/go-qrcode"

	"github.com/goliatone/go-legaldocs/pkg/model"
	"github.com/goliatone/go-legaldocs/pkg/render"
)

const (
	fingerprintImage = "legaldocs-fingerprint"
	fingerprintSize  = 64.0
)

// Option customises the renderer.
type Option func(*Renderer)

// WithTamilFont registers a TrueType font used for Tamil documents. English
// documents switch to it when their text leaves cp1252 (₹, Tamil names) and
// the font covers every character.
func WithTamilFont(data []byte) Option {
	return func(r *Renderer) {
		r.tamilFont = data
	}
}

// WithTamilFontFile reads the Tamil font from disk when the renderer is built.
func WithTamilFontFile(path string) Option {
	return func(r *Renderer) {
		if path == "" {
			return
		}
		data, err := os.ReadFile(path)
		if err != nil {
			r.initErr = fmt.Errorf("pdf: read tamil font: %w", err)
			return
		}
		r.tamilFont = data
	}
}

// WithFingerprint stamps a QR code holding the SHA-256 of the text on the
// last page.
func WithFingerprint(enabled bool) Option {
	return func(r *Renderer) {
		r.fingerprint = enabled
	}
}

// WithLayout overrides DefaultLayout.
func WithLayout(layout Layout) Option {
	return func(r *Renderer) {
		r.layout = layout
	}
}

// WithCreationDate fixes the document timestamps, which makes output
// reproducible.
func WithCreationDate(t time.Time) Option {
	return func(r *Renderer) {
		r.created = t
	}
}

// WithCompression toggles stream compression (on by default).
func WithCompression(enabled bool) Option {
	return func(r *Renderer) {
		r.compress = enabled
	}
}

// Renderer produces PDF bytes. It holds no per-document state.
type Renderer struct {
	tamilFont   []byte
	fingerprint bool
	layout      Layout
	created     time.Time
	compress    bool
	initErr     error
}

// New validates options and returns a PDF renderer. A supplied Tamil font
// must parse and cover Tamil letters.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{layout: DefaultLayout, compress: true}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.initErr != nil {
		return nil, r.initErr
	}
	if len(r.tamilFont) > 0 {
		if err := checkTamilCoverage(r.tamilFont); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Renderer) Name() string          { return "pdf" }
func (r *Renderer) ContentType() string   { return "application/pdf" }
func (r *Renderer) FileExtension() string { return "pdf" }

// BaseSize is the body font size for lang.
func BaseSize(lang model.Language) float64 {
	if lang == model.Tamil {
		return 11
	}
	return 12
}

// Render lays out and writes the document.
func (r *Renderer) Render(ctx context.Context, doc render.Document, _ render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: r.layout.PageWidth, Ht: r.layout.PageHeight},
	})
	pdf.SetCompression(r.compress)
	pdf.SetAutoPageBreak(false, 0)
	if !r.created.IsZero() {
		pdf.SetCreationDate(r.created)
		pdf.SetModificationDate(r.created)
		pdf.SetCatalogSort(true)
	}

	fonts, err := r.fontsFor(pdf, doc)
	if err != nil {
		return nil, err
	}
	pdf.SetTitle(fonts.translate(doc.Type.Name.Get(doc.Language)), fonts.family != latinFamily)
	pdf.SetCreator("go-legaldocs", false)

	size := BaseSize(doc.Language)
	rows := Plan(render.Blocks(doc, render.ExportPolicy), fpdfMeasurer{doc: pdf, fonts: fonts}, r.layout, size)

	page := 0
	lastY := r.layout.Top
	pdf.AddPage()
	page++
	for _, row := range rows {
		for page < row.Page {
			pdf.AddPage()
			page++
		}
		for _, run := range row.Runs {
			fonts.use(pdf, run.Bold, row.Size)
			pdf.Text(run.X, row.Y, fonts.translate(run.Text))
		}
		lastY = row.Y
	}

	if r.fingerprint {
		if err := r.stamp(pdf, doc.Text, lastY); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: write document: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) fontsFor(pdf *fpdf.Fpdf, doc render.Document) (fontSet, error) {
	if doc.Language == model.Tamil {
		if len(r.tamilFont) == 0 {
			return fontSet{}, fmt.Errorf("%w: no tamil font registered", ErrFontUnavailable)
		}
		return tamilFonts(pdf, r.tamilFont)
	}

	text := doc.Type.Name.Get(doc.Language) + "\n" + doc.Text
	lost := outsideLatin(text)
	if len(lost) == 0 {
		return latinFonts(pdf), nil
	}
	if len(r.tamilFont) == 0 {
		return fontSet{}, fmt.Errorf("%w: core fonts cannot show %q; register a unicode font", ErrFontUnavailable, string(lost))
	}
	if err := checkCoverage(r.tamilFont, printable(text)); err != nil {
		return fontSet{}, err
	}
	return tamilFonts(pdf, r.tamilFont)
}

// Fingerprint returns the hex SHA-256 of text.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func (r *Renderer) stamp(pdf *fpdf.Fpdf, text string, lastY float64) error {
	sum := Fingerprint(text)
	png, err := qrcode.Encode("sha256:"+sum, qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("pdf: encode fingerprint: %w", err)
	}

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(fingerprintImage, opts, bytes.NewReader(png))

	y := lastY + r.layout.LineGap
	if y+fingerprintSize > r.layout.PageHeight-r.layout.Left {
		pdf.AddPage()
		y = r.layout.Top
	}
	x := r.layout.Left + r.layout.Width - fingerprintSize
	pdf.ImageOptions(fingerprintImage, x, y, fingerprintSize, fingerprintSize, false, opts, 0, "")

	pdf.SetFont(latinFamily, "", 6)
	pdf.Text(r.layout.Left, y+fingerprintSize-2, "SHA-256 "+sum)
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("pdf: stamp fingerprint: %w", err)
	}
	return nil
}
