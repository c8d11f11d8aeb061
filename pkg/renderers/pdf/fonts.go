package pdf

import (
	"errors"
	"fmt"

	"unicode"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/text/encoding/charmap"
)

// ErrFontUnavailable is returned when a language needs a font that was not
// registered or that lacks the required glyphs.
var ErrFontUnavailable = errors.New("pdf: font unavailable")

const (
	latinFamily = "Helvetica"
	tamilFamily = "LegalUnicode"
)

// tamilProbe are letters every usable Tamil face must map.
var tamilProbe = []rune{'அ', 'க', 'த', 'ம', 'ு', '்'}

// checkTamilCoverage parses a TrueType font and verifies it maps the probe
// letters to real glyphs.
func checkTamilCoverage(data []byte) error {
	return checkCoverage(data, tamilProbe)
}

func checkCoverage(data []byte, runes []rune) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty font data", ErrFontUnavailable)
	}
	face, err := sfnt.Parse(data)
	if err != nil {
		return fmt.Errorf("%w: parse font: %v", ErrFontUnavailable, err)
	}
	buf := &sfnt.Buffer{}
	for _, r := range runes {
		gid, err := face.GlyphIndex(buf, r)
		if err != nil {
			return fmt.Errorf("%w: glyph %U: %v", ErrFontUnavailable, r, err)
		}
		if gid == 0 {
			return fmt.Errorf("%w: font has no glyph for %U", ErrFontUnavailable, r)
		}
	}
	return nil
}

// outsideLatin returns the distinct runes of text that the cp1252 core
// fonts cannot show, in order of appearance.
func outsideLatin(text string) []rune {
	var out []rune
	seen := map[rune]bool{}
	for _, r := range text {
		if seen[r] {
			continue
		}
		seen[r] = true
		if _, ok := charmap.Windows1252.EncodeRune(r); !ok {
			out = append(out, r)
		}
	}
	return out
}

// printable returns the distinct visible runes of text.
func printable(text string) []rune {
	var out []rune
	seen := map[rune]bool{}
	for _, r := range text {
		if seen[r] || unicode.IsSpace(r) || unicode.IsControl(r) {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}

// fontSet binds a document to the family used for a language and translates
// strings for core (cp1252) fonts.
type fontSet struct {
	family    string
	translate func(string) string
}

func latinFonts(doc *fpdf.Fpdf) fontSet {
	return fontSet{family: latinFamily, translate: doc.UnicodeTranslatorFromDescriptor("")}
}

func tamilFonts(doc *fpdf.Fpdf, data []byte) (fontSet, error) {
	doc.AddUTF8FontFromBytes(tamilFamily, "", data)
	doc.AddUTF8FontFromBytes(tamilFamily, "B", data)
	if err := doc.Error(); err != nil {
		return fontSet{}, fmt.Errorf("%w: register tamil font: %v", ErrFontUnavailable, err)
	}
	return fontSet{family: tamilFamily, translate: func(s string) string { return s }}, nil
}

func (f fontSet) use(doc *fpdf.Fpdf, bold bool, size float64) {
	style := ""
	if bold {
		style = "B"
	}
	doc.SetFont(f.family, style, size)
}

// fpdfMeasurer measures with the document's own font metrics.
type fpdfMeasurer struct {
	doc   *fpdf.Fpdf
	fonts fontSet
}

func (m fpdfMeasurer) TextWidth(text string, bold bool, size float64) float64 {
	m.fonts.use(m.doc, bold, size)
	return m.doc.GetStringWidth(m.fonts.translate(text))
}
