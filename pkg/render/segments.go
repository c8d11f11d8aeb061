package render

import (
	"strings"

	"github.com/goliatone/go-legaldocs/pkg/classify"
)

// Policy selects where form values are emphasised.
type Policy struct {
	// HighlightValues emphasises values in the rest of numbered headings and
	// inline labels.
	HighlightValues bool
	// HighlightBody also emphasises values in body lines.
	HighlightBody bool
}

var (
	// PreviewPolicy emphasises values wherever they occur.
	PreviewPolicy = Policy{HighlightValues: true, HighlightBody: true}
	// ExportPolicy emphasises values only after a heading prefix or label.
	ExportPolicy = Policy{HighlightValues: true}
)

// Block is one laid-out line: its classification, alignment and runs.
type Block struct {
	Line     classify.Line
	Centered bool
	Spans    []classify.Span
}

// Blank reports whether the block renders as an empty line.
func (b Block) Blank() bool {
	return len(b.Spans) == 0
}

// Segments plans the emphasis of a single line.
func Segments(line classify.Line, values []string, policy Policy) []classify.Span {
	switch line.Kind {
	case classify.KindTitle, classify.KindHeading:
		text := strings.TrimSpace(line.Text)
		if text == "" {
			return nil
		}
		return []classify.Span{{Text: text, Emphasis: true}}
	case classify.KindNumberedHeading:
		return withLead(line.Prefix, line.Rest, values, policy)
	case classify.KindInlineLabel:
		return withLead(line.Prefix+":", line.Rest, values, policy)
	default:
		if strings.TrimSpace(line.Text) == "" {
			return nil
		}
		if policy.HighlightBody {
			return classify.Highlight(line.Text, values)
		}
		return []classify.Span{{Text: line.Text}}
	}
}

func withLead(lead, rest string, values []string, policy Policy) []classify.Span {
	spans := []classify.Span{{Text: lead, Emphasis: true}}
	if rest == "" {
		return spans
	}
	spans = append(spans, classify.Span{Text: " "})
	if policy.HighlightValues {
		return append(spans, classify.Highlight(rest, values)...)
	}
	return append(spans, classify.Span{Text: rest})
}

// Blocks plans every line of doc under policy.
func Blocks(doc Document, policy Policy) []Block {
	values := doc.Values.NonBlank()
	blocks := make([]Block, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		blocks = append(blocks, Block{
			Line:     line,
			Centered: line.Kind == classify.KindTitle,
			Spans:    Segments(line, values, policy),
		})
	}
	return blocks
}
