package pdf

import (
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-legaldocs/pkg/classify"
	"github.com/goliatone/go-legaldocs/pkg/render"
)

// Measurer reports the advance width of text in points.
type Measurer interface {
	TextWidth(text string, bold bool, size float64) float64
}

// Layout holds page geometry in points. Y values are text baselines.
type Layout struct {
	PageWidth  float64
	PageHeight float64
	Left       float64
	Width      float64
	Top        float64
	LineGap    float64
	Bottom     float64
	TitleBoost float64
}

// DefaultLayout is A4 portrait with a 515pt text column.
var DefaultLayout = Layout{
	PageWidth:  595.28,
	PageHeight: 841.89,
	Left:       40,
	Width:      515,
	Top:        60,
	LineGap:    16,
	Bottom:     780,
	TitleBoost: 4,
}

// Run is a single-style piece of text placed at X on its row.
type Run struct {
	Text string
	Bold bool
	X    float64
}

// Row is one baseline of output.
type Row struct {
	Page int
	Y    float64
	Size float64
	Line int
	Runs []Run
}

// Text joins the row's runs.
func (r Row) Text() string {
	var b strings.Builder
	for _, run := range r.Runs {
		b.WriteString(run.Text)
	}
	return b.String()
}

type planner struct {
	m      Measurer
	layout Layout
	size   float64
	page   int
	y      float64
	rows   []Row
}

// Plan places blocks onto pages. Lines wrap inside the text column; numbered
// headings and inline labels keep a hanging indent after their bold lead. A
// new page starts whenever the next baseline would fall below Bottom.
func Plan(blocks []render.Block, m Measurer, layout Layout, size float64) []Row {
	p := &planner{m: m, layout: layout, size: size, page: 1, y: layout.Top}
	for _, block := range blocks {
		p.place(block)
	}
	return p.rows
}

func (p *planner) place(block render.Block) {
	idx := block.Line.Index
	switch {
	case block.Blank():
		p.ensurePage()
		p.y += p.layout.LineGap
	case block.Line.Kind == classify.KindTitle:
		size := p.size + p.layout.TitleBoost
		rows := p.wrap(block.Spans, p.layout.Width, size)
		for i, runs := range rows {
			p.ensurePage()
			w := p.width(runs, size)
			shift(runs, p.layout.Left+(p.layout.Width-w)/2)
			p.emit(idx, size, runs)
			if i == len(rows)-1 {
				p.y += p.layout.LineGap + p.layout.TitleBoost
			} else {
				p.y += p.layout.LineGap
			}
		}
	case hasLead(block):
		lead := block.Spans[0]
		rest := trimLeadingSpace(block.Spans[1:])
		leadW := p.m.TextWidth(lead.Text+" ", true, p.size)
		if len(rest) == 0 {
			p.ensurePage()
			p.emit(idx, p.size, []Run{{Text: lead.Text, Bold: true, X: p.layout.Left}})
			p.y += p.layout.LineGap
			return
		}
		rows := p.wrap(rest, p.layout.Width-leadW, p.size)
		for i, runs := range rows {
			p.ensurePage()
			shift(runs, p.layout.Left+leadW)
			if i == 0 {
				runs = append([]Run{{Text: lead.Text, Bold: true, X: p.layout.Left}}, runs...)
			}
			p.emit(idx, p.size, runs)
			p.y += p.layout.LineGap
		}
	default:
		for _, runs := range p.wrap(block.Spans, p.layout.Width, p.size) {
			p.ensurePage()
			shift(runs, p.layout.Left)
			p.emit(idx, p.size, runs)
			p.y += p.layout.LineGap
		}
	}
}

func (p *planner) ensurePage() {
	if p.y > p.layout.Bottom {
		p.page++
		p.y = p.layout.Top
	}
}

func (p *planner) emit(line int, size float64, runs []Run) {
	p.rows = append(p.rows, Row{Page: p.page, Y: p.y, Size: size, Line: line, Runs: runs})
}

func (p *planner) width(runs []Run, size float64) float64 {
	total := 0.0
	for _, run := range runs {
		total += p.m.TextWidth(run.Text, run.Bold, size)
	}
	return total
}

// shift converts run-relative offsets (X starts at 0) into page positions.
func shift(runs []Run, x0 float64) {
	for i := range runs {
		runs[i].X += x0
	}
}

func hasLead(block render.Block) bool {
	kind := block.Line.Kind
	if kind != classify.KindNumberedHeading && kind != classify.KindInlineLabel {
		return false
	}
	return len(block.Spans) > 0 && block.Spans[0].Emphasis
}

func trimLeadingSpace(spans []classify.Span) []classify.Span {
	for len(spans) > 0 && strings.TrimSpace(spans[0].Text) == "" {
		spans = spans[1:]
	}
	return spans
}

type token struct {
	text string
	bold bool
}

func tokenize(spans []classify.Span) []token {
	var out []token
	for _, span := range spans {
		for _, piece := range strings.SplitAfter(span.Text, " ") {
			if piece != "" {
				out = append(out, token{text: piece, bold: span.Emphasis})
			}
		}
	}
	return out
}

// wrap breaks spans into rows no wider than avail. Run X values are offsets
// from the row start.
func (p *planner) wrap(spans []classify.Span, avail, size float64) [][]Run {
	var (
		rows [][]Run
		cur  []token
		used float64
	)
	flush := func() {
		rows = append(rows, p.runs(cur, size))
		cur, used = nil, 0
	}

	for _, tok := range tokenize(spans) {
		visible := p.m.TextWidth(strings.TrimRight(tok.text, " "), tok.bold, size)
		if len(cur) > 0 && used+visible > avail {
			flush()
		}
		if len(cur) == 0 && visible > avail {
			for _, part := range p.breakWord(tok, avail, size) {
				if len(cur) > 0 {
					flush()
				}
				cur = append(cur, part)
				used = p.m.TextWidth(part.text, part.bold, size)
			}
			continue
		}
		if len(cur) == 0 && strings.TrimSpace(tok.text) == "" {
			continue
		}
		cur = append(cur, tok)
		used += p.m.TextWidth(tok.text, tok.bold, size)
	}
	if len(cur) > 0 || len(rows) == 0 {
		flush()
	}
	return rows
}

// breakWord splits an over-long token into rune chunks that fit avail.
func (p *planner) breakWord(tok token, avail, size float64) []token {
	var (
		parts []token
		start int
	)
	for i := 0; i < len(tok.text); {
		_, n := utf8.DecodeRuneInString(tok.text[i:])
		if i > start && p.m.TextWidth(tok.text[start:i+n], tok.bold, size) > avail {
			parts = append(parts, token{text: tok.text[start:i], bold: tok.bold})
			start = i
		}
		i += n
	}
	return append(parts, token{text: tok.text[start:], bold: tok.bold})
}

func (p *planner) runs(tokens []token, size float64) []Run {
	var (
		out []Run
		x   float64
	)
	for i, tok := range tokens {
		text := tok.text
		if i == len(tokens)-1 {
			text = strings.TrimRight(text, " ")
		}
		if n := len(out); n > 0 && out[n-1].Bold == tok.bold {
			out[n-1].Text += text
		} else if text != "" {
			out = append(out, Run{Text: text, Bold: tok.bold, X: x})
		}
		x += p.m.TextWidth(tok.text, tok.bold, size)
	}
	return out
}
