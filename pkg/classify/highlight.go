package classify

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Span is a run of text, emphasised or plain.
type Span struct {
	Text     string `json:"text"`
	Emphasis bool   `json:"emphasis,omitempty"`
}

// Highlight marks case-insensitive occurrences of values in text. Longer
// values are applied first, ties broken lexicographically, and an emphasised
// span is never split again.
func Highlight(text string, values []string) []Span {
	if text == "" {
		return nil
	}
	spans := []Span{{Text: text}}
	for _, value := range orderValues(values) {
		re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(value))
		next := make([]Span, 0, len(spans))
		for _, span := range spans {
			if span.Emphasis {
				next = append(next, span)
				continue
			}
			next = appendSplit(next, span.Text, re)
		}
		spans = next
	}
	return spans
}

func appendSplit(dst []Span, text string, re *regexp.Regexp) []Span {
	last := 0
	for _, loc := range re.FindAllStringIndex(text, -1) {
		if loc[0] == loc[1] {
			continue
		}
		if loc[0] > last {
			dst = append(dst, Span{Text: text[last:loc[0]]})
		}
		dst = append(dst, Span{Text: text[loc[0]:loc[1]], Emphasis: true})
		last = loc[1]
	}
	if last < len(text) {
		dst = append(dst, Span{Text: text[last:]})
	}
	return dst
}

func orderValues(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, raw := range values {
		v := norm.NFC.String(strings.TrimSpace(raw))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}

// Plain joins spans back into text.
func Plain(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return b.String()
}
