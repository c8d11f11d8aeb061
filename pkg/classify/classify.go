package classify

import (
	"strings"
	"sync"

	"github.com/goliatone/go-legaldocs/pkg/model"
)

// Kind is the structural role of one line.
type Kind string

const (
	KindTitle           Kind = "title"
	KindNumberedHeading Kind = "numbered-heading"
	KindHeading         Kind = "heading"
	KindInlineLabel     Kind = "inline-label"
	KindBody            Kind = "body"
)

// Line is one classified line. Prefix holds "1. PURPOSE." for numbered
// headings and the bare label for inline labels; Rest is the text after it.
type Line struct {
	Index  int    `json:"index"`
	Text   string `json:"text"`
	Kind   Kind   `json:"kind"`
	Prefix string `json:"prefix,omitempty"`
	Rest   string `json:"rest,omitempty"`
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithRules installs rules for lang, replacing the built-in set.
func WithRules(lang model.Language, rules *Rules) Option {
	return func(c *Classifier) {
		if rules != nil {
			c.rules[lang] = rules
		}
	}
}

// Classifier holds compiled per-language rules. It is immutable and safe for
// concurrent use.
type Classifier struct {
	rules map[model.Language]*Rules
}

// New returns a classifier with the built-in English and Tamil rules, as
// modified by options.
func New(options ...Option) *Classifier {
	c := &Classifier{rules: map[model.Language]*Rules{
		model.English: englishRules(),
		model.Tamil:   tamilRules(),
	}}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

var (
	englishRules = sync.OnceValue(func() *Rules { return MustCompile(EnglishConfig()) })
	tamilRules   = sync.OnceValue(func() *Rules { return MustCompile(TamilConfig()) })
	defaultOnce  = sync.OnceValue(func() *Classifier { return New() })
)

// Default returns the shared classifier with built-in rules.
func Default() *Classifier {
	return defaultOnce()
}

func (c *Classifier) rulesFor(lang model.Language) *Rules {
	if rules, ok := c.rules[lang]; ok {
		return rules
	}
	return c.rules[model.English]
}

// Classify returns the role of line without considering titles.
func (c *Classifier) Classify(line string, lang model.Language) Line {
	out := Line{Text: line, Kind: KindBody}
	if strings.TrimSpace(line) == "" {
		return out
	}

	if m := numberedHeadingRe.FindStringSubmatch(line); m != nil {
		out.Kind = KindNumberedHeading
		out.Prefix = m[1] + ". " + strings.TrimSpace(m[2]) + "."
		out.Rest = m[3]
		return out
	}

	rules := c.rulesFor(lang)
	if rules.isHeading(line) {
		out.Kind = KindHeading
		return out
	}
	if label, rest, ok := rules.inlineLabel(line); ok {
		out.Kind = KindInlineLabel
		out.Prefix = label
		out.Rest = rest
	}
	return out
}

// Annotate splits text into lines and classifies each. The first non-blank
// line is the Title; exactly one Title is produced per call.
func (c *Classifier) Annotate(text string, lang model.Language) []Line {
	if text == "" {
		return nil
	}
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]Line, 0, len(raw))
	titleSeen := false
	for i, s := range raw {
		var line Line
		if !titleSeen && strings.TrimSpace(s) != "" {
			titleSeen = true
			line = Line{Text: s, Kind: KindTitle}
		} else {
			line = c.Classify(s, lang)
		}
		line.Index = i
		lines = append(lines, line)
	}
	return lines
}

// Classify uses the default classifier.
func Classify(line string, lang model.Language) Line {
	return Default().Classify(line, lang)
}

// Annotate uses the default classifier.
func Annotate(text string, lang model.Language) []Line {
	return Default().Annotate(text, lang)
}
