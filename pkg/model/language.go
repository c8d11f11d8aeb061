package model

import (
	"errors"
	"fmt"
	"strings"
)

// Language selects the output language of generated documents.
type Language string

const (
	English Language = "en"
	Tamil   Language = "ta"
)

// ErrUnknownLanguage is returned by ParseLanguage for unsupported tags.
var ErrUnknownLanguage = errors.New("model: unknown language")

// Languages lists the supported languages in display order.
func Languages() []Language {
	return []Language{English, Tamil}
}

// ParseLanguage accepts bare tags ("en", "ta") as well as regional variants
// such as "en-US" or "ta_IN".
func ParseLanguage(raw string) (Language, error) {
	tag := strings.ToLower(strings.TrimSpace(raw))
	if i := strings.IndexAny(tag, "-_"); i > 0 {
		tag = tag[:i]
	}
	switch Language(tag) {
	case English:
		return English, nil
	case Tamil:
		return Tamil, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, raw)
}

// Valid reports whether l is one of the supported languages.
func (l Language) Valid() bool {
	return l == English || l == Tamil
}

// Locale returns the BCP 47 tag used for calendar captions and HTML lang attributes.
func (l Language) Locale() string {
	if l == Tamil {
		return "ta-IN"
	}
	return "en-US"
}

func (l Language) String() string {
	return string(l)
}
