package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-legaldocs/pkg/model"
)

// ErrMissingTranslator is passed to MissingTranslationHandler when no
// translator is configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// ErrMissingTranslation reports a key absent from a catalogue.
var ErrMissingTranslation = errors.New("render: missing translation")

// Translator resolves UI strings for a locale ("en", "ta-IN").
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler returns the text to print for an untranslated key.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

func missingTranslationDefault(_ string, key string, args []any, _ error) string {
	for _, arg := range args {
		if m, ok := arg.(map[string]any); ok {
			if fallback, ok := m["default"].(string); ok && strings.TrimSpace(fallback) != "" {
				return fallback
			}
		}
	}
	return key
}

// Messages is a static per-language catalogue of UI strings. Values may
// contain fmt verbs filled from Translate args.
type Messages map[model.Language]map[string]string

var defaultMessages = Messages{
	model.English: {
		"page.title":      "%s (Preview)",
		"preview.label":   "Document preview",
		"preview.empty":   "Select a document type to see the preview.",
		"advisory.title":  "Incomplete document",
		"export.disabled": "Fill the required fields to enable export.",
	},
	model.Tamil: {
		"page.title":      "%s (முன்னோட்டம்)",
		"preview.label":   "ஆவண முன்னோட்டம்",
		"preview.empty":   "முன்னோட்டத்தைக் காண ஆவண வகையைத் தேர்ந்தெடுக்கவும்.",
		"advisory.title":  "முழுமையற்ற ஆவணம்",
		"export.disabled": "ஏற்றுமதி செய்ய தேவையான புலங்களை நிரப்பவும்.",
	},
}

// DefaultMessages returns the built-in English/Tamil UI strings.
func DefaultMessages() Messages {
	return defaultMessages
}

// Translate implements Translator. Unknown locales fall back to English.
func (m Messages) Translate(locale, key string, args ...any) (string, error) {
	lang, err := model.ParseLanguage(locale)
	if err != nil {
		lang = model.English
	}
	msg, ok := m[lang][key]
	if !ok {
		return "", fmt.Errorf("%w: %s/%s", ErrMissingTranslation, lang, key)
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...), nil
	}
	return msg, nil
}

// Translate resolves key through the options' translator, falling back to
// fallback (or the key) through OnMissing.
func (o RenderOptions) Translate(lang model.Language, key, fallback string, args ...any) string {
	onMissing := o.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	return translate(lang.Locale(), key, fallback, o.translator(), onMissing, args...)
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler, args ...any) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}

	if t == nil {
		return onMissing(locale, key, []any{map[string]any{"default": fallback}}, ErrMissingTranslator)
	}

	result, err := t.Translate(locale, key, args...)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	return onMissing(locale, key, []any{map[string]any{"default": fallback}}, err)
}
