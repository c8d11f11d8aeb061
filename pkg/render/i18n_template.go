package render

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-legaldocs/pkg/model"
)

// TemplateI18nConfig configures the translate helper handed to HTML
// templates.
type TemplateI18nConfig struct {
	// LocaleKey is read when the locale source is a map. Defaults to "locale".
	LocaleKey string
	// FuncName renames the helper. Defaults to "translate".
	FuncName string
	// OnMissing decides what to print for untranslated keys.
	OnMissing MissingTranslationHandler
}

// TemplateI18nFuncs returns template helpers:
//
//	translate(localeSrc, key, ...args) string
//	current_locale(localeSrc) string
//
// localeSrc is a model.Language, a locale string such as "ta-IN", or a map
// holding one under LocaleKey. A nil t uses DefaultMessages.
func TemplateI18nFuncs(t Translator, cfg TemplateI18nConfig) map[string]any {
	localeKey := strings.TrimSpace(cfg.LocaleKey)
	if localeKey == "" {
		localeKey = "locale"
	}
	name := strings.TrimSpace(cfg.FuncName)
	if name == "" {
		name = "translate"
	}
	onMissing := cfg.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	if t == nil {
		t = DefaultMessages()
	}

	return map[string]any{
		name: func(localeSrc any, key string, params ...any) string {
			key = strings.TrimSpace(key)
			if key == "" {
				return ""
			}
			locale := localeOf(localeSrc, localeKey)
			msg, err := t.Translate(locale, key, params...)
			if err != nil || strings.TrimSpace(msg) == "" {
				return onMissing(locale, key, params, err)
			}
			return msg
		},
		"current_locale": func(localeSrc any) string {
			return localeOf(localeSrc, localeKey)
		},
	}
}

func localeOf(src any, key string) string {
	switch v := src.(type) {
	case nil:
		return ""
	case model.Language:
		return v.Locale()
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case map[string]string:
		return v[key]
	case map[string]any:
		if inner, ok := v[key]; ok && inner != nil {
			return localeOf(inner, key)
		}
	}
	return ""
}
