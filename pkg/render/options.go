package render

// RenderOptions carry per-request data that renderers can use to customise
// their output without touching the generated document.
type RenderOptions struct {
	// FullPage wraps HTML output in a standalone page shell. Binary
	// renderers ignore it.
	FullPage bool
	// Advisory is the localised missing-fields message shown above the
	// preview. Empty hides the notice.
	Advisory string
	// Translator resolves UI strings such as page titles. When nil the
	// built-in Messages catalogue is used.
	Translator Translator
	// OnMissing decides what to print for untranslated keys.
	OnMissing MissingTranslationHandler
}

func (o RenderOptions) translator() Translator {
	if o.Translator != nil {
		return o.Translator
	}
	return DefaultMessages()
}
