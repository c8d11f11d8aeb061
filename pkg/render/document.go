package render

import (
	"github.com/goliatone/go-legaldocs/pkg/classify"
	"github.com/goliatone/go-legaldocs/pkg/model"
)

// Document is the renderer input: generated text plus its classification
// and the values to emphasise.
type Document struct {
	Type     model.DocumentType
	Language model.Language
	Text     string
	Lines    []classify.Line
	Values   model.FormValues
}

// NewDocument classifies text with c (the default classifier when nil).
func NewDocument(doc model.DocumentType, lang model.Language, text string, values model.FormValues, c *classify.Classifier) Document {
	if c == nil {
		c = classify.Default()
	}
	return Document{
		Type:     doc,
		Language: lang,
		Text:     text,
		Lines:    c.Annotate(text, lang),
		Values:   values.Clone(),
	}
}

// Empty reports whether there is nothing to render.
func (d Document) Empty() bool {
	return len(d.Lines) == 0
}

// FileName returns the download name for ext.
func (d Document) FileName(ext string) string {
	return d.Type.FileName(d.Language, ext)
}
