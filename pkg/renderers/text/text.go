// Package text renders the generated document verbatim as UTF-8 plain text.
package text

import (
	"context"
	"strings"

	"github.com/goliatone/go-legaldocs/pkg/render"
)

// Renderer emits doc.Text with a trailing newline.
type Renderer struct{}

// New returns a plain text renderer.
func New() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Name() string          { return "text" }
func (r *Renderer) ContentType() string   { return "text/plain; charset=utf-8" }
func (r *Renderer) FileExtension() string { return "txt" }

func (r *Renderer) Render(_ context.Context, doc render.Document, _ render.RenderOptions) ([]byte, error) {
	if doc.Text == "" {
		return []byte{}, nil
	}
	return []byte(strings.TrimRight(doc.Text, "\n") + "\n"), nil
}
