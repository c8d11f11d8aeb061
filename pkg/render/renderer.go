package render

import (
	"context"
)

// Renderer converts a classified Document into an output artifact (HTML
// fragment, PDF, DOCX, plain text).
type Renderer interface {
	Name() string
	ContentType() string
	FileExtension() string
	Render(ctx context.Context, doc Document, options RenderOptions) ([]byte, error)
}
