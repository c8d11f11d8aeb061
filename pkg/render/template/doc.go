// Package template defines the renderer-agnostic template seam. Both the
// template bank (plain text legal documents) and the HTML preview renderer
// depend on TemplateRenderer rather than on a concrete engine.
package template
