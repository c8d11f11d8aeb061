package legaldocs

import (
	"io/fs"

	"github.com/goliatone/go-legaldocs/pkg/catalog"
	"github.com/goliatone/go-legaldocs/pkg/templates"
)

// EmbeddedCatalog exposes the built-in catalogue YAML so callers can extend
// it with their own document types.
func EmbeddedCatalog() fs.FS {
	return catalog.EmbeddedFS()
}

// EmbeddedTemplates exposes the built-in template bank, laid out as
// "<lang>/<type>.tpl".
func EmbeddedTemplates() fs.FS {
	return templates.EmbeddedFS()
}

// LoadCatalog parses every catalogue file in fsys.
func LoadCatalog(fsys fs.FS) (*catalog.Store, error) {
	return catalog.LoadFS(fsys)
}

// LoadTemplates builds a template bank over fsys.
func LoadTemplates(fsys fs.FS) (*templates.Bank, error) {
	return templates.New(templates.WithFS(fsys))
}
