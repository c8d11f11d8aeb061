package templates

import (
	"embed"
	"io/fs"
)

//go:embed bank
var embedded embed.FS

// EmbeddedFS returns the built-in template bank rooted at "<lang>/<type>.tpl".
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embedded, "bank")
	if err != nil {
		return embedded
	}
	return sub
}
