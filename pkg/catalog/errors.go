package catalog

import "errors"

var (
	// ErrUnknownDocumentType is returned for keys absent from the catalogue.
	ErrUnknownDocumentType = errors.New("catalog: unknown document type")
	// ErrInvalidDocument wraps structural problems found while loading.
	ErrInvalidDocument = errors.New("catalog: invalid document type")
)
