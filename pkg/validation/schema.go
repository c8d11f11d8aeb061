package validation

import (
	"errors"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-legaldocs/pkg/model"
)

// Issue is one schema violation.
type Issue struct {
	Path    string `json:"path,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// SchemaFor describes the accepted values of a document type as an object of
// string properties. Properties that are not declared remain allowed because
// templates read optional extras.
func SchemaFor(doc model.DocumentType) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	schema.Title = doc.Name.EN
	schema.Description = doc.Description.EN
	for _, f := range doc.Fields {
		schema.WithProperty(f.ID, fieldSchema(f))
	}
	return schema
}

func fieldSchema(f model.FieldDescriptor) *openapi3.Schema {
	prop := openapi3.NewStringSchema()
	prop.Title = f.Label.EN
	if f.MaxLength > 0 {
		prop.WithMaxLength(int64(f.MaxLength))
	}
	if f.Kind.HasOptions() && len(f.Options) > 0 {
		enum := make([]any, 0, len(f.Options)+1)
		enum = append(enum, "")
		for _, opt := range f.Options {
			enum = append(enum, opt.Value)
		}
		prop.WithEnum(enum...)
	}
	if f.ReadOnly {
		prop.ReadOnly = true
	}
	return prop
}

// ValidateValues checks values against SchemaFor(doc). A nil result means
// the values are acceptable.
func ValidateValues(doc model.DocumentType, values model.FormValues) []Issue {
	payload := make(map[string]any, len(values))
	for k, v := range values {
		payload[k] = v
	}
	err := SchemaFor(doc).VisitJSON(payload, openapi3.MultiErrors())
	if err == nil {
		return nil
	}
	return issuesFromError(err)
}

func issuesFromError(err error) []Issue {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		var out []Issue
		for _, e := range multi {
			out = append(out, issuesFromError(e)...)
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].Field < out[j].Field })
		return out
	}
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		pointer := schemaErr.JSONPointer()
		return []Issue{{
			Path:    pointerPath(pointer),
			Field:   strings.Join(pointer, "."),
			Message: strings.TrimSpace(schemaErr.Reason),
		}}
	}
	return []Issue{{Message: strings.TrimSpace(err.Error())}}
}

func pointerPath(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	escaped := make([]string, len(parts))
	for i, p := range parts {
		p = strings.ReplaceAll(p, "~", "~0")
		escaped[i] = strings.ReplaceAll(p, "/", "~1")
	}
	return "/" + strings.Join(escaped, "/")
}
