// Package validation checks form values against a document type.
//
// The required-field check is advisory: generation never depends on it, but
// export surfaces use Advice.Ready to decide whether to proceed. The value
// schema catches structural problems such as over-long input or unknown
// select options.
package validation

import (
	"strings"

	"github.com/goliatone/go-legaldocs/pkg/model"
)

// DefaultLimit is how many missing labels the advisory message lists.
const DefaultLimit = 3

// ellipsis is appended when more fields are missing than listed.
const ellipsis = " …"

var advisoryPrefix = model.LocalizedText{
	EN: "Please fill the required fields: ",
	TA: "தயவுசெய்து தேவையான புலங்களை நிரப்பவும்: ",
}

// Advice summarises missing required fields for display.
type Advice struct {
	Missing   []string `json:"missing,omitempty"`
	Labels    []string `json:"labels,omitempty"`
	Truncated bool     `json:"truncated,omitempty"`
	Message   string   `json:"message,omitempty"`
}

// Ready reports whether every required field has a value.
func (a Advice) Ready() bool {
	return len(a.Missing) == 0
}

// Missing returns the required fields whose value is blank, in field order.
// Read-only fields are never reported because the user cannot fill them.
func Missing(fields []model.FieldDescriptor, values model.FormValues) []model.FieldDescriptor {
	var out []model.FieldDescriptor
	for _, f := range fields {
		if !f.Required || f.ReadOnly {
			continue
		}
		if values.IsBlank(f.ID) {
			out = append(out, f)
		}
	}
	return out
}

// Advisory builds the localised notice for missing required fields. It
// lists at most limit labels (DefaultLimit when limit <= 0).
func Advisory(fields []model.FieldDescriptor, values model.FormValues, lang model.Language, limit int) Advice {
	if limit <= 0 {
		limit = DefaultLimit
	}
	missing := Missing(fields, values)
	if len(missing) == 0 {
		return Advice{}
	}

	advice := Advice{Missing: make([]string, 0, len(missing))}
	for i, f := range missing {
		advice.Missing = append(advice.Missing, f.ID)
		if i < limit {
			advice.Labels = append(advice.Labels, f.Label.Get(lang))
		}
	}
	advice.Truncated = len(missing) > limit

	var b strings.Builder
	b.WriteString(advisoryPrefix.Get(lang))
	b.WriteString(strings.Join(advice.Labels, ", "))
	if advice.Truncated {
		b.WriteString(ellipsis)
	}
	advice.Message = b.String()
	return advice
}
