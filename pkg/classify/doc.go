// Package classify assigns a structural role to every line of generated
// document text so that all renderers agree on which parts are emphasised.
//
// Roles are checked in priority order and the first match wins:
//
//	Title            the first non-blank line of a document (Annotate only)
//	NumberedHeading  "1. PURPOSE. The Parties ..." split into prefix and rest
//	Heading          a whole line matching a per-language opener pattern
//	InlineLabel      "PROPERTY: 12 Main St" split into label and rest
//	Body             everything else, including blank lines
//
// Classify is stateless. Annotate threads the "title seen" flag through one
// document and resets it for the next call. Highlight is an independent pass
// that marks occurrences of form values inside a run of text.
package classify
