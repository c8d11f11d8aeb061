// Package catalog loads the document-type catalogue: names, categories, the
// ordered field descriptors, the section layout and the side tables (phrase
// tables, override rules) the generator consults. Entries live in YAML or JSON
// files, one document type per file, and the module ships a default set
// embedded from data/.
package catalog
