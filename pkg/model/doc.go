// Package model defines the catalogue types shared by the generator, the line
// classifier and every renderer. Document types, field descriptors and section
// descriptors are static configuration loaded by pkg/catalog; FormValues is
// the only mutable piece and is owned by a single form session at a time.
// Bilingual strings travel as LocalizedText so callers pick the language at
// the edge instead of carrying parallel maps around.
package model
