// Package orchestrator wires the catalogue, content generator, line
// classifier and renderer registry behind two entry points: Preview for the
// live view and Export for downloadable artifacts.
package orchestrator
