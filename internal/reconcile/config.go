// Package reconcile maps AI-classified metadata onto canonical entities in
// the document store without creating duplicates.
package reconcile

import "github.com/pigeonhole-ngx/pigeonhole/internal/normalize"

// ColorRule assigns a tag color by regex. Rules are evaluated in order and
// the first match wins, so specific patterns must precede general ones.
type ColorRule struct {
	Pattern string
	Color   string
}

// Config holds every reconciliation tunable. All values are externally
// configurable; DefaultConfig supplies the compiled-in defaults.
type Config struct {
	Normalizer normalize.Config

	// GenericNames suppress correspondent creation.
	GenericNames []string
	// GenericTypes suppress document-type creation.
	GenericTypes []string
	// GenericTags suppress tag creation.
	GenericTags []string
	// GenericSlugs are storage-path slugs replaced by the literal "unknown".
	GenericSlugs []string

	// TagColorRules derive a color for newly created tags.
	TagColorRules []ColorRule
	// DefaultTagColor is used when no color rule matches.
	DefaultTagColor string

	// SimilarityThreshold is the strict lower bound for fuzzy
	// correspondent matching.
	SimilarityThreshold float64
	// TypeConfidenceThreshold rejects low-confidence document types.
	TypeConfidenceThreshold float64
	// DocumentTypeCap blocks type creation once the taxonomy reaches
	// this size, guarding against AI-driven sprawl.
	DocumentTypeCap int
	// MaxTags truncates the resolved tag list.
	MaxTags int
	// MinTagLen and MaxTagLen bound the accepted tag name length.
	MinTagLen int
	MaxTagLen int
}

// DefaultConfig returns the built-in reconciliation settings.
func DefaultConfig() Config {
	return Config{
		Normalizer:   normalize.DefaultConfig(),
		GenericNames: []string{"unknown", "null", "n/a", "n.a.", ""},
		GenericTypes: []string{"unknown", "document", "file", "other", "misc"},
		GenericTags: []string{
			"document", "file", "pdf", "scan", "scanned",
			"unknown", "other", "misc", "general",
		},
		GenericSlugs: []string{"unknown", "null", "n-a", ""},
		TagColorRules: []ColorRule{
			{Pattern: `mahnung|reminder|overdue|urgent`, Color: "#e74c3c"},
			{Pattern: `invoice|bill|payment|rechnung`, Color: "#e67e22"},
			{Pattern: `tax|steuer|finanz`, Color: "#27ae60"},
			{Pattern: `insurance|versicherung`, Color: "#2980b9"},
			{Pattern: `contract|vertrag`, Color: "#8e44ad"},
			{Pattern: `medical|health|arzt`, Color: "#16a085"},
		},
		DefaultTagColor:         "#a6a6a6",
		SimilarityThreshold:     0.9,
		TypeConfidenceThreshold: 0.7,
		DocumentTypeCap:         20,
		MaxTags:                 10,
		MinTagLen:               2,
		MaxTagLen:               50,
	}
}
