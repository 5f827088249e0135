// Package normalize turns raw, AI-extracted entity names into canonical
// display forms and slug-safe identifier fragments.
package normalize

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Unknown is the canonical placeholder for names that normalize to nothing.
const Unknown = "Unknown"

// Config holds the tunable inputs of name normalization.
type Config struct {
	// Aliases maps a lower-cased name prefix to its canonical display
	// form. Longest key wins when several keys prefix the same input.
	Aliases map[string]string
	// LegalSuffixes are company-form and authority tokens stripped as
	// whole words, case-insensitive.
	LegalSuffixes []string
}

// DefaultConfig returns the built-in alias table and suffix list.
func DefaultConfig() Config {
	return Config{
		Aliases: map[string]string{
			"boehringer ingelheim rcv & co":      "Boehringer Ingelheim",
			"boehringer ingelheim rcv":           "Boehringer Ingelheim",
			"magistrat wien-mba f.d. 21. bezirk": "Magistrat Wien",
			"magistrat wien":                     "Magistrat Wien",
			"wiener linien gmbh & co":            "Wiener Linien",
			"magenta telekom":                    "Magenta Telekom",
			"magenta":                            "Magenta Telekom",
		},
		LegalSuffixes: []string{
			"gmbh", "kg", "kgaa", "ag", "se", "llc", "inc", "corp", "corporation",
			"ltd", "limited", "plc", "bv", "nv", "oy", "ab", "aps", "as",
			"co", "company", "rcv", "ohg", "gbr", "ev", "eg", "stg",
			"magistrat", "stadt",
		},
	}
}

// Normalizer canonicalizes entity names. Construct with New; the zero value
// is not usable.
type Normalizer struct {
	aliases   map[string]string
	aliasKeys []string
	suffixRe  *regexp.Regexp
}

// New builds a Normalizer from cfg. Alias keys are ordered longest-first so
// a short key never shadows a more specific one.
func New(cfg Config) *Normalizer {
	keys := make([]string, 0, len(cfg.Aliases))
	for k := range cfg.Aliases {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	escaped := make([]string, len(cfg.LegalSuffixes))
	for i, s := range cfg.LegalSuffixes {
		escaped[i] = regexp.QuoteMeta(s)
	}

	return &Normalizer{
		aliases:   cfg.Aliases,
		aliasKeys: keys,
		suffixRe:  regexp.MustCompile(`(?i)\b(` + strings.Join(escaped, "|") + `)\b`),
	}
}

var (
	punctRe      = regexp.MustCompile(`[.,]`)
	connectorRe  = regexp.MustCompile(`\s*&\s*|\s+(?i:and)\s+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	trailingRe   = regexp.MustCompile(`\s*[&+]\s*$`)
)

// Normalize turns a raw name into its canonical display form. Empty input
// and names that strip down to nothing yield Unknown.
func (n *Normalizer) Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Unknown
	}

	lower := strings.ToLower(raw)
	for _, key := range n.aliasKeys {
		if strings.HasPrefix(lower, key) {
			canonical := n.aliases[key]
			slog.Debug("Alias match", "raw", raw, "canonical", canonical)
			return canonical
		}
	}

	s := punctRe.ReplaceAllString(raw, " ")
	s = connectorRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	s = n.suffixRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	s = trailingRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	s = Title(s)

	if s == "" {
		return Unknown
	}
	return s
}

// Title lower-cases s and capitalizes each word.
func Title(s string) string {
	// cases.Caser carries internal state, so build one per call.
	return cases.Title(language.Und).String(strings.ToLower(s))
}
