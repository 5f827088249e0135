package reconcile

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// TagFilter decides which AI-suggested tags are worth keeping and what color
// a newly created tag receives.
type TagFilter struct {
	generic  map[string]bool
	rules    []colorRule
	fallback string
	minLen   int
	maxLen   int
}

type colorRule struct {
	re    *regexp.Regexp
	color string
}

// NewTagFilter compiles the color rules from cfg. Invalid patterns are
// rejected up front rather than at first use.
func NewTagFilter(cfg Config) (*TagFilter, error) {
	generic := make(map[string]bool, len(cfg.GenericTags))
	for _, t := range cfg.GenericTags {
		generic[strings.ToLower(t)] = true
	}

	rules := make([]colorRule, 0, len(cfg.TagColorRules))
	for _, r := range cfg.TagColorRules {
		re, err := regexp.Compile(`(?i)` + r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compiling tag color rule %q: %w", r.Pattern, err)
		}
		rules = append(rules, colorRule{re: re, color: r.Color})
	}

	return &TagFilter{
		generic:  generic,
		rules:    rules,
		fallback: cfg.DefaultTagColor,
		minLen:   cfg.MinTagLen,
		maxLen:   cfg.MaxTagLen,
	}, nil
}

// Keep reports whether the raw tag survives filtering against the resolved
// document type and correspondent names. The second return value names the
// rejection reason when it does not.
func (f *TagFilter) Keep(raw, docType, correspondent string) (bool, string) {
	tag := strings.TrimSpace(raw)
	if n := utf8.RuneCountInString(tag); n < f.minLen || n > f.maxLen {
		return false, fmt.Sprintf("length %d outside [%d,%d]", n, f.minLen, f.maxLen)
	}

	lower := strings.ToLower(tag)
	if f.generic[lower] {
		return false, "generic tag"
	}
	if docType != "" && containsEither(lower, strings.ToLower(docType)) {
		return false, "redundant with document type"
	}
	if correspondent != "" && containsEither(lower, strings.ToLower(correspondent)) {
		return false, "redundant with correspondent"
	}
	return true, ""
}

// containsEither reports whether either string contains the other. A tag is
// redundant both when the entity name subsumes it and when it subsumes the
// entity name.
func containsEither(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// Color picks the color for a new tag. Rules apply in order; the first
// pattern matching the tag name wins.
func (f *TagFilter) Color(name string) string {
	for _, r := range f.rules {
		if r.re.MatchString(name) {
			return r.color
		}
	}
	return f.fallback
}
