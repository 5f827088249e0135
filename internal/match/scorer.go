// Package match scores name similarity for entity deduplication.
package match

import "strings"

// Scorer computes a symmetric similarity score between two names using the
// Jaccard index of their lower-cased whitespace token sets. Scores are
// deliberately conservative: "Magenta" vs "Magenta Telekom" overlaps on one
// of two tokens and scores 0.5, well below the usual 0.9 match threshold.
type Scorer struct{}

// NewScorer returns a token-set scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score returns a value in [0,1]. Either input empty yields 0.
func (s *Scorer) Score(a, b string) float64 {
	tokensA := tokenize(a)
	tokensB := tokenize(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	intersection := 0
	for tok := range tokensA {
		if _, ok := tokensB[tok]; ok {
			intersection++
		}
	}

	union := len(tokensA) + len(tokensB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func tokenize(s string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) == 0 {
		return nil
	}
	tokens := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		tokens[f] = struct{}{}
	}
	return tokens
}
