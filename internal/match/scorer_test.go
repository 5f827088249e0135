package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScorer_Score(t *testing.T) {
	s := NewScorer()

	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{name: "identical", a: "Magenta Telekom", b: "Magenta Telekom", want: 1.0},
		{name: "identical ignoring case", a: "ACME Corp", b: "acme corp", want: 1.0},
		{name: "partial token overlap", a: "Magenta Telekom", b: "Magenta", want: 0.5},
		{name: "no overlap", a: "Amazon", b: "Helvetia", want: 0.0},
		{name: "empty left", a: "", b: "Amazon", want: 0.0},
		{name: "empty right", a: "Amazon", b: "", want: 0.0},
		{name: "both empty", a: "", b: "", want: 0.0},
		{name: "whitespace only", a: "   ", b: "Amazon", want: 0.0},
		{name: "duplicate tokens count once", a: "Acme Acme", b: "Acme", want: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, s.Score(tt.a, tt.b), 1e-9)
		})
	}
}

// The 0.9 correspondent threshold operates on token sets, not substrings:
// a one-token subset of a two-token name must stay far below it.
func TestScorer_SubstringDoesNotMatch(t *testing.T) {
	s := NewScorer()
	assert.False(t, s.Score("Magenta Telekom", "Magenta") > 0.9)
}

func TestScorer_Symmetric(t *testing.T) {
	s := NewScorer()

	pairs := [][2]string{
		{"Magenta Telekom", "Magenta"},
		{"Acme Corp", "Acme Inc"},
		{"", "Amazon"},
		{"Wiener Linien", "wiener linien gmbh"},
	}

	for _, p := range pairs {
		assert.Equal(t, s.Score(p[0], p[1]), s.Score(p[1], p[0]), "score(%q,%q)", p[0], p[1])
	}
}
