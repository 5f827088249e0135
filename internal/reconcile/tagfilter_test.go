package reconcile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagFilter_Keep(t *testing.T) {
	filter, err := NewTagFilter(DefaultConfig())
	require.NoError(t, err)

	tests := []struct {
		name          string
		tag           string
		docType       string
		correspondent string
		want          bool
		reason        string
	}{
		{
			name: "plain tag kept",
			tag:  "insurance",
			want: true,
		},
		{
			name:   "generic tag rejected",
			tag:    "pdf",
			want:   false,
			reason: "generic tag",
		},
		{
			name:   "generic tag rejected case-insensitive",
			tag:    "Scanned",
			want:   false,
			reason: "generic tag",
		},
		{
			name:   "too short",
			tag:    "a",
			want:   false,
			reason: "length 1 outside [2,50]",
		},
		{
			name:   "too long",
			tag:    strings.Repeat("x", 51),
			want:   false,
			reason: "length 51 outside [2,50]",
		},
		{
			name:    "redundant with document type",
			tag:     "invoice",
			docType: "Invoice",
			want:    false,
			reason:  "redundant with document type",
		},
		{
			name:          "redundant with correspondent",
			tag:           "magenta",
			correspondent: "Magenta Telekom",
			want:          false,
			reason:        "redundant with correspondent",
		},
		{
			name:    "tag containing the document type rejected",
			tag:     "tax invoice",
			docType: "Invoice",
			want:    false,
			reason:  "redundant with document type",
		},
		{
			name:          "tag containing the correspondent rejected",
			tag:           "magenta telekom bill",
			correspondent: "Magenta Telekom",
			want:          false,
			reason:        "redundant with correspondent",
		},
		{
			name:    "not contained in document type",
			tag:     "reminder",
			docType: "Invoice",
			want:    true,
		},
		{
			name: "multibyte length counts runes not bytes",
			tag:  strings.Repeat("ü", 30),
			want: true,
		},
		{
			name:   "multibyte tag over the cap",
			tag:    strings.Repeat("ü", 51),
			want:   false,
			reason: "length 51 outside [2,50]",
		},
		{
			name: "surrounding whitespace trimmed before checks",
			tag:  "  utilities  ",
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keep, reason := filter.Keep(tt.tag, tt.docType, tt.correspondent)
			assert.Equal(t, tt.want, keep)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestTagFilter_Color(t *testing.T) {
	filter, err := NewTagFilter(DefaultConfig())
	require.NoError(t, err)

	tests := []struct {
		name string
		tag  string
		want string
	}{
		{name: "urgent rule", tag: "Mahnung", want: "#e74c3c"},
		{name: "invoice rule", tag: "invoice 2024", want: "#e67e22"},
		{name: "first match wins", tag: "urgent invoice", want: "#e74c3c"},
		{name: "insurance rule", tag: "Versicherung", want: "#2980b9"},
		{name: "default gray", tag: "household", want: "#a6a6a6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, filter.Color(tt.tag))
		})
	}
}

func TestNewTagFilter_InvalidPattern(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TagColorRules = []ColorRule{{Pattern: `([`, Color: "#ffffff"}}

	_, err := NewTagFilter(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tag color rule")
}
