package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqllens/internal/validate"
	"github.com/leapstack-labs/sqllens/pkg/dialect"
)

func TestToDiagnostics(t *testing.T) {
	doc := newDocument(testURI, "SELCT a\nFROM 'é' bad", 1)
	errs := []validate.ValidationError{
		{StartLine: 1, StartColumn: 1, EndLine: 1, EndColumn: 6, Message: "unexpected SELCT"},
		{StartLine: 2, StartColumn: 11, EndLine: 2, EndColumn: 14, Message: "unexpected bad"},
	}

	diags := toDiagnostics(doc, errs, dialect.Lookup(dialect.Standard))
	require.Len(t, diags, 2)

	assert.Equal(t, "unexpected SELCT (did you mean SELECT?)", diags[0].Message)
	assert.Equal(t, Range{End: Position{Character: 5}}, diags[0].Range)

	// The two-byte é is one UTF-16 unit.
	assert.Equal(t, Range{Start: Position{Line: 1, Character: 9}, End: Position{Line: 1, Character: 12}}, diags[1].Range)
	assert.Equal(t, "unexpected bad", diags[1].Message)
	assert.Equal(t, "syntax", diags[1].Code)
}

func TestToDiagnostics_Empty(t *testing.T) {
	diags := toDiagnostics(newDocument(testURI, "SELECT 1", 1), nil, dialect.Lookup(dialect.Standard))
	assert.NotNil(t, diags, "an empty list clears client diagnostics")
	assert.Empty(t, diags)
}

func TestSuggestKeyword(t *testing.T) {
	d := dialect.Lookup(dialect.Standard)

	tests := []struct {
		word string
		want string
	}{
		{"SELCT", "SELECT"},
		{"wehre", ""},
		{"WHERRE", "WHERE"},
		{"WHER", "WHEN"},
		{"FROM", ""},
		{"abc", ""},
		{"customers", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, suggestKeyword(tt.word, d), tt.word)
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"select", "select", 0},
		{"selct", "select", 1},
		{"kitten", "sitting", 3},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, levenshtein(tt.a, tt.b), "%s/%s", tt.a, tt.b)
	}
}
