package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqllens/pkg/dialect"
	"github.com/leapstack-labs/sqllens/pkg/fold"
	"github.com/leapstack-labs/sqllens/pkg/parser"
)

func TestItoa(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{7, "7"},
		{120, "120"},
		{-42, "-42"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Itoa(tt.in))
	}
}

func TestClassNames(t *testing.T) {
	assert.Equal(t, "line changed", ClassNames("line", "", "changed"))
	assert.Empty(t, ClassNames("", ""))
}

func TestDialectOptions(t *testing.T) {
	opts := DialectOptions(dialect.MySQL)
	require.Len(t, opts, len(dialect.Names()))

	var selected []string
	for _, o := range opts {
		if o.Selected {
			selected = append(selected, o.Value)
		}
	}
	assert.Equal(t, []string{"mysql"}, selected)
}

func TestFoldMarkers(t *testing.T) {
	doc := "SELECT a,\n  (b +\n   c) AS x\nFROM t"
	tree, errs := parser.ParseAll(doc, dialect.Lookup(dialect.Standard))
	require.Empty(t, errs)

	markers := FoldMarkers(doc, fold.All(tree, doc))
	assert.Equal(t, []FoldMarker{
		{Line: 1, EndLine: 4, Range: fold.Range{From: 9, To: len(doc)}},
		{Line: 2, EndLine: 3, Range: fold.Range{From: 13, To: 21}},
	}, markers)
	assert.Equal(t, map[int]int{1: 4, 2: 3}, FoldEnds(markers))

	assert.Nil(t, FoldMarkers("", nil))
}
