package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentStore_OpenGetClose(t *testing.T) {
	store := NewDocumentStore()
	uri := "file:///test/query.sql"

	store.Open(uri, "SELECT * FROM users", 1)
	doc := store.Get(uri)
	require.NotNil(t, doc)
	assert.Equal(t, uri, doc.URI)
	assert.Equal(t, "SELECT * FROM users", doc.Content)
	assert.Equal(t, 1, doc.Version)

	store.Close(uri)
	assert.Nil(t, store.Get(uri))
}

func TestDocumentStore_Update(t *testing.T) {
	store := NewDocumentStore()
	uri := "file:///test/query.sql"
	store.Open(uri, "SELECT 1", 1)
	before := store.Get(uri)

	updated := store.Update(uri, "SELECT 2\nFROM t", 2)
	require.NotNil(t, updated)
	assert.Equal(t, "SELECT 2\nFROM t", store.Get(uri).Content)
	assert.Equal(t, 2, store.Get(uri).Version)
	assert.Equal(t, "SELECT 1", before.Content, "earlier readers keep their version")

	assert.Nil(t, store.Update("file:///missing.sql", "x", 1))
}

func TestDocumentStore_List(t *testing.T) {
	store := NewDocumentStore()
	store.Open("file:///a.sql", "SELECT a", 1)
	store.Open("file:///b.sql", "SELECT b", 1)
	store.Open("file:///c.sql", "SELECT c", 1)

	assert.ElementsMatch(t, []string{"file:///a.sql", "file:///b.sql", "file:///c.sql"}, store.List())
}

func TestComputeLineOffsets(t *testing.T) {
	tests := []struct {
		content  string
		expected []int
	}{
		{"", []int{0}},
		{"abc", []int{0}},
		{"a\nb", []int{0, 2}},
		{"\n\n\n", []int{0, 1, 2, 3}},
		{"line1\nline2\nline3", []int{0, 6, 12}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, computeLineOffsets(tt.content), "content %q", tt.content)
	}
}

func TestDocument_PositionToOffset(t *testing.T) {
	content := "line0\nline1\nline2"
	doc := newDocument("", content, 0)

	tests := []struct {
		pos      Position
		expected int
	}{
		{Position{Line: 0, Character: 0}, 0},
		{Position{Line: 0, Character: 3}, 3},
		{Position{Line: 1, Character: 0}, 6},
		{Position{Line: 1, Character: 4}, 10},
		{Position{Line: 2, Character: 5}, 17},
		{Position{Line: 100, Character: 0}, len(content)},
		{Position{Line: 0, Character: 100}, 5},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, doc.PositionToOffset(tt.pos), "position %v", tt.pos)
	}
}

func TestDocument_UTF16(t *testing.T) {
	// "é" is two bytes and one UTF-16 unit; "😀" is four bytes and two units.
	doc := newDocument("", "SELECT 'é😀', x\nFROM t", 0)

	tests := []struct {
		offset int
		pos    Position
	}{
		{8, Position{Line: 0, Character: 8}},
		{10, Position{Line: 0, Character: 9}},
		{14, Position{Line: 0, Character: 11}},
		{17, Position{Line: 0, Character: 14}},
		{18, Position{Line: 0, Character: 15}},
		{19, Position{Line: 1, Character: 0}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.pos, doc.OffsetToPosition(tt.offset), "offset %d", tt.offset)
		assert.Equal(t, tt.offset, doc.PositionToOffset(tt.pos), "position %v", tt.pos)
	}
}

func TestDocument_OffsetToPosition(t *testing.T) {
	doc := newDocument("", "line0\nline1\nline2", 0)

	tests := []struct {
		offset   int
		expected Position
	}{
		{0, Position{Line: 0, Character: 0}},
		{5, Position{Line: 0, Character: 5}},
		{6, Position{Line: 1, Character: 0}},
		{17, Position{Line: 2, Character: 5}},
		{-1, Position{Line: 0, Character: 0}},
		{100, Position{Line: 2, Character: 5}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, doc.OffsetToPosition(tt.offset), "offset %d", tt.offset)
	}
}

func TestDocument_ColumnToPosition(t *testing.T) {
	doc := newDocument("", "SELECT a\nFROM", 0)

	assert.Equal(t, Position{Line: 1, Character: 4}, doc.ColumnToPosition(2, 5))
	assert.Equal(t, Position{Line: 0, Character: 0}, doc.ColumnToPosition(1, 1))
	assert.Equal(t, Position{Line: 0, Character: 8}, doc.ColumnToPosition(1, 50), "clamped to the line end")
	assert.Equal(t, Position{}, doc.ColumnToPosition(9, 1))
}

func TestDocument_FullRange(t *testing.T) {
	doc := newDocument("", "SELECT a\nFROM t", 0)
	assert.Equal(t, Range{End: Position{Line: 1, Character: 6}}, doc.FullRange())
}

func TestDocument_GetLine(t *testing.T) {
	doc := newDocument("", "line0\nline1\nline2", 0)

	tests := []struct {
		line     int
		expected string
	}{
		{0, "line0"},
		{2, "line2"},
		{-1, ""},
		{100, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, doc.GetLine(tt.line))
	}
}

func TestDocument_GetWordAtPosition(t *testing.T) {
	doc := newDocument("", "SELECT id, name FROM users WHERE active", 0)

	tests := []struct {
		pos          Position
		expectedWord string
	}{
		{Position{Line: 0, Character: 0}, "SELECT"},
		{Position{Line: 0, Character: 3}, "SELECT"},
		{Position{Line: 0, Character: 6}, "SELECT"},
		{Position{Line: 0, Character: 7}, "id"},
		{Position{Line: 0, Character: 21}, "users"},
		{Position{Line: 0, Character: 39}, "active"},
	}

	for _, tt := range tests {
		word, _ := doc.GetWordAtPosition(tt.pos)
		assert.Equal(t, tt.expectedWord, word, "position %v", tt.pos)
	}

	_, r := doc.GetWordAtPosition(Position{Line: 0, Character: 12})
	assert.Equal(t, Range{Start: Position{Character: 11}, End: Position{Character: 15}}, r)
}

func TestDocument_GetTextBefore(t *testing.T) {
	doc := newDocument("", "SELECT * FROM users", 0)

	assert.Empty(t, doc.GetTextBefore(Position{}))
	assert.Equal(t, "SELECT", doc.GetTextBefore(Position{Character: 6}))
	assert.Equal(t, "SELECT * ", doc.GetTextBefore(Position{Character: 9}))
}

func TestURIToPath(t *testing.T) {
	assert.Equal(t, "/home/user/file.sql", URIToPath("file:///home/user/file.sql"))
	assert.Equal(t, "/already/a/path.sql", URIToPath("/already/a/path.sql"))
}

func TestPathToURI(t *testing.T) {
	assert.Equal(t, "file:///home/user/file.sql", PathToURI("/home/user/file.sql"))
	assert.Equal(t, "file:///already/uri.sql", PathToURI("file:///already/uri.sql"))
}

func TestIsWordChar(t *testing.T) {
	for _, c := range "azAZ09_" {
		assert.True(t, isWordChar(byte(c)), "%q", c)
	}
	for _, c := range " \t\n.,()'\"*" {
		assert.False(t, isWordChar(byte(c)), "%q", c)
	}
}
