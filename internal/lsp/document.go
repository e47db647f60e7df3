package lsp

import (
	"strings"
	"sync"
	"unicode/utf16"
	"unicode/utf8"
)

// Document represents an open text document in the editor.
type Document struct {
	URI     string // Document URI (file:///path/to/file.sql)
	Content string // Full document content
	Version int    // Version number, incremented on each change
	Lines   []int  // Byte offsets of line starts for fast position lookups
}

// DocumentStore manages open documents in memory.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]*Document
}

// NewDocumentStore creates a new document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]*Document),
	}
}

// Open adds or replaces a document.
func (s *DocumentStore) Open(uri string, content string, version int) *Document {
	doc := newDocument(uri, content, version)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[uri] = doc
	return doc
}

// Close removes a document from the store.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, uri)
}

// Get retrieves a document by URI. Documents are replaced, never mutated,
// so the result is safe to read after the lock is released.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.documents[uri]
}

// Update replaces an open document's content. Unknown URIs are ignored.
func (s *DocumentStore) Update(uri string, content string, version int) *Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[uri]; !ok {
		return nil
	}
	doc := newDocument(uri, content, version)
	s.documents[uri] = doc
	return doc
}

// List returns all open document URIs.
func (s *DocumentStore) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	uris := make([]string, 0, len(s.documents))
	for uri := range s.documents {
		uris = append(uris, uri)
	}
	return uris
}

func newDocument(uri, content string, version int) *Document {
	return &Document{
		URI:     uri,
		Content: content,
		Version: version,
		Lines:   computeLineOffsets(content),
	}
}

// computeLineOffsets calculates byte offsets for each line start.
func computeLineOffsets(content string) []int {
	offsets := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

// lineEnd returns the byte offset just past the line's last character,
// excluding the newline.
func (d *Document) lineEnd(line int) int {
	if line+1 < len(d.Lines) {
		return d.Lines[line+1] - 1
	}
	return len(d.Content)
}

// PositionToOffset converts an LSP position, whose character is counted in
// UTF-16 code units, to a byte offset.
func (d *Document) PositionToOffset(pos Position) int {
	if d == nil || len(d.Lines) == 0 {
		return 0
	}

	line := int(pos.Line)
	if line >= len(d.Lines) {
		return len(d.Content)
	}

	offset, end := d.Lines[line], d.lineEnd(line)
	for units := uint32(0); offset < end && units < pos.Character; {
		r, size := utf8.DecodeRuneInString(d.Content[offset:])
		units += uint32(utf16.RuneLen(r)) //nolint:gosec // G115: RuneLen is 1 or 2 for decoded runes
		offset += size
	}
	return offset
}

// OffsetToPosition converts a byte offset to an LSP position.
func (d *Document) OffsetToPosition(offset int) Position {
	if d == nil || len(d.Lines) == 0 {
		return Position{}
	}
	offset = min(max(offset, 0), len(d.Content))

	lo, hi := 0, len(d.Lines)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if d.Lines[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}

	return Position{
		Line:      uint32(lo), //nolint:gosec // G115: line index is non-negative
		Character: utf16Len(d.Content[d.Lines[lo]:offset]),
	}
}

// ColumnToPosition converts a 1-based line and 1-based byte column to an
// LSP position.
func (d *Document) ColumnToPosition(line, column int) Position {
	if d == nil || line < 1 || line > len(d.Lines) {
		return Position{}
	}
	start := d.Lines[line-1]
	return d.OffsetToPosition(min(start+max(column-1, 0), d.lineEnd(line-1)))
}

// FullRange spans the whole document.
func (d *Document) FullRange() Range {
	return Range{End: d.OffsetToPosition(len(d.Content))}
}

// GetTextBefore returns the text before the given position.
func (d *Document) GetTextBefore(pos Position) string {
	offset := d.PositionToOffset(pos)
	if offset <= 0 {
		return ""
	}
	return d.Content[:offset]
}

// GetLine returns the content of a specific line.
func (d *Document) GetLine(line int) string {
	if d == nil || line < 0 || line >= len(d.Lines) {
		return ""
	}
	return d.Content[d.Lines[line]:d.lineEnd(line)]
}

// GetWordAtPosition returns the word at the given position and its range.
func (d *Document) GetWordAtPosition(pos Position) (string, Range) {
	offset := d.PositionToOffset(pos)

	start := offset
	for start > 0 && isWordChar(d.Content[start-1]) {
		start--
	}
	end := offset
	for end < len(d.Content) && isWordChar(d.Content[end]) {
		end++
	}

	if start == end {
		return "", Range{Start: pos, End: pos}
	}
	return d.Content[start:end], Range{
		Start: d.OffsetToPosition(start),
		End:   d.OffsetToPosition(end),
	}
}

// isWordChar returns true if the character is part of a word.
func isWordChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '_'
}

func utf16Len(s string) uint32 {
	var n uint32
	for _, r := range s {
		n += uint32(utf16.RuneLen(r)) //nolint:gosec // G115: RuneLen is 1 or 2 for decoded runes
	}
	return n
}

// URIToPath converts a file:// URI to a file system path.
func URIToPath(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}

// PathToURI converts a file system path to a file:// URI.
func PathToURI(path string) string {
	if strings.HasPrefix(path, "file://") {
		return path
	}
	return "file://" + path
}
