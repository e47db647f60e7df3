package lsp

import (
	"fmt"
	"sort"
	"strings"

	"github.com/leapstack-labs/sqllens/pkg/dialect"
)

// keywordPhrases complete multi-word constructs alongside single keywords.
var keywordPhrases = []string{
	"GROUP BY",
	"ORDER BY",
	"PARTITION BY",
	"LEFT JOIN",
	"RIGHT JOIN",
	"INNER JOIN",
	"FULL OUTER JOIN",
	"CROSS JOIN",
	"UNION ALL",
	"IS NULL",
	"IS NOT NULL",
	"INSERT INTO",
	"DELETE FROM",
}

// getCompletions returns keyword completions for the word being typed.
func (s *Server) getCompletions(params CompletionParams) []CompletionItem {
	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil {
		return nil
	}

	before := doc.GetTextBefore(params.Position)
	if inStringOrComment(before) {
		return []CompletionItem{}
	}
	prefix := extractPrefix(before)
	return keywordCompletions(dialect.Lookup(s.dialect()), prefix)
}

// keywordCompletions lists the dialect's keywords and phrases that start
// with prefix, case-insensitively. Lower-case prefixes insert lower-case
// text.
func keywordCompletions(d *dialect.Dialect, prefix string) []CompletionItem {
	upper := strings.ToUpper(prefix)
	lower := prefix != "" && prefix == strings.ToLower(prefix)

	labels := make([]string, 0, 64)
	for _, kw := range d.Keywords() {
		if strings.HasPrefix(kw, upper) {
			labels = append(labels, kw)
		}
	}
	for _, phrase := range keywordPhrases {
		if strings.HasPrefix(phrase, upper) {
			labels = append(labels, phrase)
		}
	}
	sort.Strings(labels)

	items := make([]CompletionItem, 0, len(labels))
	for _, label := range labels {
		item := CompletionItem{
			Label:  label,
			Kind:   CompletionItemKindKeyword,
			Detail: d.DisplayName + " keyword",
		}
		if doc, ok := keywordDocs[label]; ok {
			item.Documentation = doc
		}
		if lower {
			item.InsertText = strings.ToLower(label)
		}
		items = append(items, item)
	}
	return items
}

// extractPrefix returns the identifier characters immediately before the
// cursor.
func extractPrefix(before string) string {
	start := len(before)
	for start > 0 && isWordChar(before[start-1]) {
		start--
	}
	return before[start:]
}

// inStringOrComment reports whether the end of text sits inside a quoted
// string or a line comment. Only the current line is considered.
func inStringOrComment(text string) bool {
	line := text[strings.LastIndexByte(text, '\n')+1:]
	quoted := false
	for i := 0; i < len(line); i++ {
		switch {
		case line[i] == '\'':
			quoted = !quoted
		case !quoted && line[i] == '-' && i+1 < len(line) && line[i+1] == '-':
			return true
		}
	}
	return quoted
}

// getHover documents the keyword under the cursor.
func (s *Server) getHover(params HoverParams) *Hover {
	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil {
		return nil
	}

	word, r := doc.GetWordAtPosition(params.Position)
	if word == "" {
		return nil
	}

	d := dialect.Lookup(s.dialect())
	if !d.IsKeyword(word) {
		return nil
	}

	upper := strings.ToUpper(word)
	content := fmt.Sprintf("**%s** (%s keyword)", upper, d.DisplayName)
	if text, ok := keywordDocs[upper]; ok {
		content += "\n\n" + text
	}
	return &Hover{
		Contents: MarkupContent{
			Kind:  MarkupKindMarkdown,
			Value: content,
		},
		Range: &r,
	}
}
