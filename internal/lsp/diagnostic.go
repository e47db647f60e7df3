package lsp

import (
	"fmt"
	"sort"
	"strings"

	"github.com/leapstack-labs/sqllens/internal/validate"
	"github.com/leapstack-labs/sqllens/pkg/dialect"
)

// DiagnosticSource names this server in published diagnostics.
const DiagnosticSource = "sqllens"

// publishDiagnostics validates the document and publishes its errors,
// unless a later edit superseded generation gen.
func (s *Server) publishDiagnostics(uri string, gen uint64) {
	doc := s.documents.Get(uri)
	if doc == nil {
		return
	}
	tag := s.dialect()

	errs := s.validator.Validate(s.ctx, doc.Content, tag)
	diagnostics := toDiagnostics(doc, errs, dialect.Lookup(tag))

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gens[uri] != gen {
		return
	}
	delete(s.timers, uri)
	s.sendNotification("textDocument/publishDiagnostics", &PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// toDiagnostics converts validation errors to LSP diagnostics.
func toDiagnostics(doc *Document, errs []validate.ValidationError, d *dialect.Dialect) []Diagnostic {
	diagnostics := make([]Diagnostic, 0, len(errs))
	for _, e := range errs {
		r := Range{
			Start: doc.ColumnToPosition(e.StartLine, e.StartColumn),
			End:   doc.ColumnToPosition(e.EndLine, e.EndColumn),
		}
		message := e.Message
		if word := wordAt(doc, r); word != "" {
			if hint := suggestKeyword(word, d); hint != "" {
				message = fmt.Sprintf("%s (did you mean %s?)", message, hint)
			}
		}
		diagnostics = append(diagnostics, Diagnostic{
			Range:    r,
			Severity: DiagnosticSeverityError,
			Code:     "syntax",
			Source:   DiagnosticSource,
			Message:  message,
		})
	}
	return diagnostics
}

// wordAt returns the text r covers when it is a single bare word.
func wordAt(doc *Document, r Range) string {
	from, to := doc.PositionToOffset(r.Start), doc.PositionToOffset(r.End)
	if from >= to {
		return ""
	}
	text := doc.Content[from:to]
	for i := range len(text) {
		if !isWordChar(text[i]) {
			return ""
		}
	}
	return text
}

// suggestKeyword returns the closest keyword to a misspelled word, or "".
func suggestKeyword(word string, d *dialect.Dialect) string {
	if len(word) < 4 || d.IsKeyword(word) {
		return ""
	}
	candidates := suggestSimilar(word, d.Keywords(), 1)
	if len(candidates) == 0 {
		return ""
	}
	sort.Strings(candidates)
	return candidates[0]
}

// suggestSimilar finds similar strings using Levenshtein distance.
func suggestSimilar(input string, candidates []string, maxDistance int) []string {
	inputLower := strings.ToLower(input)
	var suggestions []string

	for _, candidate := range candidates {
		dist := levenshtein(inputLower, strings.ToLower(candidate))
		if dist <= maxDistance && dist > 0 {
			suggestions = append(suggestions, candidate)
		}
	}

	return suggestions
}

// levenshtein calculates the Levenshtein distance between two strings.
func levenshtein(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(s2)]
}
