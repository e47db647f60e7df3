package lsp

import (
	"github.com/leapstack-labs/sqllens/pkg/format"
)

// getFormattingEdits replaces the whole document with its formatted text.
// It returns no edits when the document is already formatted or cannot be
// formatted.
func (s *Server) getFormattingEdits(params DocumentFormattingParams) []TextEdit {
	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil {
		return []TextEdit{}
	}

	opts := s.format
	opts.Dialect = s.dialect()
	if params.Options.InsertSpaces && params.Options.TabSize > 0 {
		opts.IndentWidth = int(params.Options.TabSize)
	}

	formatted, err := format.Format(doc.Content, opts)
	if err != nil {
		s.logger.Debug("Formatting skipped", "uri", doc.URI, "error", err)
		return []TextEdit{}
	}
	if formatted == doc.Content {
		return []TextEdit{}
	}
	return []TextEdit{{Range: doc.FullRange(), NewText: formatted}}
}
