package lsp

import (
	"sort"

	"github.com/leapstack-labs/sqllens/pkg/dialect"
	"github.com/leapstack-labs/sqllens/pkg/fold"
	"github.com/leapstack-labs/sqllens/pkg/parser"
	"github.com/leapstack-labs/sqllens/pkg/token"
)

// getFoldingRanges returns the region folds the web UI offers plus one fold
// per multi-line block comment, in start line order.
func (s *Server) getFoldingRanges(params FoldingRangeParams) []FoldingRange {
	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil || doc.Content == "" {
		return []FoldingRange{}
	}
	return foldingRanges(doc.Content, dialect.Lookup(s.dialect()))
}

func foldingRanges(content string, d *dialect.Dialect) []FoldingRange {
	ranges := []FoldingRange{}

	lexer := parser.NewLexer(content, d)
	lexer.KeepComments = true
	for {
		tok := lexer.NextToken()
		if tok.Type == token.EOF {
			break
		}
		if tok.Type == token.COMMENT && tok.End.Line > tok.Pos.Line {
			ranges = append(ranges, FoldingRange{
				StartLine: uint32(tok.Pos.Line - 1), //nolint:gosec // G115: lines are 1-based
				EndLine:   uint32(tok.End.Line - 1), //nolint:gosec // G115: lines are 1-based
				Kind:      FoldingRangeKindComment,
			})
		}
	}

	tree, _ := parser.ParseAll(content, d)
	lines := fold.Lines(content)
	for _, f := range fold.All(tree, content) {
		end := f.EndLine(lines)
		if end <= f.Line {
			continue
		}
		ranges = append(ranges, FoldingRange{
			StartLine: uint32(f.Line - 1), //nolint:gosec // G115: lines are 1-based
			EndLine:   uint32(end - 1),    //nolint:gosec // G115: lines are 1-based
			Kind:      FoldingRangeKindRegion,
		})
	}

	sort.SliceStable(ranges, func(i, j int) bool {
		return ranges[i].StartLine < ranges[j].StartLine
	})
	return ranges
}
