package parser

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqllens/pkg/dialect"
	"github.com/leapstack-labs/sqllens/pkg/token"
)

// ParseError represents a parsing error with position information.
// EndPos is exclusive.
type ParseError struct {
	Pos     token.Position
	EndPos  token.Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Common error messages
const (
	ErrUnexpectedToken     = "unexpected %s, expected %s"
	ErrUnterminatedString  = "unterminated string literal"
	ErrUnterminatedIdent   = "unterminated quoted identifier"
	ErrUnterminatedComment = "unterminated block comment"
	ErrUnclosedParen       = "unclosed parenthesis"
	ErrUnmatchedParen      = "unmatched closing parenthesis"
	ErrUnclosedBlock       = "%s without matching END"

	// Dialect-specific error messages
	ErrUnsupportedClause = "%s is not supported in %s"
)

// illegalMessage explains an ILLEGAL token.
func illegalMessage(tok token.Token, d *dialect.Dialect) string {
	lit := tok.Literal
	switch {
	case strings.HasPrefix(lit, "/*"):
		return ErrUnterminatedComment
	case strings.HasPrefix(lit, "'"), strings.HasPrefix(lit, "$") && len(lit) > 1:
		return ErrUnterminatedString
	case strings.HasPrefix(lit, `"`):
		if d.DoubleQuoteIdent {
			return ErrUnterminatedIdent
		}
		return ErrUnterminatedString
	case strings.HasPrefix(lit, "`") && d.BacktickIdents:
		return ErrUnterminatedIdent
	}
	return tok.Describe()
}
