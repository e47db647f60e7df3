package format

import "github.com/leapstack-labs/sqllens/pkg/token"

// callKeywords are keywords written directly before their argument list.
var callKeywords = map[token.TokenType]bool{
	token.CAST:    true,
	token.LEFT:    true,
	token.RIGHT:   true,
	token.REPLACE: true,
	token.IF:      true,
	token.FIRST:   true,
	token.LAST:    true,
}

// needsSpace reports whether a space separates the previous token from
// token i on the same line.
func (f *formatter) needsSpace(i int) bool {
	prev, cur := f.prev, f.toks[i]

	switch cur.Type {
	case token.RPAREN, token.RBRACKET, token.COMMA, token.SEMICOLON, token.DOT, token.DCOLON:
		return false
	}
	switch prev.Type {
	case token.LPAREN, token.LBRACKET, token.DOT, token.DCOLON:
		return false
	case token.PLUS, token.MINUS, token.TILDE:
		if f.unary {
			return false
		}
	}

	switch cur.Type {
	case token.LPAREN:
		switch {
		case prev.Type == token.IDENT || prev.Type == token.QIDENT:
			s := f.top()
			return s.kind.query() && (s.lead == token.CREATE || s.lead == token.INSERT) &&
				(s.clause == clauseNone || s.clause == clauseInsert)
		case callKeywords[prev.Type]:
			return false
		}
	case token.LBRACKET:
		switch prev.Type {
		case token.IDENT, token.QIDENT, token.RPAREN, token.RBRACKET:
			return false
		}
	}
	return true
}

// isUnary reports whether a sign written after prev is a unary operator.
func isUnary(prev token.Token, hasPrev bool) bool {
	if !hasPrev {
		return true
	}
	switch prev.Type {
	case token.RPAREN, token.RBRACKET:
		return false
	case token.LPAREN, token.LBRACKET, token.COMMA, token.EOF:
		return true
	case token.END, token.NULL, token.TRUE, token.FALSE:
		return false
	}
	return prev.Type.IsOperator() || prev.Type.IsReserved()
}
