package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/leapstack-labs/sqllens/pkg/dialect"
	"github.com/leapstack-labs/sqllens/pkg/token"
)

// Lexer tokenizes SQL input for one dialect.
type Lexer struct {
	input     string
	pos       int // current position in input
	line      int // current line number (1-based)
	lineStart int // offset of the first byte of the current line

	dialect *dialect.Dialect

	// KeepComments makes NextToken return COMMENT tokens instead of
	// collecting them into Comments.
	KeepComments bool

	// Comments collected during lexing
	Comments []*token.Comment
}

// NewLexer creates a Lexer for input. A nil dialect means Standard.
func NewLexer(input string, d *dialect.Dialect) *Lexer {
	if d == nil {
		d = dialect.Lookup(dialect.Standard)
	}
	return &Lexer{input: input, line: 1, dialect: d}
}

// ch returns the byte at pos+n, or 0 outside the input.
func (l *Lexer) ch(n int) byte {
	i := l.pos + n
	if i < 0 || i >= len(l.input) {
		return 0
	}
	return l.input[i]
}

func (l *Lexer) eof() bool {
	return l.pos >= len(l.input)
}

// advance moves forward n bytes, tracking line starts.
func (l *Lexer) advance(n int) {
	for i := 0; i < n && l.pos < len(l.input); i++ {
		if l.input[l.pos] == '\n' {
			l.line++
			l.lineStart = l.pos + 1
		}
		l.pos++
	}
}

func (l *Lexer) currentPos() token.Position {
	return token.Position{Line: l.line, Column: l.pos - l.lineStart + 1, Offset: l.pos}
}

// NextToken returns the next token. At end of input it returns EOF forever.
func (l *Lexer) NextToken() token.Token {
	if tok, ok := l.skipWhitespaceAndComments(); ok {
		return tok
	}

	start := l.currentPos()
	tok := l.scan()
	tok.Pos = start
	tok.Literal = l.input[start.Offset:l.pos]
	tok.End = l.currentPos()
	return tok
}

// scan consumes one token and sets its type. Literal and positions are
// filled in by NextToken.
func (l *Lexer) scan() token.Token {
	c := l.ch(0)
	d := l.dialect

	switch {
	case l.eof():
		return token.Token{Type: token.EOF}
	case c == '\'':
		return l.readQuoted('\'', token.STRING)
	case c == '"':
		if d.DoubleQuoteIdent {
			return l.readQuoted('"', token.QIDENT)
		}
		return l.readQuoted('"', token.STRING)
	case c == '`':
		if d.BacktickIdents {
			return l.readQuoted('`', token.QIDENT)
		}
	case c == '$' && d.DollarParams:
		if isDigit(l.ch(1)) {
			l.advance(1)
			l.readDigits()
			return token.Token{Type: token.PARAM}
		}
		if tag, ok := l.dollarTag(); ok {
			return l.readDollarQuoted(tag)
		}
	case isDigit(c) || (c == '.' && isDigit(l.ch(1))):
		l.readNumber()
		return token.Token{Type: token.NUMBER}
	case c == '?':
		l.advance(1)
		return token.Token{Type: token.PARAM}
	case c == '@' && isIdentStart(l.ch(1)),
		c == ':' && isIdentStart(l.ch(1)) && l.ch(-1) != ':':
		// A colon right after another colon is half of a cast, not a named parameter.
		l.advance(1)
		l.readIdentifier()
		return token.Token{Type: token.PARAM}
	case isIdentStart(c) || c >= utf8.RuneSelf:
		if word := l.readIdentifier(); word != "" {
			return token.Token{Type: l.lookup(word)}
		}
	}

	if t, n := l.operator(); n > 0 {
		l.advance(n)
		return token.Token{Type: t}
	}

	_, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.advance(size)
	return token.Token{Type: token.ILLEGAL}
}

// lookup classifies a word. Keywords tied to a grammar feature are plain
// identifiers in dialects without that feature.
func (l *Lexer) lookup(word string) token.TokenType {
	t := token.LookupIdent(strings.ToLower(word))
	d := l.dialect
	switch t {
	case token.ILIKE:
		if !d.Ilike {
			return token.IDENT
		}
	case token.RLIKE, token.REGEXP:
		if !d.Rlike {
			return token.IDENT
		}
	case token.QUALIFY:
		if !d.QualifyClause {
			return token.IDENT
		}
	case token.RETURNING:
		if !d.Returning {
			return token.IDENT
		}
	}
	return t
}

// operator matches the longest operator at the current position.
func (l *Lexer) operator() (token.TokenType, int) {
	c, n := l.ch(0), l.ch(1)
	switch c {
	case '+':
		return token.PLUS, 1
	case '-':
		if n == '>' {
			if l.ch(2) == '>' {
				return token.DARROW, 3
			}
			return token.ARROW, 2
		}
		return token.MINUS, 1
	case '*':
		return token.STAR, 1
	case '/':
		return token.SLASH, 1
	case '%':
		return token.PERCENT, 1
	case '=':
		if n == '=' {
			return token.EQ, 2
		}
		return token.EQ, 1
	case '<':
		switch n {
		case '=':
			if l.ch(2) == '>' {
				return token.NULLSAFE, 3
			}
			return token.LE, 2
		case '>':
			return token.NE, 2
		}
		return token.LT, 1
	case '>':
		if n == '=' {
			return token.GE, 2
		}
		return token.GT, 1
	case '!':
		if n == '=' {
			return token.NE, 2
		}
	case '|':
		if n == '|' {
			return token.DPIPE, 2
		}
		return token.PIPE, 1
	case '&':
		return token.AMP, 1
	case '^':
		return token.CARET, 1
	case '~':
		return token.TILDE, 1
	case '.':
		return token.DOT, 1
	case ',':
		return token.COMMA, 1
	case ';':
		return token.SEMICOLON, 1
	case '(':
		return token.LPAREN, 1
	case ')':
		return token.RPAREN, 1
	case '[':
		return token.LBRACKET, 1
	case ']':
		return token.RBRACKET, 1
	case ':':
		if n == ':' && l.dialect.CastOperator {
			return token.DCOLON, 2
		}
		return token.COLON, 1
	}
	return token.ILLEGAL, 0
}

// skipWhitespaceAndComments skips whitespace and collects comments. When
// KeepComments is set the first comment found is returned as a token.
func (l *Lexer) skipWhitespaceAndComments() (token.Token, bool) {
	for !l.eof() {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if unicode.IsSpace(r) {
			l.advance(size)
			continue
		}

		var kind token.CommentKind
		switch {
		case r == '-' && l.ch(1) == '-':
			kind = token.LineComment
		case r == '#' && l.dialect.HashComments:
			kind = token.HashComment
		case r == '/' && l.ch(1) == '*':
			kind = token.BlockComment
		default:
			return token.Token{}, false
		}

		start := l.currentPos()
		if kind == token.BlockComment {
			end := strings.Index(l.input[l.pos+2:], "*/")
			if end < 0 {
				// Unterminated comments surface as an ILLEGAL token.
				l.advance(len(l.input) - l.pos)
				return token.Token{Type: token.ILLEGAL, Literal: l.input[start.Offset:], Pos: start, End: l.currentPos()}, true
			}
			l.advance(end + 4)
		} else {
			for !l.eof() && l.ch(0) != '\n' && l.ch(0) != '\r' {
				l.advance(1)
			}
		}

		c := &token.Comment{
			Kind: kind,
			Text: l.input[start.Offset:l.pos],
			Span: token.Span{Start: start, End: l.currentPos()},
		}
		if l.KeepComments {
			return token.Token{Type: token.COMMENT, Literal: c.Text, Pos: start, End: c.Span.End}, true
		}
		l.Comments = append(l.Comments, c)
	}
	return token.Token{}, false
}

// readQuoted reads a quoted literal or identifier. A doubled quote is an
// escape; MySQL-style dialects also accept backslash escapes in strings.
// An unterminated literal becomes ILLEGAL.
func (l *Lexer) readQuoted(quote byte, t token.TokenType) token.Token {
	backslash := t == token.STRING && l.dialect.BacktickIdents
	l.advance(1)
	for !l.eof() {
		c := l.ch(0)
		switch {
		case backslash && c == '\\':
			l.advance(2)
		case c == quote && l.ch(1) == quote:
			l.advance(2)
		case c == quote:
			l.advance(1)
			return token.Token{Type: t}
		default:
			l.advance(1)
		}
	}
	return token.Token{Type: token.ILLEGAL}
}

// dollarTag recognizes the opening delimiter of a dollar-quoted string.
func (l *Lexer) dollarTag() (string, bool) {
	rest := l.input[l.pos+1:]
	end := strings.IndexByte(rest, '$')
	if end < 0 {
		return "", false
	}
	for i := 0; i < end; i++ {
		if !isIdentPart(rest[i]) {
			return "", false
		}
	}
	return l.input[l.pos : l.pos+end+2], true
}

func (l *Lexer) readDollarQuoted(tag string) token.Token {
	l.advance(len(tag))
	end := strings.Index(l.input[l.pos:], tag)
	if end < 0 {
		l.advance(len(l.input) - l.pos)
		return token.Token{Type: token.ILLEGAL}
	}
	l.advance(end + len(tag))
	return token.Token{Type: token.STRING}
}

// readIdentifier reads an unquoted identifier, including non-ASCII letters.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for !l.eof() {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if r == '_' || r == '$' && l.pos > start || unicode.IsLetter(r) || unicode.IsDigit(r) && l.pos > start {
			l.advance(size)
			continue
		}
		break
	}
	return l.input[start:l.pos]
}

func (l *Lexer) readDigits() {
	for isDigit(l.ch(0)) {
		l.advance(1)
	}
}

// readNumber reads a numeric literal (integer, decimal, or scientific).
func (l *Lexer) readNumber() {
	if l.ch(0) == '0' && (l.ch(1) == 'x' || l.ch(1) == 'X') && isHex(l.ch(2)) {
		l.advance(2)
		for isHex(l.ch(0)) {
			l.advance(1)
		}
		return
	}
	l.readDigits()
	if l.ch(0) == '.' && l.ch(1) != '.' {
		l.advance(1)
		l.readDigits()
	}
	if c := l.ch(0); c == 'e' || c == 'E' {
		n := 1
		if s := l.ch(1); s == '+' || s == '-' {
			n = 2
		}
		if isDigit(l.ch(n)) {
			l.advance(n)
			l.readDigits()
		}
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHex(ch byte) bool {
	return isDigit(ch) || (ch|0x20 >= 'a' && ch|0x20 <= 'f')
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch|0x20 >= 'a' && ch|0x20 <= 'z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

// Tokenize returns all tokens of input, excluding comments, ending with EOF.
func Tokenize(input string, d *dialect.Dialect) []token.Token {
	l := NewLexer(input, d)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens
		}
	}
}
