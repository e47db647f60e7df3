// Package highlight splits SQL text into display tokens for syntax colouring.
//
// The scanner is purely lexical: it never fails, never looks at
// grammar, and every byte of the input belongs to exactly one token, so the
// concatenation of all token texts always equals the input.
package highlight

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/leapstack-labs/sqllens/pkg/dialect"
)

// Kind classifies a display token.
type Kind int

// Token kinds.
const (
	Other Kind = iota
	Comment
	String
	Number
	Keyword
	Identifier
	Whitespace
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case Comment:
		return "comment"
	case String:
		return "string"
	case Number:
		return "number"
	case Keyword:
		return "keyword"
	case Identifier:
		return "identifier"
	case Whitespace:
		return "whitespace"
	default:
		return "other"
	}
}

// MarshalText encodes k by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Class returns the CSS class used to render tokens of this kind.
// Whitespace has no class.
func (k Kind) Class() string {
	switch k {
	case Comment:
		return "syntax-comment"
	case String:
		return "syntax-string"
	case Number:
		return "syntax-number"
	case Keyword:
		return "syntax-keyword"
	case Whitespace:
		return ""
	default:
		return "syntax-default"
	}
}

// Token is a classified run of text starting at byte Offset.
type Token struct {
	Kind   Kind
	Text   string
	Offset int
}

// End returns the byte offset just past the token.
func (t Token) End() int {
	return t.Offset + len(t.Text)
}

// Tokenize returns a lazy sequence of tokens covering text. Each iteration
// re-scans from the beginning, so the sequence can be ranged over any number
// of times. Empty text yields nothing.
func Tokenize(text string, tag dialect.Tag) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		d := dialect.Lookup(tag)
		for pos := 0; pos < len(text); {
			tok := scan(text, pos, d)
			if !yield(tok) {
				return
			}
			pos = tok.End()
		}
	}
}

// Collect tokenizes text eagerly.
func Collect(text string, tag dialect.Tag) []Token {
	var out []Token
	for tok := range Tokenize(text, tag) {
		out = append(out, tok)
	}
	return out
}

// scan classifies the token starting at pos. First match wins:
// line comment, quoted string, integer, word, whitespace, single character.
func scan(src string, pos int, d *dialect.Dialect) Token {
	c := src[pos]

	if c == '-' && pos+1 < len(src) && src[pos+1] == '-' {
		end := strings.IndexAny(src[pos:], "\r\n")
		if end < 0 {
			end = len(src) - pos
		}
		return Token{Kind: Comment, Text: src[pos : pos+end], Offset: pos}
	}

	if c == '\'' {
		if j := strings.IndexByte(src[pos+1:], '\''); j >= 0 {
			return Token{Kind: String, Text: src[pos : pos+j+2], Offset: pos}
		}
	}

	if isWordByte(c) && atWordBoundary(src, pos) {
		end := pos
		digits := true
		for end < len(src) && isWordByte(src[end]) {
			if !isDigit(src[end]) {
				digits = false
			}
			end++
		}
		word := src[pos:end]
		switch {
		case digits:
			return Token{Kind: Number, Text: word, Offset: pos}
		case !isDigit(c):
			kind := Identifier
			if d.IsKeyword(word) {
				kind = Keyword
			}
			return Token{Kind: kind, Text: word, Offset: pos}
		}
	}

	r, size := utf8.DecodeRuneInString(src[pos:])
	if unicode.IsSpace(r) {
		end := pos + size
		for end < len(src) {
			r, size = utf8.DecodeRuneInString(src[end:])
			if !unicode.IsSpace(r) {
				break
			}
			end += size
		}
		return Token{Kind: Whitespace, Text: src[pos:end], Offset: pos}
	}

	return Token{Kind: Other, Text: src[pos : pos+size], Offset: pos}
}

// isWordByte matches the ASCII word class [A-Za-z0-9_].
func isWordByte(c byte) bool {
	return c == '_' || isDigit(c) || (c|0x20 >= 'a' && c|0x20 <= 'z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func atWordBoundary(src string, pos int) bool {
	return pos == 0 || !isWordByte(src[pos-1])
}
