package format

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqllens/pkg/dialect"
	"github.com/leapstack-labs/sqllens/pkg/parser"
	"github.com/leapstack-labs/sqllens/pkg/token"
)

// KeywordCase selects how keywords are written.
type KeywordCase int

// Keyword cases.
const (
	Upper KeywordCase = iota
	Lower
	Preserve
)

// ParseKeywordCase resolves "upper", "lower" or "preserve".
func ParseKeywordCase(s string) (KeywordCase, bool) {
	switch strings.ToLower(s) {
	case "upper", "":
		return Upper, true
	case "lower":
		return Lower, true
	case "preserve":
		return Preserve, true
	}
	return Upper, false
}

// Options controls the output layout.
type Options struct {
	Dialect     dialect.Tag
	IndentWidth int // spaces per level; 0 means 2
	KeywordCase KeywordCase
}

// DefaultOptions returns two-space indentation and upper-case keywords.
func DefaultOptions(tag dialect.Tag) Options {
	return Options{Dialect: tag, IndentWidth: defaultIndent, KeywordCase: Upper}
}

// Formatting errors.
var (
	ErrIllegalToken = errors.New("unrecognized input")
	ErrUnbalanced   = errors.New("unbalanced parentheses")
	ErrUnstable     = errors.New("input is not valid enough to format")
)

// Format lays out every statement of sql: one clause per line, list items
// one per line, subqueries and CASE bodies indented, and a blank line
// between statements. Comments are kept. Whitespace-only input formats to
// the empty string.
//
// A successful result is a fixed point: formatting it again returns it
// unchanged. Input the layout rules cannot settle, typically keywords in
// positions no statement allows, fails with ErrUnstable.
func Format(sql string, opts Options) (string, error) {
	out, err := formatOnce(sql, opts)
	if err != nil {
		return "", err
	}
	again, err := formatOnce(out, opts)
	if err != nil || again != out {
		return "", ErrUnstable
	}
	return out, nil
}

func formatOnce(sql string, opts Options) (string, error) {
	d := dialect.Lookup(opts.Dialect)

	lexer := parser.NewLexer(sql, d)
	lexer.KeepComments = true
	var toks []token.Token
	for {
		tok := lexer.NextToken()
		if tok.Type == token.EOF {
			break
		}
		if tok.Type == token.ILLEGAL {
			return "", fmt.Errorf("%w at %s: %s", ErrIllegalToken, tok.Pos, tok.Describe())
		}
		toks = append(toks, tok)
	}

	f := newFormatter(d, opts, toks)
	if err := f.run(); err != nil {
		return "", err
	}
	return f.p.String(), nil
}

// FormatOrOriginal formats sql and returns it unchanged when formatting
// fails for any reason.
func FormatOrOriginal(sql string, opts Options) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = sql
		}
	}()
	formatted, err := Format(sql, opts)
	if err != nil {
		return sql
	}
	return formatted
}
