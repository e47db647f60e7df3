// Package format provides SQL statement formatting.
package format

import (
	"bytes"
	"strings"

	"github.com/leapstack-labs/sqllens/pkg/dialect"
	"github.com/leapstack-labs/sqllens/pkg/token"
)

const defaultIndent = 2

// Printer handles SQL output with indentation and keyword casing.
type Printer struct {
	dialect     *dialect.Dialect
	output      *bytes.Buffer
	indentWidth int
	keywordCase KeywordCase
	depth       int // indent depth for the next line
	lineDepth   int // indent depth of the current line
	atLineStart bool
}

func newPrinter(d *dialect.Dialect, opts Options) *Printer {
	width := opts.IndentWidth
	if width <= 0 {
		width = defaultIndent
	}
	return &Printer{
		dialect:     d,
		output:      &bytes.Buffer{},
		indentWidth: width,
		keywordCase: opts.KeywordCase,
		atLineStart: true,
	}
}

// String returns the formatted output.
func (p *Printer) String() string {
	out := strings.TrimRight(p.output.String(), "\n")
	if out == "" {
		return ""
	}
	return out + "\n"
}

func (p *Printer) write(s string) {
	if p.atLineStart && len(s) > 0 && s[0] != '\n' {
		p.writeIndent()
	}
	p.output.WriteString(s)
	p.atLineStart = false
}

func (p *Printer) writeln() {
	p.output.WriteByte('\n')
	p.atLineStart = true
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.depth*p.indentWidth; i++ {
		p.output.WriteByte(' ')
	}
	p.lineDepth = p.depth
	p.atLineStart = false
}

// newline ends the current line, if any, and sets the depth of the next.
func (p *Printer) newline(depth int) {
	if !p.atLineStart {
		p.writeln()
	}
	p.depth = depth
}

func (p *Printer) space() {
	if !p.atLineStart {
		p.output.WriteByte(' ')
	}
}

// word prints tok, applying the keyword case to keywords. Words the dialect
// lists as keywords (COUNT, DATE, ...) are keywords too.
func (p *Printer) word(tok token.Token) {
	if tok.Type.IsKeyword() || (tok.Type == token.IDENT && p.dialect.IsKeyword(tok.Literal)) {
		p.keyword(tok.Literal)
		return
	}
	p.write(tok.Literal)
}

func (p *Printer) keyword(s string) {
	switch p.keywordCase {
	case Lower:
		p.write(strings.ToLower(s))
	case Preserve:
		p.write(s)
	default:
		p.write(strings.ToUpper(s))
	}
}
