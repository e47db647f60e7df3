package format

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqllens/pkg/dialect"
	"github.com/leapstack-labs/sqllens/pkg/token"
)

// scopeKind identifies what opened a layout scope.
type scopeKind int

const (
	scopeRoot     scopeKind = iota // the script
	scopeSubquery                  // ( SELECT ... )
	scopeBlock                     // BEGIN ... END
	scopeParen                     // any other parenthesis
	scopeCase                      // CASE ... END
)

// query reports whether clause keywords start new lines in the scope.
func (k scopeKind) query() bool {
	return k == scopeRoot || k == scopeSubquery || k == scopeBlock
}

// clause is the clause a query scope is currently in.
type clause int

const (
	clauseNone clause = iota
	clauseSelect
	clauseFrom
	clauseJoin
	clauseOn
	clauseWhere
	clauseGroup
	clauseHaving
	clauseOrder
	clauseWindow
	clauseQualify
	clauseLimit
	clauseSetOp
	clauseWith
	clauseValues
	clauseSet
	clauseReturning
	clauseInsert
	clauseUpdate
	clauseDelete
	clauseConflict
)

// list reports whether the clause puts each comma-separated item on its
// own line.
func (c clause) list() bool {
	switch c {
	case clauseSelect, clauseWhere, clauseGroup, clauseHaving, clauseOrder,
		clauseWindow, clauseQualify, clauseValues, clauseSet, clauseReturning:
		return true
	}
	return false
}

type scope struct {
	kind   scopeKind
	base   int // depth of clause keywords, WHEN and ELSE
	close  int // depth of the closing token
	clause clause
	lead   token.TokenType // first token of the current statement
	empty  bool            // nothing written since the statement began
}

type breakKind int

const (
	breakNone breakKind = iota
	breakLine
	breakBlank
)

// pendingBreak is a line break owed before the next token.
type pendingBreak struct {
	kind  breakKind
	depth int
}

type formatter struct {
	p      *Printer
	d      *dialect.Dialect
	toks   []token.Token
	scopes []*scope

	prev      token.Token // last code token written
	hasPrev   bool
	srcLine   int  // source line on which the previous token ended
	afterNote bool // a block comment was written after prev on the same line
	unary     bool // prev is a unary sign

	pending     pendingBreak
	headerEnd   int // index of the last token of the current clause keyword
	afterHeader pendingBreak
}

func newFormatter(d *dialect.Dialect, opts Options, toks []token.Token) *formatter {
	return &formatter{
		p:         newPrinter(d, opts),
		d:         d,
		toks:      toks,
		scopes:    []*scope{{kind: scopeRoot, empty: true}},
		headerEnd: -1,
	}
}

func (f *formatter) run() error {
	for i, tok := range f.toks {
		if tok.Type == token.COMMENT {
			f.comment(i)
		} else if err := f.code(i); err != nil {
			return err
		}
		f.srcLine = tok.End.Line
	}
	for _, s := range f.scopes {
		if s.kind == scopeParen || s.kind == scopeSubquery {
			return fmt.Errorf("%w: missing )", ErrUnbalanced)
		}
	}
	return nil
}

func (f *formatter) top() *scope {
	return f.scopes[len(f.scopes)-1]
}

func (f *formatter) push(s *scope) {
	f.scopes = append(f.scopes, s)
}

func (f *formatter) pop() {
	if len(f.scopes) > 1 {
		f.scopes = f.scopes[:len(f.scopes)-1]
	}
}

// breakAt requests a line break before the next token. A pending blank line
// is kept.
func (f *formatter) breakAt(depth int) {
	if f.pending.kind == breakBlank {
		f.pending.depth = depth
		return
	}
	f.pending = pendingBreak{kind: breakLine, depth: depth}
}

func (f *formatter) flush() {
	switch f.pending.kind {
	case breakLine:
		f.p.newline(f.pending.depth)
	case breakBlank:
		f.p.newline(f.pending.depth)
		f.p.writeln()
	}
	f.pending = pendingBreak{}
}

// next returns the index of the first code token after i, or -1.
func (f *formatter) next(i int) int {
	for j := i + 1; j < len(f.toks); j++ {
		if f.toks[j].Type != token.COMMENT {
			return j
		}
	}
	return -1
}

// is reports whether index i holds a token of type t.
func (f *formatter) is(i int, t token.TokenType) bool {
	return i >= 0 && i < len(f.toks) && f.toks[i].Type == t
}

// isWord reports whether index i holds the bare word w.
func (f *formatter) isWord(i int, w string) bool {
	return f.is(i, token.IDENT) && strings.EqualFold(f.toks[i].Literal, w)
}

// matching returns the index of the parenthesis closing the one at i, or i
// when there is none.
func (f *formatter) matching(i int) int {
	depth := 0
	for j := i; j < len(f.toks); j++ {
		switch f.toks[j].Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return i
}

// comment writes a comment token. A comment that starts its own source line
// keeps its own output line; any other comment trails the previous token.
func (f *formatter) comment(i int) {
	tok := f.toks[i]
	ownLine := !f.hasPrev || tok.Pos.Line > f.srcLine
	line := !strings.HasPrefix(tok.Literal, "/*")

	if ownLine {
		f.flush()
		f.p.newline(f.p.depth)
		f.p.write(tok.Literal)
		f.p.writeln()
		f.hasPrev = true
		f.afterNote = false
		return
	}

	f.p.space()
	f.p.write(tok.Literal)
	if line {
		f.p.writeln()
	}
	f.afterNote = !line
}

// code lays out one non-comment token.
func (f *formatter) code(i int) error {
	tok := f.toks[i]
	s := f.top()

	if s.kind.query() && i > f.headerEnd {
		if c, last, ok := f.clauseAt(i, s); ok {
			f.startClause(s, c, last)
		}
	}

	switch tok.Type {
	case token.RPAREN:
		return f.closeParen(i)
	case token.END:
		if s.kind == scopeCase || (s.kind == scopeBlock && !f.endsConstruct(i)) {
			f.breakAt(s.close)
			f.emit(i)
			f.pop()
			return nil
		}
	case token.WHEN, token.ELSE:
		if s.kind == scopeCase {
			f.breakAt(s.base)
		}
	}

	f.emit(i)

	switch tok.Type {
	case token.LPAREN:
		if j := f.next(i); j >= 0 && startsQuery(f.toks[j].Type) {
			d := f.p.lineDepth
			f.push(&scope{kind: scopeSubquery, base: d + 1, close: d, empty: true})
			f.breakAt(d + 1)
		} else {
			f.push(&scope{kind: scopeParen})
		}
	case token.CASE:
		d := f.p.lineDepth
		f.push(&scope{kind: scopeCase, base: d + 1, close: d})
	case token.BEGIN:
		if f.opensBlock(i, s) {
			d := f.p.lineDepth
			f.push(&scope{kind: scopeBlock, base: d + 1, close: d, empty: true})
			f.breakAt(d + 1)
		}
	case token.COMMA:
		switch {
		case !s.kind.query():
		case s.clause.list():
			f.breakAt(s.base + 1)
		case s.clause == clauseWith:
			f.breakAt(s.base)
		}
	case token.SEMICOLON:
		switch s.kind {
		case scopeRoot:
			f.pending = pendingBreak{kind: breakBlank, depth: s.base}
			s.reset()
		case scopeBlock:
			f.breakAt(s.base)
			s.reset()
		}
	}

	if i == f.headerEnd && f.afterHeader.kind != breakNone {
		f.pending = f.afterHeader
		f.afterHeader = pendingBreak{}
	}
	return nil
}

func (s *scope) reset() {
	s.clause = clauseNone
	s.lead = token.EOF
	s.empty = true
}

// emit writes token i after any pending break, with the spacing it needs.
func (f *formatter) emit(i int) {
	tok := f.toks[i]
	f.flush()
	if f.hasPrev && !f.p.atLineStart && (f.afterNote || f.needsSpace(i)) {
		f.p.space()
	}
	f.p.word(tok)
	switch tok.Type {
	case token.PLUS, token.MINUS, token.TILDE:
		f.unary = isUnary(f.prev, f.hasPrev)
	default:
		f.unary = false
	}

	s := f.top()
	if s.empty {
		s.lead = tok.Type
		s.empty = false
	}
	for _, o := range f.scopes[:len(f.scopes)-1] {
		o.empty = false
	}
	f.prev = tok
	f.hasPrev = true
	f.afterNote = false
}

// closeParen writes a closing parenthesis and leaves its scope. CASE scopes
// left open inside the parenthesis are abandoned.
func (f *formatter) closeParen(i int) error {
	for f.top().kind == scopeCase {
		f.pop()
	}
	s := f.top()
	switch s.kind {
	case scopeSubquery:
		f.breakAt(s.close)
	case scopeParen:
	default:
		tok := f.toks[i]
		return fmt.Errorf("%w: unexpected ) at %s", ErrUnbalanced, tok.Pos)
	}
	f.emit(i)
	f.pop()
	return nil
}

// endsConstruct reports whether the END at i closes a procedural construct
// such as END IF rather than a block.
func (f *formatter) endsConstruct(i int) bool {
	j := f.next(i)
	return f.is(j, token.IF) || f.isWord(j, "LOOP") || f.isWord(j, "WHILE") || f.isWord(j, "REPEAT")
}

// opensBlock reports whether the BEGIN at i starts a BEGIN ... END block
// rather than a transaction.
func (f *formatter) opensBlock(i int, s *scope) bool {
	if !s.kind.query() {
		return false
	}
	j := f.next(i)
	if j < 0 || f.is(j, token.SEMICOLON) || f.is(j, token.TRANSACTION) || f.is(j, token.WORK) {
		return false
	}
	return s.lead != token.BEGIN || f.d.PlainBeginBlock
}

// startClause records clause c, requests the break before it and the break
// owed after its keyword, which ends at token last.
func (f *formatter) startClause(s *scope, c clause, last int) {
	f.headerEnd = last
	f.afterHeader = pendingBreak{}
	switch {
	case c == clauseOn:
		f.breakAt(s.base + 1)
		return
	case c.list():
		f.breakAt(s.base)
		f.afterHeader = pendingBreak{kind: breakLine, depth: s.base + 1}
	case c == clauseSetOp:
		f.breakAt(s.base)
		f.afterHeader = pendingBreak{kind: breakLine, depth: s.base}
	default:
		f.breakAt(s.base)
	}
	s.clause = c
}

// clauseAt recognises a clause keyword at index i and returns the index of
// its last word.
func (f *formatter) clauseAt(i int, s *scope) (clause, int, bool) {
	tok := f.toks[i]
	j := f.next(i)
	prevType := token.EOF
	if f.hasPrev && !s.empty {
		prevType = f.prev.Type
	}

	switch tok.Type {
	case token.SELECT:
		last := i
		if f.is(j, token.DISTINCT) || f.is(j, token.ALL) {
			last = j
			if k := f.next(j); f.is(j, token.DISTINCT) && f.is(k, token.ON) {
				if l := f.next(k); f.is(l, token.LPAREN) {
					last = f.matching(l)
				}
			}
		}
		return clauseSelect, last, true
	case token.FROM:
		if prevType == token.DELETE || prevType == token.DISTINCT {
			return clauseNone, 0, false
		}
		return clauseFrom, i, true
	case token.WHERE:
		return clauseWhere, i, true
	case token.HAVING:
		return clauseHaving, i, true
	case token.QUALIFY:
		return clauseQualify, i, true
	case token.WINDOW:
		return clauseWindow, i, true
	case token.RETURNING:
		return clauseReturning, i, true
	case token.GROUP:
		if f.is(j, token.BY) {
			return clauseGroup, j, true
		}
	case token.ORDER:
		if f.is(j, token.BY) {
			return clauseOrder, j, true
		}
	case token.IDENT:
		if f.is(j, token.BY) && (f.isWord(i, "SORT") || f.isWord(i, "CLUSTER") || f.isWord(i, "DISTRIBUTE")) {
			return clauseOrder, j, true
		}
	case token.LIMIT, token.OFFSET:
		return clauseLimit, i, true
	case token.UNION, token.INTERSECT, token.EXCEPT:
		if prevType == token.STAR {
			return clauseNone, 0, false
		}
		if f.is(j, token.ALL) || f.is(j, token.DISTINCT) {
			return clauseSetOp, j, true
		}
		return clauseSetOp, i, true
	case token.WITH:
		if s.empty {
			if f.is(j, token.RECURSIVE) {
				return clauseWith, j, true
			}
			return clauseWith, i, true
		}
	case token.VALUES:
		if prevType != token.DEFAULT {
			return clauseValues, i, true
		}
	case token.SET:
		if s.empty || s.lead == token.UPDATE || s.lead == token.INSERT {
			return clauseSet, i, true
		}
	case token.INSERT:
		if s.empty {
			return clauseInsert, i, true
		}
	case token.UPDATE:
		if s.empty {
			return clauseUpdate, i, true
		}
	case token.DELETE:
		if s.empty {
			return clauseDelete, i, true
		}
	case token.ON, token.USING:
		if s.clause == clauseJoin {
			return clauseOn, i, true
		}
		if tok.Type == token.ON && s.lead == token.INSERT && !s.empty {
			return clauseConflict, i, true
		}
	case token.JOIN, token.LEFT, token.RIGHT, token.FULL, token.INNER, token.CROSS, token.NATURAL:
		if last, ok := f.joinAt(i); ok {
			return clauseJoin, last, true
		}
	}
	return clauseNone, 0, false
}

// joinAt matches [NATURAL] [LEFT|RIGHT|FULL] [OUTER] [INNER|CROSS] JOIN.
func (f *formatter) joinAt(i int) (int, bool) {
	j := i
	if f.is(j, token.NATURAL) {
		j = f.next(j)
	}
	if f.is(j, token.LEFT) || f.is(j, token.RIGHT) || f.is(j, token.FULL) {
		j = f.next(j)
	}
	if f.is(j, token.OUTER) {
		j = f.next(j)
	}
	if f.is(j, token.INNER) || f.is(j, token.CROSS) {
		j = f.next(j)
	}
	return j, f.is(j, token.JOIN)
}

func startsQuery(t token.TokenType) bool {
	return t == token.SELECT || t == token.WITH || t == token.VALUES
}
