// Package parser provides a dialect-aware structural SQL parser.
//
// # Usage
//
//	tree, errs := parser.ParseAll(sql, dialect.Lookup(dialect.PostgreSQL))
//
// The parser never gives up on a script: a statement that fails to parse is
// reported once, skipped up to the next semicolon and kept in the tree as an
// Invalid node, so callers get both a usable tree and every error.
//
// # Grammar Overview
//
// The parser implements a recursive descent parser over a pragmatic subset
// of SQL:
//
//	script        → { statement [;] }
//	statement     → query | insert | update | delete | create | drop
//	              | alter | begin_block | transaction | command
//	query         → [WITH [RECURSIVE] cte_list] query_body
//	query_body    → query_term { (UNION|INTERSECT|EXCEPT) [ALL|DISTINCT] query_term }
//	                [ORDER BY order_list] [LIMIT expr [, expr]] [OFFSET expr]
//	query_term    → select_core | VALUES row_list | '(' query ')'
//	select_core   → SELECT [DISTINCT [ON (...)] | ALL] select_list
//	                [FROM from_clause] [WHERE expr] [GROUP BY expr_list]
//	                [HAVING expr] [WINDOW ...] [QUALIFY expr]
//
// Expressions are parsed with precedence climbing; see parser_expr.go.
// DDL beyond the statement head is parsed loosely, tracking only balanced
// groups.
package parser

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqllens/pkg/dialect"
	"github.com/leapstack-labs/sqllens/pkg/token"
)

// Parser parses SQL into a structural syntax tree.
type Parser struct {
	lexer   *Lexer
	dialect *dialect.Dialect

	prev  token.Token // last consumed token
	token token.Token // current token
	peek  token.Token // lookahead token
	peek2 token.Token // second lookahead token

	errors     []*ParseError
	stack      []*Node // open nodes; closed nodes attach to the top
	blockDepth int     // nesting of BEGIN ... END blocks
}

// bailout unwinds a failed statement back to parseStatementSafe.
type bailout struct{}

// NewParser creates a new parser for the given SQL input. A nil dialect
// means Standard.
func NewParser(sql string, d *dialect.Dialect) *Parser {
	if d == nil {
		d = dialect.Lookup(dialect.Standard)
	}
	p := &Parser{
		lexer:   NewLexer(sql, d),
		dialect: d,
	}
	// Read three tokens to initialize current, peek, and peek2
	p.nextToken()
	p.nextToken()
	p.nextToken()
	return p
}

// ParseAll parses a script and returns its tree together with every error.
// The tree is never nil.
func ParseAll(sql string, d *dialect.Dialect) (*Node, []*ParseError) {
	p := NewParser(sql, d)
	return p.ParseScript(), p.errors
}

// Parse parses a script and returns the first error, if any.
func Parse(sql string, d *dialect.Dialect) (*Node, error) {
	tree, errs := ParseAll(sql, d)
	if len(errs) > 0 {
		return tree, errs[0]
	}
	return tree, nil
}

// Dialect returns the parser's dialect.
func (p *Parser) Dialect() *dialect.Dialect {
	return p.dialect
}

// Errors returns the errors recorded so far.
func (p *Parser) Errors() []*ParseError {
	return p.errors
}

// ParseScript parses statements until end of input.
func (p *Parser) ParseScript() *Node {
	root := &Node{Kind: Script, Start: token.Position{Line: 1, Column: 1}}
	p.stack = []*Node{root}

	for !p.check(token.EOF) {
		if p.match(token.SEMICOLON) {
			continue
		}
		p.parseStatementSafe()
		if !p.check(token.SEMICOLON) && !p.check(token.EOF) {
			p.recoverStatement(p.token, fmt.Sprintf(ErrUnexpectedToken, p.token.Describe(), "; or end of input"))
		}
	}

	root.To = p.token.Pos.Offset
	root.End = p.token.Pos
	return root
}

// parseStatementSafe parses one statement, turning a bailout into an
// Invalid node that extends to the end of the statement.
func (p *Parser) parseStatementSafe() {
	depth := len(p.stack)
	start := p.token
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if _, ok := r.(bailout); !ok {
			panic(r)
		}
		p.stack = p.stack[:depth]
		p.recoverStatement(start, "")
	}()
	p.parseStatement()
}

// recoverStatement records msg (when non-empty) and skips the rest of the
// statement into an Invalid node starting at start.
func (p *Parser) recoverStatement(start token.Token, msg string) {
	if msg != "" {
		p.errorAt(p.token, msg)
	}
	n := p.openAt(Invalid, start)
	p.skipLoose(false)
	p.close(n)
}

// parseStatement dispatches on the leading keyword.
func (p *Parser) parseStatement() {
	switch p.token.Type {
	case token.SELECT, token.WITH, token.VALUES, token.LPAREN:
		p.parseQuery()
	case token.INSERT:
		p.parseInsert()
	case token.UPDATE:
		p.parseUpdate()
	case token.DELETE:
		p.parseDelete()
	case token.CREATE:
		p.parseCreate()
	case token.DROP:
		p.parseDrop()
	case token.ALTER:
		p.parseLooseStatement(Alter)
	case token.BEGIN:
		p.parseBegin()
	case token.COMMIT, token.ROLLBACK:
		p.parseLooseStatement(Transaction)
	case token.TRUNCATE, token.USE, token.SET, token.SHOW, token.DESCRIBE:
		p.parseLooseStatement(Command)
	case token.EXPLAIN:
		p.parseExplain()
	default:
		p.fail(fmt.Sprintf(ErrUnexpectedToken, p.token.Describe(), "statement"))
	}
}

// ---------- Token Helpers ----------

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	p.prev = p.token
	p.token = p.peek
	p.peek = p.peek2
	p.peek2 = p.lexer.NextToken()
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.TokenType) bool {
	return p.token.Type == t
}

// checkPeek returns true if the peek token is of the given type.
func (p *Parser) checkPeek(t token.TokenType) bool {
	return p.peek.Type == t
}

// checkWord reports whether the current token is the bare word w, matched
// case-insensitively. Used for words that are not keywords, such as TIME.
func (p *Parser) checkWord(w string) bool {
	return p.token.Type == token.IDENT && strings.EqualFold(p.token.Literal, w)
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	return false
}

// matchWord consumes the bare word w if present.
func (p *Parser) matchWord(w string) bool {
	if p.checkWord(w) {
		p.nextToken()
		return true
	}
	return false
}

// matchAny consumes the current token if it matches any of the given types.
func (p *Parser) matchAny(types ...token.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.nextToken()
			return true
		}
	}
	return false
}

// expect consumes the current token if it matches, otherwise the statement fails.
func (p *Parser) expect(t token.TokenType) {
	if !p.match(t) {
		p.fail(fmt.Sprintf(ErrUnexpectedToken, p.token.Describe(), t))
	}
}

// errorAt records an error spanning tok.
func (p *Parser) errorAt(tok token.Token, msg string) {
	p.errors = append(p.errors, &ParseError{Pos: tok.Pos, EndPos: tok.End, Message: msg})
}

// fail records an error at the current token and abandons the statement.
func (p *Parser) fail(msg string) {
	if p.check(token.ILLEGAL) {
		msg = illegalMessage(p.token, p.dialect)
	}
	p.errorAt(p.token, msg)
	panic(bailout{})
}

// unexpected fails with "unexpected X, expected what".
func (p *Parser) unexpected(what string) {
	p.fail(fmt.Sprintf(ErrUnexpectedToken, p.token.Describe(), what))
}

// ---------- Node Helpers ----------

// open starts a node at the current token.
func (p *Parser) open(kind NodeKind) *Node {
	return p.openAt(kind, p.token)
}

func (p *Parser) openAt(kind NodeKind, start token.Token) *Node {
	n := &Node{Kind: kind, From: start.Pos.Offset, Start: start.Pos}
	p.stack = append(p.stack, n)
	return n
}

// close ends n at the last consumed token and attaches it to its parent.
func (p *Parser) close(n *Node) {
	n.To, n.End = p.prev.End.Offset, p.prev.End
	if n.To < n.From {
		n.To, n.End = n.From, n.Start
	}
	for i := len(p.stack) - 1; i >= 0; i-- {
		if p.stack[i] == n {
			p.stack = p.stack[:i]
			break
		}
	}
	if len(p.stack) > 0 {
		parent := p.stack[len(p.stack)-1]
		parent.Children = append(parent.Children, n)
	}
}

// ---------- Keyword Helpers ----------

// isName reports whether tok can be used as an identifier.
func isName(tok token.Token) bool {
	return tok.Type == token.IDENT || tok.Type == token.QIDENT || tok.Type.IsSoft()
}

// isAliasStart reports whether the current token may begin an alias
// written without AS. Words that open a trailing clause are excluded.
func (p *Parser) isAliasStart() bool {
	switch p.token.Type {
	case token.QIDENT:
		return true
	case token.IDENT:
		for _, w := range []string{"FOR", "FETCH", "TABLESAMPLE"} {
			if p.checkWord(w) {
				return false
			}
		}
		for _, w := range []string{"CLUSTER", "DISTRIBUTE", "SORT"} {
			if p.checkWord(w) && p.checkPeek(token.BY) {
				return false
			}
		}
		return true
	case token.LATERAL, token.WINDOW, token.OVER, token.FILTER, token.DEFAULT:
		return false
	}
	return p.token.Type.IsSoft()
}

// startsQuery reports whether tok can begin a query inside parentheses.
func startsQuery(tok token.Token) bool {
	switch tok.Type {
	case token.SELECT, token.WITH, token.VALUES:
		return true
	}
	return false
}
