package parser

import (
	"fmt"

	"github.com/leapstack-labs/sqllens/pkg/token"
)

// Loose parsing
//
// Statements whose bodies are not modelled (ALTER, SET, procedure bodies,
// CREATE TABLE options) are consumed token by token up to the end of the
// statement. Balanced groups still produce Paren, Case and Block nodes so
// that folding works everywhere.

// skipLoose consumes tokens up to the end of the current statement. A
// semicolon ends the statement unless it sits inside a BEGIN ... END block.
// With report set, the first structural problem is recorded.
func (p *Parser) skipLoose(report bool) {
	base := len(p.stack)
	var open []*Node
	reported := !report
	problem := func(tok token.Token, msg string) {
		if !reported {
			p.errorAt(tok, msg)
			reported = true
		}
	}
	blocks := func() int {
		n := 0
		for _, o := range open {
			if o.Kind == Block {
				n++
			}
		}
		return n
	}
	closeTop := func() {
		top := open[len(open)-1]
		open = open[:len(open)-1]
		p.close(top)
	}

loop:
	for {
		switch p.token.Type {
		case token.EOF:
			break loop
		case token.SEMICOLON:
			if blocks() == 0 {
				break loop
			}
		case token.END:
			if len(open) == 0 && p.blockDepth > 0 {
				break loop
			}
		}

		tok := p.token
		switch tok.Type {
		case token.ILLEGAL:
			problem(tok, illegalMessage(tok, p.dialect))
			p.nextToken()
		case token.LPAREN:
			open = append(open, p.open(Paren))
			p.nextToken()
		case token.CASE:
			open = append(open, p.open(Case))
			p.nextToken()
		case token.BEGIN:
			open = append(open, p.open(Block))
			p.nextToken()
		case token.RPAREN:
			p.nextToken()
			if len(open) > 0 && open[len(open)-1].Kind == Paren {
				closeTop()
			} else {
				problem(tok, ErrUnmatchedParen)
			}
		case token.END:
			p.nextToken()
			// END IF, END LOOP and friends close procedural constructs
			// that are not tracked.
			if p.check(token.IF) || p.checkWord("LOOP") || p.checkWord("WHILE") || p.checkWord("REPEAT") {
				p.nextToken()
				continue
			}
			p.match(token.CASE)
			for len(open) > 0 && open[len(open)-1].Kind == Paren {
				problem(open[len(open)-1].tokenAt(), ErrUnclosedParen)
				open = open[:len(open)-1]
				p.stack = p.stack[:len(p.stack)-1]
			}
			if len(open) > 0 {
				closeTop()
			} else {
				problem(tok, fmt.Sprintf(ErrUnexpectedToken, tok.Describe(), "end of statement"))
			}
		default:
			p.nextToken()
		}
	}

	for i := len(open) - 1; i >= 0; i-- {
		o := open[i]
		if o.Kind == Paren {
			problem(o.tokenAt(), ErrUnclosedParen)
		} else {
			problem(o.tokenAt(), fmt.Sprintf(ErrUnclosedBlock, o.Kind))
		}
	}
	p.stack = p.stack[:base]
}

// tokenAt returns a one-character token at the node start for error spans.
func (n *Node) tokenAt() token.Token {
	end := n.Start
	end.Column++
	end.Offset++
	return token.Token{Pos: n.Start, End: end}
}

// parseLooseStatement parses a statement of the given kind whose body is
// not modelled.
func (p *Parser) parseLooseStatement(kind NodeKind) {
	n := p.open(kind)
	p.nextToken()
	p.skipLoose(true)
	p.close(n)
}

// parseBegin handles both transaction starts and BEGIN ... END blocks.
//
//	BEGIN [TRANSACTION | WORK] ...
//	BEGIN statement; ... END
func (p *Parser) parseBegin() {
	switch p.peek.Type {
	case token.SEMICOLON, token.EOF, token.TRANSACTION, token.WORK:
		p.parseLooseStatement(Transaction)
		return
	}
	if !p.dialect.PlainBeginBlock {
		p.parseLooseStatement(Transaction)
		return
	}

	n := p.open(Block)
	p.nextToken()
	p.blockDepth++
	defer func() { p.blockDepth-- }()

	for !p.check(token.END) {
		switch {
		case p.check(token.EOF):
			p.errorAt(n.tokenAt(), fmt.Sprintf(ErrUnclosedBlock, "BEGIN"))
			panic(bailout{})
		case p.match(token.SEMICOLON):
			continue
		}
		p.parseStatementSafe()
		if !p.check(token.SEMICOLON) && !p.check(token.END) && !p.check(token.EOF) {
			p.recoverStatement(p.token, fmt.Sprintf(ErrUnexpectedToken, p.token.Describe(), "; or END"))
		}
	}
	p.nextToken()
	p.close(n)
}

// parseExplain parses EXPLAIN [options] statement.
func (p *Parser) parseExplain() {
	n := p.open(Command)
	p.nextToken()
	for p.check(token.IDENT) && !startsQuery(p.token) {
		p.nextToken()
	}
	switch p.token.Type {
	case token.SELECT, token.WITH, token.VALUES, token.INSERT, token.UPDATE, token.DELETE, token.LPAREN:
		p.parseStatement()
	default:
		p.skipLoose(true)
	}
	p.close(n)
}
