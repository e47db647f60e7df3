package parser

import (
	"strings"

	"github.com/leapstack-labs/sqllens/pkg/token"
)

// Expression precedence parsing using a Pratt parser.
//
// Precedence levels, lowest first:
//
//	precOr       OR
//	precAnd      AND
//	precNot      NOT (prefix)
//	precCompare  = != < > <= >= <=> IS IN BETWEEN LIKE ILIKE RLIKE REGEXP
//	precBitOr    |
//	precBitAnd   &
//	precAdd      + - || ^
//	precMul      * / % DIV MOD
//	precUnary    - + ~ (prefix)
//	precPostfix  :: [] -> ->>
const (
	precNone = iota
	precOr
	precAnd
	precNot
	precCompare
	precBitOr
	precBitAnd
	precAdd
	precMul
	precUnary
	precPostfix
)

// parseExpression parses an expression using precedence climbing.
func (p *Parser) parseExpression() {
	p.parseExpressionWithPrecedence(precOr)
}

// parseExpressionWithPrecedence parses a prefix expression followed by
// every infix operator binding at least as tightly as minPrecedence.
func (p *Parser) parseExpressionWithPrecedence(minPrecedence int) {
	p.parsePrefixExpr()
	for {
		prec := p.infixPrecedence()
		if prec == precNone || prec < minPrecedence {
			return
		}
		p.parseInfixExpr(prec)
	}
}

// parseExpressionList parses expr {, expr}.
func (p *Parser) parseExpressionList() {
	for {
		p.parseExpression()
		if !p.match(token.COMMA) {
			return
		}
	}
}

// parseParenExprList parses '(' [expr {, expr}] ')' into a Paren node.
func (p *Parser) parseParenExprList() {
	n := p.open(Paren)
	p.expect(token.LPAREN)
	if !p.check(token.RPAREN) {
		p.parseExpressionList()
	}
	p.expect(token.RPAREN)
	p.close(n)
}

// parsePrefixExpr parses prefix expressions (unary operators and primary expressions).
func (p *Parser) parsePrefixExpr() {
	switch p.token.Type {
	case token.NOT:
		p.nextToken()
		p.parseExpressionWithPrecedence(precNot)
	case token.MINUS, token.PLUS, token.TILDE:
		p.nextToken()
		p.parseExpressionWithPrecedence(precUnary)
	case token.EXISTS:
		p.nextToken()
		p.parseSubquery()
	default:
		p.parsePrimary()
	}
}

// infixPrecedence returns the precedence of the current token as an infix
// operator, or precNone.
func (p *Parser) infixPrecedence() int {
	switch p.token.Type {
	case token.OR:
		return precOr
	case token.AND:
		return precAnd
	case token.NOT:
		switch p.peek.Type {
		case token.IN, token.LIKE, token.ILIKE, token.BETWEEN, token.RLIKE, token.REGEXP:
			return precCompare
		}
		return precNone
	case token.EQ, token.NE, token.LT, token.GT, token.LE, token.GE, token.NULLSAFE,
		token.IS, token.IN, token.BETWEEN, token.LIKE, token.ILIKE, token.RLIKE, token.REGEXP:
		return precCompare
	case token.PIPE:
		return precBitOr
	case token.AMP:
		return precBitAnd
	case token.PLUS, token.MINUS, token.DPIPE, token.CARET:
		return precAdd
	case token.STAR, token.SLASH, token.PERCENT:
		return precMul
	case token.DCOLON, token.LBRACKET, token.ARROW, token.DARROW:
		return precPostfix
	case token.IDENT:
		if p.checkWord("DIV") || p.checkWord("MOD") {
			return precMul
		}
		if p.checkWord("COLLATE") {
			return precPostfix
		}
	}
	return precNone
}

// parseInfixExpr parses the operator at the current token and its right operand.
func (p *Parser) parseInfixExpr(prec int) {
	p.match(token.NOT)

	switch p.token.Type {
	case token.IS:
		p.nextToken()
		p.match(token.NOT)
		switch {
		case p.match(token.DISTINCT):
			p.expect(token.FROM)
			p.parseExpressionWithPrecedence(precCompare + 1)
		case p.matchAny(token.NULL, token.TRUE, token.FALSE), p.matchWord("UNKNOWN"):
		default:
			p.unexpected("NULL, TRUE, FALSE or DISTINCT FROM")
		}

	case token.IN:
		p.nextToken()
		if !p.check(token.LPAREN) {
			p.unexpected("(")
		}
		n := p.open(Paren)
		p.nextToken()
		if startsQuery(p.token) {
			p.parseQuery()
		} else {
			p.parseExpressionList()
		}
		p.expect(token.RPAREN)
		p.close(n)

	case token.BETWEEN:
		p.nextToken()
		p.matchWord("SYMMETRIC")
		p.parseExpressionWithPrecedence(precCompare + 1)
		p.expect(token.AND)
		p.parseExpressionWithPrecedence(precCompare + 1)

	case token.LIKE, token.ILIKE, token.RLIKE, token.REGEXP:
		p.nextToken()
		if p.check(token.ALL) || p.checkWord("ANY") {
			p.nextToken()
			p.parseParenExprList()
		} else {
			p.parseExpressionWithPrecedence(precCompare + 1)
		}
		if p.match(token.ESCAPE) {
			p.parseExpressionWithPrecedence(precCompare + 1)
		}

	case token.EQ, token.NE, token.LT, token.GT, token.LE, token.GE:
		p.nextToken()
		if (p.check(token.ALL) || p.checkWord("ANY") || p.checkWord("SOME")) && p.checkPeek(token.LPAREN) {
			p.nextToken()
			p.parseParenOperand()
			return
		}
		p.parseExpressionWithPrecedence(prec + 1)

	case token.DCOLON:
		p.nextToken()
		p.parseType()

	case token.LBRACKET:
		p.nextToken()
		if !p.check(token.RBRACKET) {
			p.parseExpression()
			if p.match(token.COLON) {
				p.parseExpression()
			}
		}
		p.expect(token.RBRACKET)

	case token.IDENT:
		// COLLATE name, DIV, MOD
		if p.matchWord("COLLATE") {
			p.parseName()
			return
		}
		p.nextToken()
		p.parseExpressionWithPrecedence(prec + 1)

	default:
		p.nextToken()
		p.parseExpressionWithPrecedence(prec + 1)
	}
}

// parseParenOperand parses '(' query | expr_list ')'.
func (p *Parser) parseParenOperand() {
	if startsQuery(p.peek) {
		p.parseSubquery()
		return
	}
	p.parseParenExprList()
}

// typedLiteralPrefixes are words that may directly precede a string literal.
var typedLiteralPrefixes = map[string]bool{
	"DATE": true, "TIME": true, "TIMESTAMP": true, "TIMESTAMPTZ": true, "DATETIME": true,
	"X": true, "B": true, "N": true, "E": true, "JSON": true,
}

// looseFunctions take keyword-separated arguments (EXTRACT(YEAR FROM d))
// and are parsed as balanced groups.
var looseFunctions = map[string]bool{
	"EXTRACT": true, "POSITION": true, "SUBSTRING": true, "TRIM": true,
	"OVERLAY": true, "CONVERT": true,
}

// parsePrimary parses literals, names, calls and parenthesized expressions.
func (p *Parser) parsePrimary() {
	tok := p.token
	switch tok.Type {
	case token.NUMBER, token.STRING, token.PARAM, token.TRUE, token.FALSE, token.NULL, token.DEFAULT:
		p.nextToken()
		return
	case token.CASE:
		p.parseCase()
		return
	case token.CAST:
		p.parseCast()
		return
	case token.INTERVAL:
		p.parseInterval()
		return
	case token.LPAREN:
		p.parseParenOperandOrTuple()
		return
	case token.LBRACKET:
		p.nextToken()
		if !p.check(token.RBRACKET) {
			p.parseExpressionList()
		}
		p.expect(token.RBRACKET)
		return
	case token.LEFT, token.RIGHT, token.VALUES, token.INSERT, token.REPLACE:
		if p.checkPeek(token.LPAREN) {
			fn := p.open(Function)
			p.nextToken()
			p.parseCallArgs()
			p.close(fn)
			return
		}
	}

	if !isName(tok) {
		p.unexpected("expression")
	}

	upper := strings.ToUpper(tok.Literal)
	switch {
	case tok.Type == token.IDENT && (upper == "TRY_CAST" || upper == "SAFE_CAST") && p.checkPeek(token.LPAREN):
		p.parseCast()
		return
	case tok.Type == token.IDENT && typedLiteralPrefixes[upper] && p.checkPeek(token.STRING):
		p.nextToken()
		p.nextToken()
		return
	case tok.Type == token.IDENT && looseFunctions[upper] && p.checkPeek(token.LPAREN):
		fn := p.open(Function)
		p.nextToken()
		p.parseBalanced()
		p.close(fn)
		return
	}

	p.parseName()
	if !p.check(token.LPAREN) {
		return
	}
	fn := p.openAt(Function, tok)
	p.parseCallArgs()
	p.parseCallSuffix()
	p.close(fn)
}

// parseParenOperandOrTuple parses a scalar subquery or a parenthesized
// expression list.
func (p *Parser) parseParenOperandOrTuple() {
	n := p.open(Paren)
	p.expect(token.LPAREN)
	if startsQuery(p.token) {
		p.parseQuery()
	} else {
		p.parseExpressionList()
	}
	p.expect(token.RPAREN)
	p.close(n)
}

// parseCallArgs parses a function argument list into a Paren node.
//
//	args → '(' [DISTINCT|ALL] ('*' | expr {, expr}) [ORDER BY ...] [SEPARATOR expr] ')'
func (p *Parser) parseCallArgs() {
	n := p.open(Paren)
	p.expect(token.LPAREN)
	if !p.check(token.RPAREN) {
		p.matchAny(token.DISTINCT, token.ALL)
		if !p.match(token.STAR) {
			p.parseExpressionList()
		}
		if p.check(token.ORDER) {
			p.parseOrderBy()
		}
		if p.matchWord("SEPARATOR") {
			p.parseExpression()
		}
		if p.matchWord("IGNORE") || p.matchWord("RESPECT") {
			p.expect(token.NULLS)
		}
	}
	p.expect(token.RPAREN)
	p.close(n)
}

// parseCallSuffix parses WITHIN GROUP, FILTER, null treatment and OVER after
// a call.
func (p *Parser) parseCallSuffix() {
	if p.match(token.WITHIN) {
		p.expect(token.GROUP)
		n := p.open(Paren)
		p.expect(token.LPAREN)
		p.parseOrderBy()
		p.expect(token.RPAREN)
		p.close(n)
	}
	if p.check(token.FILTER) && p.checkPeek(token.LPAREN) {
		p.nextToken()
		n := p.open(Paren)
		p.nextToken()
		p.expect(token.WHERE)
		p.parseExpression()
		p.expect(token.RPAREN)
		p.close(n)
	}
	if p.checkWord("IGNORE") || p.checkWord("RESPECT") {
		p.nextToken()
		p.expect(token.NULLS)
	}
	if p.match(token.OVER) {
		p.parseWindowSpec()
	}
}

// parseWindowSpec parses a window name or
//
//	'(' [name] [PARTITION BY exprs] [ORDER BY items] [frame] ')'
//	frame → (ROWS|RANGE|GROUPS) (BETWEEN bound AND bound | bound)
func (p *Parser) parseWindowSpec() {
	if !p.check(token.LPAREN) {
		p.parseName()
		return
	}
	n := p.open(Window)
	p.nextToken()
	if p.check(token.IDENT) || p.check(token.QIDENT) {
		if !p.checkWord("GROUPS") {
			p.nextToken()
		}
	}
	if p.match(token.PARTITION) {
		p.expect(token.BY)
		p.parseExpressionList()
	}
	if p.check(token.ORDER) {
		p.parseOrderBy()
	}
	if p.matchAny(token.ROWS, token.RANGE) || p.matchWord("GROUPS") {
		if p.match(token.BETWEEN) {
			p.parseFrameBound()
			p.expect(token.AND)
		}
		p.parseFrameBound()
	}
	p.expect(token.RPAREN)
	p.close(n)
}

// parseFrameBound parses UNBOUNDED PRECEDING|FOLLOWING, CURRENT ROW or
// expr PRECEDING|FOLLOWING.
func (p *Parser) parseFrameBound() {
	switch {
	case p.match(token.CURRENT):
		p.expect(token.ROW)
		return
	case p.match(token.UNBOUNDED):
	default:
		p.parseExpressionWithPrecedence(precAdd)
	}
	if !p.matchAny(token.PRECEDING, token.FOLLOWING) {
		p.unexpected("PRECEDING or FOLLOWING")
	}
}

// parseCase parses CASE [expr] WHEN expr THEN expr {...} [ELSE expr] END.
func (p *Parser) parseCase() {
	n := p.open(Case)
	p.expect(token.CASE)
	if !p.check(token.WHEN) {
		p.parseExpression()
	}
	if !p.check(token.WHEN) {
		p.unexpected("WHEN")
	}
	for p.match(token.WHEN) {
		p.parseExpression()
		p.expect(token.THEN)
		p.parseExpression()
	}
	if p.match(token.ELSE) {
		p.parseExpression()
	}
	p.expect(token.END)
	p.close(n)
}

// parseCast parses CAST '(' expr AS type ')' and its TRY_CAST variants.
func (p *Parser) parseCast() {
	fn := p.open(Function)
	p.nextToken()
	n := p.open(Paren)
	p.expect(token.LPAREN)
	p.parseExpression()
	p.expect(token.AS)
	p.parseType()
	p.expect(token.RPAREN)
	p.close(n)
	p.close(fn)
}

// intervalUnits are the words accepted after an INTERVAL value.
var intervalUnits = map[string]bool{
	"YEAR": true, "YEARS": true, "QUARTER": true, "MONTH": true, "MONTHS": true,
	"WEEK": true, "WEEKS": true, "DAY": true, "DAYS": true, "HOUR": true, "HOURS": true,
	"MINUTE": true, "MINUTES": true, "SECOND": true, "SECONDS": true,
	"MILLISECOND": true, "MILLISECONDS": true, "MICROSECOND": true, "MICROSECONDS": true,
	"DAY_HOUR": true, "DAY_MINUTE": true, "DAY_SECOND": true, "HOUR_MINUTE": true,
	"HOUR_SECOND": true, "MINUTE_SECOND": true, "YEAR_MONTH": true,
}

// parseInterval parses INTERVAL value [unit [TO unit]].
func (p *Parser) parseInterval() {
	p.expect(token.INTERVAL)
	p.parseExpressionWithPrecedence(precUnary)
	p.parseIntervalUnit()
	if p.checkWord("TO") {
		p.nextToken()
		p.parseIntervalUnit()
	}
}

func (p *Parser) parseIntervalUnit() {
	if p.check(token.IDENT) && intervalUnits[strings.ToUpper(p.token.Literal)] {
		p.nextToken()
	}
}

// typeContinuations may follow the first word of a multi-word type name.
var typeContinuations = map[string]bool{
	"PRECISION": true, "VARYING": true, "UNSIGNED": true, "SIGNED": true,
	"INTEGER": true, "INT": true, "ZEROFILL": true,
}

// parseType parses a type name such as NUMERIC(10, 2), DOUBLE PRECISION,
// TIMESTAMP WITH TIME ZONE, INT[] or ARRAY<STRING>.
func (p *Parser) parseType() {
	p.parseName()
	for p.check(token.IDENT) && typeContinuations[strings.ToUpper(p.token.Literal)] {
		p.nextToken()
	}
	if p.check(token.LPAREN) {
		p.parseParenExprList()
	}
	if (p.check(token.WITH) || p.checkWord("WITHOUT")) && p.peek.Type == token.IDENT && strings.EqualFold(p.peek.Literal, "TIME") {
		p.nextToken()
		p.nextToken()
		if !p.matchWord("ZONE") {
			p.unexpected("ZONE")
		}
	}
	if p.check(token.LT) {
		depth := 0
		for {
			switch {
			case p.match(token.LT):
				depth++
			case p.match(token.GT):
				depth--
			case p.check(token.EOF), p.check(token.SEMICOLON):
				p.unexpected(">")
			default:
				p.nextToken()
			}
			if depth == 0 {
				break
			}
		}
	}
	for p.match(token.LBRACKET) {
		p.match(token.NUMBER)
		p.expect(token.RBRACKET)
	}
}

// parseBalanced consumes a parenthesized group without interpreting it,
// keeping nested groups as nodes.
func (p *Parser) parseBalanced() {
	n := p.open(Paren)
	p.expect(token.LPAREN)
	for !p.check(token.RPAREN) {
		switch p.token.Type {
		case token.EOF, token.SEMICOLON:
			p.errorAt(n.tokenAt(), ErrUnclosedParen)
			panic(bailout{})
		case token.ILLEGAL:
			p.fail("")
		case token.LPAREN:
			p.parseBalanced()
			continue
		case token.CASE:
			p.parseCase()
			continue
		}
		p.nextToken()
	}
	p.nextToken()
	p.close(n)
}
