package parser

import (
	"fmt"

	"github.com/leapstack-labs/sqllens/pkg/token"
)

// ---------- Queries ----------

// parseQuery parses a full query, with an optional WITH prefix. A WITH
// prefix may also introduce a data-modifying statement.
func (p *Parser) parseQuery() {
	if !p.check(token.WITH) {
		p.parseQueryBody()
		return
	}
	p.parseWith(func() {
		switch p.token.Type {
		case token.INSERT:
			p.parseInsert()
		case token.UPDATE:
			p.parseUpdate()
		case token.DELETE:
			p.parseDelete()
		default:
			p.parseQueryBody()
		}
	})
}

// parseWith parses WITH [RECURSIVE] cte_list followed by body.
//
//	cte → name ['(' columns ')'] AS [[NOT] MATERIALIZED] '(' query ')'
func (p *Parser) parseWith(body func()) {
	n := p.open(With)
	p.expect(token.WITH)
	p.match(token.RECURSIVE)
	for {
		cte := p.open(CTE)
		p.parseName()
		if p.check(token.LPAREN) {
			p.parseIdentList()
		}
		p.expect(token.AS)
		p.match(token.NOT)
		p.match(token.MATERIALIZED)
		p.parseSubquery()
		p.close(cte)
		if !p.match(token.COMMA) {
			break
		}
	}
	body()
	p.close(n)
}

// parseQueryBody parses set operations over query terms plus the trailing
// ORDER BY / LIMIT / OFFSET. A body with a single SELECT term is reported
// as that Select node covering the trailing clauses too.
func (p *Parser) parseQueryBody() {
	n := p.open(Select)
	terms := 0
	for {
		p.parseQueryTerm()
		terms++
		if !p.matchAny(token.UNION, token.INTERSECT, token.EXCEPT) {
			break
		}
		p.matchAny(token.ALL, token.DISTINCT)
	}
	p.parseQueryTail()
	p.close(n)

	if terms > 1 {
		n.Kind = SetOp
		return
	}
	if inner := n.Children[0]; inner.Kind == Select || inner.Kind == Values {
		n.Kind = inner.Kind
		n.Children = inner.Children
	}
}

// parseQueryTerm parses SELECT core, VALUES rows or a parenthesized query.
func (p *Parser) parseQueryTerm() {
	switch p.token.Type {
	case token.SELECT:
		p.parseSelectCore()
	case token.VALUES:
		p.parseValues()
	case token.LPAREN:
		p.parseSubquery()
	case token.WITH:
		p.parseQuery()
	default:
		p.unexpected("SELECT")
	}
}

// parseSubquery parses '(' query ')' into a Paren node.
func (p *Parser) parseSubquery() {
	n := p.open(Paren)
	p.expect(token.LPAREN)
	p.parseQuery()
	p.expect(token.RPAREN)
	p.close(n)
}

// parseValues parses VALUES row {, row}.
func (p *Parser) parseValues() {
	n := p.open(Values)
	p.expect(token.VALUES)
	for {
		if p.check(token.LPAREN) {
			p.parseParenExprList()
		} else {
			p.parseExpression()
		}
		if !p.match(token.COMMA) {
			break
		}
	}
	p.close(n)
}

// parseQueryTail parses ORDER BY, LIMIT, OFFSET and FETCH.
func (p *Parser) parseQueryTail() {
	if p.check(token.ORDER) {
		p.parseOrderBy()
	}
	for _, w := range []string{"CLUSTER", "DISTRIBUTE", "SORT"} {
		if p.checkWord(w) && p.checkPeek(token.BY) {
			p.nextToken()
			p.nextToken()
			p.parseOrderItems()
		}
	}
	if p.match(token.LIMIT) {
		if !p.match(token.ALL) {
			p.parseExpression()
		}
		if p.check(token.COMMA) {
			if !p.dialect.LimitComma {
				p.fail(fmt.Sprintf(ErrUnsupportedClause, "LIMIT offset, count", p.dialect.DisplayName))
			}
			p.nextToken()
			p.parseExpression()
		}
	}
	if p.match(token.OFFSET) {
		p.parseExpression()
		p.matchAny(token.ROW, token.ROWS)
	}
	if p.checkWord("FOR") {
		p.parseLockingClause()
	}
	if p.matchWord("FETCH") {
		if !p.match(token.FIRST) && !p.matchWord("NEXT") {
			p.unexpected("FIRST or NEXT")
		}
		if !p.check(token.ROW) && !p.check(token.ROWS) {
			p.parseExpression()
		}
		if !p.matchAny(token.ROW, token.ROWS) {
			p.unexpected("ROWS")
		}
		if !p.matchWord("ONLY") {
			p.expect(token.WITH)
			p.matchWord("TIES")
		}
	}
}

// parseLockingClause parses FOR UPDATE | FOR SHARE [OF names] [NOWAIT | SKIP LOCKED].
func (p *Parser) parseLockingClause() {
	for p.matchWord("FOR") {
		if !p.match(token.UPDATE) && !p.matchWord("SHARE") {
			p.unexpected("UPDATE or SHARE")
		}
		if p.matchWord("OF") {
			for {
				p.parseName()
				if !p.match(token.COMMA) {
					break
				}
			}
		}
		if !p.matchWord("NOWAIT") && p.matchWord("SKIP") {
			if !p.matchWord("LOCKED") {
				p.unexpected("LOCKED")
			}
		}
	}
}

// parseOrderBy parses ORDER BY item {, item}.
//
//	item → expr [ASC|DESC] [NULLS FIRST|LAST]
func (p *Parser) parseOrderBy() {
	p.expect(token.ORDER)
	p.expect(token.BY)
	p.parseOrderItems()
}

func (p *Parser) parseOrderItems() {
	for {
		p.parseExpression()
		p.matchAny(token.ASC, token.DESC)
		if p.match(token.NULLS) {
			if !p.matchAny(token.FIRST, token.LAST) {
				p.unexpected("FIRST or LAST")
			}
		}
		if !p.match(token.COMMA) {
			return
		}
	}
}

// parseSelectCore parses one SELECT up to, but excluding, set operations
// and ORDER BY.
func (p *Parser) parseSelectCore() {
	n := p.open(Select)
	p.expect(token.SELECT)

	switch {
	case p.match(token.ALL):
	case p.match(token.DISTINCT):
		if p.check(token.ON) {
			if !p.dialect.DistinctOn {
				p.fail(fmt.Sprintf(ErrUnsupportedClause, "DISTINCT ON", p.dialect.DisplayName))
			}
			p.nextToken()
			p.parseParenExprList()
		}
	}

	p.parseSelectList()

	if p.match(token.INTO) {
		p.match(token.TEMP)
		p.match(token.TEMPORARY)
		p.parseName()
	}
	if p.match(token.FROM) {
		p.parseFromList()
	}
	if p.match(token.WHERE) {
		p.parseExpression()
	}
	if p.check(token.GROUP) {
		p.nextToken()
		p.expect(token.BY)
		p.matchAny(token.ALL, token.DISTINCT)
		p.parseExpressionList()
		if p.check(token.WITH) && p.peek.Type == token.IDENT {
			p.nextToken()
			p.nextToken() // ROLLUP / CUBE
		}
	}
	if p.match(token.HAVING) {
		p.parseExpression()
	}
	if p.match(token.WINDOW) {
		for {
			p.parseName()
			p.expect(token.AS)
			p.parseWindowSpec()
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if p.match(token.QUALIFY) {
		p.parseExpression()
	}
	p.close(n)
}

// parseSelectList parses item {, item}.
//
//	item → '*' | expr [[AS] alias]
func (p *Parser) parseSelectList() {
	for {
		if p.match(token.STAR) {
			p.parseStarModifiers()
		} else {
			p.parseExpression()
			p.parseAlias(false)
		}
		if !p.match(token.COMMA) {
			return
		}
	}
}

// parseStarModifiers accepts EXCEPT (cols) after a star, as Spark allows.
func (p *Parser) parseStarModifiers() {
	if p.check(token.EXCEPT) && p.checkPeek(token.LPAREN) && !startsQuery(p.peek2) {
		p.nextToken()
		p.parseIdentList()
	}
}

// parseAlias parses an optional [AS] alias. With columns set, an alias may
// carry a column list: AS t(a, b).
func (p *Parser) parseAlias(columns bool) {
	switch {
	case p.match(token.AS):
		if !isName(p.token) && !p.check(token.STRING) {
			p.unexpected("alias")
		}
		p.nextToken()
	case p.isAliasStart(), p.check(token.STRING) && !p.dialect.DoubleQuoteIdent:
		p.nextToken()
	default:
		return
	}
	if columns && p.check(token.LPAREN) {
		p.parseIdentList()
	}
}

// ---------- FROM ----------

// parseFromList parses table_ref {, table_ref}.
func (p *Parser) parseFromList() {
	for {
		p.parseTableRef()
		if !p.match(token.COMMA) {
			return
		}
	}
}

// parseTableRef parses a primary table reference followed by joins.
//
//	join → [NATURAL] [INNER | CROSS | (LEFT|RIGHT|FULL) [OUTER]] JOIN
//	       primary [ON expr | USING '(' columns ')']
func (p *Parser) parseTableRef() {
	p.parsePrimaryTable()
	for {
		if p.check(token.LATERAL) && p.checkPeek(token.VIEW) {
			p.parseLateralView()
			continue
		}

		natural := p.match(token.NATURAL)
		joinWord := natural
		switch {
		case p.matchAny(token.INNER, token.CROSS):
			joinWord = true
		case p.matchAny(token.LEFT, token.RIGHT, token.FULL):
			joinWord = true
			p.match(token.OUTER)
		}
		if !p.match(token.JOIN) {
			if joinWord {
				p.unexpected("JOIN")
			}
			return
		}

		p.parsePrimaryTable()
		switch {
		case natural:
			if p.check(token.ON) || p.check(token.USING) {
				p.fail("NATURAL JOIN cannot have ON or USING")
			}
		case p.match(token.ON):
			p.parseExpression()
		case p.match(token.USING):
			p.parseIdentList()
		}
	}
}

// parsePrimaryTable parses a table name, table function, subquery or
// parenthesized join, each with an optional alias.
func (p *Parser) parsePrimaryTable() {
	p.match(token.LATERAL)
	switch {
	case p.check(token.LPAREN) && (startsQuery(p.peek) || p.peek.Type == token.LPAREN && startsQuery(p.peek2)):
		p.parseSubquery()
	case p.check(token.LPAREN):
		n := p.open(Paren)
		p.nextToken()
		p.parseTableRef()
		p.expect(token.RPAREN)
		p.close(n)
	case p.check(token.VALUES):
		p.parseValues()
	case isName(p.token):
		start := p.token
		p.parseName()
		if p.check(token.LPAREN) {
			fn := p.openAt(Function, start)
			p.parseCallArgs()
			p.close(fn)
		}
	default:
		p.unexpected("table name")
	}
	p.parseAlias(true)
}

// parseLateralView parses Spark's LATERAL VIEW [OUTER] generator alias
// [AS col {, col}].
func (p *Parser) parseLateralView() {
	if !p.dialect.LateralView {
		p.fail(fmt.Sprintf(ErrUnsupportedClause, "LATERAL VIEW", p.dialect.DisplayName))
	}
	p.nextToken()
	p.nextToken()
	p.match(token.OUTER)
	p.parseExpression()
	if isName(p.token) {
		p.nextToken()
	}
	if p.match(token.AS) {
		for {
			if !isName(p.token) {
				p.unexpected("column alias")
			}
			p.nextToken()
			if !p.match(token.COMMA) {
				break
			}
		}
	}
}

// ---------- Names ----------

// parseName parses a possibly qualified name: part {. part}. After a dot
// any keyword is accepted as a part.
func (p *Parser) parseName() {
	if !isName(p.token) {
		p.unexpected("name")
	}
	p.nextToken()
	for p.check(token.DOT) {
		p.nextToken()
		if p.check(token.STAR) || isName(p.token) || p.token.Type.IsKeyword() {
			p.nextToken()
			continue
		}
		p.unexpected("name")
	}
}

// parseIdentList parses '(' name {, name} ')' into a Paren node.
func (p *Parser) parseIdentList() {
	n := p.open(Paren)
	p.expect(token.LPAREN)
	for {
		p.parseName()
		p.matchAny(token.ASC, token.DESC)
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	p.close(n)
}
