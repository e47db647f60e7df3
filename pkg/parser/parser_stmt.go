package parser

import (
	"fmt"

	"github.com/leapstack-labs/sqllens/pkg/token"
)

// ---------- DML ----------

// parseInsert parses
//
//	INSERT [IGNORE] (INTO | OVERWRITE [TABLE]) name [AS alias] ['(' columns ')']
//	  (VALUES rows | query | DEFAULT VALUES | SET assignments)
//	  [ON DUPLICATE KEY UPDATE assignments]
//	  [ON CONFLICT [target] DO (NOTHING | UPDATE SET assignments [WHERE expr])]
//	  [RETURNING select_list]
func (p *Parser) parseInsert() {
	n := p.open(Insert)
	p.expect(token.INSERT)
	p.matchWord("IGNORE")
	if p.matchWord("OVERWRITE") {
		p.match(token.TABLE)
	} else {
		p.expect(token.INTO)
	}
	p.parseName()
	if p.match(token.AS) {
		p.parseName()
	}
	if p.check(token.LPAREN) && !startsQuery(p.peek) {
		p.parseIdentList()
	}

	switch {
	case p.check(token.DEFAULT):
		p.nextToken()
		p.expect(token.VALUES)
	case p.check(token.SET):
		p.nextToken()
		p.parseAssignments()
	case p.check(token.SELECT), p.check(token.WITH), p.check(token.VALUES), p.check(token.LPAREN):
		p.parseQuery()
	default:
		p.unexpected("VALUES or query")
	}

	for p.check(token.ON) {
		switch {
		case p.checkPeek(token.DUPLICATE):
			if !p.dialect.OnDuplicateKey {
				p.fail(fmt.Sprintf(ErrUnsupportedClause, "ON DUPLICATE KEY UPDATE", p.dialect.DisplayName))
			}
			p.nextToken()
			p.nextToken()
			p.expect(token.KEY)
			p.expect(token.UPDATE)
			p.parseAssignments()
		case p.checkPeek(token.CONFLICT):
			if !p.dialect.OnConflict {
				p.fail(fmt.Sprintf(ErrUnsupportedClause, "ON CONFLICT", p.dialect.DisplayName))
			}
			p.nextToken()
			p.nextToken()
			p.parseConflictAction()
		default:
			p.unexpected("DUPLICATE or CONFLICT")
		}
	}
	p.parseReturning()
	p.close(n)
}

// parseConflictAction parses the part of ON CONFLICT after the keywords.
func (p *Parser) parseConflictAction() {
	switch {
	case p.check(token.LPAREN):
		p.parseIdentList()
		if p.match(token.WHERE) {
			p.parseExpression()
		}
	case p.match(token.ON):
		p.expect(token.CONSTRAINT)
		p.parseName()
	}
	p.expect(token.DO)
	if p.match(token.NOTHING) {
		return
	}
	p.expect(token.UPDATE)
	p.expect(token.SET)
	p.parseAssignments()
	if p.match(token.WHERE) {
		p.parseExpression()
	}
}

// parseAssignments parses name = expr {, name = expr}.
func (p *Parser) parseAssignments() {
	for {
		if p.check(token.LPAREN) {
			p.parseIdentList()
		} else {
			p.parseName()
		}
		p.expect(token.EQ)
		p.parseExpression()
		if !p.match(token.COMMA) {
			return
		}
	}
}

// parseReturning parses an optional RETURNING list.
func (p *Parser) parseReturning() {
	if p.match(token.RETURNING) {
		p.parseSelectList()
	}
}

// parseUpdate parses
//
//	UPDATE table_ref SET assignments [FROM from_list] [WHERE expr]
//	  [ORDER BY ...] [LIMIT expr] [RETURNING ...]
func (p *Parser) parseUpdate() {
	n := p.open(Update)
	p.expect(token.UPDATE)
	p.parseTableRef()
	p.expect(token.SET)
	p.parseAssignments()
	if p.match(token.FROM) {
		p.parseFromList()
	}
	if p.match(token.WHERE) {
		p.parseExpression()
	}
	if p.check(token.ORDER) {
		p.parseOrderBy()
	}
	if p.match(token.LIMIT) {
		p.parseExpression()
	}
	p.parseReturning()
	p.close(n)
}

// parseDelete parses
//
//	DELETE FROM name [[AS] alias] [USING from_list] [WHERE expr]
//	  [ORDER BY ...] [LIMIT expr] [RETURNING ...]
func (p *Parser) parseDelete() {
	n := p.open(Delete)
	p.expect(token.DELETE)
	p.expect(token.FROM)
	p.parseName()
	p.parseAlias(false)
	if p.match(token.USING) {
		p.parseFromList()
	}
	if p.match(token.WHERE) {
		p.parseExpression()
	}
	if p.check(token.ORDER) {
		p.parseOrderBy()
	}
	if p.match(token.LIMIT) {
		p.parseExpression()
	}
	p.parseReturning()
	p.close(n)
}

// ---------- DDL ----------

// parseCreate parses the head of a CREATE statement. Tables, views and
// indexes are parsed structurally; other objects, such as functions and
// procedures, are parsed loosely.
//
//	CREATE [OR REPLACE] [TEMP|TEMPORARY] [UNIQUE] [MATERIALIZED]
//	  ( TABLE [IF NOT EXISTS] name ['(' elements ')'] [options] [AS query]
//	  | VIEW [IF NOT EXISTS] name ['(' columns ')'] AS query
//	  | INDEX [IF NOT EXISTS] [name] ON name ['(' items ')'] ...
//	  | ... )
func (p *Parser) parseCreate() {
	n := p.open(Create)
	p.expect(token.CREATE)
	if p.match(token.OR) {
		p.expect(token.REPLACE)
	}
	p.matchAny(token.TEMP, token.TEMPORARY)
	p.matchWord("EXTERNAL")
	p.match(token.UNIQUE)
	p.match(token.MATERIALIZED)

	switch {
	case p.match(token.TABLE):
		p.parseIfNotExists()
		p.parseName()
		if p.check(token.LPAREN) && !startsQuery(p.peek) {
			p.parseBalanced()
		}
		p.parseCreateTail()
	case p.match(token.VIEW):
		p.parseIfNotExists()
		p.parseName()
		if p.check(token.LPAREN) {
			p.parseIdentList()
		}
		p.parseCreateTail()
	case p.match(token.INDEX):
		p.parseIfNotExists()
		if !p.check(token.ON) {
			p.parseName()
		}
		p.expect(token.ON)
		p.parseName()
		p.skipLoose(true)
	default:
		p.skipLoose(true)
	}
	p.close(n)
}

// parseCreateTail consumes table options up to an AS query, if any.
func (p *Parser) parseCreateTail() {
	for !p.check(token.SEMICOLON) && !p.check(token.EOF) {
		switch {
		case p.check(token.AS) && (startsQuery(p.peek) || p.peek.Type == token.LPAREN):
			p.nextToken()
			p.parseQuery()
			return
		case p.check(token.LPAREN):
			p.parseBalanced()
		case p.check(token.ILLEGAL), p.check(token.RPAREN):
			p.unexpected("table option")
		default:
			p.nextToken()
		}
	}
}

func (p *Parser) parseIfNotExists() {
	if p.match(token.IF) {
		p.expect(token.NOT)
		p.expect(token.EXISTS)
	}
}

// parseDrop parses DROP object [IF EXISTS] name {, name} [CASCADE|RESTRICT].
func (p *Parser) parseDrop() {
	n := p.open(Drop)
	p.expect(token.DROP)
	p.match(token.MATERIALIZED)
	if !p.matchAny(token.TABLE, token.VIEW, token.INDEX) {
		if !p.check(token.IDENT) {
			p.unexpected("object type")
		}
		p.nextToken()
	}
	if p.match(token.IF) {
		p.expect(token.EXISTS)
	}
	for {
		p.parseName()
		if !p.match(token.COMMA) {
			break
		}
	}
	p.matchAny(token.CASCADE, token.RESTRICT)
	p.close(n)
}
