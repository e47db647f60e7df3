package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqllens/pkg/dialect"
	"github.com/leapstack-labs/sqllens/pkg/parser"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		name string
		tag  dialect.Tag
		sql  string
		kind parser.NodeKind
	}{
		{"select", dialect.Standard, "SELECT a, b AS c FROM t WHERE a > 1 ORDER BY b DESC LIMIT 10", parser.Select},
		{"with", dialect.Standard, "WITH x AS (SELECT 1) SELECT * FROM x", parser.With},
		{"case", dialect.Standard, "SELECT CASE WHEN a = 1 THEN 'x' ELSE 'y' END AS k FROM t", parser.Select},
		{"window", dialect.Standard, "SELECT COUNT(*) FILTER (WHERE a > 0) OVER (PARTITION BY b ORDER BY c ROWS BETWEEN UNBOUNDED PRECEDING AND CURRENT ROW) FROM t", parser.Select},
		{"join", dialect.Standard, "SELECT a FROM t1 LEFT JOIN t2 ON t1.id = t2.id", parser.Select},
		{"set operation", dialect.Standard, "SELECT a FROM t UNION ALL SELECT b FROM u", parser.SetOp},
		{"extract", dialect.Standard, "SELECT EXTRACT(YEAR FROM d) FROM t", parser.Select},
		{"cast", dialect.Standard, "SELECT CAST(a AS DECIMAL(10, 2)) FROM t", parser.Select},
		{"in subquery", dialect.Standard, "DELETE FROM t WHERE a IN (SELECT b FROM u)", parser.Delete},
		{"update", dialect.Standard, "UPDATE t SET a = 1 WHERE b = 2", parser.Update},
		{"create table", dialect.Standard, "CREATE TABLE t (id INT PRIMARY KEY, name VARCHAR(10))", parser.Create},
		{"create view", dialect.Standard, "CREATE OR REPLACE VIEW v AS SELECT 1", parser.Create},
		{"drop", dialect.Standard, "DROP TABLE IF EXISTS a, b CASCADE", parser.Drop},
		{"begin block", dialect.Standard, "BEGIN SELECT 1; SELECT 2; END", parser.Block},
		{"transaction", dialect.PostgreSQL, "BEGIN", parser.Transaction},
		{"postgres upsert", dialect.PostgreSQL, "INSERT INTO t (a, b) VALUES (1, 2) ON CONFLICT (a) DO UPDATE SET b = 3 RETURNING id", parser.Insert},
		{"postgres cast and ilike", dialect.PostgreSQL, "SELECT a::int FROM t WHERE name ILIKE 'x%'", parser.Select},
		{"postgres distinct on", dialect.PostgreSQL, "SELECT DISTINCT ON (a) a, b FROM t ORDER BY a, b DESC", parser.Select},
		{"mysql limit comma", dialect.MySQL, "SELECT `a` FROM t LIMIT 5, 10", parser.Select},
		{"mysql upsert", dialect.MySQL, "INSERT INTO t (a) VALUES (1) ON DUPLICATE KEY UPDATE a = VALUES(a)", parser.Insert},
		{"spark lateral view", dialect.Spark, "SELECT * FROM t LATERAL VIEW explode(arr) e AS x", parser.Select},
		{"spark qualify", dialect.Spark, "SELECT a FROM t QUALIFY ROW_NUMBER() OVER (PARTITION BY a ORDER BY b) = 1", parser.Select},
		{"alter", dialect.Standard, "ALTER TABLE t ADD COLUMN c INT", parser.Alter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, errs := parser.ParseAll(tt.sql, dialect.Lookup(tt.tag))
			require.Empty(t, errs)
			stmts := tree.Statements()
			require.Len(t, stmts, 1)
			assert.Equal(t, tt.kind, stmts[0].Kind)
			assert.Equal(t, 0, stmts[0].From)
			assert.Equal(t, len(tt.sql), stmts[0].To)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		tag     dialect.Tag
		sql     string
		message string
		line    int
		column  int
	}{
		{"missing select list", dialect.Standard, "SELECT FROM t", "unexpected keyword FROM, expected expression", 1, 8},
		{"missing table", dialect.Standard, "SELECT * FROM", "unexpected end of input, expected table name", 1, 14},
		{"missing paren", dialect.Standard, "SELECT (a FROM t", "unexpected keyword FROM, expected )", 1, 11},
		{"unterminated string", dialect.Standard, "SELECT 'abc", parser.ErrUnterminatedString, 1, 8},
		{"trailing garbage", dialect.Standard, "SELECT 1 2", "unexpected number 2, expected ; or end of input", 1, 10},
		{"limit comma outside mysql", dialect.Standard, "SELECT * FROM t LIMIT 1, 2", "LIMIT offset, count is not supported in Standard SQL", 1, 24},
		{"unclosed paren in loose statement", dialect.Standard, "ALTER TABLE t ADD (a INT", parser.ErrUnclosedParen, 1, 19},
		{"second line", dialect.Standard, "SELECT a\nFROM", "unexpected end of input, expected table name", 2, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := parser.ParseAll(tt.sql, dialect.Lookup(tt.tag))
			require.Len(t, errs, 1)
			assert.Equal(t, tt.message, errs[0].Message)
			assert.Equal(t, tt.line, errs[0].Pos.Line)
			assert.Equal(t, tt.column, errs[0].Pos.Column)
			assert.Contains(t, errs[0].Error(), "parse error at line")
		})
	}
}

func TestParse_RecoversPerStatement(t *testing.T) {
	sql := "SELECT FROM;\nSELECT 1;\nSELECT * FROM"
	tree, errs := parser.ParseAll(sql, nil)

	require.Len(t, errs, 2)
	assert.Equal(t, 1, errs[0].Pos.Line)
	assert.Equal(t, 3, errs[1].Pos.Line)

	stmts := tree.Statements()
	require.Len(t, stmts, 3)
	assert.Equal(t, parser.Invalid, stmts[0].Kind)
	assert.Equal(t, parser.Select, stmts[1].Kind)
	assert.Equal(t, "SELECT 1", stmts[1].Text(sql))
	assert.Equal(t, parser.Invalid, stmts[2].Kind)
}

func TestParse_FirstError(t *testing.T) {
	tree, err := parser.Parse("SELECT 1; SELECT FROM", nil)
	require.Error(t, err)
	require.NotNil(t, tree)

	_, err = parser.Parse("SELECT 1", nil)
	assert.NoError(t, err)
}

func TestParse_EmptyInput(t *testing.T) {
	for _, sql := range []string{"", "  \n ", ";;", "-- only a comment"} {
		tree, errs := parser.ParseAll(sql, nil)
		assert.Empty(t, errs, sql)
		assert.Empty(t, tree.Statements(), sql)
	}
}

func TestParse_TreeShape(t *testing.T) {
	sql := "SELECT\n  CASE\n    WHEN a THEN (\n      1\n    )\n  END\nFROM t"
	tree, errs := parser.ParseAll(sql, nil)
	require.Empty(t, errs)

	var kinds []parser.NodeKind
	tree.Walk(func(n *parser.Node) bool {
		kinds = append(kinds, n.Kind)
		return true
	})
	assert.Equal(t, []parser.NodeKind{parser.Script, parser.Select, parser.Case, parser.Paren}, kinds)

	stmt := tree.Statements()[0]
	assert.Equal(t, 7, stmt.Lines())
	cs := stmt.Children[0]
	assert.Equal(t, "CASE", cs.Text(sql)[:4])
	assert.Equal(t, "END", cs.Text(sql)[len(cs.Text(sql))-3:])
	paren := cs.Children[0]
	assert.Equal(t, "(\n      1\n    )", paren.Text(sql))
}

func TestParse_SecondStatementPosition(t *testing.T) {
	sql := "SELECT 1;\nSELECT 2"
	tree, errs := parser.ParseAll(sql, nil)
	require.Empty(t, errs)

	stmts := tree.Statements()
	require.Len(t, stmts, 2)
	assert.Equal(t, 10, stmts[1].From)
	assert.Equal(t, 18, stmts[1].To)
	assert.Equal(t, 2, stmts[1].Start.Line)
	assert.Equal(t, 1, stmts[1].Start.Column)
}

func TestParse_LooseKeepsGroups(t *testing.T) {
	sql := "CREATE FUNCTION f() RETURNS int AS BEGIN\n  RETURN (1);\nEND"
	tree, errs := parser.ParseAll(sql, dialect.Lookup(dialect.MySQL))
	require.Empty(t, errs)

	var blocks, parens int
	tree.Walk(func(n *parser.Node) bool {
		switch n.Kind {
		case parser.Block:
			blocks++
		case parser.Paren:
			parens++
		}
		return true
	})
	assert.Equal(t, 1, blocks)
	assert.Equal(t, 2, parens)
}

func TestNode_Innermost(t *testing.T) {
	sql := "SELECT (a + (b)) FROM t"
	tree, errs := parser.ParseAll(sql, nil)
	require.Empty(t, errs)

	n := tree.Innermost(13)
	require.NotNil(t, n)
	assert.Equal(t, "(b)", n.Text(sql))
	assert.Nil(t, tree.Innermost(len(sql)+5))
}
