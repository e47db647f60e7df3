package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqllens/pkg/dialect"
	"github.com/leapstack-labs/sqllens/pkg/token"
)

func tokenTypes(input string, tag dialect.Tag) []token.TokenType {
	var out []token.TokenType
	for _, tok := range Tokenize(input, dialect.Lookup(tag)) {
		out = append(out, tok.Type)
	}
	return out
}

func TestLexer_Tokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		tag   dialect.Tag
		want  []token.TokenType
	}{
		{
			name:  "simple select",
			input: "SELECT a, 'it''s' FROM t",
			tag:   dialect.Standard,
			want:  []token.TokenType{token.SELECT, token.IDENT, token.COMMA, token.STRING, token.FROM, token.IDENT, token.EOF},
		},
		{
			name:  "operators",
			input: "<= >= <> != <=> -> ->> ||",
			tag:   dialect.Standard,
			want:  []token.TokenType{token.LE, token.GE, token.NE, token.NE, token.NULLSAFE, token.ARROW, token.DARROW, token.DPIPE, token.EOF},
		},
		{
			name:  "numbers",
			input: "1.5e10 .5 0xFF 42",
			tag:   dialect.Standard,
			want:  []token.TokenType{token.NUMBER, token.NUMBER, token.NUMBER, token.NUMBER, token.EOF},
		},
		{
			name:  "postgres cast",
			input: "a::int",
			tag:   dialect.PostgreSQL,
			want:  []token.TokenType{token.IDENT, token.DCOLON, token.IDENT, token.EOF},
		},
		{
			name:  "cast operator is two colons elsewhere",
			input: "a::int",
			tag:   dialect.Standard,
			want:  []token.TokenType{token.IDENT, token.COLON, token.COLON, token.IDENT, token.EOF},
		},
		{
			name:  "named parameters",
			input: "x = :id AND y = @name",
			tag:   dialect.Standard,
			want:  []token.TokenType{token.IDENT, token.EQ, token.PARAM, token.AND, token.IDENT, token.EQ, token.PARAM, token.EOF},
		},
		{
			name:  "postgres params and dollar quoting",
			input: "$1 $$ body $$",
			tag:   dialect.PostgreSQL,
			want:  []token.TokenType{token.PARAM, token.STRING, token.EOF},
		},
		{
			name:  "mysql backticks and hash comment",
			input: "`col` # note\n?",
			tag:   dialect.MySQL,
			want:  []token.TokenType{token.QIDENT, token.PARAM, token.EOF},
		},
		{
			name:  "hash is illegal in standard",
			input: "# note",
			tag:   dialect.Standard,
			want:  []token.TokenType{token.ILLEGAL, token.IDENT, token.EOF},
		},
		{
			name:  "double quotes are strings in mysql",
			input: `"x"`,
			tag:   dialect.MySQL,
			want:  []token.TokenType{token.STRING, token.EOF},
		},
		{
			name:  "double quotes are identifiers in postgres",
			input: `"x"`,
			tag:   dialect.PostgreSQL,
			want:  []token.TokenType{token.QIDENT, token.EOF},
		},
		{
			name:  "ilike only in postgres",
			input: "ILIKE",
			tag:   dialect.PostgreSQL,
			want:  []token.TokenType{token.ILIKE, token.EOF},
		},
		{
			name:  "ilike is a name in standard",
			input: "ILIKE",
			tag:   dialect.Standard,
			want:  []token.TokenType{token.IDENT, token.EOF},
		},
		{
			name:  "qualify only in spark",
			input: "qualify",
			tag:   dialect.Spark,
			want:  []token.TokenType{token.QUALIFY, token.EOF},
		},
		{
			name:  "unterminated string",
			input: "'abc",
			tag:   dialect.Standard,
			want:  []token.TokenType{token.ILLEGAL, token.EOF},
		},
		{
			name:  "unterminated comment",
			input: "a /* b",
			tag:   dialect.Standard,
			want:  []token.TokenType{token.IDENT, token.ILLEGAL, token.EOF},
		},
		{
			name:  "unicode identifier",
			input: "café",
			tag:   dialect.Standard,
			want:  []token.TokenType{token.IDENT, token.EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenTypes(tt.input, tt.tag))
		})
	}
}

func TestLexer_Positions(t *testing.T) {
	toks := Tokenize("SELECT\n  a", nil)
	require.Len(t, toks, 3)

	assert.Equal(t, token.Position{Line: 1, Column: 1, Offset: 0}, toks[0].Pos)
	assert.Equal(t, token.Position{Line: 1, Column: 7, Offset: 6}, toks[0].End)
	assert.Equal(t, token.Position{Line: 2, Column: 3, Offset: 9}, toks[1].Pos)
	assert.Equal(t, "a", toks[1].Literal)
	assert.Equal(t, token.Position{Line: 2, Column: 4, Offset: 10}, toks[2].Pos)
}

func TestLexer_CollectsComments(t *testing.T) {
	l := NewLexer("SELECT 1 -- one\n/* two */", nil)
	for l.NextToken().Type != token.EOF {
	}
	require.Len(t, l.Comments, 2)
	assert.Equal(t, "-- one", l.Comments[0].Text)
	assert.True(t, l.Comments[0].IsLineComment())
	assert.Equal(t, "/* two */", l.Comments[1].Text)
	assert.True(t, l.Comments[1].IsBlockComment())
	assert.Equal(t, 2, l.Comments[1].Span.Start.Line)
}

func TestLexer_KeepComments(t *testing.T) {
	l := NewLexer("a /* b */ c", nil)
	l.KeepComments = true

	var got []string
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			break
		}
		got = append(got, tok.Literal)
	}
	assert.Equal(t, []string{"a", "/* b */", "c"}, got)
	assert.Empty(t, l.Comments)
}
