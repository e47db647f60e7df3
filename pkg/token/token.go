// Package token defines the lexical token types used by the SQL parser and
// formatter.
//
// Keywords come in two groups. Reserved keywords can never be used as bare
// identifiers; soft keywords (TABLE, KEY, ROWS, ...) have structural meaning
// in some positions but are accepted as identifiers everywhere else.
package token

import "fmt"

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

//nolint:revive // ALL_CAPS names follow SQL token conventions
const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL
	COMMENT

	// Literals
	IDENT  // identifier
	QIDENT // "quoted" or `quoted` identifier
	NUMBER // 123, 45.67, 1e10
	STRING // 'hello'
	PARAM  // ?, $1, :name

	// Operators
	PLUS      // +
	MINUS     // -
	STAR      // *
	SLASH     // /
	PERCENT   // %
	DPIPE     // ||
	EQ        // =
	NE        // != or <>
	LT        // <
	GT        // >
	LE        // <=
	GE        // >=
	DOT       // .
	COMMA     // ,
	SEMICOLON // ;
	LPAREN    // (
	RPAREN    // )
	LBRACKET  // [
	RBRACKET  // ]
	DCOLON    // ::
	COLON     // :
	ARROW     // ->
	DARROW    // ->>
	AMP       // &
	PIPE      // |
	CARET     // ^
	TILDE     // ~
	NULLSAFE  // <=>

	// Reserved keywords (alphabetical)
	reservedStart
	ALL
	ALTER
	AND
	AS
	BETWEEN
	BY
	CASE
	CAST
	CREATE
	CROSS
	DELETE
	DISTINCT
	DROP
	ELSE
	END
	EXCEPT
	EXISTS
	FALSE
	FROM
	FULL
	GROUP
	HAVING
	ILIKE
	IN
	INNER
	INSERT
	INTERSECT
	INTO
	IS
	JOIN
	LEFT
	LIKE
	LIMIT
	NATURAL
	NOT
	NULL
	OFFSET
	ON
	OR
	ORDER
	OUTER
	QUALIFY
	REGEXP
	RETURNING
	RIGHT
	RLIKE
	SELECT
	SET
	THEN
	TRUE
	UNION
	UPDATE
	USING
	VALUES
	WHEN
	WHERE
	WITH
	reservedEnd

	// Soft keywords (alphabetical)
	softStart
	ASC
	BEGIN
	CASCADE
	CHECK
	COMMIT
	CONFLICT
	CONSTRAINT
	CURRENT
	DEFAULT
	DESC
	DESCRIBE
	DO
	DUPLICATE
	ESCAPE
	EXPLAIN
	FILTER
	FIRST
	FOLLOWING
	FOREIGN
	IF
	INDEX
	INTERVAL
	KEY
	LAST
	LATERAL
	MATERIALIZED
	NOTHING
	NULLS
	OVER
	PARTITION
	PRECEDING
	PRIMARY
	RANGE
	RECURSIVE
	REFERENCES
	REPLACE
	RESTRICT
	ROLLBACK
	ROW
	ROWS
	SHOW
	TABLE
	TEMP
	TEMPORARY
	TRANSACTION
	TRUNCATE
	UNBOUNDED
	UNIQUE
	USE
	VIEW
	WINDOW
	WITHIN
	WORK
	softEnd
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	if t.IsKeyword() {
		return keywordNames[t]
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// IsKeyword reports whether t is a reserved or soft keyword.
func (t TokenType) IsKeyword() bool {
	return t.IsReserved() || t.IsSoft()
}

// IsReserved reports whether t is a reserved keyword.
func (t TokenType) IsReserved() bool {
	return t > reservedStart && t < reservedEnd
}

// IsSoft reports whether t is a keyword that may also name things.
func (t TokenType) IsSoft() bool {
	return t > softStart && t < softEnd
}

// IsOperator reports whether t is an operator or punctuation token.
func (t TokenType) IsOperator() bool {
	return t >= PLUS && t <= NULLSAFE
}

// tokenNames maps non-keyword token types to their string representations.
var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",
	COMMENT: "COMMENT",

	IDENT:  "IDENT",
	QIDENT: "QUOTED IDENT",
	NUMBER: "NUMBER",
	STRING: "STRING",
	PARAM:  "PARAM",

	PLUS:      "+",
	MINUS:     "-",
	STAR:      "*",
	SLASH:     "/",
	PERCENT:   "%",
	DPIPE:     "||",
	EQ:        "=",
	NE:        "!=",
	LT:        "<",
	GT:        ">",
	LE:        "<=",
	GE:        ">=",
	DOT:       ".",
	COMMA:     ",",
	SEMICOLON: ";",
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACKET:  "[",
	RBRACKET:  "]",
	DCOLON:    "::",
	COLON:     ":",
	ARROW:     "->",
	DARROW:    "->>",
	AMP:       "&",
	PIPE:      "|",
	CARET:     "^",
	TILDE:     "~",
	NULLSAFE:  "<=>",
}

// keywords maps lowercase keyword strings to their token types.
var keywords = map[string]TokenType{}

// keywordNames maps keyword token types back to their upper-case spelling.
var keywordNames = map[TokenType]string{}

func init() {
	for name, t := range map[string]TokenType{
		"all": ALL, "alter": ALTER, "and": AND, "as": AS, "between": BETWEEN, "by": BY,
		"case": CASE, "cast": CAST, "create": CREATE, "cross": CROSS, "delete": DELETE,
		"distinct": DISTINCT, "drop": DROP, "else": ELSE, "end": END, "except": EXCEPT,
		"exists": EXISTS, "false": FALSE, "from": FROM, "full": FULL, "group": GROUP,
		"having": HAVING, "ilike": ILIKE, "in": IN, "inner": INNER, "insert": INSERT,
		"intersect": INTERSECT, "into": INTO, "is": IS, "join": JOIN, "left": LEFT,
		"like": LIKE, "limit": LIMIT, "natural": NATURAL, "not": NOT, "null": NULL,
		"offset": OFFSET, "on": ON, "or": OR, "order": ORDER, "outer": OUTER,
		"qualify": QUALIFY, "regexp": REGEXP, "returning": RETURNING, "right": RIGHT,
		"rlike": RLIKE, "select": SELECT, "set": SET, "then": THEN, "true": TRUE,
		"union": UNION, "update": UPDATE, "using": USING, "values": VALUES, "when": WHEN,
		"where": WHERE, "with": WITH,

		"asc": ASC, "begin": BEGIN, "cascade": CASCADE, "check": CHECK, "commit": COMMIT,
		"conflict": CONFLICT, "constraint": CONSTRAINT, "current": CURRENT,
		"default": DEFAULT, "desc": DESC, "describe": DESCRIBE, "do": DO,
		"duplicate": DUPLICATE, "escape": ESCAPE, "explain": EXPLAIN, "filter": FILTER,
		"first": FIRST, "following": FOLLOWING, "foreign": FOREIGN, "if": IF,
		"index": INDEX, "interval": INTERVAL, "key": KEY, "last": LAST,
		"lateral": LATERAL, "materialized": MATERIALIZED, "nothing": NOTHING,
		"nulls": NULLS, "over": OVER, "partition": PARTITION, "preceding": PRECEDING,
		"primary": PRIMARY, "range": RANGE, "recursive": RECURSIVE,
		"references": REFERENCES, "replace": REPLACE, "restrict": RESTRICT,
		"rollback": ROLLBACK, "row": ROW, "rows": ROWS, "show": SHOW, "table": TABLE,
		"temp": TEMP, "temporary": TEMPORARY, "transaction": TRANSACTION,
		"truncate": TRUNCATE, "unbounded": UNBOUNDED, "unique": UNIQUE, "use": USE,
		"view": VIEW, "window": WINDOW, "within": WITHIN, "work": WORK,
	} {
		keywords[name] = t
		keywordNames[t] = upper(name)
	}
}

func upper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

// LookupIdent returns the keyword token type for a lower-case word, or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Token represents a lexical token with position information.
type Token struct {
	Type    TokenType
	Literal string // exact source text
	Pos     Position
	End     Position
}

// Is reports whether the token has type t.
func (t Token) Is(tt TokenType) bool {
	return t.Type == tt
}

// Describe renders the token for error messages.
func (t Token) Describe() string {
	switch t.Type {
	case EOF:
		return "end of input"
	case IDENT, QIDENT:
		return fmt.Sprintf("identifier %s", t.Literal)
	case NUMBER:
		return fmt.Sprintf("number %s", t.Literal)
	case STRING:
		return "string literal"
	case PARAM:
		return fmt.Sprintf("parameter %s", t.Literal)
	case ILLEGAL:
		return fmt.Sprintf("unexpected character %q", t.Literal)
	}
	if t.Type.IsKeyword() {
		return fmt.Sprintf("keyword %s", t.Type)
	}
	return fmt.Sprintf("%q", t.Literal)
}
