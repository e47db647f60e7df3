// Package dialect provides the SQL dialect table used by the highlighter,
// parser and formatter.
//
// A dialect is selected by a Tag. Every operation resolves the Tag through
// Lookup, which always returns a usable Dialect: unknown tags fall back to
// Standard.
package dialect

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Tag identifies one of the supported SQL dialects.
type Tag int

// Supported dialects.
const (
	Standard Tag = iota
	MySQL
	PostgreSQL
	Spark
)

// String returns the wire name of the tag ("standard", "mysql", ...).
func (t Tag) String() string {
	switch t {
	case MySQL:
		return "mysql"
	case PostgreSQL:
		return "postgresql"
	case Spark:
		return "spark"
	default:
		return "standard"
	}
}

// ParseTag resolves a dialect name. Matching is case-insensitive and accepts
// a few common aliases. Anything unrecognised resolves to Standard and ok is false.
func ParseTag(name string) (Tag, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "standard", "ansi", "sql", "":
		return Standard, true
	case "mysql", "mariadb":
		return MySQL, true
	case "postgresql", "postgres", "pg":
		return PostgreSQL, true
	case "spark", "sparksql", "databricks":
		return Spark, true
	default:
		return Standard, false
	}
}

// MustParseTag is ParseTag without the ok flag.
func MustParseTag(name string) Tag {
	t, _ := ParseTag(name)
	return t
}

// IdentifierConfig describes how identifiers are quoted in a dialect.
type IdentifierConfig struct {
	Quote    byte // opening quote character
	QuoteEnd byte // closing quote character
}

// Dialect holds the keyword table and grammar switches for one dialect.
type Dialect struct {
	Tag         Tag
	Name        string
	DisplayName string
	Identifiers IdentifierConfig

	// Lexer switches
	HashComments     bool // # starts a line comment (MySQL)
	CastOperator     bool // :: postfix cast (PostgreSQL)
	DollarParams     bool // $1 placeholders (PostgreSQL)
	BacktickIdents   bool // `ident` quoting
	DoubleQuoteIdent bool // "ident" quoting; false means "..." is a string

	// Parser switches
	Ilike           bool // ILIKE operator
	Rlike           bool // RLIKE / REGEXP operators
	LimitComma      bool // LIMIT offset, count
	Returning       bool // RETURNING clause on DML
	OnConflict      bool // INSERT ... ON CONFLICT
	OnDuplicateKey  bool // INSERT ... ON DUPLICATE KEY UPDATE
	LateralView     bool // LATERAL VIEW explode(...)
	QualifyClause   bool // QUALIFY after HAVING
	DistinctOn      bool // SELECT DISTINCT ON (...)
	PlainBeginBlock bool // BEGIN ... END compound statements

	keywords map[string]struct{}
}

// IsKeyword reports whether word is a reserved keyword in this dialect.
// The check is case-insensitive.
func (d *Dialect) IsKeyword(word string) bool {
	if word == "" {
		return false
	}
	_, ok := d.keywords[strings.ToUpper(word)]
	return ok
}

// Keywords returns the dialect's keywords in no particular order.
func (d *Dialect) Keywords() []string {
	kws := make([]string, 0, len(d.keywords))
	for kw := range d.keywords {
		kws = append(kws, kw)
	}
	return kws
}

// IsIdentQuote reports whether ch opens a quoted identifier in this dialect.
func (d *Dialect) IsIdentQuote(ch byte) bool {
	switch ch {
	case '`':
		return d.BacktickIdents
	case '"':
		return d.DoubleQuoteIdent
	default:
		return false
	}
}

// Builder constructs a Dialect with a fluent API.
type Builder struct {
	dialect *Dialect
}

// NewDialect starts a builder for the given tag. The name and display name
// are derived from the tag.
func NewDialect(tag Tag) *Builder {
	return &Builder{
		dialect: &Dialect{
			Tag:              tag,
			Name:             tag.String(),
			DisplayName:      displayName(tag),
			Identifiers:      IdentifierConfig{Quote: '"', QuoteEnd: '"'},
			DoubleQuoteIdent: true,
			keywords:         make(map[string]struct{}),
		},
	}
}

// Extend starts a builder that copies base's keywords and switches.
func Extend(tag Tag, base *Dialect) *Builder {
	b := NewDialect(tag)
	kw := b.dialect.keywords
	*b.dialect = *base
	b.dialect.Tag = tag
	b.dialect.Name = tag.String()
	b.dialect.DisplayName = displayName(tag)
	b.dialect.keywords = kw
	for k := range base.keywords {
		kw[k] = struct{}{}
	}
	return b
}

// WithKeywords adds keywords to the table.
func (b *Builder) WithKeywords(kws ...string) *Builder {
	for _, kw := range kws {
		b.dialect.keywords[strings.ToUpper(kw)] = struct{}{}
	}
	return b
}

// Identifiers sets the identifier quote characters. Setting '`' enables
// backtick identifiers and turns "..." into strings.
func (b *Builder) Identifiers(quote, quoteEnd byte) *Builder {
	b.dialect.Identifiers = IdentifierConfig{Quote: quote, QuoteEnd: quoteEnd}
	b.dialect.BacktickIdents = quote == '`'
	b.dialect.DoubleQuoteIdent = quote == '"'
	return b
}

// Configure applies arbitrary switches.
func (b *Builder) Configure(fn func(d *Dialect)) *Builder {
	fn(b.dialect)
	return b
}

// Build returns the constructed dialect.
func (b *Builder) Build() *Dialect {
	return b.dialect
}

var titleCaser = cases.Title(language.English)

func displayName(t Tag) string {
	switch t {
	case MySQL:
		return "MySQL"
	case PostgreSQL:
		return "PostgreSQL"
	case Spark:
		return "Spark SQL"
	default:
		return titleCaser.String(t.String()) + " SQL"
	}
}
