// Package validate reports SQL syntax errors for editor diagnostics.
//
// Validation is advisory. A Validator never panics and never returns an
// error: blank input, a cancelled context and a parser failure all yield an
// empty list.
package validate

import (
	"context"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/sqllens/pkg/dialect"
	"github.com/leapstack-labs/sqllens/pkg/parser"
)

// ValidationError is a syntax error located in the source. Lines and
// columns are 1-based; EndColumn is exclusive.
type ValidationError struct {
	StartLine   int    `json:"startLine"`
	EndLine     int    `json:"endLine"`
	StartColumn int    `json:"startColumn"`
	EndColumn   int    `json:"endColumn"`
	Message     string `json:"message"`
}

// parseFunc matches parser.ParseAll.
type parseFunc func(sql string, d *dialect.Dialect) (*parser.Node, []*parser.ParseError)

// Validator checks SQL against a dialect's grammar.
type Validator struct {
	logger *slog.Logger
	parse  parseFunc
}

// New creates a Validator. A nil logger discards output.
func New(logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Validator{logger: logger, parse: parser.ParseAll}
}

// Validate parses sql with the given dialect and returns its syntax errors
// in source order.
func (v *Validator) Validate(ctx context.Context, sql string, tag dialect.Tag) (errs []ValidationError) {
	if strings.TrimSpace(sql) == "" {
		return []ValidationError{}
	}
	if ctx.Err() != nil {
		return []ValidationError{}
	}

	defer func() {
		if r := recover(); r != nil {
			v.logger.Warn("validation failed", "dialect", tag.String(), "panic", r)
			errs = []ValidationError{}
		}
	}()

	_, perrs := v.parse(sql, dialect.Lookup(tag))
	errs = make([]ValidationError, 0, len(perrs))
	for _, pe := range perrs {
		errs = append(errs, FromParseError(pe))
	}
	v.logger.Debug("validated", "dialect", tag.String(), "bytes", len(sql), "errors", len(errs))
	return errs
}

// FromParseError converts a parser error. The range always covers at
// least one column.
func FromParseError(pe *parser.ParseError) ValidationError {
	ve := ValidationError{
		StartLine:   pe.Pos.Line,
		StartColumn: pe.Pos.Column,
		EndLine:     pe.EndPos.Line,
		EndColumn:   pe.EndPos.Column,
		Message:     pe.Message,
	}
	if !pe.EndPos.IsValid() || pe.EndPos.Offset <= pe.Pos.Offset {
		ve.EndLine = ve.StartLine
		ve.EndColumn = ve.StartColumn + 1
	}
	return ve
}

// Validate checks sql with a default Validator.
func Validate(sql string, tag dialect.Tag) []ValidationError {
	return New(nil).Validate(context.Background(), sql, tag)
}
