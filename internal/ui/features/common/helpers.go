// Package common provides shared types and utilities for UI features.
package common

import (
	"strings"

	"github.com/leapstack-labs/sqllens/pkg/dialect"
)

// Itoa converts an integer to a string without using strconv.
// This is used in components where we want to avoid additional imports.
func Itoa(n int) string {
	if n == 0 {
		return "0"
	}
	result := ""
	negative := n < 0
	if negative {
		n = -n
	}
	for n > 0 {
		result = string('0'+byte(n%10)) + result
		n /= 10
	}
	if negative {
		result = "-" + result
	}
	return result
}

// ClassNames joins the non-empty class names with single spaces.
func ClassNames(names ...string) string {
	out := names[:0:0]
	for _, n := range names {
		if n != "" {
			out = append(out, n)
		}
	}
	return strings.Join(out, " ")
}

// DialectOptions lists the selectable dialects in display order.
func DialectOptions(current dialect.Tag) []DialectOption {
	list := dialect.List()
	out := make([]DialectOption, 0, len(list))
	for _, d := range list {
		out = append(out, DialectOption{
			Value:    d.Name,
			Label:    d.DisplayName,
			Selected: d.Tag == current,
		})
	}
	return out
}
