package dialect

import "strings"

// table is the explicit Tag -> Dialect lookup table.
var table = map[Tag]*Dialect{
	Standard:   builtinStandard,
	MySQL:      builtinMySQL,
	PostgreSQL: builtinPostgreSQL,
	Spark:      builtinSpark,
}

// order is the display order used by List.
var order = []Tag{Standard, MySQL, PostgreSQL, Spark}

// Lookup returns the dialect for t. Unknown tags resolve to Standard.
func Lookup(t Tag) *Dialect {
	if d, ok := table[t]; ok {
		return d
	}
	return builtinStandard
}

// Get resolves a dialect by name. Unknown names resolve to Standard and ok is false.
func Get(name string) (*Dialect, bool) {
	t, ok := ParseTag(name)
	return Lookup(t), ok
}

// List returns all dialects in display order.
func List() []*Dialect {
	out := make([]*Dialect, 0, len(order))
	for _, t := range order {
		out = append(out, table[t])
	}
	return out
}

// Names returns the wire names of all dialects in display order.
func Names() []string {
	names := make([]string, 0, len(order))
	for _, t := range order {
		names = append(names, t.String())
	}
	return names
}

// IsKeyword reports whether word is a keyword of the dialect t.
func IsKeyword(word string, t Tag) bool {
	return Lookup(t).IsKeyword(word)
}

// IsBaselineKeyword reports whether word is in the keyword set shared by all dialects.
func IsBaselineKeyword(word string) bool {
	return builtinStandard.IsKeyword(strings.TrimSpace(word))
}
