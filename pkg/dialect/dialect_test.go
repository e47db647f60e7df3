package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		input  string
		want   Tag
		wantOK bool
	}{
		{"standard", Standard, true},
		{"MySQL", MySQL, true},
		{"postgresql", PostgreSQL, true},
		{"postgres", PostgreSQL, true},
		{"Spark", Spark, true},
		{"databricks", Spark, true},
		{"", Standard, true},
		{"oracle", Standard, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseTag(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestTagString(t *testing.T) {
	for _, tag := range []Tag{Standard, MySQL, PostgreSQL, Spark} {
		got, ok := ParseTag(tag.String())
		require.True(t, ok)
		assert.Equal(t, tag, got)
	}
	assert.Equal(t, "standard", Tag(42).String())
}

func TestIsKeyword_CaseInsensitive(t *testing.T) {
	for _, tag := range []Tag{Standard, MySQL, PostgreSQL, Spark} {
		t.Run(tag.String(), func(t *testing.T) {
			assert.True(t, IsKeyword("select", tag))
			assert.True(t, IsKeyword("SELECT", tag))
			assert.True(t, IsKeyword("Select", tag))
			assert.False(t, IsKeyword("customers", tag))
			assert.False(t, IsKeyword("", tag))
		})
	}
}

func TestIsKeyword_Extensions(t *testing.T) {
	tests := []struct {
		word string
		tag  Tag
		want bool
	}{
		{"ilike", Standard, false},
		{"ilike", PostgreSQL, true},
		{"returning", PostgreSQL, true},
		{"returning", MySQL, false},
		{"auto_increment", MySQL, true},
		{"auto_increment", Spark, false},
		{"qualify", Spark, true},
		{"lateral", Spark, true},
		{"lateral", Standard, false},
	}

	for _, tt := range tests {
		t.Run(tt.tag.String()+"/"+tt.word, func(t *testing.T) {
			assert.Equal(t, tt.want, IsKeyword(tt.word, tt.tag))
		})
	}
}

func TestExtensionsKeepBaseline(t *testing.T) {
	for _, d := range List() {
		for _, kw := range baselineKeywords {
			assert.True(t, d.IsKeyword(kw), "%s should include baseline keyword %s", d.Name, kw)
		}
	}
}

func TestUnknownTagFallsBackToStandard(t *testing.T) {
	d := Lookup(Tag(99))
	assert.Same(t, builtinStandard, d)
	assert.Equal(t, IsKeyword("convert", Standard), IsKeyword("convert", Tag(99)))

	d, ok := Get("teradata")
	assert.False(t, ok)
	assert.Equal(t, Standard, d.Tag)
}

func TestDialectSwitches(t *testing.T) {
	assert.True(t, Lookup(MySQL).IsIdentQuote('`'))
	assert.False(t, Lookup(MySQL).IsIdentQuote('"'))
	assert.True(t, Lookup(PostgreSQL).IsIdentQuote('"'))
	assert.False(t, Lookup(PostgreSQL).IsIdentQuote('`'))
	assert.True(t, Lookup(MySQL).HashComments)
	assert.True(t, Lookup(PostgreSQL).CastOperator)
	assert.False(t, Lookup(Standard).CastOperator)
}

func TestExtendDoesNotMutateBase(t *testing.T) {
	before := len(builtinStandard.Keywords())
	d := Extend(Spark, builtinStandard).WithKeywords("ZORDER").Build()
	assert.True(t, d.IsKeyword("zorder"))
	assert.False(t, builtinStandard.IsKeyword("zorder"))
	assert.Len(t, builtinStandard.Keywords(), before)
}

func TestListAndNames(t *testing.T) {
	assert.Equal(t, []string{"standard", "mysql", "postgresql", "spark"}, Names())
	ds := List()
	require.Len(t, ds, 4)
	assert.Equal(t, "Standard SQL", ds[0].DisplayName)
	assert.Equal(t, "Spark SQL", ds[3].DisplayName)
}
