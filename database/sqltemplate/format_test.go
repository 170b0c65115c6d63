package sqltemplate

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fpdb/fpdb/database/sqltypes"
)

func mustMap(t *testing.T, pairs ...interface{}) sqltypes.Value {
	m := sqltypes.NewMap()
	for i := 0; i < len(pairs); i += 2 {
		require.NoError(t, m.Set(pairs[i].(string), pairs[i+1]))
	}
	return sqltypes.MakeMap(m)
}

func TestFormatValue(t *testing.T) {
	t.Parallel()

	db := New(nil)
	str := sqltypes.MakeUtf8String
	tests := []struct {
		name        string
		placeholder Placeholder
		value       sqltypes.Value
		expected    string
	}{
		{"scalar int", ScalarPlaceholder, sqltypes.MakeInt(-42), "-42"},
		{"scalar uint", ScalarPlaceholder, sqltypes.MakeUint(math.MaxUint64), "18446744073709551615"},
		{"scalar float", ScalarPlaceholder, sqltypes.MakeFloat(1.5), "1.5"},
		{"scalar true", ScalarPlaceholder, sqltypes.MakeBool(true), "1"},
		{"scalar false", ScalarPlaceholder, sqltypes.MakeBool(false), "0"},
		{"scalar null", ScalarPlaceholder, sqltypes.NULL, "NULL"},
		{"scalar string", ScalarPlaceholder, str("Jack"), "'Jack'"},
		{"scalar escaped", ScalarPlaceholder, str("O'Brien\n"), `'O\'Brien\n'`},
		{"scalar numeric string", ScalarPlaceholder, str("42"), "'42'"},
		{"scalar bytes", ScalarPlaceholder, sqltypes.MakeBytes([]byte{0xca, 0xfe}), "X'cafe'"},

		{"int numeric", IntPlaceholder, sqltypes.MakeInt(7), "7"},
		{"int string", IntPlaceholder, str("3.9"), "3"},
		{"int negative string", IntPlaceholder, str("-3.9abc"), "-3"},
		{"int junk string", IntPlaceholder, str("abc"), "0"},
		{"int true", IntPlaceholder, sqltypes.MakeBool(true), "1"},
		{"int false", IntPlaceholder, sqltypes.MakeBool(false), "0"},
		{"int null", IntPlaceholder, sqltypes.NULL, "0"},
		{"int float", IntPlaceholder, sqltypes.MakeFloat(-2.7), "-2"},
		{"int empty list", IntPlaceholder, sqltypes.MakeList(), "0"},
		{"int list", IntPlaceholder, sqltypes.MakeList(sqltypes.NULL), "1"},

		{"float numeric", FloatPlaceholder, sqltypes.MakeInt(3), "3"},
		{"float fraction", FloatPlaceholder, sqltypes.MakeFloat(0.25), "0.25"},
		{"float string", FloatPlaceholder, str("2.5kg"), "2.5"},
		{"float true", FloatPlaceholder, sqltypes.MakeBool(true), "1"},
		{"float null", FloatPlaceholder, sqltypes.NULL, "0"},
		{"float overflow", FloatPlaceholder, str("1e999"), "NULL"},

		{
			"array list",
			ArrayPlaceholder,
			sqltypes.MakeList(sqltypes.MakeInt(1), str("two"), sqltypes.NULL, sqltypes.MakeBool(true)),
			"1, 'two', NULL, 1",
		},
		{"array empty list", ArrayPlaceholder, sqltypes.MakeList(), ""},
		{
			"array map",
			ArrayPlaceholder,
			mustMap(t, "name", "Bob", "age", 25),
			"`name` = 'Bob', `age` = 25",
		},
		{
			"array map null",
			ArrayPlaceholder,
			mustMap(t, "email", nil),
			"`email` = NULL",
		},

		{"identifier", IdentifierPlaceholder, str("name"), "`name`"},
		{
			"identifier list",
			IdentifierPlaceholder,
			sqltypes.MakeList(str("id"), str("name")),
			"`id`, `name`",
		},
		{"identifier escaped", IdentifierPlaceholder, str("a'b"), "`a\\'b`"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.FormatValue(tt.placeholder, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFormatValueTypeMismatch(t *testing.T) {
	t.Parallel()

	db := New(nil)
	str := sqltypes.MakeUtf8String
	tests := []struct {
		name        string
		placeholder Placeholder
		value       sqltypes.Value
	}{
		{"scalar list", ScalarPlaceholder, sqltypes.MakeList(sqltypes.MakeInt(1))},
		{"scalar map", ScalarPlaceholder, mustMap(t, "a", 1)},
		{"array string", ArrayPlaceholder, str("1, 2")},
		{"array int", ArrayPlaceholder, sqltypes.MakeInt(1)},
		{"array null", ArrayPlaceholder, sqltypes.NULL},
		{"array nested list", ArrayPlaceholder, sqltypes.MakeList(sqltypes.MakeList())},
		{"array nested map", ArrayPlaceholder, mustMap(t, "a", []int{1})},
		{"identifier int", IdentifierPlaceholder, sqltypes.MakeInt(1)},
		{"identifier null", IdentifierPlaceholder, sqltypes.NULL},
		{"identifier list of ints", IdentifierPlaceholder, sqltypes.MakeList(str("a"), sqltypes.MakeInt(1))},
		{"identifier map", IdentifierPlaceholder, mustMap(t, "a", "b")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.FormatValue(tt.placeholder, tt.value)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrTypeMismatch))

			var templateErr *TemplateError
			require.True(t, errors.As(err, &templateErr))
			assert.Equal(t, tt.placeholder.String(), templateErr.Placeholder)
		})
	}
}

func TestFormatValueUnknownPlaceholder(t *testing.T) {
	t.Parallel()

	_, err := New(nil).FormatValue(UnknownPlaceholder, sqltypes.MakeInt(1))
	assert.ErrorIs(t, err, ErrUnknownPlaceholder)
}

func TestFormatValueEscaper(t *testing.T) {
	t.Parallel()

	db := New(sqltypes.ANSIEscaper)

	got, err := db.FormatValue(ScalarPlaceholder, sqltypes.MakeUtf8String("it's"))
	require.NoError(t, err)
	assert.Equal(t, "'it''s'", got)

	double := sqltypes.EscaperFunc(func(s string) string { return s + s })
	got, err = New(double).FormatValue(
		IdentifierPlaceholder,
		sqltypes.MakeUtf8String("col"))
	require.NoError(t, err)
	assert.Equal(t, "`colcol`", got)
}
