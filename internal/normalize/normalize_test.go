package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifier(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain digits", "12345", "12345"},
		{"leading zeros removed", "00452", "452"},
		{"scientific notation", "1.23E+09", "1230000000"},
		{"lowercase scientific", "4.52e+02", "452"},
		{"trailing decimal fraction", "452.0", "452"},
		{"embedded punctuation", "ITEM-00123", "123"},
		{"internal whitespace", " 12 345 ", "12345"},
		{"blank", "   ", ""},
		{"nan", "nan", ""},
		{"none", "None", ""},
		{"null", "NULL", ""},
		{"no digits", "abc-def", ""},
		{"all zeros", "000", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Identifier(tc.input))
		})
	}
}

func TestIdentifierIdempotent(t *testing.T) {
	inputs := []string{"00452", "1.23E+09", "abc", "", "  12 34  ", "item#9", "000"}
	for _, in := range inputs {
		once := Identifier(in)
		assert.Equal(t, once, Identifier(once), "input %q", in)
	}
}

func TestIdentifierNonDigitsAlwaysEmpty(t *testing.T) {
	for _, in := range []string{"----", "abc", "!!", "vendor name", "\t\n"} {
		assert.Empty(t, Identifier(in), "input %q", in)
	}
}

func TestText(t *testing.T) {
	assert.Equal(t, "Acme Tools", Text("  Acme   Tools \n"))
	assert.Equal(t, "", Text("nan"))
	assert.Equal(t, "", Text("None"))
	assert.Equal(t, "", Text("   "))
	assert.Equal(t, "a b c", Text("a\tb\nc"))
}

func TestDateExplicitFormats(t *testing.T) {
	cases := []struct {
		input string
		want  time.Time
	}{
		{"25/12/24", time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)},
		{"25/12/2024", time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)},
		{"2024-12-25", time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)},
		{"2024/12/25", time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)},
		{"25-12-2024", time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)},
		{"20241225", time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, ok := Date(tc.input)
		require.True(t, ok, "input %q", tc.input)
		assert.True(t, tc.want.Equal(got), "input %q: got %v", tc.input, got)
	}
}

func TestDatePrefersDayFirst(t *testing.T) {
	// Ambiguous day/month resolves day-first.
	got, ok := Date("03/04/2024")
	require.True(t, ok)
	assert.Equal(t, time.April, got.Month())
	assert.Equal(t, 3, got.Day())
}

func TestDateFailureIsNotAnError(t *testing.T) {
	for _, in := range []string{"", "nan", "NaT", "not a date", "13/13/2024x"} {
		_, ok := Date(in)
		assert.False(t, ok, "input %q", in)
	}
}
