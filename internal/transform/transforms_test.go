package transform_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claimscan/internal/transform"
)

func apply(t *testing.T, name string, v any) any {
	t.Helper()
	out, err := transform.Default().Apply([]string{name}, v)
	require.NoError(t, err)
	return out
}

func TestTransforms_StringCases(t *testing.T) {
	tests := []struct {
		name string
		step string
		in   string
		want string
	}{
		{"trim", "trim", "  ABC 123  ", "ABC 123"},
		{"upper", "toUpperCase", "abc-12", "ABC-12"},
		{"lower", "toLowerCase", "JOHN@EXAMPLE.COM", "john@example.com"},
		{"title_from_upper", "toTitleCase", "JOHN   SMITH", "John Smith"},
		{"title_from_lower", "toTitleCase", "mary jane watson", "Mary Jane Watson"},
		{"whitespace", "normalizeWhitespace", " 12 Main St\n\tApt 4 ", "12 Main St Apt 4"},
		{"digits", "removeNonDigits", "(555) 123-4567", "5551234567"},
		{"vin", "normalizeVIN", "1hgcm 8263-3a004352", "1HGCM82633A004352"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apply(t, tt.step, tt.in))
		})
	}
}

func TestFormatPhone(t *testing.T) {
	assert.Equal(t, "(555) 123-4567", transform.FormatPhone("555.123.4567"))
	assert.Equal(t, "+1 (555) 123-4567", transform.FormatPhone("1-555-123-4567"))
	assert.Equal(t, "12345", transform.FormatPhone(" 12345 "))
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"03/15/2024", "2024-03-15"},
		{"3/5/2024", "2024-03-05"},
		{"25/12/2024", "2024-12-25"},
		{"2024-01-31", "2024-01-31"},
		{"Jan 7, 2024", "2024-01-07"},
		{"March 9, 2023", "2023-03-09"},
		{"07-Feb-2024", "2024-02-07"},
		{"not a date", "not a date"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, transform.FormatDate(tt.in))
		})
	}
}

func TestParseBoolean(t *testing.T) {
	for _, in := range []string{"YES", "y", "True", "X", "1", "Accepted", "initialed"} {
		assert.Equal(t, true, apply(t, "parseBoolean", in), in)
	}
	for _, in := range []string{"no", "N", "declined", "", "maybe"} {
		assert.Equal(t, false, apply(t, "parseBoolean", in), in)
	}
}

func TestParseNumber(t *testing.T) {
	assert.Equal(t, 45210.0, apply(t, "parseNumber", "45,210"))
	assert.Equal(t, 19.99, apply(t, "parseNumber", "$19.99"))
	assert.Equal(t, "n/a", apply(t, "parseNumber", "n/a"))
}

func TestApply_FoldsLeftToRight(t *testing.T) {
	out, err := transform.Default().Apply([]string{"trim", "toLowerCase", "toTitleCase"}, "  JANE DOE ")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", out)
}

func TestApply_NonStringPassesThroughStringSteps(t *testing.T) {
	out, err := transform.Default().Apply([]string{"parseBoolean", "toUpperCase"}, "yes")
	require.NoError(t, err)
	assert.Equal(t, true, out)
}

func TestApply_UnknownTransformation(t *testing.T) {
	_, err := transform.Default().Apply([]string{"trim", "rot13"}, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rot13")
}

func TestApply_NilResultIsAnError(t *testing.T) {
	lib := transform.NewLibrary()
	lib.RegisterTransform("drop", func(any) any { return nil })
	_, err := lib.Apply([]string{"drop"}, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "produced no value")
}

func TestDefault_Names(t *testing.T) {
	lib := transform.Default()
	assert.Contains(t, lib.TransformNames(), "formatDate")
	assert.Contains(t, lib.ValidationNames(), "isValidVIN")
	assert.IsNonDecreasing(t, lib.TransformNames())
}
