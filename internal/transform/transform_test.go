package transform

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLookups = map[string]map[string]string{
	"role_codes":    {"Composer": "C", "Author": "A", "Composer/Author": "CA"},
	"society_codes": {"ASCAP": "10", "BMI": "21"},
	"territories":   {"United States": "US", "World": "2136"},
}

func mustCompile(t *testing.T, directive string) *Spec {
	t.Helper()
	spec, err := Compile(directive, testLookups)
	require.NoError(t, err, "compile %q", directive)
	return spec
}

func TestStringTransforms(t *testing.T) {
	tests := []struct {
		directive string
		input     string
		want      string
	}{
		{"strip", "  Midnight Sun  ", "Midnight Sun"},
		{"uppercase", "abba", "ABBA"},
		{"lowercase", "LOUD", "loud"},
		{"titlecase", "the midnight sun", "The Midnight Sun"},
		{"strip_diacritics", "Beyoncé", "Beyonce"},
		{"strip_diacritics", "Sérgio & João", "Sergio & Joao"},
		{"padleft:6:0", "123", "000123"},
		{"padleft:3:0", "1234", "1234"},
		{"split:/:1", "a/b/c", "b"},
	}

	for _, tt := range tests {
		t.Run(tt.directive+"_"+tt.input, func(t *testing.T) {
			got, err := mustCompile(t, tt.directive).Apply(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEmptyValuePassesThrough(t *testing.T) {
	for _, directive := range []string{"strip", "uppercase", "to_date:2006-01-02", "format_iswc", "lookup:role_codes"} {
		got, err := mustCompile(t, directive).Apply("")
		require.NoError(t, err, directive)
		assert.Equal(t, "", got, directive)
	}
}

func TestToDate(t *testing.T) {
	spec := mustCompile(t, "to_date:2006-01-02")

	tests := []struct {
		input string
		want  string
	}{
		{"2021-03-25", "2021-03-25"},
		{"03/25/2021", "2021-03-25"},
		{"2021/03/25", "2021-03-25"},
		{"03-25-2021", "2021-03-25"},
		{"2021.03.25", "2021-03-25"},
		{"2021-03-25 00:00:00", "2021-03-25"},
		// Ambiguous all-numeric dates: month-first layout wins.
		{"03/04/2021", "2021-03-04"},
		// Day-first only parses when the month slot overflows.
		{"25/03/2021", "2021-03-25"},
	}
	for _, tt := range tests {
		got, err := spec.Apply(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}

	_, err := spec.Apply("not a date")
	var terr *Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, ErrDateUnparseable, terr.Kind)
}

func TestPercentScaling(t *testing.T) {
	to100 := mustCompile(t, "percent_0_100")
	to1 := mustCompile(t, "percent_0_1")

	tests := []struct {
		spec  *Spec
		input string
		want  string
	}{
		{to100, "60", "60"},
		{to100, "0.6", "60"},
		{to100, "0.125", "12.5"},
		{to100, "45.5%", "45.5"},
		// Boundary: 1 is read as a full fraction, not as 1%.
		{to100, "1", "100"},
		{to1, "60", "0.6"},
		{to1, "0.6", "0.6"},
		{to1, "1", "1"},
		{to1, "33.33", "0.3333"},
	}
	for _, tt := range tests {
		got, err := tt.spec.Apply(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}

	_, err := to100.Apply("sixty")
	var terr *Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, ErrBadNumber, terr.Kind)
}

func TestFormatCodes(t *testing.T) {
	tests := []struct {
		directive string
		input     string
		want      string
	}{
		{"format_iswc", "T0123456789", "T-012345678-9"},
		{"format_iswc", "T-012.345.678-9", "T-012345678-9"},
		{"format_isrc", "USRC17607839", "US-RC1-76-07839"},
		{"format_isrc", "us rc1 76 07839", "US-RC1-76-07839"},
		{"format_isrc", "USRC17607839\nGBAYE6800011", "US-RC1-76-07839"},
		{"format_ipi", "00002162936", "00002162936"},
		{"format_ipi", "123-456-789", "123456789"},
		{"format_duration", "754", "12:34"},
		{"format_duration", "03:45", "03:45"},
		{"format_duration", "59", "00:59"},
	}
	for _, tt := range tests {
		got, err := mustCompile(t, tt.directive).Apply(tt.input)
		require.NoError(t, err, "%s %q", tt.directive, tt.input)
		assert.Equal(t, tt.want, got)
	}
}

func TestFormatCodeLengthMismatch(t *testing.T) {
	tests := []struct {
		directive string
		input     string
	}{
		{"format_iswc", "T-123"},
		{"format_isrc", "USRC176"},
		{"format_ipi", "12-34-5678"}, // 8 digits, want 9 or 11
		{"format_ipi", "1234567890"}, // 10 digits
	}
	for _, tt := range tests {
		_, err := mustCompile(t, tt.directive).Apply(tt.input)
		var terr *Error
		require.ErrorAs(t, err, &terr, "%s %q", tt.directive, tt.input)
		assert.Equal(t, ErrCodeLengthMismatch, terr.Kind)
	}
}

func TestIdempotence(t *testing.T) {
	tests := []struct {
		directive string
		input     string
	}{
		{"strip", "  The Work  "},
		{"uppercase", "mixed Case"},
		{"format_iswc", "T0123456789"},
		{"format_isrc", "USRC17607839"},
		{"format_ipi", "00002162936"},
	}
	for _, tt := range tests {
		spec := mustCompile(t, tt.directive)
		once, err := spec.Apply(tt.input)
		require.NoError(t, err)
		twice, err := spec.Apply(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice, "%s not idempotent", tt.directive)
	}
}

func TestISWCRoundTrip(t *testing.T) {
	spec := mustCompile(t, "format_iswc")
	formatted, err := spec.Apply("T0312459620")
	require.NoError(t, err)
	assert.Equal(t, "T-031245962-0", formatted)

	// Digit extraction from the canonical form reproduces the input digits.
	digits := nonDigits.ReplaceAllString(formatted, "")
	assert.Equal(t, "0312459620", digits)
}

func TestLookup(t *testing.T) {
	tests := []struct {
		directive string
		input     string
		want      string
	}{
		{"lookup:role_codes", "Composer", "C"},
		{"map_role", "Composer/Author", "CA"},
		{"map_society", "BMI", "21"},
		{"map_territory", "World", "2136"},
	}
	for _, tt := range tests {
		got, err := mustCompile(t, tt.directive).Apply(tt.input)
		require.NoError(t, err, tt.directive)
		assert.Equal(t, tt.want, got)
	}

	_, err := mustCompile(t, "map_role").Apply("Conductor")
	var terr *Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, ErrLookupMiss, terr.Kind)
}

func TestSplitIndexOutOfRange(t *testing.T) {
	_, err := mustCompile(t, "split:/:5").Apply("a/b")
	var terr *Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, ErrSplitIndexOutOfRange, terr.Kind)
}

func TestConcatJoin(t *testing.T) {
	spec := mustCompile(t, "concat: ")
	assert.Equal(t, KindConcat, spec.Kind())
	assert.Equal(t, "John Lennon", spec.Join([]string{"John", "Lennon"}))
}

func TestCompileErrors(t *testing.T) {
	bad := []string{
		"frobnicate",
		"to_date:",
		"padleft:x:0",
		"padleft:6",
		"split:/",
		"split:/:x",
		"lookup:no_such_table",
	}
	for _, directive := range bad {
		_, err := Compile(directive, testLookups)
		assert.Error(t, err, directive)
		var terr *Error
		assert.False(t, errors.As(err, &terr), "compile errors are not transform errors: %s", directive)
	}
}
