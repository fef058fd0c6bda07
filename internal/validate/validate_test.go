package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testOpts = Options{
	RoleCodes:    map[string]bool{"C": true, "A": true, "CA": true},
	SocietyCodes: map[string]bool{"10": true, "21": true},
}

func mustCompile(t *testing.T, directive string) *Rule {
	t.Helper()
	rule, err := Compile(directive, testOpts)
	require.NoError(t, err, "compile %q", directive)
	return rule
}

func TestRequired(t *testing.T) {
	rule := mustCompile(t, "required")

	ferr := rule.Check("", "Work Title")
	require.NotNil(t, ferr)
	assert.Equal(t, CodeRequiredFieldMissing, ferr.Code)
	assert.Contains(t, ferr.Detail, "Work Title")

	assert.NotNil(t, rule.Check("   ", "Work Title"))
	assert.Nil(t, rule.Check("Midnight Sun", "Work Title"))
}

func TestFieldChecks(t *testing.T) {
	tests := []struct {
		directive string
		value     string
		wantPass  bool
	}{
		{"date_format", "2021-03-25", true},
		{"date_format", "03/25/2021", false},
		{"date_format", "", true}, // emptiness is required's concern

		{"iswc_format", "T-012345678-9", true},
		{"iswc_format", "T0123456789", false},

		{"isrc_format", "US-RC1-76-07839", true},
		{"isrc_format", "USRC17607839", true}, // dashes optional
		{"isrc_format", "US-RC1-76", false},

		{"ipi_format", "123456789", true},
		{"ipi_format", "00002162936", true},
		{"ipi_format", "12345678", false},

		{"share_range", "0", true},
		{"share_range", "100", true},
		{"share_range", "50.25", true},
		{"share_range", "100.5", false},
		{"share_range", "-1", false},
		{"share_range", "half", false},

		{"range:0:1", "0.5", true},
		{"range:0:1", "1.5", false},

		{"valid_role", "C", true},
		{"valid_role", "Composer", false},
		{"valid_society", "21", true},
		{"valid_society", "BMI", false},

		{`pattern:^[A-Z]{2}$`, "US", true},
		{`pattern:^[A-Z]{2}$`, "USA", false},
	}

	for _, tt := range tests {
		t.Run(tt.directive+"_"+tt.value, func(t *testing.T) {
			ferr := mustCompile(t, tt.directive).Check(tt.value, "Col")
			if tt.wantPass {
				assert.Nil(t, ferr)
			} else {
				require.NotNil(t, ferr)
				assert.Equal(t, CodeFieldError, ferr.Code)
			}
		})
	}
}

func TestPatternOverride(t *testing.T) {
	opts := testOpts
	opts.IPIPattern = `^\d{11}$`
	rule, err := Compile("ipi_format", opts)
	require.NoError(t, err)

	assert.Nil(t, rule.Check("00002162936", "IPI"))
	assert.NotNil(t, rule.Check("123456789", "IPI"), "9 digits rejected under override")
}

func TestCompileErrors(t *testing.T) {
	bad := []string{
		"no_such_rule",
		"pattern:",
		"pattern:([",
		"range:0",
		"range:a:b",
		"range:10:0",
	}
	for _, directive := range bad {
		_, err := Compile(directive, testOpts)
		assert.Error(t, err, directive)
	}
}
