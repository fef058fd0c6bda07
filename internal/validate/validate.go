// Package validate implements the per-column validation rules. Like the
// transforms, directives are compiled once at schema load time; Check is a
// pure predicate over the post-transform value.
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Diagnostic codes for field-level failures.
const (
	CodeRequiredFieldMissing = "REQUIRED_FIELD_MISSING"
	CodeFieldError           = "FIELD_ERROR"
)

// Default identifier patterns, overridable via the schema's
// validation_rules section.
const (
	DefaultISWCPattern = `^T-\d{9}-\d$`
	DefaultISRCPattern = `^[A-Z]{2}[A-Z0-9]{3}\d{7}$`
	DefaultIPIPattern  = `^\d{9}$|^\d{11}$`
)

// FieldError is a failed validation for one column.
type FieldError struct {
	Code   string
	Detail string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Detail)
}

// Options carries the schema context validation rules compile against:
// overridden identifier patterns and the canonical value sets used by the
// lookup-membership rules.
type Options struct {
	ISWCPattern string
	ISRCPattern string
	IPIPattern  string

	// RoleCodes and SocietyCodes are the canonical values of the
	// corresponding lookup tables.
	RoleCodes    map[string]bool
	SocietyCodes map[string]bool
}

// Rule is a compiled validation directive.
type Rule struct {
	directive string
	check     func(value, column string) *FieldError
}

// Directive returns the directive string the rule was compiled from.
func (r *Rule) Directive() string { return r.directive }

// Check validates a post-transform value. It returns nil on success.
// Except for the required rule, empty values always pass; emptiness is
// the required rule's concern.
func (r *Rule) Check(value, column string) *FieldError {
	return r.check(value, column)
}

// Compile parses a validation directive into a Rule. Unknown directives
// are load-time errors.
func Compile(directive string, opts Options) (*Rule, error) {
	name, arg, _ := strings.Cut(directive, ":")

	var check func(value, column string) *FieldError
	switch name {
	case "required":
		check = checkRequired

	case "date_format":
		check = patternCheck(regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`), "date")

	case "iswc_format":
		re, err := compilePattern(opts.ISWCPattern, DefaultISWCPattern)
		if err != nil {
			return nil, err
		}
		check = patternCheck(re, "ISWC")

	case "isrc_format":
		re, err := compilePattern(opts.ISRCPattern, DefaultISRCPattern)
		if err != nil {
			return nil, err
		}
		// ISRCs validate against the undashed form.
		inner := patternCheck(re, "ISRC")
		check = func(value, column string) *FieldError {
			return inner(strings.ReplaceAll(value, "-", ""), column)
		}

	case "ipi_format":
		re, err := compilePattern(opts.IPIPattern, DefaultIPIPattern)
		if err != nil {
			return nil, err
		}
		check = patternCheck(re, "IPI")

	case "pattern":
		if arg == "" {
			return nil, fmt.Errorf("pattern requires a regular expression")
		}
		re, err := regexp.Compile(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", arg, err)
		}
		check = patternCheck(re, "value")

	case "share_range":
		check = rangeCheck(0, 100)

	case "range":
		min, max, err := parseRangeArgs(arg)
		if err != nil {
			return nil, err
		}
		check = rangeCheck(min, max)

	case "valid_role":
		check = membershipCheck(opts.RoleCodes, "role")

	case "valid_society":
		check = membershipCheck(opts.SocietyCodes, "society")

	default:
		return nil, fmt.Errorf("unknown validation %q", name)
	}

	return &Rule{directive: directive, check: check}, nil
}

func checkRequired(value, column string) *FieldError {
	if strings.TrimSpace(value) == "" {
		return &FieldError{
			Code:   CodeRequiredFieldMissing,
			Detail: fmt.Sprintf("Required field %q is empty", column),
		}
	}
	return nil
}

func patternCheck(re *regexp.Regexp, what string) func(string, string) *FieldError {
	return func(value, column string) *FieldError {
		if value == "" || re.MatchString(value) {
			return nil
		}
		return &FieldError{
			Code:   CodeFieldError,
			Detail: fmt.Sprintf("Invalid %s format in %q: %s", what, column, value),
		}
	}
}

func rangeCheck(min, max float64) func(string, string) *FieldError {
	return func(value, column string) *FieldError {
		if value == "" {
			return nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return &FieldError{
				Code:   CodeFieldError,
				Detail: fmt.Sprintf("Invalid numeric value in %q: %s", column, value),
			}
		}
		if f < min || f > max {
			return &FieldError{
				Code:   CodeFieldError,
				Detail: fmt.Sprintf("Value out of range (%g-%g) in %q: %g", min, max, column, f),
			}
		}
		return nil
	}
}

func membershipCheck(valid map[string]bool, what string) func(string, string) *FieldError {
	return func(value, column string) *FieldError {
		if value == "" || valid[value] {
			return nil
		}
		return &FieldError{
			Code:   CodeFieldError,
			Detail: fmt.Sprintf("Invalid %s code in %q: %s", what, column, value),
		}
	}
}

func compilePattern(pattern, fallback string) (*regexp.Regexp, error) {
	if pattern == "" {
		pattern = fallback
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return re, nil
}

func parseRangeArgs(arg string) (float64, float64, error) {
	minStr, maxStr, ok := strings.Cut(arg, ":")
	if !ok {
		return 0, 0, fmt.Errorf("range requires min and max bounds")
	}
	min, err := strconv.ParseFloat(minStr, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("range min %q is not numeric", minStr)
	}
	max, err := strconv.ParseFloat(maxStr, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("range max %q is not numeric", maxStr)
	}
	if min > max {
		return 0, 0, fmt.Errorf("range min %g exceeds max %g", min, max)
	}
	return min, max, nil
}
