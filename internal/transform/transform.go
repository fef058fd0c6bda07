// Package transform implements the per-column value transforms applied
// during conversion. Directives are compiled once at schema load time into
// a Spec holding a concrete handler; the per-row hot path never re-parses
// directive strings.
package transform

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	texttransform "golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Kind identifies a transform directive.
type Kind int

const (
	KindStrip Kind = iota
	KindUppercase
	KindLowercase
	KindTitlecase
	KindStripDiacritics
	KindToDate
	KindPercent0100
	KindPercent01
	KindPadLeft
	KindConcat
	KindSplit
	KindFormatISWC
	KindFormatISRC
	KindFormatIPI
	KindFormatDuration
	KindLookup
	KindExtract
)

// ErrorKind classifies transform failures. The converter surfaces these as
// FIELD_ERROR diagnostics and falls back to the untransformed value.
type ErrorKind string

const (
	ErrDateUnparseable      ErrorKind = "DATE_UNPARSEABLE"
	ErrCodeLengthMismatch   ErrorKind = "CODE_LENGTH_MISMATCH"
	ErrLookupMiss           ErrorKind = "LOOKUP_MISS"
	ErrSplitIndexOutOfRange ErrorKind = "SPLIT_INDEX_OUT_OF_RANGE"
	ErrConcatSourceMissing  ErrorKind = "CONCAT_SOURCE_MISSING"
	ErrBadNumber            ErrorKind = "BAD_NUMBER"
)

// Error is a failed transform. The value that triggered it is carried in
// Detail for the diagnostic report.
type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// Spec is a compiled transform directive.
type Spec struct {
	kind      Kind
	directive string

	// apply handles single-source transforms. Nil for KindConcat, which
	// composes multiple source values via Join.
	apply func(string) (string, error)

	// separator is the join separator for KindConcat.
	separator string
}

// Kind returns the directive kind.
func (s *Spec) Kind() Kind { return s.kind }

// Directive returns the directive string the Spec was compiled from.
func (s *Spec) Directive() string { return s.directive }

// Apply transforms a single value. Empty input passes through unchanged;
// absent values are defaulted by the caller before Apply runs.
func (s *Spec) Apply(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	return s.apply(strings.TrimSpace(value))
}

// Join composes the values of all declared sources. Only valid for
// KindConcat specs.
func (s *Spec) Join(parts []string) string {
	return strings.Join(parts, s.separator)
}


// Compile parses a transform directive into a Spec. Parameterized
// directives use colon-separated arguments, e.g. "to_date:2006-01-02" or
// "padleft:8:0". The lookups argument supplies the tables referenced by
// lookup directives; referencing an unknown table is a compile error so
// schema faults surface before any row is processed.
func Compile(directive string, lookups map[string]map[string]string) (*Spec, error) {
	name, arg, _ := strings.Cut(directive, ":")

	spec := &Spec{directive: directive}
	switch name {
	case "strip":
		spec.kind = KindStrip
		spec.apply = func(v string) (string, error) { return strings.TrimSpace(v), nil }

	case "uppercase":
		spec.kind = KindUppercase
		spec.apply = func(v string) (string, error) { return strings.ToUpper(v), nil }

	case "lowercase":
		spec.kind = KindLowercase
		spec.apply = func(v string) (string, error) { return strings.ToLower(v), nil }

	case "titlecase":
		spec.kind = KindTitlecase
		// Casers carry internal state, so one is built per call; specs
		// are shared across row workers.
		spec.apply = func(v string) (string, error) {
			return cases.Title(language.Und).String(v), nil
		}

	case "strip_diacritics":
		spec.kind = KindStripDiacritics
		spec.apply = stripDiacritics

	case "to_date":
		if arg == "" {
			return nil, fmt.Errorf("to_date requires an output layout")
		}
		spec.kind = KindToDate
		spec.apply = dateFormatter(arg)

	case "percent_0_100":
		spec.kind = KindPercent0100
		spec.apply = percentTo100

	case "percent_0_1":
		spec.kind = KindPercent01
		spec.apply = percentTo1

	case "padleft":
		width, fill, err := parsePadArgs(arg)
		if err != nil {
			return nil, err
		}
		spec.kind = KindPadLeft
		spec.apply = func(v string) (string, error) { return padLeft(v, width, fill), nil }

	case "concat":
		spec.kind = KindConcat
		spec.separator = arg

	case "split":
		sep, index, err := parseSplitArgs(arg)
		if err != nil {
			return nil, err
		}
		spec.kind = KindSplit
		spec.apply = splitter(sep, index)

	case "format_iswc":
		spec.kind = KindFormatISWC
		spec.apply = formatISWC

	case "format_isrc":
		spec.kind = KindFormatISRC
		spec.apply = formatISRC

	case "format_ipi":
		spec.kind = KindFormatIPI
		spec.apply = formatIPI

	case "format_duration":
		spec.kind = KindFormatDuration
		spec.apply = formatDuration

	case "lookup":
		return compileLookup(directive, arg, lookups)
	case "map_role":
		return compileLookup(directive, "role_codes", lookups)
	case "map_society":
		return compileLookup(directive, "society_codes", lookups)
	case "map_territory":
		return compileLookup(directive, "territories", lookups)

	default:
		if fn, ok := extractors[name]; ok {
			spec.kind = KindExtract
			spec.apply = fn
			break
		}
		return nil, fmt.Errorf("unknown transform %q", name)
	}

	return spec, nil
}

func compileLookup(directive, table string, lookups map[string]map[string]string) (*Spec, error) {
	entries, ok := lookups[table]
	if !ok {
		return nil, fmt.Errorf("transform %q references unknown lookup table %q", directive, table)
	}
	return &Spec{
		kind:      KindLookup,
		directive: directive,
		apply: func(v string) (string, error) {
			if code, ok := entries[v]; ok {
				return code, nil
			}
			return "", &Error{Kind: ErrLookupMiss, Detail: fmt.Sprintf("%q not found in table %q", v, table)}
		},
	}, nil
}

// stripDiacritics decomposes to NFD, drops the combining marks, and
// recomposes. The chain is built per call for the same reason as the
// title caser.
func stripDiacritics(v string) (string, error) {
	chain := texttransform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := texttransform.String(chain, v)
	if err != nil {
		return v, nil
	}
	return out, nil
}

// percentTo100 rescales a share onto the 0-100 scale. Values <= 1 are
// treated as fractions; this is lossy at exactly 1, which is read as 100%.
func percentTo100(v string) (string, error) {
	f, err := parsePercent(v)
	if err != nil {
		return "", err
	}
	if f <= 1 {
		f *= 100
	}
	return formatFloat(round(f, 2)), nil
}

// percentTo1 rescales a share onto the 0-1 scale. The same <= 1 heuristic
// applies: 1 is kept as a full share, anything above is divided by 100.
func percentTo1(v string) (string, error) {
	f, err := parsePercent(v)
	if err != nil {
		return "", err
	}
	if f > 1 {
		f /= 100
	}
	return formatFloat(round(f, 4)), nil
}

func parsePercent(v string) (float64, error) {
	cleaned := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "%"))
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, &Error{Kind: ErrBadNumber, Detail: fmt.Sprintf("%q is not numeric", v)}
	}
	return f, nil
}

func parsePadArgs(arg string) (int, byte, error) {
	widthStr, fillStr, ok := strings.Cut(arg, ":")
	if !ok || len(fillStr) != 1 {
		return 0, 0, fmt.Errorf("padleft requires width and a single fill character")
	}
	width, err := strconv.Atoi(widthStr)
	if err != nil || width <= 0 {
		return 0, 0, fmt.Errorf("padleft width %q is not a positive integer", widthStr)
	}
	return width, fillStr[0], nil
}

func padLeft(v string, width int, fill byte) string {
	if len(v) >= width {
		return v
	}
	return strings.Repeat(string(fill), width-len(v)) + v
}

func parseSplitArgs(arg string) (string, int, error) {
	sep, indexStr, ok := strings.Cut(arg, ":")
	if !ok || sep == "" {
		return "", 0, fmt.Errorf("split requires a delimiter and a segment index")
	}
	index, err := strconv.Atoi(indexStr)
	if err != nil || index < 0 {
		return "", 0, fmt.Errorf("split index %q is not a non-negative integer", indexStr)
	}
	return sep, index, nil
}

func splitter(sep string, index int) func(string) (string, error) {
	return func(v string) (string, error) {
		segments := strings.Split(v, sep)
		if index >= len(segments) {
			return "", &Error{
				Kind:   ErrSplitIndexOutOfRange,
				Detail: fmt.Sprintf("index %d beyond %d segment(s) of %q", index, len(segments), v),
			}
		}
		return strings.TrimSpace(segments[index]), nil
	}
}

func round(f float64, places int) float64 {
	shift := 1.0
	for i := 0; i < places; i++ {
		shift *= 10
	}
	if f < 0 {
		return float64(int64(f*shift-0.5)) / shift
	}
	return float64(int64(f*shift+0.5)) / shift
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
