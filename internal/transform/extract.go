package transform

import (
	"regexp"
	"strings"
)

// extract.go parses the free-text writer/publisher cells found in master
// catalog exports. These cells mix names, society tags and percentages in
// loosely structured prose, e.g.
//
//	Jorge Omar Barreiro (pka "Jorge Pelegrin") (ASCAP) - 50%
//	Khalil Jewell - 50%
//	Dameon Hughes: 1.41%
//
// The extractors are best-effort: a cell that yields nothing produces an
// empty value, never an error, since the surrounding validations decide
// whether the field was required.

var (
	societyCodeRe   = regexp.MustCompile(`\((ASCAP|BMI|SESAC|PRS|GEMA|SACEM|SOCAN|APRA)\)`)
	bareSocietyRe   = regexp.MustCompile(`\b(ASCAP|BMI|SESAC|PRS|GEMA|SACEM|SOCAN|APRA)\b`)
	ipiDigitsRe     = regexp.MustCompile(`(\d{9,11})`)
	totalShareRe    = regexp.MustCompile(`Total:\s*(\d+(?:\.\d+)?)%`)
	percentRe       = regexp.MustCompile(`(\d+(?:\.\d+)?)%`)
	publisherRe     = regexp.MustCompile(`^([^-\n(]+?)\s*(?:\(|obo\b|-|$)`)
	parentheticalRe = regexp.MustCompile(`\s*\([^)]*\).*$`)
)

// extractors maps directive names to their handlers. Mechanical and
// performance variants share handlers: the source cells report one
// combined percentage for both rights.
var extractors = map[string]func(string) (string, error){
	"extract_writer_name":                 extractWriterName,
	"extract_writer_society":              extractSociety,
	"extract_writer_ipi":                  extractIPIDigits,
	"extract_mechanical_share":            extractShare,
	"extract_performance_share":           extractShare,
	"extract_additional_writer_name":      extractAdditionalWriterName,
	"extract_additional_writer_society":   extractBareSociety,
	"extract_additional_mechanical_share": extractFirstPercent,
	"extract_additional_performance_share": extractFirstPercent,
	"extract_publisher_name":              extractPublisherName,
	"extract_publisher_society":           extractSociety,
	"extract_publisher_mechanical_share":  extractTotalShare,
	"extract_publisher_performance_share": extractTotalShare,
}

// extractWriterName takes everything before the first parenthetical or
// " - " separator.
func extractWriterName(v string) (string, error) {
	name, _, _ := strings.Cut(v, "(")
	name, _, _ = strings.Cut(name, " - ")
	return strings.TrimSpace(name), nil
}

// extractSociety returns the first recognized society code appearing in
// parentheses.
func extractSociety(v string) (string, error) {
	if m := societyCodeRe.FindStringSubmatch(v); m != nil {
		return m[1], nil
	}
	return "", nil
}

// extractBareSociety matches society codes without requiring parentheses,
// as additional-writer cells frequently omit them.
func extractBareSociety(v string) (string, error) {
	if m := bareSocietyRe.FindStringSubmatch(v); m != nil {
		return m[1], nil
	}
	return "", nil
}

func extractIPIDigits(v string) (string, error) {
	if m := ipiDigitsRe.FindStringSubmatch(v); m != nil {
		return m[1], nil
	}
	return "", nil
}

// extractShare prefers an explicit "Total: X%" marker and falls back to
// the first percentage in the cell.
func extractShare(v string) (string, error) {
	if m := totalShareRe.FindStringSubmatch(v); m != nil {
		return m[1], nil
	}
	return extractFirstPercent(v)
}

// extractTotalShare only accepts the explicit "Total: X%" marker; the
// publisher cells list per-writer splits that must not be mistaken for a
// publisher total.
func extractTotalShare(v string) (string, error) {
	if m := totalShareRe.FindStringSubmatch(v); m != nil {
		return m[1], nil
	}
	return "", nil
}

func extractFirstPercent(v string) (string, error) {
	if m := percentRe.FindStringSubmatch(v); m != nil {
		return m[1], nil
	}
	return "", nil
}

// extractAdditionalWriterName parses multi-line additional-writer cells in
// either "Name: X%" or "Name - X%" form, falling back to the first line.
func extractAdditionalWriterName(v string) (string, error) {
	lines := strings.Split(v, "\n")
	for _, line := range lines {
		if name, _, ok := strings.Cut(line, ":"); ok {
			name = strings.TrimSpace(name)
			if name != "" && !isNumericName(name) {
				return name, nil
			}
		} else if strings.Contains(line, " - ") && strings.Contains(line, "%") {
			name, _, _ := strings.Cut(line, " - ")
			if name = strings.TrimSpace(name); name != "" {
				return name, nil
			}
		}
	}
	first := strings.TrimSpace(lines[0])
	first, _, _ = strings.Cut(first, ":")
	first, _, _ = strings.Cut(first, " - ")
	return strings.TrimSpace(first), nil
}

// extractPublisherName takes the leading text before a parenthetical,
// "obo" marker or dash, with any trailing society tag removed.
func extractPublisherName(v string) (string, error) {
	m := publisherRe.FindStringSubmatch(v)
	if m == nil {
		return "", nil
	}
	name := parentheticalRe.ReplaceAllString(strings.TrimSpace(m[1]), "")
	return strings.TrimSpace(name), nil
}

// isNumericName reports whether a candidate name is really a number, such
// as the share column of a "1.41: ..." line.
func isNumericName(s string) bool {
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ".", "")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
