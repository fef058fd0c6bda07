package transform

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// codes.go formats the standard identifiers carried on a work: ISWC and
// ISRC are stripped of any existing separators and re-assembled into their
// canonical layouts; IPI numbers are reduced to bare digits. A stripped
// value of the wrong length is a CODE_LENGTH_MISMATCH error rather than a
// silent pass-through, so malformed identifiers show up in the report.

var nonDigits = regexp.MustCompile(`[^0-9]`)
var nonAlnum = regexp.MustCompile(`[^0-9A-Za-z]`)

// formatISWC re-formats an ISWC into T-DDDDDDDDD-D (9 digits plus a check
// digit).
func formatISWC(v string) (string, error) {
	digits := nonDigits.ReplaceAllString(v, "")
	if len(digits) != 10 {
		return "", &Error{
			Kind:   ErrCodeLengthMismatch,
			Detail: fmt.Sprintf("ISWC %q has %d digits, want 10", v, len(digits)),
		}
	}
	return "T-" + digits[:9] + "-" + digits[9:], nil
}

// formatISRC re-formats an ISRC into CC-XXX-YY-NNNNN. When the cell holds
// several codes separated by newlines or commas, the first one is used.
func formatISRC(v string) (string, error) {
	first := v
	if i := strings.IndexAny(first, "\n,"); i >= 0 {
		first = first[:i]
	}
	stripped := nonAlnum.ReplaceAllString(strings.ToUpper(strings.TrimSpace(first)), "")
	if len(stripped) != 12 {
		return "", &Error{
			Kind:   ErrCodeLengthMismatch,
			Detail: fmt.Sprintf("ISRC %q has %d characters, want 12", v, len(stripped)),
		}
	}
	return stripped[:2] + "-" + stripped[2:5] + "-" + stripped[5:7] + "-" + stripped[7:], nil
}

// formatIPI strips an IPI number to digits. Valid IPI name numbers are 9
// digits, base numbers 11; no re-padding is applied.
func formatIPI(v string) (string, error) {
	digits := nonDigits.ReplaceAllString(v, "")
	if len(digits) != 9 && len(digits) != 11 {
		return "", &Error{
			Kind:   ErrCodeLengthMismatch,
			Detail: fmt.Sprintf("IPI %q has %d digits, want 9 or 11", v, len(digits)),
		}
	}
	return digits, nil
}

// formatDuration normalizes a track duration to MM:SS. Values already
// containing a colon pass through; bare numbers are read as seconds.
func formatDuration(v string) (string, error) {
	if strings.Contains(v, ":") {
		return v, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return "", &Error{Kind: ErrBadNumber, Detail: fmt.Sprintf("duration %q is neither MM:SS nor seconds", v)}
	}
	total := int(f)
	return fmt.Sprintf("%02d:%02d", total/60, total%60), nil
}
