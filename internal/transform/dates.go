package transform

import (
	"fmt"
	"strings"
	"time"
)

// inputDateLayouts are tried in order; the first successful parse wins.
// US month-first layouts are listed before day-first for the ambiguous
// all-numeric forms, matching the upstream catalog exports.
var inputDateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"02/01/2006",
	"2006/01/02",
	"01-02-2006",
	"02-01-2006",
	"2006.01.02",
	"01.02.2006",
}

// dateFormatter returns a handler that parses a flexible date input and
// reformats it to layout. Spreadsheet exports often carry a midnight
// timestamp suffix, which is stripped before parsing.
func dateFormatter(layout string) func(string) (string, error) {
	return func(v string) (string, error) {
		cleaned := strings.TrimSpace(strings.TrimSuffix(v, " 00:00:00"))
		for _, in := range inputDateLayouts {
			t, err := time.Parse(in, cleaned)
			if err == nil {
				return t.Format(layout), nil
			}
		}
		return "", &Error{Kind: ErrDateUnparseable, Detail: fmt.Sprintf("%q matches no accepted date format", v)}
	}
}
