// Package dateutils provides tolerant date parsing for bank statement data.
package dateutils

import (
	"fmt"
	"strings"
	"time"
)

// Date format constants used throughout the application.
const (
	DateLayoutISO  = "2006-01-02"
	DateLayoutUS   = "01/02/2006"
	DateLayoutFull = "2006-01-02 15:04:05"
)

// CommonFormats is the ordered list of layouts tried when parsing dates.
// US month-first layouts come first because the statement sources are US banks.
var CommonFormats = []string{
	DateLayoutISO,
	DateLayoutFull,
	DateLayoutUS,
	"1/2/2006",
	"01/02/06",
	"2006-01-02T15:04:05Z",
	"02.01.2006",
	"02-01-2006",
	"Jan 02, 2006",
	"2 January 2006",
}

// ParseDateString attempts to parse a date string using the common formats.
// It returns an error when no layout matches; callers that need a sentinel
// instead of an error should use models.ParseDate.
func ParseDateString(dateStr string) (time.Time, error) {
	cleaned := strings.TrimSpace(dateStr)
	if cleaned == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}

	for _, layout := range CommonFormats {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", dateStr)
}
