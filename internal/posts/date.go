package posts

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var ErrInvalidDate = errors.New("invalid date")

var datePrefixPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// Layouts tried in order. Values without an offset are read as UTC.
var beforeDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseBeforeDate validates the "before" path parameter. The value must start
// with YYYY-MM-DD and parse in full, as given, as a calendar date or ISO-8601
// date-time. An instant within the Unix epoch's first millisecond is rejected.
func ParseBeforeDate(raw string) (time.Time, error) {
	if !datePrefixPattern.MatchString(raw) {
		return time.Time{}, fmt.Errorf("%w: %q does not start with YYYY-MM-DD", ErrInvalidDate, raw)
	}

	for _, layout := range beforeDateLayouts {
		parsed, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		if parsed.UnixMilli() == 0 {
			return time.Time{}, fmt.Errorf("%w: %q is the epoch", ErrInvalidDate, raw)
		}
		return parsed.UTC(), nil
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
}

// DateLabel returns the calendar-date part of a date parameter.
func DateLabel(raw string) string {
	label, _, _ := strings.Cut(raw, "T")
	return label
}

// FormatCursor renders a post date the way pagination links carry it.
func FormatCursor(value time.Time) string {
	return value.UTC().Format(time.RFC3339Nano)
}
