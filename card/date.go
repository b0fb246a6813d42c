package card

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnresolvedDate is returned when a birthday has no calendar date, for
// example a free-text value or a date without a year.
var ErrUnresolvedDate = errors.New("card: date is not resolvable")

// DateLayout is the calendar date layout used by the contact store.
const DateLayout = "2006-01-02"

// Birthday is one BDAY property.
type Birthday struct {
	Value  string
	IsText bool
}

var dateLayouts = []string{
	"2006-01-02",
	"20060102",
}

// Date resolves the birthday to a calendar date at midnight local time.
//
// Only the date portion of a date-time value is used; a time or UTC offset
// attached to it never moves the calendar day.
func (b Birthday) Date() (time.Time, error) {
	if b.IsText {
		return time.Time{}, fmt.Errorf("%w: text value %q", ErrUnresolvedDate, b.Value)
	}
	value := strings.TrimSpace(b.Value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrUnresolvedDate)
	}
	if i := strings.IndexAny(value, "Tt"); i >= 0 {
		value = value[:i]
	}
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.Local), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnresolvedDate, b.Value)
}

// FormatDate renders a calendar date in the store's layout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
