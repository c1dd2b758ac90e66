package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Weekday is a Monday-first day of week (Monday=0 .. Sunday=6).
// The zero-based Monday-first ordering is significant for display: every
// weekday aggregate is emitted in this order.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// Order lists all weekdays in display order.
var Order = [7]Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func (w Weekday) String() string {
	if w < 0 || w > 6 {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return weekdayLabels[w]
}

// MarshalText renders the weekday label, so JSON and CSV output carry
// "Mon".."Sun" instead of raw integers.
func (w Weekday) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// Of converts a timestamp to a Monday-first weekday.
func Of(t time.Time) Weekday {
	// time.Weekday is Sunday-first (Sunday=0).
	return Weekday((int(t.Weekday()) + 6) % 7)
}

// DayOf truncates a timestamp to its wall-clock calendar date as a UTC
// midnight. Days are the grain of all date-range filtering; anchoring every
// day in one fixed location keeps equal calendar dates equal as instants
// even when a source cell carries a zone offset.
func DayOf(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// AddDays shifts a day by n calendar days.
func AddDays(day time.Time, n int) time.Time {
	return day.AddDate(0, 0, n)
}

// PreviousMonth returns the first and last day of the calendar month
// immediately preceding the month containing day.
func PreviousMonth(day time.Time) (time.Time, time.Time) {
	year, month, _ := day.Date()
	firstOfThis := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	first := firstOfThis.AddDate(0, -1, 0)
	last := firstOfThis.AddDate(0, 0, -1)
	return first, last
}

const dayLayout = "2006-01-02"

// timestampLayouts are tried in order when parsing an order-export cell.
// Local/naive clock only: no timezone conversion is applied beyond what the
// value itself carries.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006 15:04:05",
	"01/02/2006",
}

// ParseTimestamp parses a raw cell as a calendar instant.
// Returns false for anything unparsable; callers drop such rows.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseDay parses a YYYY-MM-DD date.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(dayLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

// FormatDay renders a day as YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return t.Format(dayLayout)
}
