package calendar

import (
	"fmt"
	"regexp"
	"time"
)

// Months are 0-indexed (0 = January) everywhere in this package; the wire
// form "YYYY-MM" is 1-indexed and converted at the boundary by ParseMonth.

var monthRegex = regexp.MustCompile(`^\d{4}-\d{2}$`)

// Grid describes the shape of one rendered month: how many days it has,
// which weekday the 1st falls on (0 = Sunday) and the padding cells needed
// to make the layout a whole number of weeks.
type Grid struct {
	DaysInMonth    int
	FirstWeekday   int
	LeadingBlanks  int
	TrailingBlanks int
}

// DaysInMonth returns the day count of (year, month); day 0 of the following
// month is the last day of this one, which makes leap years and the
// December rollover fall out of the calendar arithmetic for free.
func DaysInMonth(year int, month int) int {
	return time.Date(year, time.Month(month+2), 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekday returns the Sunday-first weekday index (0-6) of the 1st of
// (year, month).
func FirstWeekday(year int, month int) int {
	return int(time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC).Weekday())
}

func MonthOf(year int, month int) Grid {
	daysInMonth := DaysInMonth(year, month)
	firstWeekday := FirstWeekday(year, month)
	return Grid{
		DaysInMonth:    daysInMonth,
		FirstWeekday:   firstWeekday,
		LeadingBlanks:  firstWeekday,
		TrailingBlanks: (7 - (firstWeekday+daysInMonth)%7) % 7,
	}
}

func PrevMonth(year int, month int) (int, int) {
	if month == 0 {
		return year - 1, 11
	}
	return year, month - 1
}

func NextMonth(year int, month int) (int, int) {
	if month == 11 {
		return year + 1, 0
	}
	return year, month + 1
}

// ParseMonth validates and splits a "YYYY-MM" string into (year, month).
func ParseMonth(s string) (int, int, error) {
	if !monthRegex.MatchString(s) {
		return 0, 0, fmt.Errorf("invalid month %q, expected YYYY-MM", s)
	}
	var year, monthOneIndexed int
	if _, err := fmt.Sscanf(s, "%04d-%02d", &year, &monthOneIndexed); err != nil {
		return 0, 0, fmt.Errorf("invalid month %q, expected YYYY-MM", s)
	}
	if monthOneIndexed < 1 || monthOneIndexed > 12 {
		return 0, 0, fmt.Errorf("invalid month %q, month must be 01-12", s)
	}
	return year, monthOneIndexed - 1, nil
}

// FormatMonth is the inverse of ParseMonth.
func FormatMonth(year int, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month+1)
}

// DateString returns the zero-padded "YYYY-MM-DD" form of a day.
func DateString(year int, month int, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month+1, day)
}
