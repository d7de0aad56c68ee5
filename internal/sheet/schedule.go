package sheet

import (
	"strings"
	"time"
)

// dateLayout accepts both "1/2/2024" and "01/02/2024".
const dateLayout = "1/2/2006"

// Selection is the outcome of comparing a schedule column's date with today.
type Selection int

const (
	// Passed columns are dated before today.
	Passed Selection = iota
	// Due columns are dated today; their groups are created on this run.
	Due
	// Future columns are left for a later run.
	Future
)

func (s Selection) String() string {
	switch s {
	case Passed:
		return "passed"
	case Due:
		return "due"
	case Future:
		return "future"
	default:
		return "unknown"
	}
}

// ScheduleColumn is a grid column headed by a date.
type ScheduleColumn struct {
	Index  int
	Date   time.Time
	Column Column
}

// DateText returns the header exactly as written in the sheet.
func (s ScheduleColumn) DateText() string {
	return s.Column.Cell(0)
}

// TimeText returns the second row of the column.
func (s ScheduleColumn) TimeText() string {
	return s.Column.Cell(1)
}

// ParseDate parses a schedule header in loc.
func ParseDate(header string, loc *time.Location) (time.Time, bool) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(header), loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Select decides whether a group dated date is created at now.
func Select(date, now time.Time) Selection {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())

	switch {
	case day.Before(today):
		return Passed
	case day.Equal(today):
		return Due
	default:
		return Future
	}
}
