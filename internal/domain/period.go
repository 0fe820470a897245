package domain

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

// ReportTimezone is the fixed timezone for timestamps defaults and period bounds.
const ReportTimezone = "America/Sao_Paulo"

// DateLayout is the calendar date format accepted for period bounds.
const DateLayout = "2006-01-02"

var reportLocation = mustLoadLocation(ReportTimezone)

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("loading timezone %s: %v", name, err))
	}
	return loc
}

// Location returns the fixed reporting timezone.
func Location() *time.Location { return reportLocation }

// Now returns the current time in the reporting timezone.
func Now() time.Time { return time.Now().In(reportLocation) }

// StartOfDay returns 00:00:00 of day's calendar date in the reporting timezone.
func StartOfDay(day time.Time) time.Time {
	y, m, d := day.In(reportLocation).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, reportLocation)
}

// EndOfDay returns the last microsecond of day's calendar date in the reporting
// timezone. Microseconds match PostgreSQL timestamp precision, so the bound never
// rounds into the next day.
func EndOfDay(day time.Time) time.Time {
	return StartOfDay(day).AddDate(0, 0, 1).Add(-time.Microsecond)
}

// ParseDate parses a YYYY-MM-DD calendar date in the reporting timezone.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, reportLocation)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", ErrInvalidRequest, s)
	}
	return t, nil
}

// Period is an inclusive time window.
type Period struct {
	Start time.Time
	End   time.Time
}

// NewPeriod builds the window [start of startDate, end of endDate]. A start after
// the end is accepted and simply matches nothing.
func NewPeriod(startDate, endDate string) (Period, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return Period{}, err
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return Period{}, err
	}
	return Period{Start: StartOfDay(start), End: EndOfDay(end)}, nil
}

// Contains reports whether t falls inside the window, both ends inclusive.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}
