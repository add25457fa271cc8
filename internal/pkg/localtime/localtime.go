// Package localtime evaluates calendar dates and times of day in a property's
// own time zone. Every check-in, check-out and refund threshold is computed in
// property-local time, never in the viewer's zone.
package localtime

import (
	"strings"
	"time"

	"booking-lifecycle/internal/pkg/errs"
)

const (
	DateLayout = "2006-01-02"

	DefaultZone = "America/New_York"
)

var (
	ErrInvalidDate      = errs.New("invalid calendar date")
	ErrInvalidTimeOfDay = errs.New("invalid time of day")
)

// Default check-in/out times applied when a stay snapshot omits them.
var (
	DefaultCheckIn  = TimeOfDay{Hour: 15}
	DefaultCheckOut = TimeOfDay{Hour: 11}
)

// ResolveLocation loads the named IANA zone. An empty or unknown name resolves
// to fallback, and a nil fallback resolves to DefaultZone (UTC as last resort).
func ResolveLocation(name string, fallback *time.Location) *time.Location {
	if name = strings.TrimSpace(name); name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	if fallback != nil {
		return fallback
	}
	if loc, err := time.LoadLocation(DefaultZone); err == nil {
		return loc
	}
	return time.UTC
}

// Date is a calendar date with no zone attached.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func NewDate(year int, month time.Month, day int) Date {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// ParseDate accepts "2006-01-02" or an RFC3339 timestamp. For timestamps the
// calendar date is read in loc, so "2025-03-01T02:00:00Z" is 28 Feb in Los Angeles.
func ParseDate(s string, loc *time.Location) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrInvalidDate
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return NewDate(t.Year(), t.Month(), t.Day()), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, errs.Wrapf(ErrInvalidDate, "parse date %q: %v", s, err)
	}
	if loc != nil {
		t = t.In(loc)
	}
	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

func (d Date) IsZero() bool { return d.Year == 0 && d.Month == 0 && d.Day == 0 }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Format(DateLayout)
}

func (d Date) Before(other Date) bool { return d.utc().Before(other.utc()) }

func (d Date) After(other Date) bool { return d.utc().After(other.utc()) }

func (d Date) AddDays(n int) Date {
	t := d.utc().AddDate(0, 0, n)
	return NewDate(t.Year(), t.Month(), t.Day())
}

func (d Date) utc() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
}

var timeOfDayLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04 PM",
	"3:04PM",
	"3 PM",
	"3PM",
}

// ParseTimeOfDay accepts 24h ("15:00", "15:00:00") and 12h ("3:00 PM", "3 PM")
// forms. Empty input yields def.
func ParseTimeOfDay(s string, def TimeOfDay) (TimeOfDay, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return def, nil
	}
	for _, layout := range timeOfDayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
		}
	}
	return def, errs.Wrapf(ErrInvalidTimeOfDay, "parse %q", s)
}

func (t TimeOfDay) String() string {
	return time.Date(2000, 1, 1, t.Hour, t.Minute, 0, 0, time.UTC).Format("15:04")
}

// Combine returns the instant at which the wall clock in loc shows date + tod.
// Wall times that fall in a DST gap are normalised by time.Date.
func Combine(date Date, tod TimeOfDay, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(date.Year, date.Month, date.Day, tod.Hour, tod.Minute, 0, 0, loc)
}

// NightsBetween counts calendar nights from arrival to departure. It is
// independent of zone and DST because it works on dates, not instants.
func NightsBetween(arrival, departure Date) int {
	return int(departure.utc().Sub(arrival.utc()).Hours() / 24)
}

// Until measures the gap from "from" to "to". Days are whole days truncated
// toward zero; hours keep their fraction.
func Until(from, to time.Time) (days int, hours float64) {
	d := to.Sub(from)
	hours = d.Hours()
	days = int(hours / 24)
	return days, hours
}
