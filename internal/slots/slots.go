// Package slots models the bookable calendar: the fixed catalog of
// time-of-day labels ("9:00 AM" … "5:30 PM"), parsing and formatting of
// clock values, weekday names, and the conversion of a shop-local
// (date, label) pair into an absolute instant.
//
// All instants leaving this package are UTC. Dates and labels are always
// interpreted in the configured shop-local *time.Location.
package slots

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the wire format for calendar dates.
	DateLayout = "2006-01-02"
	// LabelLayout formats a time-of-day label, e.g. "9:00 AM".
	LabelLayout = "3:04 PM"
	// ClockLayout is the 24h storage format for shop opening hours.
	ClockLayout = "15:04"
	// ConfirmationDateLayout renders dates in confirmation messages.
	ConfirmationDateLayout = "January 2, 2006"

	day = 24 * time.Hour
)

var (
	// ErrBadClock is returned for a time-of-day that cannot be parsed.
	ErrBadClock = errors.New("invalid time of day")
	// ErrBadDate is returned for a date that is not YYYY-MM-DD.
	ErrBadDate = errors.New("invalid date")
	// ErrBadWeekday is returned for an unknown weekday name.
	ErrBadWeekday = errors.New("invalid weekday")
)

var clockLayouts = []string{LabelLayout, "3:04PM", "3 PM", "3PM", ClockLayout}

// ParseClock parses a time-of-day in either 12h ("10:00 AM", "10 AM") or 24h
// ("10:00") form and returns the offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, ErrBadClock
	}
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrBadClock, s)
}

// FormatLabel renders an offset from midnight as a catalog label.
func FormatLabel(off time.Duration) string {
	return time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC).Add(off).Format(LabelLayout)
}

// FormatClock renders an offset from midnight in 24h storage form.
func FormatClock(off time.Duration) string {
	return time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC).Add(off).Format(ClockLayout)
}

// Catalog is the ordered set of bookable time-of-day labels.
// A Catalog is immutable after construction and safe for concurrent use.
type Catalog struct {
	labels  []string
	offsets map[string]time.Duration
	step    time.Duration
}

// NewCatalog builds the labels first, first+step, … up to and including last.
func NewCatalog(first, last string, step time.Duration) (*Catalog, error) {
	if step < time.Minute || step%time.Minute != 0 {
		return nil, fmt.Errorf("catalog step must be a whole number of minutes, got %s", step)
	}
	from, err := ParseClock(first)
	if err != nil {
		return nil, err
	}
	to, err := ParseClock(last)
	if err != nil {
		return nil, err
	}
	if to < from {
		return nil, fmt.Errorf("catalog end %q precedes start %q", last, first)
	}

	c := &Catalog{offsets: make(map[string]time.Duration), step: step}
	for off := from; off <= to && off < day; off += step {
		l := FormatLabel(off)
		c.labels = append(c.labels, l)
		c.offsets[l] = off
	}
	return c, nil
}

// MustCatalog is NewCatalog that panics on error.
func MustCatalog(first, last string, step time.Duration) *Catalog {
	c, err := NewCatalog(first, last, step)
	if err != nil {
		panic(err)
	}
	return c
}

// Default returns the 9:00 AM – 5:30 PM half-hour catalog.
func Default() *Catalog { return MustCatalog("9:00 AM", "5:30 PM", 30*time.Minute) }

// Labels returns a copy of the catalog labels in chronological order.
func (c *Catalog) Labels() []string {
	out := make([]string, len(c.labels))
	copy(out, c.labels)
	return out
}

// Step is the catalog granularity.
func (c *Catalog) Step() time.Duration { return c.step }

// Offset resolves a label to its offset from midnight. Labels are matched
// after normalization, so "10:00am" resolves like "10:00 AM".
func (c *Catalog) Offset(label string) (time.Duration, bool) {
	if off, ok := c.offsets[strings.TrimSpace(label)]; ok {
		return off, true
	}
	off, err := ParseClock(label)
	if err != nil {
		return 0, false
	}
	canon, ok := c.offsets[FormatLabel(off)]
	return canon, ok
}

// Contains reports whether label is part of the catalog.
func (c *Catalog) Contains(label string) bool {
	_, ok := c.Offset(label)
	return ok
}

// ParseDate parses a YYYY-MM-DD date as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, s)
	}
	return t, nil
}

// Today returns midnight of now's calendar day in loc.
func Today(now time.Time, loc *time.Location) time.Time {
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// HorizonEnd is the last bookable date: today plus the given number of months.
func HorizonEnd(today time.Time, months int) time.Time {
	return today.AddDate(0, months, 0)
}

// Combine joins a local date and a time-of-day offset into a UTC instant.
// Wall-clock fields are used so that DST transitions do not shift labels.
func Combine(date time.Time, off time.Duration, loc *time.Location) time.Time {
	y, m, d := date.In(loc).Date()
	mins := int(off / time.Minute)
	return time.Date(y, m, d, mins/60, mins%60, 0, 0, loc).UTC()
}

// DayBounds returns the UTC half-open interval [start, end) covering date in loc.
func DayBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	y, m, d := date.In(loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}

// LocalLabel renders an instant as a catalog label in loc.
func LocalLabel(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(LabelLayout)
}

// ConfirmationDate renders an instant's local date for user-facing messages.
func ConfirmationDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(ConfirmationDateLayout)
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday accepts full weekday names in any case ("Monday", "monday")
// and the three-letter abbreviations ("mon").
func ParseWeekday(s string) (time.Weekday, error) {
	k := strings.ToLower(strings.TrimSpace(s))
	if wd, ok := weekdays[k]; ok {
		return wd, nil
	}
	if len(k) == 3 {
		for name, wd := range weekdays {
			if strings.HasPrefix(name, k) {
				return wd, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrBadWeekday, s)
}

// WeekdayName is the canonical lowercase name used in storage.
func WeekdayName(wd time.Weekday) string { return strings.ToLower(wd.String()) }
