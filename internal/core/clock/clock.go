// Package clock pins "today" to the calendar of the configured time zone.
package clock

import "time"

type Clock struct {
	loc *time.Location
	now func() time.Time
}

func New(loc *time.Location) *Clock {
	if loc == nil {
		loc = time.Local
	}
	return &Clock{loc: loc, now: time.Now}
}

// Fixed returns a clock frozen at t, for tests and replays.
func Fixed(t time.Time) *Clock {
	return &Clock{loc: t.Location(), now: func() time.Time { return t }}
}

func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// Today returns the current local calendar day as a date value.
func (c *Clock) Today() time.Time {
	return Date(c.Now())
}

func (c *Clock) Location() *time.Location {
	return c.loc
}

// Date drops the clock part of t, keeping its calendar day, and normalizes
// the result to midnight UTC so it compares equal across storage backends.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate reads a YYYY-MM-DD calendar day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, err
	}
	return Date(t), nil
}
