// Package dates provides a calendar-day date type. Snapshot validity in this
// service is decided by day equality against the local clock, never by a
// rolling TTL, so a dedicated type keeps time-of-day out of comparisons.
package dates

import (
	"fmt"
	"time"
)

// Format is the wire and storage representation of a Date.
const Format = "2006-01-02"

// FeedFormat is the date layout used by the fund NAV feed.
const FeedFormat = "02-Jan-2006"

// Date represents a date with day granularity.
type Date struct {
	y int
	m time.Month
	d int
}

// New returns a normalized Date for the given year, month and day.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Today returns the current date on the local clock.
func Today() Date {
	return New(time.Now().Date())
}

// FromTime truncates t to its calendar day.
func FromTime(t time.Time) Date {
	return New(t.Date())
}

// Parse reads a date in the canonical 2006-01-02 layout.
func Parse(s string) (Date, error) {
	t, err := time.Parse(Format, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return FromTime(t), nil
}

// ParseFeed reads a date in the fund feed's 02-Jan-2006 layout.
func ParseFeed(s string) (Date, error) {
	t, err := time.Parse(FeedFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid feed date %q: %w", s, err)
	}
	return FromTime(t), nil
}

func (d Date) time() time.Time {
	return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC)
}

// Time returns midnight UTC of the day, the canonical representation used
// when a Date crosses a database boundary.
func (d Date) Time() time.Time { return d.time() }

// Equal reports whether d and x are the same calendar day.
func (d Date) Equal(x Date) bool { return d == x }

// Before reports whether d is an earlier day than x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether d is a later day than x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// Add returns the date i days after d (or before, for negative i).
func (d Date) Add(i int) Date { return New(d.y, d.m, d.d+i) }

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

func (d Date) String() string { return d.time().Format(Format) }

// MarshalJSON encodes the date as a quoted 2006-01-02 string. The zero
// Date has no meaningful calendar day and encodes as null.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a quoted 2006-01-02 string. null and the empty
// string decode to the zero Date.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		*d = Date{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s", s)
	}
	parsed, err := Parse(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
