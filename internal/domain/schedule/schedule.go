// Package schedule holds the calendar value objects shared by the booking and
// car aggregates: plain calendar dates, the availability marker, and the
// schedule entry that pairs them.
package schedule

import (
	"fmt"
	"time"
)

// dateLayout is the wire and storage format for calendar dates.
const dateLayout = "2006-01-02"

// Date is a calendar date without a time-of-day component.
type Date struct {
	t time.Time
}

// NewDate truncates t to its UTC calendar date.
func NewDate(t time.Time) Date {
	u := t.UTC()
	return Date{t: time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a date in YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t: t}, nil
}

// String returns the date in YYYY-MM-DD form.
func (d Date) String() string {
	return d.t.Format(dateLayout)
}

// Time returns the date as a UTC midnight timestamp.
func (d Date) Time() time.Time {
	return d.t
}

// Equal reports whether two dates fall on the same calendar day.
func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

// Before reports whether d falls before other.
func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

// MarshalJSON encodes the date as a YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid date JSON: %s", data)
	}
	parsed, err := ParseDate(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Availability marks what a schedule entry means for the calendar.
type Availability string

const (
	AvailabilityOpen    Availability = "open"
	AvailabilityBlocked Availability = "blocked"
	AvailabilityUnknown Availability = "unknown"
)

// IsValid returns true if the availability marker is recognized.
func (a Availability) IsValid() bool {
	switch a {
	case AvailabilityOpen, AvailabilityBlocked, AvailabilityUnknown:
		return true
	}
	return false
}

// ParseAvailability converts a string to an Availability, returning an error if invalid.
func ParseAvailability(s string) (Availability, error) {
	a := Availability(s)
	if !a.IsValid() {
		return "", fmt.Errorf("invalid availability marker: %s", s)
	}
	return a, nil
}

// Entry is one schedule record: a set of dates paired with an availability
// marker. Entries written by the booking lifecycle carry the booking number
// that introduced them, so cancellation can remove exactly its own entries.
type Entry struct {
	Dates        []Date       `json:"dates"`
	Availability Availability `json:"availability"`
	BookingRef   string       `json:"booking_ref,omitempty"`
}

// ContainsAny reports whether the entry covers any of the given dates.
func (e Entry) ContainsAny(dates []Date) bool {
	for _, d := range e.Dates {
		for _, other := range dates {
			if d.Equal(other) {
				return true
			}
		}
	}
	return false
}

// Contains reports whether the entry covers the given date.
func (e Entry) Contains(date Date) bool {
	for _, d := range e.Dates {
		if d.Equal(date) {
			return true
		}
	}
	return false
}
