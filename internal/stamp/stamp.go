// Package stamp formats the human-readable timestamps written into queue cells.
package stamp

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

// Layout is the dd/mm/YYYY HH:MM format used in every status cell.
const Layout = "02/01/2006 15:04"

// Clock produces timestamps in a fixed location.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// New returns a Clock for the named IANA zone.
func New(zone string) (*Clock, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", zone, err)
	}
	return &Clock{loc: loc, now: time.Now}, nil
}

// InLocation returns a Clock for loc using the wall clock.
func InLocation(loc *time.Location) *Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &Clock{loc: loc, now: time.Now}
}

// Fixed returns a Clock that always reports t. Intended for tests.
func Fixed(t time.Time) *Clock {
	return &Clock{loc: t.Location(), now: func() time.Time { return t }}
}

// Now returns the current time in the clock's location.
func (c *Clock) Now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c.now().In(c.loc)
}

// Stamp returns Now formatted with Layout.
func (c *Clock) Stamp() string {
	return c.Now().Format(Layout)
}
