// Package clock supplies the current time to everything that needs it.
// The adjustable clock carries an optional operator override so the whole
// system can be frozen at a chosen instant for demos and tests.
package clock

import (
	"sync"
	"time"
)

// Clock yields the current instant.
type Clock interface {
	Now() time.Time
}

// Adjustable is a Clock that normally tracks the wall clock in a fixed
// location but can be overridden with a frozen instant. Setting or
// clearing the override applies to all subsequent Now calls immediately.
type Adjustable struct {
	mu       sync.RWMutex
	loc      *time.Location
	override *time.Time
}

// NewAdjustable returns an adjustable clock reporting time in loc
// (time.Local when nil).
func NewAdjustable(loc *time.Location) *Adjustable {
	if loc == nil {
		loc = time.Local
	}
	return &Adjustable{loc: loc}
}

func (c *Adjustable) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.override != nil {
		return *c.override
	}
	return time.Now().In(c.loc)
}

// Set freezes the clock at t until Clear is called or a new override is set.
// Recorded history timestamps are not affected.
func (c *Adjustable) Set(t time.Time) {
	t = t.In(c.loc)
	c.mu.Lock()
	c.override = &t
	c.mu.Unlock()
}

// Clear removes the override; Now tracks the wall clock again.
func (c *Adjustable) Clear() {
	c.mu.Lock()
	c.override = nil
	c.mu.Unlock()
}

// Override returns the frozen instant and whether one is active.
func (c *Adjustable) Override() (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.override == nil {
		return time.Time{}, false
	}
	return *c.override, true
}

// Location returns the clock's reporting location.
func (c *Adjustable) Location() *time.Location {
	return c.loc
}
