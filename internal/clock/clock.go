// Package clock provides the virtual clock used to compress wall-clock
// time for end-to-end testing. While enabled, real time elapsed since
// the anchor is stretched by a fixed factor, so hourly and weekly jobs
// can be exercised within minutes.
package clock

import (
	"sync"
	"time"
)

// AccelerationFactor maps 1 real hour to 5 virtual workdays
const AccelerationFactor = 120

// Status describes the current virtual clock mode
type Status struct {
	Enabled        bool
	ElapsedReal    time.Duration
	ElapsedVirtual time.Duration
	Factor         int
}

// Clock maps real timestamps to an accelerated timeline. The zero mode
// is identity. A single Clock value is shared by everything that makes
// time-sensitive decisions; it is safe for concurrent use.
type Clock struct {
	mu      sync.RWMutex
	enabled bool
	anchor  time.Time
	subs    []func(enabled bool)

	now func() time.Time // overridable in tests
}

// New creates a clock in identity (disabled) mode
func New() *Clock {
	return &Clock{now: time.Now}
}

// Enable switches to accelerated mode, recording the current real time
// as the anchor. Returns false if acceleration was already enabled.
func (c *Clock) Enable() bool {
	c.mu.Lock()
	if c.enabled {
		c.mu.Unlock()
		return false
	}
	c.enabled = true
	c.anchor = c.now()
	subs := append([]func(bool){}, c.subs...)
	c.mu.Unlock()

	for _, fn := range subs {
		fn(true)
	}
	return true
}

// Disable restores identity mapping for all subsequent calls.
// Returns false if acceleration was not enabled.
func (c *Clock) Disable() bool {
	c.mu.Lock()
	if !c.enabled {
		c.mu.Unlock()
		return false
	}
	c.enabled = false
	c.anchor = time.Time{}
	subs := append([]func(bool){}, c.subs...)
	c.mu.Unlock()

	for _, fn := range subs {
		fn(false)
	}
	return true
}

// Enabled reports whether accelerated mode is active
func (c *Clock) Enabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.enabled
}

// Map converts a real timestamp to the virtual timeline.
// Identity while disabled; anchor + (t-anchor)*factor while enabled.
func (c *Clock) Map(t time.Time) time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.enabled {
		return t
	}
	return c.anchor.Add(t.Sub(c.anchor) * AccelerationFactor)
}

// Now returns the current time on the virtual timeline
func (c *Clock) Now() time.Time {
	return c.Map(c.nowReal())
}

// Status returns the current mode for the operator surface
func (c *Clock) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Status{Enabled: c.enabled, Factor: AccelerationFactor}
	if c.enabled {
		s.ElapsedReal = c.now().Sub(c.anchor)
		s.ElapsedVirtual = s.ElapsedReal * AccelerationFactor
	}
	return s
}

// OnChange registers a callback fired after every successful mode
// switch. The scheduler uses it to re-register job cadences.
func (c *Clock) OnChange(fn func(enabled bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

func (c *Clock) nowReal() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now()
}
