package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClock_IdentityWhenDisabled(t *testing.T) {
	c := New()

	now := time.Now()
	assert.Equal(t, now, c.Map(now))
	assert.False(t, c.Enabled())
}

func TestClock_EnableDisable(t *testing.T) {
	c := New()

	assert.True(t, c.Enable())
	assert.False(t, c.Enable(), "second enable should report already active")
	assert.True(t, c.Enabled())

	assert.True(t, c.Disable())
	assert.False(t, c.Disable(), "second disable should report already inactive")
	assert.False(t, c.Enabled())

	// Identity mapping restored after disable
	now := time.Now()
	assert.Equal(t, now, c.Map(now))
}

func TestClock_AcceleratedMapping(t *testing.T) {
	base := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

	c := New()
	c.now = func() time.Time { return base }
	c.Enable()

	// 1 real hour after the anchor maps to F virtual hours
	mapped := c.Map(base.Add(time.Hour))
	assert.Equal(t, base.Add(AccelerationFactor*time.Hour), mapped)

	// The anchor itself maps to itself
	assert.Equal(t, base, c.Map(base))
}

func TestClock_ReEnableResetsAnchor(t *testing.T) {
	base := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

	c := New()
	c.now = func() time.Time { return base }
	c.Enable()
	c.Disable()

	// Re-enable one hour later: the new anchor is the new "now"
	later := base.Add(time.Hour)
	c.now = func() time.Time { return later }
	c.Enable()

	assert.Equal(t, later, c.Map(later))
	assert.Equal(t, later.Add(AccelerationFactor*time.Minute), c.Map(later.Add(time.Minute)))
}

func TestClock_Status(t *testing.T) {
	base := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

	c := New()
	c.now = func() time.Time { return base }

	status := c.Status()
	assert.False(t, status.Enabled)
	assert.Equal(t, time.Duration(0), status.ElapsedVirtual)
	assert.Equal(t, AccelerationFactor, status.Factor)

	c.Enable()

	// Immediately after enabling, virtually no time has passed
	status = c.Status()
	assert.True(t, status.Enabled)
	assert.Equal(t, time.Duration(0), status.ElapsedVirtual)

	// After 1 real hour, F virtual hours have passed
	c.now = func() time.Time { return base.Add(time.Hour) }
	status = c.Status()
	assert.Equal(t, time.Hour, status.ElapsedReal)
	assert.Equal(t, AccelerationFactor*time.Hour, status.ElapsedVirtual)
}

func TestClock_OnChange(t *testing.T) {
	c := New()

	var events []bool
	c.OnChange(func(enabled bool) { events = append(events, enabled) })

	c.Enable()
	c.Enable() // no-op, must not fire
	c.Disable()

	assert.Equal(t, []bool{true, false}, events)
}
