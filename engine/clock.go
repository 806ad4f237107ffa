package engine

import "time"

// PhaseClock counts down a single phase against an absolute deadline. The
// remaining time is always derived from the deadline, never from the number of
// polls, so late or coalesced polls cannot make it drift.
type PhaseClock struct {
	deadline  time.Time
	nominal   time.Duration
	remaining time.Duration
	armed     bool
	fired     bool
}

// Start arms the clock for a phase of length d beginning at now.
func (c *PhaseClock) Start(d time.Duration, now time.Time) {
	c.nominal = d
	c.remaining = d
	c.deadline = now.Add(d)
	c.armed = true
	c.fired = false
}

// StartUntil arms the clock for a phase of nominal length d that expires at
// deadline. It is used when a phase is resumed from a checkpoint.
func (c *PhaseClock) StartUntil(d time.Duration, deadline, now time.Time) {
	c.nominal = d
	c.deadline = deadline
	c.armed = true
	c.fired = false
	c.remaining = c.until(now)
}

// Freeze restores a paused phase with the given remainder.
func (c *PhaseClock) Freeze(d, remaining time.Duration) {
	c.nominal = d
	c.remaining = min(max(remaining, 0), d)
	c.deadline = time.Time{}
	c.armed = false
	c.fired = false
}

// Poll recomputes the remaining time. expired is true exactly once per phase:
// on the first poll at or after the deadline.
func (c *PhaseClock) Poll(now time.Time) (remaining time.Duration, expired bool) {
	if !c.armed {
		return c.remaining, false
	}

	c.remaining = c.until(now)

	if c.remaining > 0 || c.fired {
		return c.remaining, false
	}

	c.fired = true

	return 0, true
}

// Pause freezes the remainder at now and disarms the clock.
func (c *PhaseClock) Pause(now time.Time) {
	if !c.armed {
		return
	}

	c.remaining = c.until(now)
	c.deadline = time.Time{}
	c.armed = false
}

// Resume re-arms the clock with a deadline of now plus the frozen remainder.
func (c *PhaseClock) Resume(now time.Time) {
	if c.armed {
		return
	}

	c.deadline = now.Add(c.remaining)
	c.armed = true
}

// Shift moves the deadline of an armed clock by d.
func (c *PhaseClock) Shift(d time.Duration) {
	if !c.armed {
		return
	}

	c.deadline = c.deadline.Add(d)
}

// Stop disarms the clock and swallows any pending expiry.
func (c *PhaseClock) Stop() {
	c.armed = false
	c.fired = true
	c.deadline = time.Time{}
}

// Remaining returns the time left in the phase as of now without firing.
func (c *PhaseClock) Remaining(now time.Time) time.Duration {
	if !c.armed {
		return c.remaining
	}

	return c.until(now)
}

// Deadline returns the instant the phase expires. It is the zero time when
// the clock is paused or stopped.
func (c *PhaseClock) Deadline() time.Time {
	return c.deadline
}

// Armed reports whether the clock is counting down.
func (c *PhaseClock) Armed() bool {
	return c.armed
}

// Nominal returns the full length of the current phase.
func (c *PhaseClock) Nominal() time.Duration {
	return c.nominal
}

// until is the clamped time between now and the deadline. A clock that moved
// backwards never yields more than the nominal phase length.
func (c *PhaseClock) until(now time.Time) time.Duration {
	return min(max(c.deadline.Sub(now), 0), c.nominal)
}

// DisplaySeconds rounds a remaining duration up to whole seconds, so that a
// countdown shows 1 until the phase has fully elapsed.
func DisplaySeconds(remaining time.Duration) int {
	if remaining <= 0 {
		return 0
	}

	return int((remaining + time.Second - 1) / time.Second)
}
