package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPhaseClockFiresOnce(t *testing.T) {
	var c PhaseClock

	c.Start(10*time.Second, noon)

	remaining, expired := c.Poll(noon.Add(9*time.Second + 500*time.Millisecond))
	assert.False(t, expired)
	assert.Equal(t, 500*time.Millisecond, remaining)
	assert.Equal(t, 1, DisplaySeconds(remaining))

	// a late poll long after the deadline fires immediately
	_, expired = c.Poll(noon.Add(time.Minute))
	assert.True(t, expired)

	for range 3 {
		remaining, expired = c.Poll(noon.Add(2 * time.Minute))
		assert.False(t, expired)
		assert.Zero(t, remaining)
	}
}

func TestPhaseClockClampsBackwardsJump(t *testing.T) {
	var c PhaseClock

	c.Start(10*time.Second, noon)

	remaining, expired := c.Poll(noon.Add(-time.Hour))
	assert.False(t, expired)
	assert.Equal(t, 10*time.Second, remaining)
}

func TestPhaseClockPauseResume(t *testing.T) {
	var c PhaseClock

	c.Start(10*time.Second, noon)
	c.Pause(noon.Add(4 * time.Second))

	assert.False(t, c.Armed())
	assert.True(t, c.Deadline().IsZero())

	// polls while paused never fire
	remaining, expired := c.Poll(noon.Add(time.Hour))
	assert.False(t, expired)
	assert.Equal(t, 6*time.Second, remaining)

	c.Resume(noon.Add(time.Hour))
	assert.Equal(t, noon.Add(time.Hour+6*time.Second), c.Deadline())

	_, expired = c.Poll(noon.Add(time.Hour + 6*time.Second))
	assert.True(t, expired)
}

func TestPhaseClockStopSwallowsExpiry(t *testing.T) {
	var c PhaseClock

	c.Start(10*time.Second, noon)
	c.Stop()

	_, expired := c.Poll(noon.Add(time.Minute))
	assert.False(t, expired)
}

func TestPhaseClockFreeze(t *testing.T) {
	var c PhaseClock

	c.Freeze(10*time.Second, time.Minute)
	assert.Equal(t, 10*time.Second, c.Remaining(noon))

	c.Freeze(10*time.Second, -time.Second)
	assert.Zero(t, c.Remaining(noon))
}

func TestDisplaySeconds(t *testing.T) {
	cases := map[time.Duration]int{
		0:                      0,
		-time.Second:           0,
		time.Millisecond:       1,
		time.Second:            1,
		time.Second + 1:        2,
		1500 * time.Second:     1500,
		1499*time.Second + 9e8: 1500,
		25*time.Minute - 999e6: 1500,
	}

	for in, want := range cases {
		assert.Equal(t, want, DisplaySeconds(in), in)
	}
}

func TestPhaseClockShift(t *testing.T) {
	var c PhaseClock

	c.Shift(time.Minute)
	assert.True(t, c.Deadline().IsZero())

	c.Start(10*time.Second, noon)
	c.Shift(-3 * time.Second)

	assert.Equal(t, noon.Add(7*time.Second), c.Deadline())

	_, expired := c.Poll(noon.Add(7 * time.Second))
	assert.True(t, expired)
}
