package engine

import (
	"slices"
	"time"
)

// ScheduleConfig is the immutable description of a run: how long each phase
// lasts, how breaks are distributed and when the run stops. The engine never
// mutates a ScheduleConfig and takes a copy of it at the start of every run.
type ScheduleConfig struct {
	WorkDuration       time.Duration `json:"work_duration"`
	ShortBreakDuration time.Duration `json:"short_break_duration"`
	LongBreakDuration  time.Duration `json:"long_break_duration"`
	WorkdayDuration    time.Duration `json:"workday_duration"`
	RunMode            RunMode       `json:"run_mode"`
	BreakPolicy        BreakPolicy   `json:"break_policy"`
	LongBreakEvery     int           `json:"long_break_every"`
	TargetCycles       int           `json:"target_cycles"`
}

// Validate reports the first invalid field of the configuration.
func (c ScheduleConfig) Validate() error {
	durations := []struct {
		name string
		d    time.Duration
	}{
		{"work", c.WorkDuration},
		{"short break", c.ShortBreakDuration},
		{"long break", c.LongBreakDuration},
		{"workday", c.WorkdayDuration},
	}

	for _, v := range durations {
		if v.d < time.Second || v.d%time.Second != 0 {
			return errInvalidDuration.Fmt(v.name, v.d)
		}
	}

	if c.LongBreakEvery < 2 {
		return errInvalidLongBreakEvery.Fmt(c.LongBreakEvery)
	}

	if c.TargetCycles < 1 {
		return errInvalidTargetCycles.Fmt(c.TargetCycles)
	}

	if !slices.Contains([]RunMode{Workday, Cycles}, c.RunMode) {
		return errInvalidRunMode.Fmt(c.RunMode)
	}

	if !slices.Contains(
		[]BreakPolicy{Standard, ShortOnly, LongOnly},
		c.BreakPolicy,
	) {
		return errInvalidBreakPolicy.Fmt(c.BreakPolicy)
	}

	return nil
}

// Duration returns the nominal length of phase p.
func (c ScheduleConfig) Duration(p PhaseType) time.Duration {
	switch p {
	case Work:
		return c.WorkDuration
	case ShortBreak:
		return c.ShortBreakDuration
	case LongBreak:
		return c.LongBreakDuration
	}

	return 0
}

// BreakAfter returns the break that follows the nth completed work interval
// (1-indexed).
func (c ScheduleConfig) BreakAfter(n int) PhaseType {
	switch c.BreakPolicy {
	case ShortOnly:
		return ShortBreak
	case LongOnly:
		return LongBreak
	}

	if n > 0 && n%c.LongBreakEvery == 0 {
		return LongBreak
	}

	return ShortBreak
}

// BreakCounts partitions the breaks that follow work intervals 1..breaks into
// short and long breaks.
func (c ScheduleConfig) BreakCounts(breaks int) (short, long int) {
	for n := 1; n <= breaks; n++ {
		if c.BreakAfter(n) == LongBreak {
			long++
		} else {
			short++
		}
	}

	return short, long
}

func (c ScheduleConfig) workdayLimitSec() int64 {
	if c.RunMode != Workday {
		return 0
	}

	return int64(c.WorkdayDuration / time.Second)
}
