package engine

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/ayoisaiah/cadence/internal/timeutil"
)

// SessionRecord is the durable summary of a finished run.
type SessionRecord struct {
	StartedAt              time.Time `json:"started_at"`
	EndedAt                time.Time `json:"ended_at"`
	ID                     string    `json:"id"`
	Day                    string    `json:"day"`
	Label                  string    `json:"label"`
	RunMode                RunMode   `json:"run_mode"`
	ActiveSec              int64     `json:"active_sec"`
	BreakSec               int64     `json:"break_sec"`
	ShortBreakSec          int64     `json:"short_break_sec"`
	LongBreakSec           int64     `json:"long_break_sec"`
	WorkIntervalsCompleted int       `json:"work_intervals_completed"`
}

// newSessionRecord builds the record for a run that ends at endedAt. Cycles
// runs are snapped to the configured durations so that rounding in the live
// accumulators never leaks into the log; workday runs keep the raw values. It
// returns nil for a run in which no time was recorded.
func newSessionRecord(
	cfg ScheduleConfig,
	label string,
	acc Accumulators,
	completed int,
	startedAt, endedAt time.Time,
) *SessionRecord {
	rec := &SessionRecord{
		ID:                     uuid.NewString(),
		Day:                    timeutil.DayKey(endedAt),
		Label:                  label,
		RunMode:                cfg.RunMode,
		WorkIntervalsCompleted: completed,
		StartedAt:              startedAt,
		EndedAt:                endedAt,
		ActiveSec:              acc.ActiveSec,
		BreakSec:               acc.BreakSec,
		ShortBreakSec:          acc.ShortBreakSec,
		LongBreakSec:           acc.LongBreakSec,
	}

	if cfg.RunMode == Cycles {
		rec.reconcile(cfg)
	}

	if rec.ActiveSec+rec.BreakSec == 0 {
		return nil
	}

	return rec
}

// reconcile recomputes the totals of a cycles run from its completed work
// intervals. No break follows the last interval.
func (r *SessionRecord) reconcile(cfg ScheduleConfig) {
	n := r.WorkIntervalsCompleted
	breaks := max(n-1, 0)
	short, long := cfg.BreakCounts(breaks)

	r.ActiveSec = int64(n) * seconds(cfg.WorkDuration)
	r.ShortBreakSec = int64(short) * seconds(cfg.ShortBreakDuration)
	r.LongBreakSec = int64(long) * seconds(cfg.LongBreakDuration)
	r.BreakSec = r.ShortBreakSec + r.LongBreakSec
}

// MarshalJSON adds the start and end of the session as Unix milliseconds
// next to the RFC 3339 timestamps.
func (r SessionRecord) MarshalJSON() ([]byte, error) {
	type record SessionRecord

	return json.Marshal(struct {
		record
		StartedAtMs int64 `json:"started_at_ms"`
		EndedAtMs   int64 `json:"ended_at_ms"`
	}{
		record:      record(r),
		StartedAtMs: r.StartedAt.UnixMilli(),
		EndedAtMs:   r.EndedAt.UnixMilli(),
	})
}

// Duration returns the total time recorded in the session.
func (r *SessionRecord) Duration() time.Duration {
	return time.Duration(r.ActiveSec+r.BreakSec) * time.Second
}

// Baseline is the accumulator state at the last diary snapshot.
type Baseline struct {
	ActiveSec int64 `json:"active_sec"`
	BreakSec  int64 `json:"break_sec"`
	Pomodoros int   `json:"pomodoros"`
}

// LabelTotals are the diary totals of one activity label.
type LabelTotals struct {
	ActiveSec int64 `json:"active_sec"`
	BreakSec  int64 `json:"break_sec"`
	Pomodoros int   `json:"pomodoros"`
}

// DiaryEntry aggregates the time recorded on a single local day.
type DiaryEntry struct {
	UpdatedAt time.Time              `json:"updated_at"`
	ByLabel   map[string]LabelTotals `json:"by_label"`
	Day       string                 `json:"day"`
	Baseline  Baseline               `json:"baseline"`
	ActiveSec int64                  `json:"active_sec"`
	BreakSec  int64                  `json:"break_sec"`
	Pomodoros int                    `json:"pomodoros"`
}

// DiaryDelta is an increment to be added to a day's diary entry.
type DiaryDelta struct {
	Day       string   `json:"day"`
	Label     string   `json:"label"`
	Baseline  Baseline `json:"baseline"`
	ActiveSec int64    `json:"active_sec"`
	BreakSec  int64    `json:"break_sec"`
	Pomodoros int      `json:"pomodoros"`
}

// IsZero reports whether the delta adds nothing.
func (d *DiaryDelta) IsZero() bool {
	return d.ActiveSec == 0 && d.BreakSec == 0 && d.Pomodoros == 0
}

// Merge adds d to the entry and records d's baseline. Existing totals are
// never overwritten.
func (e *DiaryEntry) Merge(d *DiaryDelta, at time.Time) {
	if e.ByLabel == nil {
		e.ByLabel = make(map[string]LabelTotals)
	}

	if e.Day == "" {
		e.Day = d.Day
	}

	e.ActiveSec += d.ActiveSec
	e.BreakSec += d.BreakSec
	e.Pomodoros += d.Pomodoros

	lt := e.ByLabel[d.Label]
	lt.ActiveSec += d.ActiveSec
	lt.BreakSec += d.BreakSec
	lt.Pomodoros += d.Pomodoros
	e.ByLabel[d.Label] = lt

	e.Baseline = d.Baseline
	e.UpdatedAt = at
}

func seconds(d time.Duration) int64 {
	return int64(d / time.Second)
}
