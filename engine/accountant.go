package engine

import "time"

// Accumulators hold the time attributed to each category since the start of
// a run, in whole seconds.
type Accumulators struct {
	ActiveSec       int64 `json:"active_sec"`
	BreakSec        int64 `json:"break_sec"`
	ShortBreakSec   int64 `json:"short_break_sec"`
	LongBreakSec    int64 `json:"long_break_sec"`
	ElapsedTotalSec int64 `json:"elapsed_total_sec"`
}

// IsEmpty reports whether no time has been attributed at all.
func (a Accumulators) IsEmpty() bool {
	return a.ActiveSec+a.BreakSec == 0
}

func (a *Accumulators) add(p PhaseType, sec int64) {
	switch p {
	case Work:
		a.ActiveSec += sec
	case ShortBreak:
		a.BreakSec += sec
		a.ShortBreakSec += sec
	case LongBreak:
		a.BreakSec += sec
		a.LongBreakSec += sec
	default:
		return
	}

	a.ElapsedTotalSec += sec
}

// Accountant turns real elapsed wall-clock time into accumulator increments.
// It measures the delta since the last accounted instant on every call, so
// calling it more or less often does not change the totals.
type Accountant struct {
	lastAccountedAt time.Time
	totals          Accumulators
	// limitSec caps ElapsedTotalSec. Zero means no cap.
	limitSec int64
}

// Begin anchors accounting at now.
func (a *Accountant) Begin(now time.Time) {
	a.lastAccountedAt = now
}

// Stop clears the anchor. Time that passes before the next Begin is never
// attributed.
func (a *Accountant) Stop() {
	a.lastAccountedAt = time.Time{}
}

// Anchor returns the instant up to which time has been accounted. It is the
// zero time while accounting is stopped.
func (a *Accountant) Anchor() time.Time {
	return a.lastAccountedAt
}

// Account attributes the whole seconds between the anchor and until to phase
// p and returns the number of seconds added. Sub-second remainders are carried
// to the next call.
func (a *Accountant) Account(p PhaseType, until time.Time) int64 {
	if a.lastAccountedAt.IsZero() {
		return 0
	}

	raw := until.Sub(a.lastAccountedAt)
	if raw < 0 {
		// the wall clock moved backwards
		a.lastAccountedAt = until
		return 0
	}

	deltaSec := int64(raw / time.Second)
	if deltaSec <= 0 {
		return 0
	}

	a.lastAccountedAt = a.lastAccountedAt.Add(time.Duration(deltaSec) * time.Second)

	return a.attribute(p, deltaSec)
}

// BulkAccount attributes the whole seconds between from and to to phase p in
// one step and anchors accounting at the end of the attributed span.
func (a *Accountant) BulkAccount(p PhaseType, from, to time.Time) int64 {
	deltaSec := max(int64(to.Sub(from)/time.Second), 0)

	a.lastAccountedAt = from.Add(time.Duration(deltaSec) * time.Second)

	return a.attribute(p, deltaSec)
}

func (a *Accountant) attribute(p PhaseType, deltaSec int64) int64 {
	if a.limitSec > 0 {
		deltaSec = min(deltaSec, a.limitSec-a.totals.ElapsedTotalSec)
	}

	if deltaSec <= 0 {
		return 0
	}

	a.totals.add(p, deltaSec)

	return deltaSec
}

// LimitReached reports whether a capped accountant has reached its cap.
func (a *Accountant) LimitReached() bool {
	return a.limitSec > 0 && a.totals.ElapsedTotalSec >= a.limitSec
}

// SetLimit caps the elapsed total at sec seconds. Zero removes the cap.
func (a *Accountant) SetLimit(sec int64) {
	a.limitSec = sec
}

// Totals returns a copy of the accumulators.
func (a *Accountant) Totals() Accumulators {
	return a.totals
}

// Restore replaces the accumulators, used when recovering a checkpoint.
func (a *Accountant) Restore(acc Accumulators) {
	a.totals = acc
}

// ResetTotals zeroes the accumulators but keeps the anchor.
func (a *Accountant) ResetTotals() {
	a.totals = Accumulators{}
}
