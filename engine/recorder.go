package engine

import (
	"cmp"
	"log/slog"
	"slices"
)

// Store is the durable sink for everything the engine records. Calls are made
// synchronously from the engine's thread of control; a failed call is logged
// and retried the next time a write naturally occurs.
type Store interface {
	// AppendSession adds a record to the session log.
	AppendSession(rec *SessionRecord) error
	// MergeDiary adds a delta to the diary entry of delta.Day, creating the
	// entry if needed.
	MergeDiary(delta *DiaryDelta) error
	// SaveCheckpoint replaces the recovery checkpoint.
	SaveCheckpoint(cp *Checkpoint) error
	// ClearCheckpoint removes the recovery checkpoint.
	ClearCheckpoint() error
}

// Recorder appends session records and merges diary deltas. Writes that fail
// stay queued in memory, which remains the source of truth until a later
// write succeeds.
type Recorder struct {
	store    Store
	logger   *slog.Logger
	diary    map[diaryKey]*DiaryDelta
	sessions []*SessionRecord
	baseline Baseline
}

type diaryKey struct {
	day   string
	label string
}

func newRecorder(store Store, logger *slog.Logger) *Recorder {
	return &Recorder{
		store:  store,
		logger: logger,
		diary:  make(map[diaryKey]*DiaryDelta),
	}
}

// Snapshot merges the time accumulated since the previous snapshot into the
// diary of day under label. Snapshotting twice with no intervening time adds
// nothing.
func (r *Recorder) Snapshot(
	day, label string,
	acc Accumulators,
	pomodoros int,
) {
	current := Baseline{
		ActiveSec: acc.ActiveSec,
		BreakSec:  acc.BreakSec,
		Pomodoros: pomodoros,
	}

	delta := DiaryDelta{
		Day:       day,
		Label:     label,
		ActiveSec: max(current.ActiveSec-r.baseline.ActiveSec, 0),
		BreakSec:  max(current.BreakSec-r.baseline.BreakSec, 0),
		Pomodoros: max(current.Pomodoros-r.baseline.Pomodoros, 0),
		Baseline:  current,
	}

	r.baseline = current

	if !delta.IsZero() {
		key := diaryKey{day, label}

		pending, ok := r.diary[key]
		if !ok {
			pending = &DiaryDelta{Day: day, Label: label}
			r.diary[key] = pending
		}

		pending.ActiveSec += delta.ActiveSec
		pending.BreakSec += delta.BreakSec
		pending.Pomodoros += delta.Pomodoros
		pending.Baseline = delta.Baseline
	}

	r.flush()
}

// Record queues a finished session for the session log.
func (r *Recorder) Record(rec *SessionRecord) {
	r.sessions = append(r.sessions, rec)

	r.flush()
}

// ResetBaseline zeroes the snapshot baseline. It must follow every reset of
// the accumulators.
func (r *Recorder) ResetBaseline() {
	r.baseline = Baseline{}
}

// Baseline returns the accumulator state at the last snapshot.
func (r *Recorder) Baseline() Baseline {
	return r.baseline
}

// RestoreBaseline replaces the baseline, used when recovering a checkpoint.
func (r *Recorder) RestoreBaseline(b Baseline) {
	r.baseline = b
}

// Pending returns the number of session records and diary deltas that have
// not been written yet.
func (r *Recorder) Pending() (sessions, diary int) {
	return len(r.sessions), len(r.diary)
}

// flush writes queued records in order and stops at the first failure so
// that the session log stays in chronological order.
func (r *Recorder) flush() {
	for len(r.sessions) > 0 {
		if err := r.store.AppendSession(r.sessions[0]); err != nil {
			r.logger.Warn(
				"unable to append session record",
				slog.String("id", r.sessions[0].ID),
				slog.Any("error", err),
			)

			break
		}

		r.sessions = r.sessions[1:]
	}

	keys := make([]diaryKey, 0, len(r.diary))
	for k := range r.diary {
		keys = append(keys, k)
	}

	slices.SortFunc(keys, func(a, b diaryKey) int {
		return cmp.Or(cmp.Compare(a.day, b.day), cmp.Compare(a.label, b.label))
	})

	for _, k := range keys {
		if err := r.store.MergeDiary(r.diary[k]); err != nil {
			r.logger.Warn(
				"unable to update diary",
				slog.String("day", k.day),
				slog.String("label", k.label),
				slog.Any("error", err),
			)

			continue
		}

		delete(r.diary, k)
	}
}
