package engine

import (
	"log/slog"
	"time"
)

// Checkpoint is the persisted state of an unfinished run. It lets a new
// process pick a run up where the previous one left off.
type Checkpoint struct {
	// StartedAt is the instant up to which Accumulators have been accounted.
	// It is the start of the phase, or the moment it was last resumed.
	StartedAt    time.Time `json:"started_at"`
	PlannedEndAt time.Time `json:"planned_end_at"`
	RunStartedAt time.Time `json:"run_started_at"`
	SavedAt      time.Time `json:"saved_at"`
	Phase        PhaseType `json:"phase"`
	Day          string    `json:"day"`
	Label        string    `json:"label"`
	// Remaining is the frozen remainder of a paused phase.
	Remaining              time.Duration  `json:"remaining"`
	Config                 ScheduleConfig `json:"config"`
	Accumulators           Accumulators   `json:"accumulators"`
	Baseline               Baseline       `json:"baseline"`
	CompletedWorkIntervals int            `json:"completed_work_intervals"`
	Running                bool           `json:"running"`
}

// checkpoint persists the current run. Failures are logged and otherwise
// ignored; the next transition writes a fresh checkpoint.
func (e *Engine) checkpoint(now time.Time) {
	cp := &Checkpoint{
		Running:                e.status == StatusRunning,
		Phase:                  e.phase,
		StartedAt:              e.accountant.Anchor(),
		PlannedEndAt:           e.phaseClock.Deadline(),
		Remaining:              e.phaseClock.Remaining(now),
		CompletedWorkIntervals: e.completed,
		Config:                 e.cfg,
		Accumulators:           e.accountant.Totals(),
		Baseline:               e.recorder.Baseline(),
		Day:                    e.day,
		Label:                  e.label,
		RunStartedAt:           e.runStartedAt,
		SavedAt:                now,
	}

	if err := e.store.SaveCheckpoint(cp); err != nil {
		e.logger.Warn("unable to save checkpoint", slog.Any("error", err))
	}
}

func (e *Engine) clearCheckpoint() {
	if err := e.store.ClearCheckpoint(); err != nil {
		e.logger.Warn("unable to clear checkpoint", slog.Any("error", err))
	}
}

// Recover resumes the run saved in cp. The checkpoint's own schedule is used
// for the rest of the run; current is only compared against it so that a
// changed configuration can be reported.
//
// A running phase whose deadline passed while no process was alive is
// accounted up to its deadline and then expires exactly once. A running phase
// that has not expired yet continues with its original deadline, and the time
// since the checkpoint is accounted in one step. A paused phase is restored
// paused.
func (e *Engine) Recover(cp *Checkpoint, current ScheduleConfig) error {
	if e.status != StatusIdle {
		return errAlreadyRunning
	}

	if cp == nil {
		return errInvalidCheckpoint
	}

	if err := cp.Config.Validate(); err != nil {
		return errInvalidCheckpoint.Wrap(err)
	}

	if cp.Config.Duration(cp.Phase) == 0 {
		return errInvalidCheckpoint.Wrap(errUnknownPhase.Fmt(cp.Phase))
	}

	if cp.Config != current {
		e.logger.Info(
			"configuration changed since the run was saved; keeping the saved schedule",
			slog.Any("saved", cp.Config),
			slog.Any("current", current),
		)
	}

	now := e.clock.Now()

	e.cfg = cp.Config
	e.label = cp.Label
	e.phase = cp.Phase
	e.completed = cp.CompletedWorkIntervals
	e.runStartedAt = cp.RunStartedAt
	e.day = cp.Day
	e.lastAutosave = now

	e.accountant = Accountant{}
	e.accountant.SetLimit(e.cfg.workdayLimitSec())
	e.accountant.Restore(cp.Accumulators)
	e.recorder.RestoreBaseline(cp.Baseline)

	nominal := e.cfg.Duration(e.phase)

	if !cp.Running {
		e.phaseClock.Freeze(nominal, cp.Remaining)
		e.status = StatusPaused

		e.emit(Event{
			Type:                   EventPaused,
			Phase:                  e.phase,
			CompletedWorkIntervals: e.completed,
			At:                     now,
		})

		return nil
	}

	e.status = StatusRunning

	if !now.Before(cp.PlannedEndAt) {
		e.catchUp(cp.StartedAt, cp.PlannedEndAt)
		e.phaseClock.Stop()
		e.expire(now)

		return nil
	}

	e.catchUp(cp.StartedAt, now)
	e.phaseClock.StartUntil(nominal, cp.PlannedEndAt, now)

	if e.accountant.LimitReached() {
		e.finish(now)
		return nil
	}

	e.checkpoint(now)

	e.emit(Event{
		Type:                   EventResumed,
		Phase:                  e.phase,
		Deadline:               cp.PlannedEndAt,
		CompletedWorkIntervals: e.completed,
		At:                     now,
	})

	return nil
}
