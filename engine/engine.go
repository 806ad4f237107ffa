// Package engine schedules work and break phases, accounts the time spent in
// each of them and records finished runs. It is driven by a single thread of
// control: a host polls Tick (at least once a second) and forwards user
// actions, and every transition happens synchronously inside those calls.
package engine

import (
	"io"
	"log/slog"
	"time"

	"github.com/ayoisaiah/cadence/internal/clock"
	"github.com/ayoisaiah/cadence/internal/timeutil"
)

const defaultAutosaveInterval = time.Minute

// Engine is the state machine behind a run. It is not safe for concurrent
// use; the host must serialize calls.
type Engine struct {
	clock  clock.Clock
	store  Store
	logger *slog.Logger

	recorder   *Recorder
	listeners  []Listener
	phaseClock PhaseClock
	accountant Accountant

	runStartedAt time.Time
	lastAutosave time.Time

	cfg    ScheduleConfig
	label  string
	day    string
	phase  PhaseType
	status Status

	completed int

	autosaveInterval time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock.
func WithClock(c clock.Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithLogger sets the logger used to report swallowed persistence errors.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithAutosaveInterval sets how often a running engine snapshots the diary
// and refreshes its checkpoint. A non-positive value disables autosaving.
func WithAutosaveInterval(d time.Duration) Option {
	return func(e *Engine) {
		e.autosaveInterval = d
	}
}

// New returns an idle engine that records to store.
func New(store Store, opts ...Option) *Engine {
	e := &Engine{
		clock:            clock.Real{},
		store:            store,
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		status:           StatusIdle,
		autosaveInterval: defaultAutosaveInterval,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.recorder = newRecorder(e.store, e.logger)

	return e
}

// Start begins a new run with a work phase. The configuration is validated
// once here and never again for the rest of the run.
func (e *Engine) Start(cfg ScheduleConfig, label string) error {
	if e.status != StatusIdle {
		return errAlreadyRunning
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	now := e.clock.Now()

	e.cfg = cfg
	e.label = label
	e.completed = 0
	e.runStartedAt = now
	e.day = timeutil.DayKey(now)
	e.lastAutosave = now
	e.status = StatusRunning

	e.accountant = Accountant{}
	e.accountant.SetLimit(cfg.workdayLimitSec())
	e.recorder.ResetBaseline()

	e.logger.Info(
		"run started",
		slog.String("label", label),
		slog.String("mode", string(cfg.RunMode)),
	)

	e.startPhase(Work, now)

	return nil
}

// Tick is the poll entry point. It checks the phase clock, accounts the time
// elapsed since the previous call and then processes an expired phase, in that
// order, so that the last second of a phase is accounted before the next one
// begins. Calling Tick when the engine is not running does nothing.
func (e *Engine) Tick() {
	if e.status != StatusRunning {
		return
	}

	now := e.clock.Now()

	e.rewind(now)
	e.rollover(now)

	_, expired := e.phaseClock.Poll(now)

	e.account(now)

	if expired {
		e.expire(now)
		return
	}

	if e.accountant.LimitReached() {
		e.finish(now)
		return
	}

	e.autosave(now)
}

// Sync re-synchronizes the engine after the host regained the foreground. It
// takes the same path as a regular poll and is safe to call at any moment.
func (e *Engine) Sync() {
	e.Tick()
}

// Pause freezes the current phase. No time is attributed while paused.
func (e *Engine) Pause() error {
	e.Tick()

	if e.status != StatusRunning {
		return errNotRunning
	}

	now := e.clock.Now()

	e.phaseClock.Pause(now)
	e.accountant.Stop()
	e.status = StatusPaused

	e.snapshot()
	e.checkpoint(now)

	e.emit(Event{
		Type:                   EventPaused,
		Phase:                  e.phase,
		CompletedWorkIntervals: e.completed,
		At:                     now,
	})

	return nil
}

// Resume continues a paused phase from its frozen remainder.
func (e *Engine) Resume() error {
	if e.status != StatusPaused {
		return errNotPaused
	}

	now := e.clock.Now()

	e.phaseClock.Resume(now)
	e.accountant.Begin(now)
	e.status = StatusRunning
	e.lastAutosave = now

	e.checkpoint(now)

	e.emit(Event{
		Type:                   EventResumed,
		Phase:                  e.phase,
		Deadline:               e.phaseClock.Deadline(),
		CompletedWorkIntervals: e.completed,
		At:                     now,
	})

	return nil
}

// Toggle pauses a running engine and resumes a paused one.
func (e *Engine) Toggle() error {
	if e.status == StatusPaused {
		return e.Resume()
	}

	return e.Pause()
}

// SkipBreak ends the running break early and starts the next work phase.
func (e *Engine) SkipBreak() error {
	e.Tick()

	if e.status != StatusRunning || !e.phase.IsBreak() {
		return errNotOnBreak
	}

	now := e.clock.Now()

	e.phaseClock.Stop()
	e.expire(now)

	return nil
}

// Reset abandons the current run. Any recorded time is saved as a session
// first, which is returned (nil if the run was empty or there was no run).
func (e *Engine) Reset() *SessionRecord {
	e.Tick()

	if e.status == StatusIdle {
		return nil
	}

	now := e.clock.Now()

	rec := e.finalize(now)

	e.emit(Event{
		Type:                   EventReset,
		Phase:                  e.phase,
		CompletedWorkIntervals: e.completed,
		Session:                rec,
		At:                     now,
	})

	e.clear()

	return rec
}

// Flush snapshots the diary and refreshes the checkpoint, e.g. before the
// host exits. The run itself is left untouched so it can be recovered.
func (e *Engine) Flush() {
	if e.status == StatusIdle {
		return
	}

	e.Tick()

	if e.status == StatusIdle {
		return
	}

	e.snapshot()
	e.checkpoint(e.clock.Now())
}

// account attributes time up to now, or up to the phase deadline when now is
// past it.
func (e *Engine) account(now time.Time) {
	until := now

	if dl := e.phaseClock.Deadline(); !dl.IsZero() && dl.Before(now) {
		until = dl
	}

	e.accountant.Account(e.phase, until)
}

// expire handles the end of the current phase: it either finishes the run or
// starts the next phase immediately.
func (e *Engine) expire(now time.Time) {
	prev := e.phase

	if e.shouldStop(prev) {
		if prev == Work {
			e.completed++
		}

		e.finish(now)

		return
	}

	next := Work

	if prev == Work {
		e.completed++
		next = e.cfg.BreakAfter(e.completed)
	}

	e.startPhase(next, now)
}

// shouldStop evaluates the stop condition when prev has just expired.
func (e *Engine) shouldStop(prev PhaseType) bool {
	switch e.cfg.RunMode {
	case Workday:
		return e.accountant.LimitReached()
	case Cycles:
		return prev == Work && e.completed+1 >= e.cfg.TargetCycles
	}

	return false
}

func (e *Engine) startPhase(p PhaseType, now time.Time) {
	prev := e.phase

	e.phase = p
	e.phaseClock.Start(e.cfg.Duration(p), now)
	e.accountant.Begin(now)

	e.checkpoint(now)

	e.logger.Debug(
		"phase started",
		slog.String("phase", string(p)),
		slog.Int("completed", e.completed),
		slog.Time("deadline", e.phaseClock.Deadline()),
	)

	e.emit(Event{
		Type:                   EventPhaseChange,
		Phase:                  p,
		Previous:               prev,
		Deadline:               e.phaseClock.Deadline(),
		CompletedWorkIntervals: e.completed,
		At:                     now,
	})
}

// finish ends a run that reached its stop condition.
func (e *Engine) finish(now time.Time) {
	rec := e.finalize(now)

	e.logger.Info(
		"run finished",
		slog.Int("work_intervals", e.completed),
		slog.Int64("elapsed_sec", e.accountant.Totals().ElapsedTotalSec),
	)

	e.emit(Event{
		Type:                   EventFinished,
		Phase:                  e.phase,
		CompletedWorkIntervals: e.completed,
		Session:                rec,
		At:                     now,
	})

	e.clear()
}

// finalize merges the last diary delta and appends the session record.
func (e *Engine) finalize(now time.Time) *SessionRecord {
	e.phaseClock.Stop()
	e.accountant.Stop()

	e.snapshot()

	rec := newSessionRecord(
		e.cfg,
		e.label,
		e.accountant.Totals(),
		e.completed,
		e.runStartedAt,
		now,
	)
	if rec != nil {
		e.recorder.Record(rec)
	}

	e.clearCheckpoint()

	return rec
}

// clear returns the engine to idle with zeroed state.
func (e *Engine) clear() {
	e.status = StatusIdle
	e.phase = ""
	e.completed = 0
	e.runStartedAt = time.Time{}
	e.phaseClock = PhaseClock{}
	e.accountant = Accountant{}
	e.recorder.ResetBaseline()
}

// snapshot merges the accumulated time into today's diary.
func (e *Engine) snapshot() {
	e.recorder.Snapshot(e.day, e.label, e.accountant.Totals(), e.completed)
}

func (e *Engine) autosave(now time.Time) {
	if e.autosaveInterval <= 0 || now.Sub(e.lastAutosave) < e.autosaveInterval {
		return
	}

	e.lastAutosave = now

	e.snapshot()
	e.checkpoint(now)
}

// rewind handles a wall clock that moved backwards past the accounting
// anchor. The deadline moves back by the same amount so the phase keeps its
// remaining time instead of growing by the size of the jump.
func (e *Engine) rewind(now time.Time) {
	anchor := e.accountant.Anchor()
	if anchor.IsZero() || !now.Before(anchor) {
		return
	}

	jump := anchor.Sub(now)

	e.phaseClock.Shift(-jump)
	e.accountant.Begin(now)

	e.logger.Warn(
		"wall clock moved backwards",
		slog.Duration("jump", jump),
		slog.String("phase", string(e.phase)),
	)
}

// catchUp accounts the span between from and to to the current phase in one
// step, closing the diary of every day boundary it crosses.
func (e *Engine) catchUp(from, to time.Time) {
	for {
		midnight := timeutil.RoundToStart(from).AddDate(0, 0, 1)
		if !midnight.Before(to) {
			break
		}

		e.accountant.BulkAccount(e.phase, from, midnight)
		e.rollover(midnight)

		from = e.accountant.Anchor()
	}

	e.accountant.BulkAccount(e.phase, from, to)
}

// rollover closes the diary of the previous day at local midnight. The time
// up to midnight goes to the old day, after which the run-scoped accumulators
// start again from zero.
func (e *Engine) rollover(now time.Time) {
	today := timeutil.DayKey(now)

	if e.day == "" {
		e.day = today
		return
	}

	// day keys sort chronologically; a clock that moved back a day keeps
	// the later one
	if today <= e.day {
		return
	}

	midnight := timeutil.RoundToStart(now)
	if midnight.Before(e.accountant.Anchor()) {
		midnight = e.accountant.Anchor()
	}

	e.account(midnight)
	e.snapshot()

	e.logger.Info(
		"day rolled over",
		slog.String("from", e.day),
		slog.String("to", today),
	)

	e.day = today
	e.accountant.ResetTotals()
	// intervals completed before midnight were already credited to the old day
	e.recorder.RestoreBaseline(Baseline{Pomodoros: e.completed})

	e.checkpoint(now)
}

// State is a read-only view of the engine.
type State struct {
	RunStartedAt time.Time
	Deadline     time.Time
	Status       Status
	Phase        PhaseType
	Label        string
	Day          string
	Config       ScheduleConfig
	Accumulators Accumulators
	Remaining    time.Duration
	Completed    int
}

// State reports the current state without advancing the engine.
func (e *Engine) State() State {
	now := e.clock.Now()

	return State{
		Status:       e.status,
		Phase:        e.phase,
		Label:        e.label,
		Day:          e.day,
		Config:       e.cfg,
		Accumulators: e.accountant.Totals(),
		Remaining:    e.phaseClock.Remaining(now),
		Deadline:     e.phaseClock.Deadline(),
		Completed:    e.completed,
		RunStartedAt: e.runStartedAt,
	}
}
