package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/ayoisaiah/cadence/internal/clock"
)

var errStoreDown = errors.New("store unavailable")

// memStore is an in-memory Store. Setting fail makes every write error.
type memStore struct {
	diary       map[string]*DiaryEntry
	checkpoint  *Checkpoint
	sessions    []*SessionRecord
	merges      int
	checkpoints int
	fail        bool
}

func newMemStore() *memStore {
	return &memStore{
		diary: make(map[string]*DiaryEntry),
	}
}

func (s *memStore) AppendSession(rec *SessionRecord) error {
	if s.fail {
		return errStoreDown
	}

	s.sessions = append(s.sessions, rec)

	return nil
}

func (s *memStore) MergeDiary(d *DiaryDelta) error {
	if s.fail {
		return errStoreDown
	}

	entry, ok := s.diary[d.Day]
	if !ok {
		entry = &DiaryEntry{}
		s.diary[d.Day] = entry
	}

	entry.Merge(d, time.Time{})
	s.merges++

	return nil
}

func (s *memStore) SaveCheckpoint(cp *Checkpoint) error {
	if s.fail {
		return errStoreDown
	}

	c := *cp
	s.checkpoint = &c
	s.checkpoints++

	return nil
}

func (s *memStore) ClearCheckpoint() error {
	if s.fail {
		return errStoreDown
	}

	s.checkpoint = nil

	return nil
}

// noon is a fixed local instant well away from midnight.
var noon = time.Date(2024, 3, 10, 12, 0, 0, 0, time.Local)

func cyclesConfig(target int, policy BreakPolicy) ScheduleConfig {
	return ScheduleConfig{
		WorkDuration:       1500 * time.Second,
		ShortBreakDuration: 300 * time.Second,
		LongBreakDuration:  900 * time.Second,
		WorkdayDuration:    8 * time.Hour,
		LongBreakEvery:     4,
		RunMode:            Cycles,
		TargetCycles:       target,
		BreakPolicy:        policy,
	}
}

func workdayConfig(workday time.Duration) ScheduleConfig {
	cfg := cyclesConfig(1, Standard)
	cfg.RunMode = Workday
	cfg.WorkdayDuration = workday

	return cfg
}

type harness struct {
	clock  *clock.Manual
	store  *memStore
	engine *Engine
	events []Event
}

func newHarness(t *testing.T, start time.Time) *harness {
	t.Helper()

	h := &harness{
		clock: clock.NewManual(start),
		store: newMemStore(),
	}

	h.engine = New(
		h.store,
		WithClock(h.clock),
		WithAutosaveInterval(0),
	)

	h.engine.Subscribe(func(ev Event) {
		h.events = append(h.events, ev)
	})

	return h
}

// finishPhase advances the clock to the current deadline and polls once.
func (h *harness) finishPhase() {
	h.clock.Advance(h.engine.State().Remaining)
	h.engine.Tick()
}

// runToEnd polls every step until the run is idle.
func (h *harness) runToEnd(t *testing.T, step time.Duration) {
	t.Helper()

	for range 100000 {
		if h.engine.State().Status == StatusIdle {
			return
		}

		h.clock.Advance(step)
		h.engine.Tick()
	}

	t.Fatal("run did not finish")
}

func (h *harness) eventsOf(typ EventType) []Event {
	var out []Event

	for _, ev := range h.events {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}

	return out
}

func (h *harness) phaseSequence() []PhaseType {
	var out []PhaseType

	for _, ev := range h.eventsOf(EventPhaseChange) {
		out = append(out, ev.Phase)
	}

	return out
}
