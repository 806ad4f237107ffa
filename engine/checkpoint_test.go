package engine

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoverExpiredPhase(t *testing.T) {
	h := newHarness(t, noon)

	cfg := cyclesConfig(5, Standard)

	start := noon.Add(-time.Hour)

	cp := &Checkpoint{
		Running:                true,
		Phase:                  ShortBreak,
		StartedAt:              start,
		PlannedEndAt:           start.Add(300 * time.Second),
		RunStartedAt:           start.Add(-1500 * time.Second),
		CompletedWorkIntervals: 1,
		Config:                 cfg,
		Accumulators:           Accumulators{ActiveSec: 1500, ElapsedTotalSec: 1500},
		Day:                    "2024-03-10",
	}

	h.clock.Set(start.Add(400 * time.Second))

	require.NoError(t, h.engine.Recover(cp, cfg))

	st := h.engine.State()

	assert.Equal(t, StatusRunning, st.Status)
	assert.Equal(t, Work, st.Phase)
	assert.Equal(t, 1, st.Completed)
	assert.Equal(t, Accumulators{
		ActiveSec:       1500,
		BreakSec:        300,
		ShortBreakSec:   300,
		ElapsedTotalSec: 1800,
	}, st.Accumulators)
	assert.Equal(t, h.clock.Now().Add(1500*time.Second), st.Deadline)

	changes := h.eventsOf(EventPhaseChange)
	require.Len(t, changes, 1)
	assert.Equal(t, ShortBreak, changes[0].Previous)

	require.NotNil(t, h.store.checkpoint)
	assert.Equal(t, Work, h.store.checkpoint.Phase)
	assert.Equal(t, h.clock.Now(), h.store.checkpoint.StartedAt)
}

// Recovering a checkpoint whose deadline has passed must leave the engine in
// the same state as a process that stayed alive and polled late.
func TestRecoverMatchesLiveExpiry(t *testing.T) {
	cfg := cyclesConfig(5, Standard)

	live := newHarness(t, noon)

	require.NoError(t, live.engine.Start(cfg, "deep"))

	live.finishPhase()
	require.Equal(t, ShortBreak, live.engine.State().Phase)
	require.NotNil(t, live.store.checkpoint)

	cp := *live.store.checkpoint

	live.clock.Advance(400 * time.Second)
	live.engine.Tick()

	recovered := New(newMemStore(), WithClock(live.clock), WithAutosaveInterval(0))

	require.NoError(t, recovered.Recover(&cp, cfg))

	if diff := cmp.Diff(live.engine.State(), recovered.State()); diff != "" {
		t.Fatalf("recovered state differs (-live +recovered):\n%s", diff)
	}
}

func TestRecoverRunningPhase(t *testing.T) {
	cfg := workdayConfig(8 * time.Hour)

	live := newHarness(t, noon)

	require.NoError(t, live.engine.Start(cfg, ""))

	cp := *live.store.checkpoint

	live.clock.Advance(1000*time.Second + 500*time.Millisecond)

	h := newHarness(t, live.clock.Now())

	require.NoError(t, h.engine.Recover(&cp, cfg))

	st := h.engine.State()

	assert.Equal(t, StatusRunning, st.Status)
	assert.Equal(t, Work, st.Phase)
	assert.EqualValues(t, 1000, st.Accumulators.ActiveSec)
	assert.Equal(t, noon.Add(1500*time.Second), st.Deadline)
	assert.Equal(t, 499*time.Second+500*time.Millisecond, st.Remaining)

	resumed := h.eventsOf(EventResumed)
	require.Len(t, resumed, 1)

	// the sub-second remainder is carried into the next poll
	h.clock.Advance(500 * time.Millisecond)
	h.engine.Tick()

	assert.EqualValues(t, 1001, h.engine.State().Accumulators.ActiveSec)

	h.finishPhase()

	assert.EqualValues(t, 1500, h.engine.State().Accumulators.ActiveSec)
	assert.Equal(t, ShortBreak, h.engine.State().Phase)
}

func TestRecoverPausedPhase(t *testing.T) {
	cfg := cyclesConfig(3, Standard)

	live := newHarness(t, noon)

	require.NoError(t, live.engine.Start(cfg, ""))

	live.clock.Advance(100 * time.Second)
	require.NoError(t, live.engine.Pause())

	cp := *live.store.checkpoint

	h := newHarness(t, noon.Add(2*time.Hour))

	require.NoError(t, h.engine.Recover(&cp, cfg))

	st := h.engine.State()

	assert.Equal(t, StatusPaused, st.Status)
	assert.Equal(t, 1400*time.Second, st.Remaining)
	assert.EqualValues(t, 100, st.Accumulators.ActiveSec)

	require.NoError(t, h.engine.Resume())

	h.finishPhase()

	assert.EqualValues(t, 1500, h.engine.State().Accumulators.ActiveSec)
	assert.Equal(t, 1, h.engine.State().Completed)
}

func TestRecoverClampsToWorkday(t *testing.T) {
	cfg := workdayConfig(1000 * time.Second)

	live := newHarness(t, noon)

	require.NoError(t, live.engine.Start(cfg, ""))

	cp := *live.store.checkpoint

	h := newHarness(t, noon.Add(1200*time.Second))

	require.NoError(t, h.engine.Recover(&cp, cfg))

	assert.Equal(t, StatusIdle, h.engine.State().Status)
	require.Len(t, h.store.sessions, 1)
	assert.EqualValues(t, 1000, h.store.sessions[0].ActiveSec)
	assert.Len(t, h.eventsOf(EventFinished), 1)
}

func TestRecoverKeepsSavedConfig(t *testing.T) {
	saved := cyclesConfig(2, Standard)

	live := newHarness(t, noon)

	require.NoError(t, live.engine.Start(saved, ""))

	cp := *live.store.checkpoint

	current := saved
	current.WorkDuration = 50 * time.Minute

	h := newHarness(t, noon.Add(time.Minute))

	require.NoError(t, h.engine.Recover(&cp, current))

	st := h.engine.State()

	assert.Equal(t, saved, st.Config)
	assert.Equal(t, noon.Add(1500*time.Second), st.Deadline)
}

func TestRecoverRejectsBadCheckpoints(t *testing.T) {
	cfg := cyclesConfig(2, Standard)

	bad := cfg
	bad.TargetCycles = 0

	table := []struct {
		cp   *Checkpoint
		name string
	}{
		{name: "nil checkpoint"},
		{
			name: "invalid config",
			cp:   &Checkpoint{Running: true, Phase: Work, Config: bad},
		},
		{
			name: "unknown phase",
			cp:   &Checkpoint{Running: true, Phase: "nap", Config: cfg},
		},
	}

	for _, tc := range table {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, noon)

			err := h.engine.Recover(tc.cp, cfg)

			assert.ErrorIs(t, err, ErrInvalidCheckpoint)
			assert.Equal(t, StatusIdle, h.engine.State().Status)
		})
	}
}

func TestRecoverWhileRunning(t *testing.T) {
	h := newHarness(t, noon)

	require.NoError(t, h.engine.Start(cyclesConfig(2, Standard), ""))

	cp := *h.store.checkpoint

	assert.ErrorIs(t, h.engine.Recover(&cp, cp.Config), ErrAlreadyRunning)
}

func TestRecoverAcrossMidnight(t *testing.T) {
	start := time.Date(2024, 3, 10, 23, 50, 0, 0, time.Local)
	cfg := cyclesConfig(4, Standard)

	cp := &Checkpoint{
		Running:      true,
		Phase:        Work,
		StartedAt:    start,
		PlannedEndAt: start.Add(1500 * time.Second),
		RunStartedAt: start,
		Config:       cfg,
		Day:          "2024-03-10",
	}

	t.Run("phase still running", func(t *testing.T) {
		h := newHarness(t, time.Date(2024, 3, 11, 0, 5, 0, 0, time.Local))

		require.NoError(t, h.engine.Recover(cp, cfg))

		st := h.engine.State()
		assert.Equal(t, "2024-03-11", st.Day)
		assert.Equal(t, Work, st.Phase)
		assert.EqualValues(t, 300, st.Accumulators.ActiveSec)

		require.NotNil(t, h.store.diary["2024-03-10"])
		assert.EqualValues(t, 600, h.store.diary["2024-03-10"].ActiveSec)

		h.engine.Flush()

		require.NotNil(t, h.store.diary["2024-03-11"])
		assert.EqualValues(t, 300, h.store.diary["2024-03-11"].ActiveSec)
	})

	t.Run("phase expired after midnight", func(t *testing.T) {
		h := newHarness(t, time.Date(2024, 3, 11, 0, 20, 0, 0, time.Local))

		require.NoError(t, h.engine.Recover(cp, cfg))

		st := h.engine.State()
		assert.Equal(t, "2024-03-11", st.Day)
		assert.Equal(t, ShortBreak, st.Phase)
		assert.Equal(t, 1, st.Completed)
		assert.EqualValues(t, 900, st.Accumulators.ActiveSec)

		require.NotNil(t, h.store.diary["2024-03-10"])
		assert.EqualValues(t, 600, h.store.diary["2024-03-10"].ActiveSec)
		assert.Zero(t, h.store.diary["2024-03-10"].Pomodoros)
	})
}
