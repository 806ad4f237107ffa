package timer

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/cadence/engine"
	"github.com/ayoisaiah/cadence/internal/clock"
	"github.com/ayoisaiah/cadence/internal/config"
	"github.com/ayoisaiah/cadence/store"
)

var start = time.Date(2024, 3, 10, 12, 0, 0, 0, time.Local)

type harness struct {
	timer      *Timer
	engine     *engine.Engine
	db         *store.Client
	clock      *clock.Manual
	dbPath     string
	statusPath string
}

func testConfig() *config.Config {
	return &config.Config{
		Work:       config.SessionConfig{Message: "Focus on your task", Duration: 25 * time.Minute},
		ShortBreak: config.SessionConfig{Message: "Take a breather", Duration: 5 * time.Minute},
		LongBreak:  config.SessionConfig{Message: "Take a long break", Duration: 15 * time.Minute},
		Settings: config.SettingsConfig{
			RunMode:        "cycles",
			BreakPolicy:    "standard",
			Workday:        8 * time.Hour,
			PollInterval:   time.Second,
			LongBreakEvery: 4,
			TargetCycles:   2,
			TwentyFourHour: true,
		},
	}
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	dir := t.TempDir()

	h := &harness{
		clock:      clock.NewManual(start),
		dbPath:     filepath.Join(dir, "cadence.db"),
		statusPath: filepath.Join(dir, "status.json"),
	}

	db, err := store.NewClient(h.dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	h.db = db
	h.engine = engine.New(db, engine.WithClock(h.clock))

	cfg := testConfig()

	sc, err := cfg.Schedule()
	require.NoError(t, err)
	require.NoError(t, h.engine.Start(sc, "deep"))

	h.timer = New(h.engine, cfg, WithStatusFile(h.statusPath))

	return h
}

func (h *harness) tick(d time.Duration) tea.Cmd {
	h.clock.Advance(d)

	_, cmd := h.timer.Update(tickMsg(h.clock.Now()))

	return cmd
}

func (h *harness) press(t *testing.T, k tea.KeyMsg) tea.Cmd {
	t.Helper()

	_, cmd := h.timer.Update(k)

	return cmd
}

func (h *harness) status(t *testing.T) Status {
	t.Helper()

	b, err := os.ReadFile(h.statusPath)
	require.NoError(t, err)

	var s Status

	require.NoError(t, json.Unmarshal(b, &s))

	return s
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}

	_, ok := cmd().(tea.QuitMsg)

	return ok
}

func TestTimerRunsToCompletion(t *testing.T) {
	h := newHarness(t)

	s := h.status(t)
	assert.Equal(t, engine.Work, s.Phase)
	assert.WithinDuration(t, start.Add(25*time.Minute), s.Deadline, 0)

	view := h.timer.View()
	assert.Contains(t, view, "25:00")
	assert.Contains(t, view, "Work session")
	assert.Contains(t, view, "Focus on your task")

	cmd := h.tick(25 * time.Minute)
	assert.False(t, isQuit(cmd))
	assert.Equal(t, engine.ShortBreak, h.status(t).Phase)

	cmd = h.tick(5 * time.Minute)
	assert.False(t, isQuit(cmd))

	cmd = h.tick(25 * time.Minute)
	assert.True(t, isQuit(cmd))

	require.NotNil(t, h.timer.Outcome())
	assert.Equal(t, engine.EventFinished, h.timer.Outcome().Type)
	assert.Contains(t, h.timer.View(), "Run complete")

	_, err := os.Stat(h.statusPath)
	assert.ErrorIs(t, err, os.ErrNotExist)

	sessions, err := h.db.GetSessions(start, start.Add(time.Hour), nil)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.EqualValues(t, 3000, sessions[0].ActiveSec)
}

func TestTimerTogglePause(t *testing.T) {
	h := newHarness(t)

	h.tick(10 * time.Minute)
	h.press(t, runes("p"))

	s := h.status(t)
	assert.Equal(t, engine.StatusPaused, s.Status)
	assert.Equal(t, 15*time.Minute, s.Remaining)
	assert.Contains(t, h.timer.View(), "[Paused]")

	// time does not pass while paused
	h.tick(time.Hour)
	assert.Equal(t, 15*time.Minute, h.engine.State().Remaining)

	h.press(t, runes(" "))
	assert.Equal(t, engine.StatusRunning, h.status(t).Status)
}

func TestTimerSkipBreak(t *testing.T) {
	h := newHarness(t)

	// skipping is ignored during work
	h.press(t, runes("s"))
	assert.Equal(t, engine.Work, h.engine.State().Phase)

	h.tick(25 * time.Minute)
	require.Equal(t, engine.ShortBreak, h.engine.State().Phase)

	h.tick(time.Minute)
	h.press(t, runes("s"))

	assert.Equal(t, engine.Work, h.engine.State().Phase)
	assert.Equal(t, engine.Work, h.status(t).Phase)
}

func TestTimerQuitKeepsRunRecoverable(t *testing.T) {
	h := newHarness(t)

	h.tick(5 * time.Minute)

	cmd := h.press(t, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, isQuit(cmd))

	assert.Nil(t, h.timer.Outcome())
	assert.Contains(t, h.timer.View(), "Run saved")

	cp, err := h.db.Checkpoint()
	require.NoError(t, err)
	require.NotNil(t, cp)
	assert.EqualValues(t, 300, cp.Accumulators.ActiveSec)
}

func TestTimerReset(t *testing.T) {
	h := newHarness(t)

	h.tick(25 * time.Minute)

	cmd := h.press(t, runes("r"))
	assert.True(t, isQuit(cmd))

	require.NotNil(t, h.timer.Outcome())
	assert.Equal(t, engine.EventReset, h.timer.Outcome().Type)
	assert.Contains(t, h.timer.View(), "Run reset")

	cp, err := h.db.Checkpoint()
	require.NoError(t, err)
	assert.Nil(t, cp)
}

func TestTimerFocusSyncs(t *testing.T) {
	h := newHarness(t)

	h.clock.Advance(26 * time.Minute)

	_, cmd := h.timer.Update(tea.FocusMsg{})
	assert.Nil(t, cmd)

	assert.Equal(t, engine.ShortBreak, h.engine.State().Phase)
}

func TestStatusString(t *testing.T) {
	now := start

	table := []struct {
		name   string
		status Status
		want   string
	}{
		{
			name: "cycles work",
			status: Status{
				Phase:     engine.Work,
				Status:    engine.StatusRunning,
				RunMode:   engine.Cycles,
				Deadline:  now.Add(12*time.Minute + 34*time.Second),
				Completed: 1,
				Target:    4,
				Label:     "deep",
			},
			want: "[Work 2/4]: 12:34 · deep",
		},
		{
			name: "paused break",
			status: Status{
				Phase:     engine.LongBreak,
				Status:    engine.StatusPaused,
				RunMode:   engine.Workday,
				Remaining: 90 * time.Second,
			},
			want: "[Long break]: 01:30 (paused)",
		},
		{
			name: "workday work past deadline",
			status: Status{
				Phase:    engine.Work,
				Status:   engine.StatusRunning,
				RunMode:  engine.Workday,
				Deadline: now.Add(-time.Second),
			},
			want: "[Work]: 00:00",
		},
	}

	for _, tc := range table {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.status.String(now))
		})
	}
}

func TestReportStatus(t *testing.T) {
	h := newHarness(t)

	var out bytes.Buffer

	// the harness holds the database lock
	require.NoError(t, ReportStatus(&out, h.dbPath, h.statusPath, start))
	assert.Equal(t, "[Work 1/2]: 25:00 · deep\n", out.String())

	out.Reset()

	dir := t.TempDir()

	require.NoError(t, ReportStatus(
		&out,
		filepath.Join(dir, "missing.db"),
		filepath.Join(dir, "status.json"),
		start,
	))
	assert.Empty(t, out.String())
}

func TestFormatRemaining(t *testing.T) {
	assert.Equal(t, "00:00", formatRemaining(0))
	assert.Equal(t, "25:00", formatRemaining(1500))
	assert.Equal(t, "01:00:01", formatRemaining(3601))
}
