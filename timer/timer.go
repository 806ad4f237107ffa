// Package timer hosts the engine in a terminal user interface. It polls the
// engine on a fixed interval and forwards key presses to it.
package timer

import (
	"errors"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ayoisaiah/cadence/engine"
	"github.com/ayoisaiah/cadence/internal/config"
)

type tickMsg time.Time

// Timer is the bubbletea model that drives an engine run.
type Timer struct {
	engine *engine.Engine
	cfg    *config.Config
	logger *slog.Logger

	help     help.Model
	progress progress.Model
	style    styles

	statusPath string
	interval   time.Duration

	// outcome is the event that ended the run, if it has ended.
	outcome *engine.Event
	quit    bool
}

// Option configures a Timer.
type Option func(*Timer)

// WithStatusFile makes the timer mirror its state to path for the status
// command.
func WithStatusFile(path string) Option {
	return func(t *Timer) {
		t.statusPath = path
	}
}

// WithLogger sets the logger of the timer.
func WithLogger(l *slog.Logger) Option {
	return func(t *Timer) {
		t.logger = l
	}
}

// New returns a Timer for e, which must already be running or paused.
func New(e *engine.Engine, cfg *config.Config, opts ...Option) *Timer {
	t := &Timer{
		engine:   e,
		cfg:      cfg,
		logger:   slog.Default(),
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient()),
		style:    newStyles(cfg.Display.DarkTheme),
		interval: cfg.Settings.PollInterval,
	}

	for _, opt := range opts {
		opt(t)
	}

	if t.interval <= 0 {
		t.interval = time.Second
	}

	e.Subscribe(t.onEvent)

	t.writeStatus()

	return t
}

// Outcome returns the event that ended the run, or nil if the run is still
// recoverable.
func (t *Timer) Outcome() *engine.Event {
	return t.outcome
}

func (t *Timer) onEvent(ev engine.Event) {
	switch ev.Type {
	case engine.EventFinished, engine.EventReset:
		t.outcome = &ev
		t.removeStatus()
	case engine.EventPhaseChange, engine.EventPaused, engine.EventResumed:
		t.writeStatus()
	}
}

func (t *Timer) tick() tea.Cmd {
	return tea.Tick(t.interval, func(now time.Time) tea.Msg {
		return tickMsg(now)
	})
}

func (t *Timer) Init() tea.Cmd {
	return tea.Batch(t.tick(), tea.SetWindowTitle("cadence"))
}

// done is returned once the engine no longer has a run.
func (t *Timer) done() (tea.Model, tea.Cmd) {
	t.quit = true
	return t, tea.Quit
}

func (t *Timer) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, defaultKeymap.togglePlay):
		if err := t.engine.Toggle(); err != nil {
			t.logger.Debug("toggle ignored", slog.Any("error", err))
		}

	case key.Matches(msg, defaultKeymap.skip):
		err := t.engine.SkipBreak()
		if err != nil && !errors.Is(err, engine.ErrNotOnBreak) {
			t.logger.Warn("unable to skip break", slog.Any("error", err))
		}

	case key.Matches(msg, defaultKeymap.reset):
		t.engine.Reset()
		return t.done()

	case key.Matches(msg, defaultKeymap.quit):
		// the run stays checkpointed so it can be recovered later
		t.engine.Flush()
		return t.done()
	}

	if t.engine.State().Status == engine.StatusIdle {
		return t.done()
	}

	return t, nil
}

func (t *Timer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		t.engine.Tick()

		if t.engine.State().Status == engine.StatusIdle {
			return t.done()
		}

		return t, t.tick()

	case tea.FocusMsg:
		t.engine.Sync()

		if t.engine.State().Status == engine.StatusIdle {
			return t.done()
		}

		return t, nil

	case tea.KeyMsg:
		return t.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		t.progress.Width = min(msg.Width-padding*2-4, maxWidth)

		return t, nil

	// FrameMsg is sent when the progress bar wants to animate itself
	case progress.FrameMsg:
		progressModel, cmd := t.progress.Update(msg)
		t.progress, _ = progressModel.(progress.Model)

		return t, cmd
	}

	return t, nil
}
