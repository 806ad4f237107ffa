package timer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/ayoisaiah/cadence/engine"
	"github.com/ayoisaiah/cadence/internal/timeutil"
)

// formatRemaining renders the remaining time of the phase as MM:SS, or
// HH:MM:SS for phases of an hour or longer.
func formatRemaining(secs int) string {
	h, m, s := secs/3600, secs%3600/60, secs%60

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}

	return fmt.Sprintf("%02d:%02d", m, s)
}

func (t *Timer) timeFormat() string {
	if t.cfg.Settings.TwentyFourHour {
		return "15:04:05"
	}

	return "03:04:05 PM"
}

// progressText describes how far along the run is: the work interval for
// cycles runs and the elapsed part of the workday otherwise.
func progressText(st engine.State) string {
	if st.Config.RunMode == engine.Workday {
		return fmt.Sprintf(
			"%s of %s",
			timeutil.FormatSeconds(st.Accumulators.ElapsedTotalSec),
			timeutil.FormatSeconds(int64(st.Config.WorkdayDuration.Seconds())),
		)
	}

	current := st.Completed
	if st.Phase == engine.Work {
		current++
	}

	return fmt.Sprintf("%d/%d", current, st.Config.TargetCycles)
}

func (t *Timer) timerView(st engine.State) string {
	var s strings.Builder

	s.WriteString(t.style.phase[st.Phase].Render(st.Phase.Label()))

	if st.Status == engine.StatusPaused {
		s.WriteString(t.style.secondary.Render("[Paused]"))
	} else {
		s.WriteString(t.style.hint.Render("until " + st.Deadline.Format(t.timeFormat())))
	}

	s.WriteString(t.style.hint.Render(" (" + progressText(st) + ")"))

	if st.Label != "" {
		s.WriteString(t.style.hint.Render(" · " + st.Label))
	}

	if msg := t.cfg.Message(st.Phase); msg != "" {
		s.WriteString("\n\n" + t.style.secondary.Render(msg))
	}

	secs := engine.DisplaySeconds(st.Remaining)

	var percent float64
	if nominal := st.Config.Duration(st.Phase); nominal > 0 {
		percent = 1 - st.Remaining.Seconds()/nominal.Seconds()
	}

	s.WriteString("\n\n")
	s.WriteString(t.style.main.Render(formatRemaining(secs)))
	s.WriteString("\n\n")
	s.WriteString(t.progress.ViewAs(percent))
	s.WriteString("\n\n")
	s.WriteString(t.helpView(st))

	return s.String()
}

func (t *Timer) helpView(st engine.State) string {
	bindings := []key.Binding{defaultKeymap.togglePlay}

	if st.Phase.IsBreak() && st.Status == engine.StatusRunning {
		bindings = append(bindings, defaultKeymap.skip)
	}

	bindings = append(bindings, defaultKeymap.reset, defaultKeymap.quit)

	return t.help.ShortHelpView(bindings)
}

// summaryView is shown once the run has ended or the timer was quit.
func (t *Timer) summaryView() string {
	if t.outcome == nil {
		return t.style.hint.Render("Run saved. Start cadence again to pick up where you left off.") + "\n"
	}

	title := "Run complete"
	if t.outcome.Type == engine.EventReset {
		title = "Run reset"
	}

	rec := t.outcome.Session
	if rec == nil {
		return t.style.main.Render(title) + "\n" +
			t.style.hint.Render("Nothing was recorded.") + "\n"
	}

	return t.style.main.Render(title) + "\n" + t.style.secondary.Render(fmt.Sprintf(
		"Focused %s over %d work sessions, %s on break",
		timeutil.FormatSeconds(rec.ActiveSec),
		rec.WorkIntervalsCompleted,
		timeutil.FormatSeconds(rec.BreakSec),
	)) + "\n"
}

func (t *Timer) View() string {
	if t.quit {
		return t.style.base.Render(t.summaryView())
	}

	st := t.engine.State()
	if st.Status == engine.StatusIdle {
		return ""
	}

	return t.style.base.Render(t.timerView(st))
}
