package timer

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ayoisaiah/cadence/engine"
)

const (
	padding  = 2
	maxWidth = 80
)

type styles struct {
	base      lipgloss.Style
	main      lipgloss.Style
	secondary lipgloss.Style
	hint      lipgloss.Style
	phase     map[engine.PhaseType]lipgloss.Style
}

func newStyles(dark bool) styles {
	text := lipgloss.Color("#1E1E2E")
	muted := lipgloss.Color("#6C7086")

	if dark {
		text = lipgloss.Color("#CDD6F4")
		muted = lipgloss.Color("#9399B2")
	}

	phase := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1E1E2E")).
			Background(lipgloss.Color(c)).
			Padding(0, 1).
			MarginRight(1)
	}

	return styles{
		base:      lipgloss.NewStyle().Padding(1, padding),
		main:      lipgloss.NewStyle().Bold(true).Foreground(text),
		secondary: lipgloss.NewStyle().Foreground(text),
		hint:      lipgloss.NewStyle().Foreground(muted),
		phase: map[engine.PhaseType]lipgloss.Style{
			engine.Work:       phase("#B0DB43"),
			engine.ShortBreak: phase("#12EAEA"),
			engine.LongBreak:  phase("#C492B1"),
		},
	}
}
