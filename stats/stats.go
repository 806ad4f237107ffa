// Package stats reports the recorded sessions and the daily diary
package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/maruel/natural"
	"github.com/pterm/pterm"

	"github.com/ayoisaiah/cadence/engine"
	"github.com/ayoisaiah/cadence/internal/config"
	"github.com/ayoisaiah/cadence/internal/timeutil"
	"github.com/ayoisaiah/cadence/internal/ui"
)

const (
	barChartChar  = "▇"
	noSessionsMsg = "No sessions found for the specified time range"
	noDiaryMsg    = "Nothing was recorded in the specified time range"
	unlabelled    = "unlabelled"
)

// Reader is the read side of the store.
type Reader interface {
	GetSessions(start, end time.Time, labels []string) ([]*engine.SessionRecord, error)
	GetDiary(startDay, endDay string) ([]*engine.DiaryEntry, error)
}

// Stats prints reports for the period selected by Opts.
type Stats struct {
	DB             Reader
	Out            io.Writer
	Opts           *config.FilterConfig
	TwentyFourHour bool
}

// LabelSummary is the time recorded under one label.
type LabelSummary struct {
	Label     string `json:"label"`
	ActiveSec int64  `json:"active_sec"`
	BreakSec  int64  `json:"break_sec"`
	Pomodoros int    `json:"pomodoros"`
}

// Summary aggregates the diary over a reporting period.
type Summary struct {
	Start        string         `json:"start"`
	End          string         `json:"end"`
	Labels       []LabelSummary `json:"labels"`
	Days         []DaySummary   `json:"days"`
	ActiveSec    int64          `json:"active_sec"`
	BreakSec     int64          `json:"break_sec"`
	AvgActiveSec int64          `json:"avg_active_sec"`
	Pomodoros    int            `json:"pomodoros"`
	DayCount     int            `json:"day_count"`
}

// DaySummary is the diary of one day within a Summary.
type DaySummary struct {
	Day       string `json:"day"`
	ActiveSec int64  `json:"active_sec"`
	BreakSec  int64  `json:"break_sec"`
	Pomodoros int    `json:"pomodoros"`
}

func labelName(l string) string {
	if l == "" {
		return unlabelled
	}

	return l
}

// wanted reports whether label passes the label filter.
func (s *Stats) wanted(label string) bool {
	return len(s.Opts.Labels) == 0 ||
		slices.Contains(s.Opts.Labels, label) ||
		slices.Contains(s.Opts.Labels, labelName(label))
}

// dayRange returns the day keys bounding the reporting period.
func (s *Stats) dayRange() (start, end string) {
	if !s.Opts.StartTime.IsZero() {
		start = timeutil.DayKey(s.Opts.StartTime)
	}

	return start, timeutil.DayKey(s.Opts.EndTime)
}

// Summarize aggregates the diary entries of the reporting period.
func (s *Stats) Summarize(entries []*engine.DiaryEntry) *Summary {
	sum := &Summary{}
	sum.Start, sum.End = s.dayRange()

	labels := make(map[string]*LabelSummary)

	for _, entry := range entries {
		day := DaySummary{Day: entry.Day}

		for label, lt := range entry.ByLabel {
			if !s.wanted(label) {
				continue
			}

			name := labelName(label)

			ls, ok := labels[name]
			if !ok {
				ls = &LabelSummary{Label: name}
				labels[name] = ls
			}

			ls.ActiveSec += lt.ActiveSec
			ls.BreakSec += lt.BreakSec
			ls.Pomodoros += lt.Pomodoros

			day.ActiveSec += lt.ActiveSec
			day.BreakSec += lt.BreakSec
			day.Pomodoros += lt.Pomodoros
		}

		if day.ActiveSec+day.BreakSec == 0 && day.Pomodoros == 0 {
			continue
		}

		sum.ActiveSec += day.ActiveSec
		sum.BreakSec += day.BreakSec
		sum.Pomodoros += day.Pomodoros
		sum.Days = append(sum.Days, day)
	}

	if sum.Start == "" && len(sum.Days) > 0 {
		sum.Start = sum.Days[0].Day
	}

	if sum.Start != "" {
		start, _ := timeutil.ParseDayKey(sum.Start, time.Local)
		end, _ := timeutil.ParseDayKey(sum.End, time.Local)
		sum.DayCount = len(timeutil.DayKeys(start, end))
	}

	if sum.DayCount > 0 {
		sum.AvgActiveSec = sum.ActiveSec / int64(sum.DayCount)
	}

	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}

	sortLabels(names)

	for _, name := range names {
		sum.Labels = append(sum.Labels, *labels[name])
	}

	return sum
}

// load reads the diary of the reporting period and summarizes it.
func (s *Stats) load() (*Summary, error) {
	startDay, endDay := s.dayRange()

	entries, err := s.DB.GetDiary(startDay, endDay)
	if err != nil {
		return nil, err
	}

	return s.Summarize(entries), nil
}

// Show prints the diary summary of the reporting period.
func (s *Stats) Show() error {
	sum, err := s.load()
	if err != nil {
		return err
	}

	if s.Opts.JSON {
		return writeJSON(s.Out, sum)
	}

	if len(sum.Days) == 0 {
		pterm.Info.Println(noDiaryMsg)
		return nil
	}

	header := pterm.DefaultHeader.
		WithBackgroundStyle(pterm.NewStyle(pterm.BgYellow)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Sprintfln("Reporting period: %s - %s", sum.Start, sum.End)

	output := fmt.Sprint(
		header,
		summaryText(sum),
		labelsText(sum.Labels),
		dailyChart(sum.Days),
	)

	_, err = fmt.Fprintln(s.Out, strings.TrimSpace(output))

	return err
}

func summaryText(sum *Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", ui.Cyan("Summary"))
	fmt.Fprintf(&b, "Time focused: %s\n", ui.Green(timeutil.FormatSeconds(sum.ActiveSec)))
	fmt.Fprintf(&b, "Time on break: %s\n", ui.Green(timeutil.FormatSeconds(sum.BreakSec)))
	fmt.Fprintln(&b, "Pomodoros:", ui.Green(sum.Pomodoros))
	fmt.Fprintf(&b, "Daily average: %s\n", ui.Green(timeutil.FormatSeconds(sum.AvgActiveSec)))

	return b.String()
}

func labelsText(labels []LabelSummary) string {
	if len(labels) == 0 {
		return ""
	}

	var b strings.Builder

	fmt.Fprintf(&b, "\n%s\n", ui.Cyan("Labels"))

	for _, l := range labels {
		fmt.Fprintf(
			&b,
			"%s: %s (%d)\n",
			l.Label,
			ui.Green(timeutil.FormatSeconds(l.ActiveSec)),
			l.Pomodoros,
		)
	}

	return b.String()
}

func dailyChart(days []DaySummary) string {
	if len(days) < 2 {
		return ""
	}

	bars := make(pterm.Bars, 0, len(days))

	for _, d := range days {
		bars = append(bars, pterm.Bar{
			Label: d.Day,
			Value: int(d.ActiveSec / 60),
		})
	}

	chart, err := pterm.DefaultBarChart.
		WithHorizontalBarCharacter(barChartChar).
		WithHorizontal().
		WithShowValue().
		WithBars(bars).
		Srender()
	if err != nil {
		return ""
	}

	return "\n" + ui.Cyan("Daily breakdown (minutes)") + chart
}

// sortLabels orders labels naturally, so "task2" sorts before "task10".
func sortLabels(labels []string) {
	slices.SortFunc(labels, func(a, b string) int {
		switch {
		case natural.Less(a, b):
			return -1
		case natural.Less(b, a):
			return 1
		}

		return 0
	})
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))

	return err
}
