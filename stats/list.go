package stats

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/ayoisaiah/cadence/engine"
	"github.com/ayoisaiah/cadence/internal/timeutil"
	"github.com/ayoisaiah/cadence/internal/ui"
)

func (s *Stats) timeFormat() string {
	if s.TwentyFourHour {
		return "Jan 02, 2006 15:04"
	}

	return "Jan 02, 2006 03:04 PM"
}

// sessionRows renders one table row per session record.
func (s *Stats) sessionRows(sessions []*engine.SessionRecord) [][]string {
	rows := make([][]string, len(sessions))

	for i, sess := range sessions {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			sess.StartedAt.Format(s.timeFormat()),
			sess.EndedAt.Format(s.timeFormat()),
			labelName(sess.Label),
			string(sess.RunMode),
			timeutil.FormatSeconds(sess.ActiveSec),
			timeutil.FormatSeconds(sess.BreakSec),
			strconv.Itoa(sess.WorkIntervalsCompleted),
		}
	}

	return rows
}

// ListSessions prints the session records of the reporting period.
func (s *Stats) ListSessions() error {
	sessions, err := s.DB.GetSessions(s.Opts.StartTime, s.Opts.EndTime, s.Opts.Labels)
	if err != nil {
		return err
	}

	if s.Opts.JSON {
		if sessions == nil {
			sessions = []*engine.SessionRecord{}
		}

		return writeJSON(s.Out, sessions)
	}

	if len(sessions) == 0 {
		pterm.Info.Println(noSessionsMsg)
		return nil
	}

	return ui.PrintTable(s.Out, []string{
		"#",
		"STARTED",
		"ENDED",
		"LABEL",
		"MODE",
		"FOCUSED",
		"BREAKS",
		"INTERVALS",
	}, s.sessionRows(sessions))
}

// diaryRows renders one row per day, followed by the label breakdown of days
// with more than one label.
func (s *Stats) diaryRows(entries []*engine.DiaryEntry) [][]string {
	var rows [][]string

	for _, entry := range entries {
		labels := make([]string, 0, len(entry.ByLabel))

		for label := range entry.ByLabel {
			if s.wanted(label) {
				labels = append(labels, label)
			}
		}

		if len(labels) == 0 {
			continue
		}

		sortLabels(labels)

		var day engine.LabelTotals

		names := make([]string, len(labels))

		for i, label := range labels {
			lt := entry.ByLabel[label]
			day.ActiveSec += lt.ActiveSec
			day.BreakSec += lt.BreakSec
			day.Pomodoros += lt.Pomodoros

			names[i] = fmt.Sprintf(
				"%s %s",
				labelName(label),
				timeutil.FormatSeconds(lt.ActiveSec),
			)
		}

		rows = append(rows, []string{
			entry.Day,
			timeutil.FormatSeconds(day.ActiveSec),
			timeutil.FormatSeconds(day.BreakSec),
			strconv.Itoa(day.Pomodoros),
			strings.Join(names, " · "),
		})
	}

	return rows
}

// Diary prints the diary of the reporting period, one row per day.
func (s *Stats) Diary() error {
	startDay, endDay := s.dayRange()

	entries, err := s.DB.GetDiary(startDay, endDay)
	if err != nil {
		return err
	}

	if s.Opts.JSON {
		return writeJSON(s.Out, s.Summarize(entries).Days)
	}

	rows := s.diaryRows(entries)
	if len(rows) == 0 {
		pterm.Info.Println(noDiaryMsg)
		return nil
	}

	return ui.PrintTable(s.Out, []string{
		"DAY",
		"FOCUSED",
		"BREAKS",
		"POMODOROS",
		"LABELS",
	}, rows)
}
