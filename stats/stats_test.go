package stats

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/cadence/engine"
	"github.com/ayoisaiah/cadence/internal/config"
	"github.com/ayoisaiah/cadence/internal/testutil"
)

func TestMain(m *testing.M) {
	pterm.DisableStyling()

	os.Exit(m.Run())
}

type fakeReader struct {
	sessions []*engine.SessionRecord
	diary    []*engine.DiaryEntry

	startDay, endDay string
	labels           []string
}

func (f *fakeReader) GetSessions(
	_, _ time.Time,
	labels []string,
) ([]*engine.SessionRecord, error) {
	f.labels = labels
	return f.sessions, nil
}

func (f *fakeReader) GetDiary(startDay, endDay string) ([]*engine.DiaryEntry, error) {
	f.startDay, f.endDay = startDay, endDay
	return f.diary, nil
}

var diary = []*engine.DiaryEntry{
	{
		Day:       "2024-03-08",
		ActiveSec: 3000,
		BreakSec:  300,
		Pomodoros: 2,
		ByLabel: map[string]engine.LabelTotals{
			"task10": {ActiveSec: 1500, BreakSec: 300, Pomodoros: 1},
			"task2":  {ActiveSec: 1500, Pomodoros: 1},
		},
	},
	{
		Day:       "2024-03-10",
		ActiveSec: 1200,
		ByLabel: map[string]engine.LabelTotals{
			"": {ActiveSec: 1200},
		},
	},
}

func newTestStats(r Reader, labels ...string) (*Stats, *bytes.Buffer) {
	var out bytes.Buffer

	return &Stats{
		DB:  r,
		Out: &out,
		Opts: &config.FilterConfig{
			StartTime: time.Date(2024, 3, 8, 0, 0, 0, 0, time.Local),
			EndTime:   time.Date(2024, 3, 10, 23, 59, 59, 0, time.Local),
			Labels:    labels,
		},
	}, &out
}

func TestSummarize(t *testing.T) {
	s, _ := newTestStats(nil)

	got := s.Summarize(diary)

	want := &Summary{
		Start: "2024-03-08",
		End:   "2024-03-10",
		Labels: []LabelSummary{
			{Label: "task2", ActiveSec: 1500, Pomodoros: 1},
			{Label: "task10", ActiveSec: 1500, BreakSec: 300, Pomodoros: 1},
			{Label: "unlabelled", ActiveSec: 1200},
		},
		Days: []DaySummary{
			{Day: "2024-03-08", ActiveSec: 3000, BreakSec: 300, Pomodoros: 2},
			{Day: "2024-03-10", ActiveSec: 1200},
		},
		ActiveSec:    4200,
		BreakSec:     300,
		AvgActiveSec: 1400,
		Pomodoros:    2,
		DayCount:     3,
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Summarize() mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarizeFiltersLabels(t *testing.T) {
	s, _ := newTestStats(nil, "task2", "unlabelled")

	got := s.Summarize(diary)

	assert.EqualValues(t, 2700, got.ActiveSec)
	assert.Zero(t, got.BreakSec)
	require.Len(t, got.Labels, 2)
	assert.Equal(t, "task2", got.Labels[0].Label)
	assert.Equal(t, "unlabelled", got.Labels[1].Label)
}

func TestSummarizeAllTime(t *testing.T) {
	s, _ := newTestStats(nil)
	s.Opts.StartTime = time.Time{}

	got := s.Summarize(diary)

	assert.Equal(t, "2024-03-08", got.Start)
	assert.Equal(t, 3, got.DayCount)
}

func TestShowJSON(t *testing.T) {
	r := &fakeReader{diary: diary}

	s, out := newTestStats(r)
	s.Opts.JSON = true

	require.NoError(t, s.Show())

	assert.Equal(t, "2024-03-08", r.startDay)
	assert.Equal(t, "2024-03-10", r.endDay)

	var got Summary

	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.EqualValues(t, 4200, got.ActiveSec)
	assert.Len(t, got.Days, 2)
}

func TestShow(t *testing.T) {
	s, out := newTestStats(&fakeReader{diary: diary})

	require.NoError(t, s.Show())

	assert.Contains(t, out.String(), "Time focused: 1h 10m")
	assert.Contains(t, out.String(), "task10: 25m (1)")
	assert.Contains(t, out.String(), "Daily breakdown (minutes)")
}

func TestListSessions(t *testing.T) {
	start := time.Date(2024, 3, 10, 9, 0, 0, 0, time.Local)

	r := &fakeReader{
		sessions: []*engine.SessionRecord{
			{
				ID:                     "a",
				Label:                  "deep",
				RunMode:                engine.Cycles,
				StartedAt:              start,
				EndedAt:                start.Add(55 * time.Minute),
				ActiveSec:              3000,
				BreakSec:               300,
				WorkIntervalsCompleted: 2,
			},
		},
	}

	s, out := newTestStats(r, "deep")
	s.TwentyFourHour = true

	require.NoError(t, s.ListSessions())

	assert.Equal(t, []string{"deep"}, r.labels)
	assert.Contains(t, out.String(), "Mar 10, 2024 09:00")
	assert.Contains(t, out.String(), "Mar 10, 2024 09:55")
	assert.Contains(t, out.String(), "50m")

	out.Reset()
	s.Opts.JSON = true

	require.NoError(t, s.ListSessions())

	var got []*engine.SessionRecord

	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

type goldenCase struct {
	name   string
	output []byte
}

func (g goldenCase) Output() ([]byte, string) {
	return g.output, g.name
}

func TestListSessionsJSONGolden(t *testing.T) {
	start := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	r := &fakeReader{
		sessions: []*engine.SessionRecord{
			{
				ID:                     "a",
				Day:                    "2024-03-10",
				Label:                  "deep",
				RunMode:                engine.Cycles,
				StartedAt:              start,
				EndedAt:                start.Add(55 * time.Minute),
				ActiveSec:              3000,
				BreakSec:               300,
				ShortBreakSec:          300,
				WorkIntervalsCompleted: 2,
			},
		},
	}

	s, out := newTestStats(r)
	s.Opts.JSON = true

	require.NoError(t, s.ListSessions())

	testutil.CompareGoldenFile(t, goldenCase{
		name:   "sessions_json",
		output: out.Bytes(),
	})
}

func TestListSessionsEmptyJSON(t *testing.T) {
	s, out := newTestStats(&fakeReader{})
	s.Opts.JSON = true

	require.NoError(t, s.ListSessions())

	assert.Equal(t, "[]\n", out.String())
}

func TestDiaryRows(t *testing.T) {
	s, _ := newTestStats(nil)

	got := s.diaryRows(diary)

	want := [][]string{
		{"2024-03-08", "50m", "5m", "2", "task2 25m · task10 25m"},
		{"2024-03-10", "20m", "0s", "0", "unlabelled 20m"},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("diaryRows() mismatch (-want +got):\n%s", diff)
	}
}
