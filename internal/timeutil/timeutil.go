// Package timeutil provides utility functions and types for working with
// time-related operations.
package timeutil

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
)

// DayKeyLayout is the layout of the local day keys used by the diary and
// session records.
const DayKeyLayout = time.DateOnly

type Period string

const (
	PeriodAllTime   Period = "all-time"
	PeriodToday     Period = "today"
	PeriodYesterday Period = "yesterday"
	Period7Days     Period = "7days"
	Period14Days    Period = "14days"
	Period30Days    Period = "30days"
	Period90Days    Period = "90days"
	Period180Days   Period = "180days"
	Period365Days   Period = "365days"
)

// Range maps a period to the day offset of its first day relative to today.
var Range = map[Period]int{
	PeriodAllTime:   0,
	PeriodToday:     0,
	PeriodYesterday: -1,
	Period7Days:     -6,
	Period14Days:    -13,
	Period30Days:    -29,
	Period90Days:    -89,
	Period180Days:   -179,
	Period365Days:   -364,
}

var PeriodCollection = []Period{
	PeriodAllTime,
	PeriodToday,
	PeriodYesterday,
	Period7Days,
	Period14Days,
	Period30Days,
	Period90Days,
	Period180Days,
	Period365Days,
}

// IsValid reports whether p is one of the known periods.
func (p Period) IsValid() bool {
	return slices.Contains(PeriodCollection, p)
}

// DayKey returns the local calendar day of t as YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.Format(DayKeyLayout)
}

// ParseDayKey parses a day key in the given location.
func ParseDayKey(key string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DayKeyLayout, key, loc)
}

// RoundToStart resets the given time to the start of the day.
func RoundToStart(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		0,
		0,
		0,
		0,
		t.Location(),
	)
}

// RoundToEnd resets the given time to the end of the day.
func RoundToEnd(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		23,
		59,
		59,
		0,
		t.Location(),
	)
}

// PeriodRange returns the start and end time of period relative to now.
// All-time ranges start at the zero time.
func PeriodRange(period Period, now time.Time) (start, end time.Time) {
	end = RoundToEnd(now)

	//nolint:exhaustive // other cases covered by default
	switch period {
	case PeriodAllTime:
		return time.Time{}, end
	case PeriodYesterday:
		start = RoundToStart(now.AddDate(0, 0, Range[period]))
		return start, RoundToEnd(start)
	default:
		return RoundToStart(now.AddDate(0, 0, Range[period])), end
	}
}

// DayKeys lists the day keys from start to end inclusive.
func DayKeys(start, end time.Time) []string {
	var keys []string

	for d := RoundToStart(start); !d.After(end); d = d.AddDate(0, 0, 1) {
		keys = append(keys, DayKey(d))
	}

	return keys
}

// FromStr parses an absolute or relative date such as "2024-03-01",
// "yesterday 9am" or "3 days ago" relative to now.
func FromStr(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)

	if s == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}

	cfg := &dateparser.Configuration{
		CurrentTime: now,
	}

	dt, err := dateparser.Parse(cfg, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %q: %w", s, err)
	}

	return dt.Time, nil
}

// FormatSeconds renders a number of seconds as e.g. 1h 25m or 42s.
func FormatSeconds(sec int64) string {
	d := time.Duration(sec) * time.Second

	h := int64(d / time.Hour)
	m := int64(d % time.Hour / time.Minute)
	s := int64(d % time.Minute / time.Second)

	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	case m > 0 && s > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// ToKey converts a time value to a database key for Bolt.
func ToKey(t time.Time) []byte {
	return []byte(t.Format(time.RFC3339Nano))
}
