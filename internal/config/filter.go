package config

import (
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/cadence/internal/timeutil"
)

// FilterConfig selects the records shown by the reporting commands.
type FilterConfig struct {
	StartTime time.Time
	EndTime   time.Time
	Labels    []string
	JSON      bool
}

// FilterOptions are the raw reporting flags.
type FilterOptions struct {
	Period string
	Since  string
	Until  string
	Labels string
	JSON   bool
}

// NewFilterConfig builds a FilterConfig from command-line arguments.
func NewFilterConfig(ctx *cli.Context) (*FilterConfig, error) {
	opts := FilterOptions{
		Period: ctx.String("period"),
		Since:  ctx.String("since"),
		Until:  ctx.String("until"),
		Labels: ctx.String("label"),
		JSON:   ctx.Bool("json"),
	}

	return newFilterConfig(opts, time.Now())
}

func newFilterConfig(opts FilterOptions, now time.Time) (*FilterConfig, error) {
	f := &FilterConfig{
		JSON: opts.JSON,
	}

	if opts.Labels != "" {
		f.Labels = splitAndTrim(opts.Labels)
	}

	period := timeutil.Period(strings.TrimSpace(opts.Period))
	if period == "" {
		period = timeutil.PeriodToday

		if opts.Since != "" {
			period = timeutil.PeriodAllTime
		}
	}

	if !period.IsValid() {
		return nil, errInvalidPeriod.Fmt(periodList())
	}

	f.StartTime, f.EndTime = timeutil.PeriodRange(period, now)

	if opts.Since != "" {
		since, err := timeutil.FromStr(opts.Since, now)
		if err != nil {
			return nil, errInvalidDate.Fmt("start").Wrap(err)
		}

		f.StartTime = since
	}

	if opts.Until != "" {
		until, err := timeutil.FromStr(opts.Until, now)
		if err != nil {
			return nil, errInvalidDate.Fmt("end").Wrap(err)
		}

		f.EndTime = until
	}

	if f.StartTime.After(f.EndTime) {
		return nil, errInvalidDateRange
	}

	return f, nil
}

func periodList() string {
	names := make([]string, len(timeutil.PeriodCollection))

	for i, p := range timeutil.PeriodCollection {
		names[i] = string(p)
	}

	return strings.Join(names, ", ")
}

// splitAndTrim splits a comma-separated list and trims whitespace.
func splitAndTrim(s string) []string {
	var out []string

	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}

	return out
}
