package config

import (
	"strings"

	"github.com/urfave/cli/v2"
)

// CLIOptions represents command-line configuration options.
type CLIOptions struct {
	Work           string
	ShortBreak     string
	LongBreak      string
	Workday        string
	RunMode        string
	BreakPolicy    string
	Label          string
	SessionCmd     string
	LongBreakEvery uint
	Cycles         uint
	DisableNotify  bool
}

// WithCLIConfig returns an Option that overrides file settings with the
// flags passed on the command line.
func WithCLIConfig(ctx *cli.Context) Option {
	return func(c *Config) error {
		opts := CLIOptions{
			Work:           ctx.String("work"),
			ShortBreak:     ctx.String("short-break"),
			LongBreak:      ctx.String("long-break"),
			Workday:        ctx.String("workday"),
			RunMode:        ctx.String("mode"),
			BreakPolicy:    ctx.String("break-policy"),
			Label:          ctx.String("label"),
			SessionCmd:     ctx.String("session-cmd"),
			LongBreakEvery: ctx.Uint("long-break-every"),
			Cycles:         ctx.Uint("cycles"),
			DisableNotify:  ctx.Bool("disable-notification"),
		}

		return applyCLIOptions(c, opts)
	}
}

// applyCLIOptions applies CLI options to the config.
func applyCLIOptions(c *Config, opts CLIOptions) error {
	if err := applyCLIDurations(c, opts); err != nil {
		return err
	}

	if opts.LongBreakEvery > 0 {
		c.Settings.LongBreakEvery = int(opts.LongBreakEvery)
	}

	// asking for a number of cycles implies cycles mode unless a mode is
	// given explicitly
	if opts.Cycles > 0 {
		c.Settings.TargetCycles = int(opts.Cycles)
		c.Settings.RunMode = "cycles"
	}

	if opts.RunMode != "" {
		c.Settings.RunMode = strings.ToLower(strings.TrimSpace(opts.RunMode))
	}

	if opts.BreakPolicy != "" {
		c.Settings.BreakPolicy = normalizePolicy(opts.BreakPolicy)
	}

	if opts.Label != "" {
		c.Settings.Label = strings.TrimSpace(opts.Label)
	}

	if opts.DisableNotify {
		c.Notifications.Enabled = false
	}

	if opts.SessionCmd != "" {
		c.Settings.Cmd = opts.SessionCmd
	}

	return nil
}

// applyCLIDurations handles parsing and applying duration settings from CLI.
func applyCLIDurations(c *Config, opts CLIOptions) error {
	durations := []struct {
		dst  *SessionConfig
		name string
		val  string
	}{
		{&c.Work, "work", opts.Work},
		{&c.ShortBreak, "short break", opts.ShortBreak},
		{&c.LongBreak, "long break", opts.LongBreak},
	}

	for _, d := range durations {
		if d.val == "" {
			continue
		}

		dur, err := parseDuration(d.val)
		if err != nil {
			return errInvalidCLIDuration.Fmt(d.name).Wrap(err)
		}

		d.dst.Duration = dur
	}

	if opts.Workday != "" {
		dur, err := parseDuration(opts.Workday)
		if err != nil {
			return errInvalidCLIDuration.Fmt("workday").Wrap(err)
		}

		c.Settings.Workday = dur
		c.Settings.RunMode = "workday"
	}

	return nil
}

// normalizePolicy accepts short-only as well as short_only.
func normalizePolicy(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	return strings.ReplaceAll(s, "-", "_")
}
