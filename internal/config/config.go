// Package config loads the cadence configuration from the config file, the
// first-run prompt and command-line flags
package config

import (
	"fmt"
	"time"

	"github.com/ayoisaiah/cadence/engine"
)

type (
	// Config holds all configuration settings.
	Config struct {
		Work          SessionConfig      `mapstructure:"work"`
		ShortBreak    SessionConfig      `mapstructure:"short_break"`
		LongBreak     SessionConfig      `mapstructure:"long_break"`
		Notifications NotificationConfig `mapstructure:"notifications"`
		Settings      SettingsConfig     `mapstructure:"settings"`
		Display       DisplayConfig      `mapstructure:"display"`
	}

	// SessionConfig holds the settings of one phase type.
	SessionConfig struct {
		Message  string        `mapstructure:"message"`
		Duration time.Duration `mapstructure:"duration"`
	}

	// SettingsConfig holds run-wide settings.
	SettingsConfig struct {
		RunMode          string        `mapstructure:"run_mode"`
		BreakPolicy      string        `mapstructure:"break_policy"`
		Label            string        `mapstructure:"label"`
		Cmd              string        `mapstructure:"cmd"`
		LogLevel         string        `mapstructure:"log_level"`
		Workday          time.Duration `mapstructure:"workday"`
		PollInterval     time.Duration `mapstructure:"poll_interval"`
		AutosaveInterval time.Duration `mapstructure:"autosave_interval"`
		LongBreakEvery   int           `mapstructure:"long_break_every"`
		TargetCycles     int           `mapstructure:"target_cycles"`
		TwentyFourHour   bool          `mapstructure:"24hr_clock"`
	}

	// NotificationConfig holds notification settings.
	NotificationConfig struct {
		Enabled bool `mapstructure:"enabled"`
	}

	// DisplayConfig holds display-related settings.
	DisplayConfig struct {
		DarkTheme bool `mapstructure:"dark_theme"`
	}

	// Option is a function that modifies Config.
	Option func(*Config) error
)

const Version = "v0.3.0"

// New creates a Config, applies opts in order and validates the result.
func New(opts ...Option) (*Config, error) {
	cfg := &Config{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, errConfigOption.Wrap(err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errConfigValidation.Wrap(err)
	}

	return cfg, nil
}

// Schedule returns the schedule a run is started with.
func (c *Config) Schedule() (engine.ScheduleConfig, error) {
	sc := engine.ScheduleConfig{
		WorkDuration:       c.Work.Duration,
		ShortBreakDuration: c.ShortBreak.Duration,
		LongBreakDuration:  c.LongBreak.Duration,
		WorkdayDuration:    c.Settings.Workday,
		RunMode:            engine.RunMode(c.Settings.RunMode),
		BreakPolicy:        engine.BreakPolicy(c.Settings.BreakPolicy),
		LongBreakEvery:     c.Settings.LongBreakEvery,
		TargetCycles:       c.Settings.TargetCycles,
	}

	if err := sc.Validate(); err != nil {
		return engine.ScheduleConfig{}, fmt.Errorf("invalid schedule: %w", err)
	}

	return sc, nil
}

// Message returns the notification message of phase p.
func (c *Config) Message(p engine.PhaseType) string {
	switch p {
	case engine.Work:
		return c.Work.Message
	case engine.ShortBreak:
		return c.ShortBreak.Message
	case engine.LongBreak:
		return c.LongBreak.Message
	}

	return ""
}
