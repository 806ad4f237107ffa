package config

import (
	"slices"
	"strings"
	"time"

	"github.com/ayoisaiah/cadence/engine"
)

var (
	// Minimum and maximum duration constraints.
	minSessionDuration = 1 * time.Second
	maxSessionDuration = 720 * time.Minute // 12 hours
	maxWorkday         = 24 * time.Hour

	minLongBreakEvery = 2
	maxLongBreakEvery = 10
	maxTargetCycles   = 50

	// the phase clock must be polled at least once a second
	minPollInterval = 100 * time.Millisecond
	maxPollInterval = time.Second

	runModes = []string{string(engine.Workday), string(engine.Cycles)}

	breakPolicies = []string{
		string(engine.Standard),
		string(engine.ShortOnly),
		string(engine.LongOnly),
	}

	logLevels = []string{"debug", "info", "warn", "error"}
)

// Validate performs validation checks on the Config struct and its fields.
func (c *Config) Validate() error {
	if err := validateSessionConfig(c.Work, "work"); err != nil {
		return err
	}

	if err := validateSessionConfig(c.ShortBreak, "short break"); err != nil {
		return err
	}

	if err := validateSessionConfig(c.LongBreak, "long break"); err != nil {
		return err
	}

	if err := c.validateSessionRelationships(); err != nil {
		return err
	}

	return c.validateSettings()
}

// validateSessionConfig validates an individual SessionConfig.
func validateSessionConfig(sc SessionConfig, sessionType string) error {
	if sc.Duration < minSessionDuration || sc.Duration > maxSessionDuration {
		return errInvalidDuration.Fmt(
			sessionType,
			minSessionDuration,
			maxSessionDuration,
		)
	}

	if strings.TrimSpace(sc.Message) == "" {
		return errEmptyMsg.Fmt(sessionType)
	}

	return nil
}

// validateSessionRelationships validates logical relationships between sessions.
func (c *Config) validateSessionRelationships() error {
	if c.ShortBreak.Duration >= c.Work.Duration {
		return errShortBreakTooLong.Fmt(c.ShortBreak.Duration, c.Work.Duration)
	}

	if c.LongBreak.Duration < c.ShortBreak.Duration {
		return errLongBreakTooShort.Fmt(
			c.LongBreak.Duration,
			c.ShortBreak.Duration,
		)
	}

	return nil
}

// validateSettings validates the SettingsConfig.
func (c *Config) validateSettings() error {
	s := c.Settings

	if s.Workday < minSessionDuration || s.Workday > maxWorkday {
		return errInvalidDuration.Fmt("workday", minSessionDuration, maxWorkday)
	}

	if s.LongBreakEvery < minLongBreakEvery || s.LongBreakEvery > maxLongBreakEvery {
		return errInvalidLongBreakEvery.Fmt(minLongBreakEvery, maxLongBreakEvery)
	}

	if s.TargetCycles < 1 || s.TargetCycles > maxTargetCycles {
		return errInvalidTargetCycles.Fmt(maxTargetCycles)
	}

	if !slices.Contains(runModes, s.RunMode) {
		return errInvalidRunMode.Fmt(strings.Join(runModes, ", "), s.RunMode)
	}

	if !slices.Contains(breakPolicies, s.BreakPolicy) {
		return errInvalidBreakPolicy.Fmt(
			strings.Join(breakPolicies, ", "),
			s.BreakPolicy,
		)
	}

	if s.PollInterval < minPollInterval || s.PollInterval > maxPollInterval {
		return errInvalidPollInterval.Fmt(minPollInterval, maxPollInterval)
	}

	if s.AutosaveInterval < 0 {
		return errInvalidAutosaveInterval
	}

	if !slices.Contains(logLevels, s.LogLevel) {
		return errInvalidLogLevel.Fmt(strings.Join(logLevels, ", "), s.LogLevel)
	}

	return nil
}
