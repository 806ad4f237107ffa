package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	keyWorkDuration         = "work.duration"
	keyWorkMessage          = "work.message"
	keyShortBreakDuration   = "short_break.duration"
	keyShortBreakMessage    = "short_break.message"
	keyLongBreakDuration    = "long_break.duration"
	keyLongBreakMessage     = "long_break.message"
	keyLongBreakEvery       = "settings.long_break_every"
	keyWorkday              = "settings.workday"
	keyRunMode              = "settings.run_mode"
	keyTargetCycles         = "settings.target_cycles"
	keyBreakPolicy          = "settings.break_policy"
	keyLabel                = "settings.label"
	keyPollInterval         = "settings.poll_interval"
	keyAutosaveInterval     = "settings.autosave_interval"
	keySessionCmd           = "settings.cmd"
	keyTwentyFourHour       = "settings.24hr_clock"
	keyLogLevel             = "settings.log_level"
	keyNotificationsEnabled = "notifications.enabled"
	keyDarkTheme            = "display.dark_theme"
)

// WithViperConfig returns an Option that loads configuration from the YAML
// file at configPath. The file is created with default values if it does not
// exist yet.
func WithViperConfig(configPath string) Option {
	return func(c *Config) error {
		v := viper.New()

		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		setupViper(v, c)

		err := v.ReadInConfig()
		if err == nil {
			return loadViperConfig(v, c)
		}

		if !errors.Is(err, os.ErrNotExist) {
			return errReadConfig.Wrap(err)
		}

		if err := v.WriteConfig(); err != nil {
			return errWriteConfig.Wrap(err)
		}

		return loadViperConfig(v, c)
	}
}

// setupViper configures Viper with defaults. Values already present in c
// (from the first-run prompt) take precedence over the defaults.
func setupViper(v *viper.Viper, c *Config) {
	v.SetDefault(keyWorkDuration, "25m")
	v.SetDefault(keyWorkMessage, "Focus on your task")
	v.SetDefault(keyShortBreakDuration, "5m")
	v.SetDefault(keyShortBreakMessage, "Take a breather")
	v.SetDefault(keyLongBreakDuration, "15m")
	v.SetDefault(keyLongBreakMessage, "Take a long break")
	v.SetDefault(keyLongBreakEvery, 4)
	v.SetDefault(keyWorkday, "8h")
	v.SetDefault(keyRunMode, "cycles")
	v.SetDefault(keyTargetCycles, 4)
	v.SetDefault(keyBreakPolicy, "standard")
	v.SetDefault(keyLabel, "")
	v.SetDefault(keyPollInterval, "1s")
	v.SetDefault(keyAutosaveInterval, "1m")
	v.SetDefault(keySessionCmd, "")
	v.SetDefault(keyTwentyFourHour, false)
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyNotificationsEnabled, true)
	v.SetDefault(keyDarkTheme, true)

	if c.Work.Duration != 0 {
		v.Set(keyWorkDuration, c.Work.Duration.String())
	}

	if c.ShortBreak.Duration != 0 {
		v.Set(keyShortBreakDuration, c.ShortBreak.Duration.String())
	}

	if c.LongBreak.Duration != 0 {
		v.Set(keyLongBreakDuration, c.LongBreak.Duration.String())
	}

	if c.Settings.LongBreakEvery != 0 {
		v.Set(keyLongBreakEvery, c.Settings.LongBreakEvery)
	}

	if c.Settings.RunMode != "" {
		v.Set(keyRunMode, c.Settings.RunMode)
	}
}

// loadViperConfig loads configuration from Viper into the Config struct.
func loadViperConfig(v *viper.Viper, c *Config) error {
	err := v.Unmarshal(c, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			durationHook,
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}

	return nil
}

// durationHook decodes durations written as duration strings ("25m") or as
// bare numbers of minutes (25).
func durationHook(from, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeFor[time.Duration]() {
		return data, nil
	}

	val := reflect.ValueOf(data)

	//nolint:exhaustive // other kinds are left to the default decoder
	switch from.Kind() {
	case reflect.String:
		return parseDuration(val.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return time.Duration(val.Int()) * time.Minute, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return time.Duration(val.Uint()) * time.Minute, nil
	case reflect.Float32, reflect.Float64:
		return time.Duration(val.Float() * float64(time.Minute)), nil
	}

	return data, nil
}

// parseDuration parses a duration string. A bare number is taken as
// minutes.
func parseDuration(s string) (time.Duration, error) {
	dur, err := time.ParseDuration(s)
	if err == nil {
		return dur, nil
	}

	mins, err := time.ParseDuration(s + "m")
	if err != nil {
		return 0, fmt.Errorf("invalid duration format: %s", s)
	}

	return mins, nil
}
