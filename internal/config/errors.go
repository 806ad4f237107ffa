package config

import "github.com/ayoisaiah/cadence/internal/apperr"

var (
	errConfigOption = &apperr.Error{
		Message: "config option error",
	}

	errConfigValidation = &apperr.Error{
		Message: "config validation error",
	}

	errReadConfig = &apperr.Error{
		Message: "reading config file failed",
	}

	errWriteConfig = &apperr.Error{
		Message: "writing default config failed",
	}

	errInvalidCLIDuration = &apperr.Error{
		Message: "invalid %s duration",
	}

	errShortBreakTooLong = &apperr.Error{
		Message: "short break duration (%v) must be less than work duration (%v)",
	}

	errLongBreakTooShort = &apperr.Error{
		Message: "long break duration (%v) must be greater than short break duration (%v)",
	}

	errEmptyMsg = &apperr.Error{
		Message: "%s message cannot be empty",
	}

	errInvalidDuration = &apperr.Error{
		Message: "%s duration must be between %v and %v",
	}

	errInvalidLongBreakEvery = &apperr.Error{
		Message: "long breaks must come every %d to %d work sessions",
	}

	errInvalidTargetCycles = &apperr.Error{
		Message: "the target number of cycles must be between 1 and %d",
	}

	errInvalidRunMode = &apperr.Error{
		Message: "run mode must be one of %s, got %q",
	}

	errInvalidBreakPolicy = &apperr.Error{
		Message: "break policy must be one of %s, got %q",
	}

	errInvalidPollInterval = &apperr.Error{
		Message: "poll interval must be between %v and %v",
	}

	errInvalidAutosaveInterval = &apperr.Error{
		Message: "autosave interval cannot be negative",
	}

	errInvalidLogLevel = &apperr.Error{
		Message: "log level must be one of %s, got %q",
	}

	errInvalidDateRange = &apperr.Error{
		Message: "the start time must be earlier than the end time",
	}

	errInvalidPeriod = &apperr.Error{
		Message: "please provide a valid time period: %s",
	}

	errInvalidDate = &apperr.Error{
		Message: "please provide a valid %s date",
	}
)
