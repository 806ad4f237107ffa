package engine

// PhaseType identifies the kind of segment that is currently counting down.
type PhaseType string

const (
	Work       PhaseType = "work"
	ShortBreak PhaseType = "short_break"
	LongBreak  PhaseType = "long_break"
)

// IsBreak reports whether p is one of the break phases.
func (p PhaseType) IsBreak() bool {
	return p == ShortBreak || p == LongBreak
}

// Label returns a human readable name for the phase.
func (p PhaseType) Label() string {
	switch p {
	case Work:
		return "Work session"
	case ShortBreak:
		return "Short break"
	case LongBreak:
		return "Long break"
	}

	return string(p)
}

// RunMode selects the stop condition of a run.
type RunMode string

const (
	// Workday stops once the cumulative work and break time reaches the
	// configured workday duration.
	Workday RunMode = "workday"
	// Cycles stops once the target number of work intervals has elapsed.
	Cycles RunMode = "cycles"
)

// BreakPolicy decides which break follows a work interval.
type BreakPolicy string

const (
	Standard  BreakPolicy = "standard"
	ShortOnly BreakPolicy = "short_only"
	LongOnly  BreakPolicy = "long_only"
)

// Status is the lifecycle state of a run.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusPaused  Status = "paused"
)
