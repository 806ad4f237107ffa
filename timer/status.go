package timer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/ayoisaiah/cadence/engine"
	"github.com/ayoisaiah/cadence/internal/osutil"
)

// Status is the state of the running timer as mirrored to the status file.
type Status struct {
	Deadline  time.Time        `json:"deadline"`
	Phase     engine.PhaseType `json:"phase"`
	Status    engine.Status    `json:"status"`
	Label     string           `json:"label"`
	RunMode   engine.RunMode   `json:"run_mode"`
	Remaining time.Duration    `json:"remaining"`
	Completed int              `json:"completed"`
	Target    int              `json:"target"`
}

func newStatus(st engine.State) Status {
	return Status{
		Deadline:  st.Deadline,
		Phase:     st.Phase,
		Status:    st.Status,
		Label:     st.Label,
		RunMode:   st.Config.RunMode,
		Remaining: st.Remaining,
		Completed: st.Completed,
		Target:    st.Config.TargetCycles,
	}
}

// remaining returns the time left in the phase at now.
func (s *Status) remaining(now time.Time) time.Duration {
	if s.Status == engine.StatusPaused {
		return s.Remaining
	}

	return max(s.Deadline.Sub(now), 0)
}

// String renders the status line printed by the status command.
func (s *Status) String(now time.Time) string {
	var text string

	switch s.Phase {
	case engine.Work:
		if s.RunMode == engine.Cycles {
			text = fmt.Sprintf("[Work %d/%d]", s.Completed+1, s.Target)
		} else {
			text = "[Work]"
		}
	case engine.ShortBreak:
		text = "[Short break]"
	case engine.LongBreak:
		text = "[Long break]"
	}

	text = fmt.Sprintf(
		"%s: %s",
		text,
		formatRemaining(engine.DisplaySeconds(s.remaining(now))),
	)

	if s.Status == engine.StatusPaused {
		text += " (paused)"
	}

	if s.Label != "" {
		text += " · " + s.Label
	}

	return text
}

func (t *Timer) writeStatus() {
	if t.statusPath == "" {
		return
	}

	if err := writeStatusFile(t.statusPath, newStatus(t.engine.State())); err != nil {
		t.logger.Warn("unable to write status file", slog.Any("error", err))
	}
}

func (t *Timer) removeStatus() {
	if t.statusPath == "" {
		return
	}

	err := os.Remove(t.statusPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		t.logger.Warn("unable to remove status file", slog.Any("error", err))
	}
}

func writeStatusFile(path string, s Status) error {
	b, err := json.Marshal(s)
	if err != nil {
		return errWriteStatus.Wrap(err)
	}

	if err := os.WriteFile(path, b, osutil.FilePermission); err != nil {
		return errWriteStatus.Wrap(err)
	}

	return nil
}

// running reports whether another process holds the lock on the database.
func running(dbPath string) (bool, error) {
	if _, err := os.Stat(dbPath); errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}

	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{
		Timeout: 100 * time.Millisecond,
	})
	if err == nil {
		return false, db.Close()
	}

	if errors.Is(err, bolt.ErrDatabaseOpen) || errors.Is(err, bolt.ErrTimeout) {
		return true, nil
	}

	return false, err
}

// ReportStatus prints the status of the timer running in another process.
// Nothing is printed when no timer is running.
func ReportStatus(w io.Writer, dbPath, statusPath string, now time.Time) error {
	ok, err := running(dbPath)
	if err != nil || !ok {
		return err
	}

	b, err := os.ReadFile(statusPath)
	if err != nil {
		// a missing file is not an error
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return errReadStatus.Wrap(err)
	}

	var s Status

	if err := json.Unmarshal(b, &s); err != nil {
		return errReadStatus.Wrap(err)
	}

	_, err = fmt.Fprintln(w, s.String(now))

	return err
}
