// Package notify reacts to engine events with desktop notifications and the
// user's session command
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"github.com/gen2brain/beeep"
	"github.com/kballard/go-shellquote"
	"golang.org/x/sync/errgroup"

	"github.com/ayoisaiah/cadence/engine"
)

const cmdTimeout = 30 * time.Second

// Messages maps a phase to the text shown when it begins.
type Messages map[engine.PhaseType]string

// Notifier turns phase changes into desktop notifications and runs the
// session command. Both happen off the engine's thread.
type Notifier struct {
	ctx    context.Context
	logger *slog.Logger
	alert  func(title, msg, icon string) error
	run    func(ctx context.Context, argv []string, env []string) error

	msgs    Messages
	icon    string
	argv    []string
	enabled bool

	g errgroup.Group
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithMessages sets the body of the notification of each phase.
func WithMessages(m Messages) Option {
	return func(n *Notifier) {
		n.msgs = m
	}
}

// WithAlerts toggles desktop notifications.
func WithAlerts(enabled bool) Option {
	return func(n *Notifier) {
		n.enabled = enabled
	}
}

// WithLogger sets the logger used to report failed notifications.
func WithLogger(l *slog.Logger) Option {
	return func(n *Notifier) {
		n.logger = l
	}
}

// New returns a Notifier. sessionCmd is split with shell quoting rules and
// run after every phase change; an empty command runs nothing.
func New(ctx context.Context, sessionCmd string, opts ...Option) (*Notifier, error) {
	argv, err := shellquote.Split(sessionCmd)
	if err != nil {
		return nil, errInvalidSessionCmd.Wrap(err)
	}

	n := &Notifier{
		ctx:     ctx,
		logger:  slog.Default(),
		alert:   desktopAlert,
		run:     runCmd,
		argv:    argv,
		enabled: true,
	}

	for _, opt := range opts {
		opt(n)
	}

	// the icon is optional, an empty path is fine
	n.icon, _ = xdg.SearchDataFile(filepath.Join("cadence", "icon.png"))

	return n, nil
}

// Listener returns the engine listener of n.
func (n *Notifier) Listener() engine.Listener {
	return n.handle
}

func (n *Notifier) handle(ev engine.Event) {
	switch ev.Type {
	case engine.EventPhaseChange:
		// the first work phase of a run is started by the user
		if ev.Previous == "" {
			return
		}

		n.notify(ev.Previous.Label()+" is finished", n.msgs[ev.Phase])
		n.exec(ev)
	case engine.EventFinished:
		n.notify(
			"Run complete",
			fmt.Sprintf("%d work sessions completed", ev.CompletedWorkIntervals),
		)
		n.exec(ev)
	case engine.EventPaused, engine.EventResumed, engine.EventReset:
	}
}

func (n *Notifier) notify(title, msg string) {
	if !n.enabled {
		return
	}

	n.g.Go(func() error {
		if err := n.alert(title, msg, n.icon); err != nil {
			n.logger.Warn(
				"unable to display notification",
				slog.Any("error", err),
			)
		}

		return nil
	})
}

func (n *Notifier) exec(ev engine.Event) {
	if len(n.argv) == 0 {
		return
	}

	env := []string{
		"CADENCE_EVENT=" + string(ev.Type),
		"CADENCE_PHASE=" + string(ev.Phase),
		"CADENCE_PREVIOUS_PHASE=" + string(ev.Previous),
		"CADENCE_COMPLETED=" + strconv.Itoa(ev.CompletedWorkIntervals),
	}

	n.g.Go(func() error {
		ctx, cancel := context.WithTimeout(n.ctx, cmdTimeout)
		defer cancel()

		err := n.run(ctx, n.argv, env)
		if err != nil {
			n.logger.Warn(
				"session command failed",
				slog.String("cmd", n.argv[0]),
				slog.Any("error", err),
			)

			return errSessionCmd.Wrap(err)
		}

		return nil
	})
}

// Wait blocks until every notification and command started so far is done.
// It returns the first session command error.
func (n *Notifier) Wait() error {
	return n.g.Wait()
}

func desktopAlert(title, msg, icon string) error {
	return beeep.Notify(title, msg, icon)
}

func runCmd(ctx context.Context, argv, env []string) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = append(os.Environ(), env...)

	return cmd.Run()
}
