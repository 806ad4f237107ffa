// Package app wires the cadence command-line interface
package app

import (
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/cadence/internal/config"
)

// disableStyling disables all styling provided by pterm.
func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

// Get retrieves the cadence app instance.
func Get() *cli.App {
	return &cli.App{
		Name: "cadence",
		Usage: `
		Cadence is a Pomodoro timer for the command-line. It alternates work 
		sessions with short and long breaks, stops after a number of work 
		sessions or a full workday, and keeps a diary of the time spent.`,
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:   "edit-config",
				Usage:  "Edit the configuration file",
				Action: editConfigAction,
			},
			{
				Name:   "status",
				Usage:  "Print the status of the running timer",
				Action: statusAction,
			},
			{
				Name:   "sessions",
				Usage:  "List the runs recorded in a period. Defaults to today",
				Flags:  reportFlags,
				Action: sessionsAction,
			},
			{
				Name:   "diary",
				Usage:  "Show the time recorded on each day of a period",
				Flags:  reportFlags,
				Action: diaryAction,
			},
			{
				Name:   "stats",
				Usage:  "Summarise the time recorded in a period",
				Flags:  statsFlags,
				Action: statsAction,
			},
			{
				Name:   "reset",
				Usage:  "Record and close an interrupted run without resuming it",
				Action: resetAction,
			},
		},
		Flags: []cli.Flag{
			workFlag,
			shortBreakFlag,
			longBreakFlag,
			longBreakEveryFlag,
			workdayFlag,
			cyclesFlag,
			modeFlag,
			breakPolicyFlag,
			labelFlag,
			sessionCmdFlag,
			disableNotificationFlag,
			freshFlag,
			logLevelFlag,
			noColorFlag,
		},
		Action: defaultAction,
		Before: beforeAction,
		After:  afterAction,
	}
}
