package app

import (
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/cadence/stats"
)

var (
	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	}

	logLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Usage: "Override the log level from the config file (debug, info, warn, error)",
	}

	disableNotificationFlag = &cli.BoolFlag{
		Name:    "disable-notification",
		Aliases: []string{"d"},
		Usage:   "Disable the system notification that appears after each phase",
	}

	sessionCmdFlag = &cli.StringFlag{
		Name:    "session-cmd",
		Aliases: []string{"cmd"},
		Usage:   "Execute an arbitrary command after each phase",
	}

	labelFlag = &cli.StringFlag{
		Name:    "label",
		Aliases: []string{"t"},
		Usage:   "Record the run under an activity label",
	}

	shortBreakFlag = &cli.StringFlag{
		Name:    "short-break",
		Aliases: []string{"s"},
		Usage:   "Short break duration, in minutes or as a duration like 5m30s (default: 5)",
	}

	longBreakFlag = &cli.StringFlag{
		Name:    "long-break",
		Aliases: []string{"l"},
		Usage:   "Long break duration (default: 15)",
	}

	longBreakEveryFlag = &cli.UintFlag{
		Name:    "long-break-every",
		Aliases: []string{"every"},
		Usage:   "The number of work sessions before a long break (default: 4)",
	}

	workFlag = &cli.StringFlag{
		Name:    "work",
		Aliases: []string{"w"},
		Usage:   "Work duration (default: 25)",
	}

	workdayFlag = &cli.StringFlag{
		Name:  "workday",
		Usage: "Stop once work and breaks add up to this duration, e.g. 7h30m. Implies --mode workday",
	}

	cyclesFlag = &cli.UintFlag{
		Name:    "cycles",
		Aliases: []string{"c"},
		Usage:   "Stop after this many work sessions. Implies --mode cycles",
	}

	modeFlag = &cli.StringFlag{
		Name:    "mode",
		Aliases: []string{"m"},
		Usage:   "When the run stops: 'cycles' or 'workday'",
	}

	breakPolicyFlag = &cli.StringFlag{
		Name:  "break-policy",
		Usage: "Which breaks to take: 'standard', 'short-only' or 'long-only'",
	}

	freshFlag = &cli.BoolFlag{
		Name:  "fresh",
		Usage: "Record and close an interrupted run instead of resuming it, then start a new one",
	}

	periodFlag = &cli.StringFlag{
		Name:    "period",
		Aliases: []string{"p"},
		Usage:   "Reporting period: all-time, today, yesterday, 7days, 14days, 30days, 90days, 180days, 365days",
	}

	sinceFlag = &cli.StringFlag{
		Name:  "since",
		Usage: "Report from this date, e.g. '2024-03-01' or '3 days ago'",
	}

	untilFlag = &cli.StringFlag{
		Name:  "until",
		Usage: "Report up to this date",
	}

	filterLabelFlag = &cli.StringFlag{
		Name:    "label",
		Aliases: []string{"t"},
		Usage:   "Only report the given comma-separated labels",
	}

	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Print the report as JSON",
	}

	serveFlag = &cli.BoolFlag{
		Name:  "serve",
		Usage: "Open the statistics dashboard in the browser",
	}

	statsPortFlag = &cli.UintFlag{
		Name:  "port",
		Usage: "Specify the port for the statistics server",
		Value: stats.DefaultPort,
	}
)

// reportFlags are shared by the reporting commands.
var reportFlags = []cli.Flag{
	periodFlag,
	sinceFlag,
	untilFlag,
	filterLabelFlag,
	jsonFlag,
}

// statsFlags are the report flags plus the dashboard server options.
var statsFlags = append([]cli.Flag{serveFlag, statsPortFlag}, reportFlags...)
