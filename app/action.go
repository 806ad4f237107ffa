package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/davecgh/go-spew/spew"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/cadence/engine"
	"github.com/ayoisaiah/cadence/internal/config"
	"github.com/ayoisaiah/cadence/internal/logger"
	"github.com/ayoisaiah/cadence/internal/pathutil"
	"github.com/ayoisaiah/cadence/internal/timeutil"
	"github.com/ayoisaiah/cadence/internal/ui"
	"github.com/ayoisaiah/cadence/notify"
	"github.com/ayoisaiah/cadence/stats"
	"github.com/ayoisaiah/cadence/store"
	"github.com/ayoisaiah/cadence/timer"
)

const (
	envNoColor        = "NO_COLOR"
	envCadenceNoColor = "CADENCE_NO_COLOR"
)

// logCloser releases the current log file.
var logCloser io.Closer

// firstNonEmptyString returns its first non-empty argument, or "" if all
// arguments are empty.
func firstNonEmptyString(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}

	return ""
}

// setupLogger makes a file logger at level the default logger.
func setupLogger(level string) {
	if logCloser != nil {
		_ = logCloser.Close()
	}

	var l *slog.Logger

	l, logCloser = logger.New(pathutil.LogFilePath(), level)

	slog.SetDefault(l)
}

// loadConfig reads the config file, asking for the basic settings first if
// there is none, and applies the command-line flags.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	configPath := pathutil.ConfigFilePath()

	cfg, err := config.New(
		config.WithPromptConfig(configPath),
		config.WithViperConfig(configPath),
		config.WithCLIConfig(ctx),
	)
	if err != nil {
		return nil, err
	}

	ui.DarkTheme = cfg.Display.DarkTheme

	if !ctx.IsSet("log-level") {
		setupLogger(cfg.Settings.LogLevel)
	}

	return cfg, nil
}

func messages(cfg *config.Config) notify.Messages {
	return notify.Messages{
		engine.Work:       cfg.Message(engine.Work),
		engine.ShortBreak: cfg.Message(engine.ShortBreak),
		engine.LongBreak:  cfg.Message(engine.LongBreak),
	}
}

// prepareRun recovers an interrupted run or starts a new one. It reports
// false if the recovered run ended while no process was alive, in which case
// there is nothing left to time.
func prepareRun(
	e *engine.Engine,
	db *store.Client,
	cfg *config.Config,
	fresh bool,
) (bool, error) {
	sc, err := cfg.Schedule()
	if err != nil {
		return false, err
	}

	cp, err := db.Checkpoint()
	if err != nil {
		slog.Warn("discarding unreadable checkpoint", slog.Any("error", err))

		if err := db.ClearCheckpoint(); err != nil {
			return false, err
		}
	}

	if cp != nil {
		slog.Debug("recovering run", slog.String("checkpoint", spew.Sdump(cp)))

		err = e.Recover(cp, sc)

		switch {
		case errors.Is(err, engine.ErrInvalidCheckpoint):
			slog.Warn("discarding invalid checkpoint", slog.Any("error", err))

			if err := db.ClearCheckpoint(); err != nil {
				return false, err
			}
		case err != nil:
			return false, err
		case fresh:
			printRecord("Interrupted run recorded", e.Reset())
		case e.State().Status == engine.StatusIdle:
			pterm.Info.Println("The interrupted run finished while cadence was closed")
			return false, nil
		default:
			return true, nil
		}
	}

	return true, e.Start(sc, cfg.Settings.Label)
}

// defaultAction starts a new run, or resumes an interrupted one.
func defaultAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	db, err := store.NewClient(pathutil.DBFilePath())
	if err != nil {
		return err
	}

	defer db.Close()

	n, err := notify.New(
		ctx.Context,
		cfg.Settings.Cmd,
		notify.WithMessages(messages(cfg)),
		notify.WithAlerts(cfg.Notifications.Enabled),
	)
	if err != nil {
		return err
	}

	e := engine.New(
		db,
		engine.WithLogger(slog.Default()),
		engine.WithAutosaveInterval(cfg.Settings.AutosaveInterval),
	)

	e.Subscribe(n.Listener())

	ok, err := prepareRun(e, db, cfg, ctx.Bool("fresh"))
	if err != nil || !ok {
		return err
	}

	t := timer.New(
		e,
		cfg,
		timer.WithStatusFile(pathutil.StatusFilePath()),
		timer.WithLogger(slog.Default()),
	)

	_, err = tea.NewProgram(t, tea.WithReportFocus()).Run()

	// the program may have been stopped by a signal
	e.Flush()

	if werr := n.Wait(); werr != nil {
		pterm.Warning.Println(werr)
	}

	return err
}

// resetAction records an interrupted run and removes its checkpoint.
func resetAction(_ *cli.Context) error {
	db, err := store.NewClient(pathutil.DBFilePath())
	if err != nil {
		return err
	}

	defer db.Close()

	cp, err := db.Checkpoint()
	if err != nil {
		return err
	}

	if cp == nil {
		pterm.Info.Println("There is no interrupted run")
		return nil
	}

	e := engine.New(db, engine.WithLogger(slog.Default()))

	if err := e.Recover(cp, cp.Config); err != nil {
		return err
	}

	printRecord("Interrupted run recorded", e.Reset())

	return nil
}

func printRecord(title string, rec *engine.SessionRecord) {
	if rec == nil {
		pterm.Info.Println("Nothing was recorded")
		return
	}

	pterm.Success.Printfln(
		"%s: %s focused, %s on break, %d work sessions",
		title,
		ui.Green(timeutil.FormatSeconds(rec.ActiveSec)),
		ui.Cyan(timeutil.FormatSeconds(rec.BreakSec)),
		rec.WorkIntervalsCompleted,
	)
}

// editConfigAction opens the config file in the user's default text editor.
func editConfigAction(_ *cli.Context) error {
	defaultEditor := "nano"

	if runtime.GOOS == "windows" {
		defaultEditor = "C:\\Windows\\system32\\notepad.exe"
	}

	editor := firstNonEmptyString(
		os.Getenv("VISUAL"),
		os.Getenv("EDITOR"),
		defaultEditor,
	)

	cmd := exec.Command(editor, pathutil.ConfigFilePath())

	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout

	return cmd.Run()
}

// statusAction prints the status of the timer running in another process.
func statusAction(_ *cli.Context) error {
	return timer.ReportStatus(
		os.Stdout,
		pathutil.DBFilePath(),
		pathutil.StatusFilePath(),
		time.Now(),
	)
}

// reportHelper opens the store and prepares a report for the period given
// on the command line.
func reportHelper(ctx *cli.Context) (*stats.Stats, io.Closer, error) {
	filter, err := config.NewFilterConfig(ctx)
	if err != nil {
		return nil, nil, err
	}

	db, err := store.NewClient(pathutil.DBFilePath())
	if err != nil {
		return nil, nil, err
	}

	return &stats.Stats{
		DB:   db,
		Out:  os.Stdout,
		Opts: filter,
	}, db, nil
}

// sessionsAction lists the runs recorded in a period.
func sessionsAction(ctx *cli.Context) error {
	s, db, err := reportHelper(ctx)
	if err != nil {
		return err
	}

	defer db.Close()

	return s.ListSessions()
}

// diaryAction prints the daily diary of a period.
func diaryAction(ctx *cli.Context) error {
	s, db, err := reportHelper(ctx)
	if err != nil {
		return err
	}

	defer db.Close()

	return s.Diary()
}

// statsAction summarises the diary of a period.
func statsAction(ctx *cli.Context) error {
	s, db, err := reportHelper(ctx)
	if err != nil {
		return err
	}

	defer db.Close()

	if ctx.Bool("serve") {
		sigCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt)
		defer stop()

		return s.Serve(sigCtx, ctx.Uint("port"), true)
	}

	return s.Show()
}

func beforeAction(ctx *cli.Context) error {
	// Override the default help template
	cli.AppHelpTemplate = helpText()

	pterm.Error.MessageStyle = pterm.NewStyle(pterm.FgRed)
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}

	// Disable colour output if NO_COLOR or CADENCE_NO_COLOR is set
	for _, env := range []string{envNoColor, envCadenceNoColor} {
		if _, exists := os.LookupEnv(env); exists {
			disableStyling()
		}
	}

	if ctx.Bool("no-color") {
		disableStyling()
	}

	if err := pathutil.Initialize(); err != nil {
		return fmt.Errorf("initializing paths: %w", err)
	}

	setupLogger(firstNonEmptyString(ctx.String("log-level"), "info"))

	slog.Info("starting cadence", slog.String("version", config.Version))

	return nil
}

func afterAction(ctx *cli.Context) error {
	slog.InfoContext(ctx.Context, "exiting cadence")

	if logCloser != nil {
		return logCloser.Close()
	}

	return nil
}
