package stats

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/ayoisaiah/cadence/internal/config"
	"github.com/ayoisaiah/cadence/internal/osutil"
	"github.com/ayoisaiah/cadence/internal/timeutil"
)

const (
	// DefaultPort is the port of the statistics server.
	DefaultPort = 1111

	defaultDashboardDays = 7
	shutdownTimeout      = 5 * time.Second
)

// TemplateData is rendered by the dashboard page.
type TemplateData struct {
	Summary   *Summary
	Labels    string
	MaxActive int64
}

type errorHandler func(w http.ResponseWriter, r *http.Request) error

func (h errorHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	err := h(w, r)
	if err != nil {
		slog.ErrorContext(
			r.Context(),
			"stats request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)

		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

//go:embed web/*
var web embed.FS

var tpl = template.Must(
	template.New("index.html").Funcs(template.FuncMap{
		"duration": timeutil.FormatSeconds,
		"percent":  percent,
	}).ParseFS(web, "web/index.html"),
)

func percent(v, total int64) int64 {
	if total <= 0 {
		return 0
	}

	return v * 100 / total
}

// filterFromQuery reads the reporting period from the start_time, end_time
// and labels query parameters. A missing or malformed date falls back to the
// last seven days.
func filterFromQuery(query url.Values, now time.Time) *config.FilterConfig {
	startTime, err := timeutil.ParseDayKey(query.Get("start_time"), now.Location())
	if err != nil {
		startTime = now.AddDate(0, 0, -(defaultDashboardDays - 1))
	}

	endTime, err := timeutil.ParseDayKey(query.Get("end_time"), now.Location())
	if err != nil {
		endTime = now
	}

	var labels []string

	for _, l := range strings.Split(query.Get("labels"), ",") {
		if l = strings.TrimSpace(l); l != "" {
			labels = append(labels, l)
		}
	}

	return &config.FilterConfig{
		StartTime: timeutil.RoundToStart(startTime),
		EndTime:   timeutil.RoundToEnd(endTime),
		Labels:    labels,
	}
}

// forRequest returns a copy of s that reports the period selected by r.
func (s *Stats) forRequest(r *http.Request) *Stats {
	return &Stats{
		DB:             s.DB,
		Opts:           filterFromQuery(r.URL.Query(), time.Now()),
		TwentyFourHour: s.TwentyFourHour,
	}
}

// Index renders the dashboard.
func (s *Stats) Index(w http.ResponseWriter, r *http.Request) error {
	rs := s.forRequest(r)

	sum, err := rs.load()
	if err != nil {
		return err
	}

	var maxActive int64
	for _, d := range sum.Days {
		maxActive = max(maxActive, d.ActiveSec)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	return tpl.Execute(w, &TemplateData{
		Summary:   sum,
		Labels:    strings.Join(rs.Opts.Labels, ","),
		MaxActive: maxActive,
	})
}

// SummaryJSON serves the summary of the requested period as JSON.
func (s *Stats) SummaryJSON(w http.ResponseWriter, r *http.Request) error {
	sum, err := s.forRequest(r).load()
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")

	return writeJSON(w, sum)
}

// Handler routes the dashboard, its JSON API and the embedded assets.
func (s *Stats) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /web/", http.FileServer(http.FS(web)))
	mux.Handle("GET /api/summary", errorHandler(s.SummaryJSON))
	mux.Handle("GET /{$}", errorHandler(s.Index))

	return mux
}

func openbrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case osutil.Linux:
		cmd = exec.Command("xdg-open", url)
	case osutil.Windows:
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case osutil.Darwin:
		cmd = exec.Command("open", url)
	default:
		return errUnsupportedPlatform.Fmt(runtime.GOOS)
	}

	return cmd.Start()
}

// Serve runs the dashboard on localhost:port until ctx is cancelled. If open
// is set, the dashboard is opened in the default browser.
func (s *Stats) Serve(ctx context.Context, port uint, open bool) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf("localhost:%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: shutdownTimeout,
	}

	errs := make(chan error, 1)

	go func() {
		errs <- srv.ListenAndServe()
	}()

	addr := "http://" + srv.Addr

	pterm.Info.Printfln("serving statistics on %s (press ctrl+c to stop)", addr)

	if open {
		if err := openbrowser(addr); err != nil {
			slog.WarnContext(ctx, "unable to open browser", slog.Any("error", err))
		}
	}

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			shutdownTimeout,
		)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	}
}
