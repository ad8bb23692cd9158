// internal/app/app.go
// Application orchestrator wiring config, engine, output and history

package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/surfscan/surfscan/internal/core"
	"github.com/surfscan/surfscan/internal/history"
	"github.com/surfscan/surfscan/internal/models"
	"github.com/surfscan/surfscan/internal/notify"
	"github.com/surfscan/surfscan/internal/output"
	"github.com/surfscan/surfscan/internal/scan"
	"github.com/surfscan/surfscan/pkg/logger"
)

// pollInterval drives the progress reporter between batch publishes.
const pollInterval = 200 * time.Millisecond

// App orchestrates a scan from config to rendered report.
type App struct {
	config    *core.Config
	engine    *scan.Engine
	formatter *output.MultiFormatter
	reporter  output.ProgressReporter
	notifier  notify.Notifier
	store     *history.Store
}

// New builds the application from config.
func New(cfg *core.Config) (*App, error) {
	notifier := notify.Notifier(notify.Noop{})
	if cfg.Notify.URL != "" {
		n, err := notify.NewNATS(cfg.Notify.URL, cfg.Notify.Subject)
		if err != nil {
			return nil, fmt.Errorf("connect notifier: %w", err)
		}
		notifier = n
	}

	var store *history.Store
	if cfg.History.Enabled {
		s, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("open history: %w", err)
		}
		store = s
	}

	formatters, reporter, err := buildFormatters(cfg.Output)
	if err != nil {
		return nil, err
	}

	// Keep the Executor interface nil when no tool is configured; a typed
	// nil would defeat the prober's nil checks.
	var external scan.Executor
	if tool := scan.NewToolExecutor(cfg.Scanner.ExternalTool, cfg.Scanner.ExternalTimeout); tool != nil {
		external = tool
	}

	engine := scan.New(scan.Config{
		BatchSize:  cfg.Scanner.BatchSize,
		TCPTimeout: cfg.Scanner.TCPTimeout,
		UDPTimeout: cfg.Scanner.UDPTimeout,
		GrabBanner: cfg.Scanner.BannerGrab,
		RateLimit:  cfg.Scanner.RateLimit,
		Adaptive:   cfg.Scanner.Adaptive,
		External:   external,
		UDPViaTool: cfg.Scanner.UDPViaTool,
		Notifier:   notifier,
	})

	return &App{
		config:    cfg,
		engine:    engine,
		formatter: output.NewMultiFormatter(formatters...),
		reporter:  reporter,
		notifier:  notifier,
		store:     store,
	}, nil
}

// buildFormatters constructs the configured output sinks.
func buildFormatters(cfg core.OutputConfig) ([]output.Formatter, output.ProgressReporter, error) {
	var formatters []output.Formatter
	var reporter output.ProgressReporter

	for _, format := range cfg.Formats {
		switch format {
		case "console":
			formatters = append(formatters,
				output.NewConsoleFormatter(os.Stdout, cfg.Color, cfg.Verbose))
			reporter = output.NewSimpleProgressReporter(os.Stdout)
		case "jsonl":
			name := fmt.Sprintf("%s-%s.jsonl", cfg.Prefix, time.Now().Format("20060102-150405"))
			f, err := output.NewJSONLFormatter(filepath.Join(cfg.Directory, name))
			if err != nil {
				return nil, nil, fmt.Errorf("create jsonl output: %w", err)
			}
			formatters = append(formatters, f)
		default:
			return nil, nil, fmt.Errorf("%w: %s", output.ErrInvalidFormat, format)
		}
	}
	return formatters, reporter, nil
}

// Run executes one scan and renders the report. The returned error is
// non-nil when the scan failed; cancellation is not an error.
func (app *App) Run(ctx context.Context, target, portSpec string, mode models.ScanMode) error {
	session := app.engine.Start(ctx, target, portSpec, mode)

	logger.Info("Scan started",
		logger.String("scan_id", session.ID()),
		logger.String("target", target),
		logger.String("mode", string(mode)),
	)

	app.watch(ctx, session)

	summary := &output.Summary{
		ScanID:   session.ID(),
		Target:   session.Target().Raw,
		Address:  session.Target().Address,
		Mode:     session.Mode(),
		State:    session.State().String(),
		Duration: session.Duration(),
		Results:  session.Results(),
	}
	if err := app.formatter.Finish(summary); err != nil {
		logger.Error("Failed to render report", logger.Err(err))
	}
	if err := app.formatter.Flush(); err != nil {
		logger.Error("Failed to flush output", logger.Err(err))
	}

	app.saveHistory(session, summary)

	switch session.State() {
	case scan.StateFailed:
		return fmt.Errorf("scan failed: %w", session.Err())
	case scan.StateCancelled:
		logger.Info("Scan cancelled",
			logger.String("scan_id", session.ID()),
			logger.Float64("progress", session.Progress()))
		return nil
	default:
		logger.Info("Scan completed",
			logger.String("scan_id", session.ID()),
			logger.Duration("duration", session.Duration()))
		return nil
	}
}

// watch streams published results to the formatters and keeps the
// progress display current until the session finishes.
func (app *App) watch(ctx context.Context, session *scan.Session) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	written := 0
	flush := func() {
		results := session.Results()
		for ; written < len(results); written++ {
			if err := app.formatter.Write(&results[written]); err != nil {
				logger.Error("Failed to write result", logger.Err(err))
			}
		}
		if app.reporter != nil {
			app.reporter.UpdateProgress(session.Snapshot())
		}
	}

	for {
		select {
		case <-session.Done():
			flush()
			return
		case <-ctx.Done():
			// The engine observes the context at the next batch
			// boundary; keep draining until it finishes.
			session.Cancel()
			<-session.Done()
			flush()
			return
		case <-ticker.C:
			flush()
		}
	}
}

// saveHistory persists the finished session when history is enabled.
func (app *App) saveHistory(session *scan.Session, summary *output.Summary) {
	if app.store == nil {
		return
	}
	open := 0
	for _, r := range summary.Results {
		if r.Open {
			open++
		}
	}
	rec := &history.Record{
		ScanID:     summary.ScanID,
		Target:     summary.Target,
		Address:    summary.Address,
		Mode:       summary.Mode,
		State:      summary.State,
		Progress:   session.Progress(),
		TotalPorts: len(session.Ports()),
		OpenPorts:  open,
		Duration:   summary.Duration,
		FinishedAt: time.Now().UTC(),
		Results:    summary.Results,
	}
	if err := app.store.Save(rec); err != nil {
		logger.Warn("Failed to persist scan history", logger.Err(err))
	}
}

// Close releases the notifier, output and history resources.
func (app *App) Close() {
	if err := app.formatter.Close(); err != nil {
		logger.Warn("Failed to close output", logger.Err(err))
	}
	app.notifier.Close()
	if app.store != nil {
		if err := app.store.Close(); err != nil {
			logger.Warn("Failed to close history store", logger.Err(err))
		}
	}
	_ = logger.Sync()
}
