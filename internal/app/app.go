package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"TNSBot/internal/catalog"
	"TNSBot/internal/config"
	"TNSBot/internal/infrastructure/console"
	"TNSBot/internal/infrastructure/parser"
	"TNSBot/internal/infrastructure/scheduler"
	"TNSBot/internal/infrastructure/slack"
	"TNSBot/internal/infrastructure/tns"
	"TNSBot/internal/infrastructure/web"
	"TNSBot/internal/logging"
	"TNSBot/internal/report"
	"TNSBot/internal/scanner"
	"TNSBot/internal/snapshot"
	"TNSBot/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	output   io.Writer
	pipeline *usecase.Pipeline
}

// New builds the adapters described by cfg. Dry-run output goes to out
// (stdout when nil).
func New(cfg config.Config, baseLogger *slog.Logger, out io.Writer) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}
	if out == nil {
		out = os.Stdout
	}
	interest := cfg.InterestSet()

	pages := web.NewClient(web.Options{
		Timeout:           cfg.HTTP.Timeout,
		RequestsPerSecond: cfg.Astronotes.RequestsPerSecond,
	})

	// the export is a large single download; it is neither paced nor bound by the page timeout
	exports := web.NewClient(web.Options{Timeout: cfg.TNS.DownloadTimeout})
	fetcher := tns.NewFetcher(exports, cfg.TNS.BaseURL, tns.BotIdentity{
		ID:     cfg.TNS.BotID,
		Name:   cfg.TNS.BotName,
		APIKey: cfg.TNS.APIKey,
	})
	cache := snapshot.NewCache(fetcher, nil, baseLogger.With("component", "snapshot"))
	filter := catalog.NewFilter(interest, baseLogger.With("component", "catalog"))

	registry := scanner.NewRegistry()
	registry.Register(parser.NewTNSLayout())
	layout, err := registry.Resolve(cfg.Astronotes.Layout)
	if err != nil {
		return nil, fmt.Errorf("astronotes: %w", err)
	}
	source := parser.NewAstronoteSource(
		web.NewDocumentFetcher(pages),
		layout,
		interest,
		cfg.Astronotes.Concurrency,
		baseLogger.With("component", "astronotes"),
	)

	chat := web.NewClient(web.Options{Timeout: cfg.HTTP.Timeout})
	notifier := slack.NewNotifier(chat, cfg.Slack.Endpoint, cfg.Slack.Token)

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Snapshots:  cache,
		Catalog:    filter,
		Astronotes: source,
		Renderer:   report.NewRenderer(interest, cfg.TNS.MaxAgeDays, cfg.TNS.BaseURL),
		Notifier:   notifier,
		Output:     out,
		Logger:     baseLogger.With("component", "pipeline"),
	})

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		output:   out,
		pipeline: pipeline,
	}, nil
}

// Run performs one report, or keeps reporting on schedule.every until ctx is done.
func (a *Application) Run(ctx context.Context) error {
	if a.cfg.Schedule.Every > 0 {
		a.logger.Info("repeat mode", "every", a.cfg.Schedule.Every)
		s := usecase.NewScheduler(
			scheduler.NewTickerScheduler(a.cfg.Schedule.Every),
			a.pipeline,
			a.runOptions(),
			a.logger.With("component", "scheduler"),
		)
		s.OnOutcome = func(out usecase.Outcome, _ error) { a.summarize(out) }
		return s.Run(ctx)
	}

	out, err := a.pipeline.Run(ctx, a.runOptions())
	a.summarize(out)
	return err
}

func (a *Application) runOptions() usecase.RunOptions {
	return usecase.RunOptions{
		SnapshotPath: a.cfg.TNS.SnapshotPath,
		MaxAge:       a.cfg.TNS.MaxAge(),
		ListingURL:   a.cfg.Astronotes.ListingURL,
		Channel:      a.cfg.Slack.Channel,
		Username:     a.cfg.Slack.Username,
		DryRun:       a.cfg.DryRun,
	}
}

func (a *Application) summarize(out usecase.Outcome) {
	if a.cfg.DryRun {
		console.WriteSummary(a.output, out)
	}
	if out.Degraded() {
		for _, res := range out.Steps {
			if res.Status != usecase.StatusOK {
				a.logger.Warn("step did not complete", "step", res.Step, "status", res.Status.String(), "error", res.Err)
			}
		}
	}
}
