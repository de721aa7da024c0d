package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"TNSBot/internal/domain"
	"TNSBot/internal/ports"
)

// PipelineDeps wires all driven adapters into the report pipeline.
type PipelineDeps struct {
	Snapshots  ports.SnapshotProvider
	Catalog    ports.CatalogFilter
	Astronotes ports.AstronoteSource
	Renderer   ports.ReportRenderer
	Notifier   ports.Notifier
	// Output receives the message on dry runs; defaults to os.Stdout.
	Output io.Writer
	Clock  func() time.Time
	Logger *slog.Logger
}

// RunOptions carries the per-run settings.
type RunOptions struct {
	SnapshotPath string
	MaxAge       time.Duration
	ListingURL   string
	Channel      string
	Username     string
	DryRun       bool
}

// Pipeline refreshes the snapshot, filters it, scrapes astronotes and
// delivers the rendered report.
type Pipeline struct {
	snapshots  ports.SnapshotProvider
	catalog    ports.CatalogFilter
	astronotes ports.AstronoteSource
	renderer   ports.ReportRenderer
	notifier   ports.Notifier
	output     io.Writer
	clock      func() time.Time
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	p := &Pipeline{
		snapshots:  deps.Snapshots,
		catalog:    deps.Catalog,
		astronotes: deps.Astronotes,
		renderer:   deps.Renderer,
		notifier:   deps.Notifier,
		output:     deps.Output,
		clock:      deps.Clock,
		logger:     deps.Logger,
	}
	if p.output == nil {
		p.output = os.Stdout
	}
	if p.clock == nil {
		p.clock = time.Now
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}
	return p
}

// Run executes one report. The returned error is non-nil only when a stage
// was fatal or delivery failed; degraded stages are listed in the Outcome.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (Outcome, error) {
	var out Outcome

	path, err := p.ensureSnapshot(ctx, opts)
	snap := out.record(ctx, StepSnapshot, err)
	if snap.Status == StatusFatal {
		p.logger.Error("snapshot refresh aborted the run", "error", err)
		return out, fmt.Errorf("refresh snapshot: %w", err)
	}

	if snap.Status == StatusOK {
		out.Records, err = p.filterCatalog(opts, path)
		if res := out.record(ctx, StepCatalog, err); res.Status == StatusFatal {
			return out, fmt.Errorf("filter catalog: %w", err)
		} else if res.Status == StatusDegraded {
			p.logger.Error("catalog filtering failed, skipping catalog section", "error", err)
		}
	} else {
		p.logger.Error("snapshot unavailable, skipping catalog section", "error", err)
		out.Steps = append(out.Steps, StepResult{Step: StepCatalog, Status: StatusDegraded, Err: err})
	}

	out.Notes, err = p.scrapeAstronotes(ctx, opts)
	if res := out.record(ctx, StepAstronotes, err); res.Status == StatusFatal {
		return out, fmt.Errorf("scrape astronotes: %w", err)
	} else if res.Status == StatusDegraded {
		p.logger.Error("astronote scraping failed, skipping astronote section", "error", err)
		out.Notes = nil
	}

	if p.renderer != nil {
		out.Message = p.renderer.Render(out.Records, out.Notes)
	}
	if out.Message == "" {
		p.logger.Info("no updates")
		out.Delivery = DeliverySkipped
		return out, nil
	}

	if opts.DryRun {
		if _, err := fmt.Fprintln(p.output, out.Message); err != nil {
			out.record(ctx, StepDelivery, err)
			return out, fmt.Errorf("print report: %w", err)
		}
		p.logger.Info("dry run, report printed", "records", len(out.Records), "astronotes", len(out.Notes))
		out.Delivery = DeliveryPrinted
		return out, nil
	}

	if err := p.deliver(ctx, opts, out.Message); err != nil {
		out.record(ctx, StepDelivery, err)
		out.Delivery = DeliveryFailed
		p.logger.Error("report delivery failed", "channel", opts.Channel, "error", err)
		return out, err
	}

	out.record(ctx, StepDelivery, nil)
	out.Delivery = DeliverySent
	p.logger.Info("report sent", "channel", opts.Channel, "records", len(out.Records), "astronotes", len(out.Notes))
	return out, nil
}

func (p *Pipeline) ensureSnapshot(ctx context.Context, opts RunOptions) (string, error) {
	if p.snapshots == nil {
		return opts.SnapshotPath, nil
	}
	return p.snapshots.EnsureFresh(ctx, opts.SnapshotPath, opts.MaxAge)
}

func (p *Pipeline) filterCatalog(opts RunOptions, path string) ([]domain.TransientRecord, error) {
	if p.catalog == nil {
		return nil, nil
	}
	return p.catalog.Filter(path, opts.MaxAge, p.clock().UTC())
}

func (p *Pipeline) scrapeAstronotes(ctx context.Context, opts RunOptions) ([]domain.AstronoteSummary, error) {
	if p.astronotes == nil || opts.ListingURL == "" {
		return nil, nil
	}
	return p.astronotes.Scrape(ctx, opts.ListingURL)
}

func (p *Pipeline) deliver(ctx context.Context, opts RunOptions, message string) error {
	if p.notifier == nil {
		return fmt.Errorf("%w: no notifier configured", domain.ErrConfiguration)
	}
	err := p.notifier.PostMessage(ctx, opts.Channel, message, opts.Username)
	if err == nil || errors.Is(err, domain.ErrDelivery) || errors.Is(err, domain.ErrConfiguration) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrDelivery, err)
}
