package usecase

import (
	"context"
	"log/slog"
	"time"

	"TNSBot/internal/ports"
)

// Scheduler wires the ticker driver with the pipeline use case.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	opts     RunOptions
	logger   *slog.Logger
	// OnOutcome, when set, receives the outcome of every tick.
	OnOutcome func(Outcome, error)
}

// NewScheduler returns a helper that repeats the pipeline on the driver's ticks.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, opts RunOptions, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scheduler{driver: driver, pipeline: pipeline, opts: opts, logger: logger}
}

// Run registers the pipeline with the driver and blocks until ctx is done.
// A failed tick is logged; the next tick runs regardless.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	job := func(trigger time.Time) {
		out, err := s.pipeline.Run(ctx, s.opts)
		if err != nil && ctx.Err() == nil {
			s.logger.Error("scheduled run failed", "trigger", trigger, "error", err)
		}
		if s.OnOutcome != nil {
			s.OnOutcome(out, err)
		}
	}

	if err := s.driver.Start(ctx, job); err != nil {
		return err
	}
	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.driver.Stop(stopCtx)
}
