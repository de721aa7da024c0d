package usecase

import (
	"context"
	"errors"

	"TNSBot/internal/domain"
)

// Step names a stage of a report run.
type Step string

const (
	StepSnapshot   Step = "snapshot"
	StepCatalog    Step = "catalog"
	StepAstronotes Step = "astronotes"
	StepDelivery   Step = "delivery"
)

// StepStatus says how a stage ended.
type StepStatus int

const (
	// StatusOK means the stage produced its output.
	StatusOK StepStatus = iota
	// StatusDegraded means the stage failed and its output is treated as empty.
	StatusDegraded
	// StatusFatal means the run stopped at this stage.
	StatusFatal
)

func (s StepStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusDegraded:
		return "degraded"
	case StatusFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// StepResult records the status of one stage.
type StepResult struct {
	Step   Step
	Status StepStatus
	Err    error
}

// Delivery describes what happened to the composed message.
type Delivery int

const (
	// DeliveryNone means the run stopped before reaching delivery.
	DeliveryNone Delivery = iota
	// DeliverySkipped means there was nothing to report.
	DeliverySkipped
	// DeliveryPrinted means a dry run wrote the message to the output writer.
	DeliveryPrinted
	// DeliverySent means the notifier accepted the message.
	DeliverySent
	// DeliveryFailed means the notifier returned an error.
	DeliveryFailed
)

func (d Delivery) String() string {
	switch d {
	case DeliverySkipped:
		return "skipped"
	case DeliveryPrinted:
		return "printed"
	case DeliverySent:
		return "sent"
	case DeliveryFailed:
		return "failed"
	default:
		return "none"
	}
}

// Outcome is the full account of one run.
type Outcome struct {
	Steps    []StepResult
	Records  []domain.TransientRecord
	Notes    []domain.AstronoteSummary
	Message  string
	Delivery Delivery
}

// Status returns the recorded status of step, or StatusOK if it never ran.
func (o Outcome) Status(step Step) StepStatus {
	for _, res := range o.Steps {
		if res.Step == step {
			return res.Status
		}
	}
	return StatusOK
}

// Degraded reports whether any stage fell back to empty output.
func (o Outcome) Degraded() bool {
	for _, res := range o.Steps {
		if res.Status != StatusOK {
			return true
		}
	}
	return false
}

func (o *Outcome) record(ctx context.Context, step Step, err error) StepResult {
	res := StepResult{Step: step, Status: classify(ctx, err), Err: err}
	o.Steps = append(o.Steps, res)
	return res
}

// classify makes configuration problems and cancellation fatal; every other
// failure degrades the stage.
func classify(ctx context.Context, err error) StepStatus {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, domain.ErrConfiguration), ctx.Err() != nil:
		return StatusFatal
	default:
		return StatusDegraded
	}
}
