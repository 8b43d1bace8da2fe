package usecase

import (
	"context"
	"errors"
	"log/slog"

	"greenmetrics/internal/progress"
	"greenmetrics/internal/report"
)

// ErrRunInProgress is returned when a launch is refused because another
// report generation is still running.
var ErrRunInProgress = errors.New("a report generation is already in progress")

// Runner executes report generations on a background goroutine, the way
// the web layer triggers them, and single-flights runs through the
// progress register.
type Runner struct {
	register *progress.Register
	registry *report.Registry
	logger   *slog.Logger
}

// NewRunner wires the progress register and the report registry.
func NewRunner(register *progress.Register, registry *report.Registry, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{register: register, registry: registry, logger: logger}
}

// Launch starts generating the given report in the background. It returns
// immediately; callers poll the register for progress. A second launch
// while one is active is refused with ErrRunInProgress.
func (r *Runner) Launch(ctx context.Context, reportID string, req report.Request) error {
	generator, err := r.registry.Resolve(reportID)
	if err != nil {
		return err
	}

	if !r.register.TryStart("starting report " + reportID) {
		return ErrRunInProgress
	}

	go func() {
		if err := generator.Generate(ctx, req); err != nil {
			r.logger.Error("report generation failed", "report", reportID, "error", err)
			r.register.Fail(err.Error())
			return
		}
		r.register.Complete("report " + reportID + " generated")
	}()

	return nil
}

// Run generates the report synchronously, for one-shot CLI invocations.
func (r *Runner) Run(ctx context.Context, reportID string, req report.Request) error {
	generator, err := r.registry.Resolve(reportID)
	if err != nil {
		return err
	}

	if !r.register.TryStart("starting report " + reportID) {
		return ErrRunInProgress
	}

	if err := generator.Generate(ctx, req); err != nil {
		r.register.Fail(err.Error())
		return err
	}
	r.register.Complete("report " + reportID + " generated")
	return nil
}
