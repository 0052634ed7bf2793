package saga

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Data holds the shared values flowing between pipeline steps.
type Data map[string]interface{}

// Step is a single stage of a pipeline. Execute advances the pipeline;
// Compensate undoes the step's side effects when a later step fails.
// Steps without side effects return nil from Compensate.
type Step interface {
	ID() string
	Execute(ctx context.Context, data Data) error
	Compensate(ctx context.Context, data Data) error
}

// Definition describes an ordered pipeline with an overall timeout.
type Definition interface {
	ID() string
	Steps() []Step
	Timeout() time.Duration
}

// Runner executes a pipeline definition synchronously, compensating
// completed steps in reverse order when one fails.
type Runner struct {
	logger *zap.Logger
}

// NewRunner creates a new pipeline runner
func NewRunner(logger *zap.Logger) *Runner {
	return &Runner{logger: logger}
}

// Run executes the definition's steps in order against the shared data.
// On a step failure it compensates every completed step in reverse and
// returns the step's error wrapped with its ID.
func (r *Runner) Run(ctx context.Context, def Definition, data Data) error {
	ctx, cancel := context.WithTimeout(ctx, def.Timeout())
	defer cancel()

	steps := def.Steps()
	for i, step := range steps {
		r.logger.Info("Executing pipeline step",
			zap.String("pipeline", def.ID()),
			zap.String("step", step.ID()))

		if err := step.Execute(ctx, data); err != nil {
			r.logger.Error("Pipeline step failed",
				zap.String("pipeline", def.ID()),
				zap.String("step", step.ID()),
				zap.Error(err))
			r.compensate(ctx, def, steps[:i], data)
			return fmt.Errorf("step %s: %w", step.ID(), err)
		}
	}

	r.logger.Info("Pipeline completed", zap.String("pipeline", def.ID()))
	return nil
}

// compensate undoes completed steps, last first. Compensation errors are
// logged but do not mask the original failure.
func (r *Runner) compensate(ctx context.Context, def Definition, completed []Step, data Data) {
	for i := len(completed) - 1; i >= 0; i-- {
		step := completed[i]
		if err := step.Compensate(ctx, data); err != nil {
			r.logger.Error("Pipeline compensation failed",
				zap.String("pipeline", def.ID()),
				zap.String("step", step.ID()),
				zap.Error(err))
		}
	}
}
