package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/quotemill/quotemill/internal/platform/logging"
)

// Document generation is destructive only at the very end: a quotation is
// validated, rendered, the output checked, and only then written anywhere.
// The Executor enforces that ordering so a render that produced garbage can
// never land in the archive.

// ExecutionStep names a stage of an executed operation.
type ExecutionStep string

const (
	StepValidate ExecutionStep = "validate"
	StepPerform  ExecutionStep = "perform"
	StepVerify   ExecutionStep = "verify"
	StepArchive  ExecutionStep = "archive"
	StepRespond  ExecutionStep = "respond"
)

// ExecutionError reports which step an operation died in. The cause is
// preserved so domain error classification still works through it.
type ExecutionError struct {
	Step  ExecutionStep
	Cause error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s step failed: %v", e.Step, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// GetExecutionStep extracts the step from an execution error.
func GetExecutionStep(err error) (ExecutionStep, bool) {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Step, true
	}

	return "", false
}

// Operation is one staged unit of work. I is the input, P what Perform
// produced, V the verified form of it, and O the caller-facing result.
// Nil steps are skipped; Verify's input defaults through to Archive.
type Operation[I, P, V, O any] struct {
	// Name identifies this operation in logs.
	Name string

	// Validate checks preconditions before anything runs.
	Validate func(ctx context.Context, input I) error

	// Perform does the work. It must not persist anything.
	Perform func(ctx context.Context, input I) (P, error)

	// Verify inspects what Perform produced before it is trusted.
	Verify func(ctx context.Context, input I, performed P) (V, error)

	// Archive persists the verified result. Only runs after Verify passes.
	Archive func(ctx context.Context, input I, verified V) error

	// Respond shapes the verified result for the caller.
	Respond func(ctx context.Context, input I, verified V) (O, error)
}

// Executor runs operations stage by stage with per-step logging.
type Executor struct {
	logger *slog.Logger
}

// NewExecutor creates an executor. A nil logger falls back to slog.Default.
func NewExecutor(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{logger: logger}
}

func stepError(step ExecutionStep, err error) error {
	return &ExecutionError{Step: step, Cause: err}
}

// Execute runs op's steps in order and stops at the first failure. A request
// scoped logger from the context wins over the executor's own.
func Execute[I, P, V, O any](ctx context.Context, exec *Executor, op Operation[I, P, V, O], input I) (O, error) {
	var zero O

	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = exec.logger
	}

	logger = logger.With(slog.String("operation", op.Name))
	start := time.Now()

	if op.Validate != nil {
		if err := op.Validate(ctx, input); err != nil {
			logger.WarnContext(ctx, "validation failed", slog.Any("error", err))

			return zero, stepError(StepValidate, err)
		}
	}

	var performed P
	if op.Perform != nil {
		var err error
		if performed, err = op.Perform(ctx, input); err != nil {
			logger.ErrorContext(ctx, "perform failed", slog.Any("error", err))

			return zero, stepError(StepPerform, err)
		}
	}

	var verified V
	if op.Verify != nil {
		var err error
		if verified, err = op.Verify(ctx, input, performed); err != nil {
			logger.ErrorContext(ctx, "verification failed", slog.Any("error", err))

			return zero, stepError(StepVerify, err)
		}
	}

	if op.Archive != nil {
		if err := op.Archive(ctx, input, verified); err != nil {
			logger.ErrorContext(ctx, "archive failed", slog.Any("error", err))

			return zero, stepError(StepArchive, err)
		}
	}

	var result O
	if op.Respond != nil {
		var err error
		if result, err = op.Respond(ctx, input, verified); err != nil {
			logger.WarnContext(ctx, "respond failed", slog.Any("error", err))

			return zero, stepError(StepRespond, err)
		}
	}

	logger.InfoContext(ctx, "operation completed",
		slog.Duration("duration", time.Since(start)),
	)

	return result, nil
}
