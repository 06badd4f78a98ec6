package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotemill/quotemill/internal/domain"
)

func TestExecuteRunsStepsInOrder(t *testing.T) {
	var order []ExecutionStep

	op := Operation[int, int, int, int]{
		Name: "ordered",
		Validate: func(_ context.Context, in int) error {
			order = append(order, StepValidate)
			return nil
		},
		Perform: func(_ context.Context, in int) (int, error) {
			order = append(order, StepPerform)
			return in * 2, nil
		},
		Verify: func(_ context.Context, _ int, performed int) (int, error) {
			order = append(order, StepVerify)
			return performed, nil
		},
		Archive: func(_ context.Context, _ int, verified int) error {
			order = append(order, StepArchive)
			return nil
		},
		Respond: func(_ context.Context, _ int, verified int) (int, error) {
			order = append(order, StepRespond)
			return verified + 1, nil
		},
	}

	out, err := Execute(context.Background(), NewExecutor(nil), op, 10)

	require.NoError(t, err)
	assert.Equal(t, 21, out)
	assert.Equal(t, []ExecutionStep{StepValidate, StepPerform, StepVerify, StepArchive, StepRespond}, order)
}

func TestExecuteStopsAtFirstFailure(t *testing.T) {
	cause := errors.New("render broke")
	archived := false

	op := Operation[int, int, int, int]{
		Name: "failing",
		Perform: func(_ context.Context, _ int) (int, error) {
			return 0, cause
		},
		Archive: func(_ context.Context, _ int, _ int) error {
			archived = true
			return nil
		},
	}

	_, err := Execute(context.Background(), NewExecutor(nil), op, 1)

	require.Error(t, err)
	assert.False(t, archived, "archive must not run after a failed perform")

	step, ok := GetExecutionStep(err)
	require.True(t, ok)
	assert.Equal(t, StepPerform, step)
	assert.ErrorIs(t, err, cause)
}

func TestExecuteSkipsNilSteps(t *testing.T) {
	op := Operation[string, string, string, string]{
		Name: "sparse",
		Perform: func(_ context.Context, in string) (string, error) {
			return in + "!", nil
		},
		Respond: func(_ context.Context, _ string, verified string) (string, error) {
			// Verify was nil, so verified is the zero value, not the
			// performed result.
			return verified, nil
		},
	}

	out, err := Execute(context.Background(), NewExecutor(nil), op, "hi")

	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestExecutionErrorKeepsDomainClassification(t *testing.T) {
	op := Operation[int, int, int, int]{
		Name: "classified",
		Validate: func(_ context.Context, _ int) error {
			return domain.NewValidationFailuresError([]domain.FieldFailure{{
				Path:    "quoteName",
				Message: "is required",
			}})
		},
	}

	_, err := Execute(context.Background(), NewExecutor(nil), op, 1)

	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))

	failures := domain.FailuresFrom(err)
	require.Len(t, failures, 1)
	assert.Equal(t, "quoteName", failures[0].Path)

	step, ok := GetExecutionStep(err)
	require.True(t, ok)
	assert.Equal(t, StepValidate, step)
}
