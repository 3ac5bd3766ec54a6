package placement

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-formbuilder/pkg/catalog"
	"github.com/goliatone/go-formbuilder/pkg/draft"
	"github.com/goliatone/go-formbuilder/pkg/prompt"
)

// Result reports how Place ended. Field is only set when committed.
type Result struct {
	Outcome Outcome
	Field   draft.PlacedField
}

// Committed reports whether a field was appended.
func (r Result) Committed() bool {
	return r.Outcome == OutcomeCommitted
}

// Place runs the full protocol for tpl, blocking on driver for every answer.
// A cancelled prompt is treated as a dismissed dialog (see Session.Cancel).
// Context cancellation aborts the placement and is returned as an error.
func Place(ctx context.Context, s *Session, driver prompt.Driver, tpl catalog.FieldTemplate) (Result, error) {
	if driver == nil {
		return Result{}, errors.New("placement: prompt driver is required")
	}
	current, err := s.Begin(tpl)
	if err != nil {
		return Result{}, err
	}

	for current.Step.Active() {
		current, err = answer(ctx, s, driver, current)
		if err != nil {
			s.Abort()
			return Result{Outcome: OutcomeAborted}, err
		}
	}

	if current.Step != StepCommitted {
		return Result{Outcome: OutcomeAborted}, nil
	}
	field, _ := s.Last()
	return Result{Outcome: OutcomeCommitted, Field: field}, nil
}

func answer(ctx context.Context, s *Session, driver prompt.Driver, p Prompt) (Prompt, error) {
	switch p.Step {
	case StepAwaitingLabel, StepAwaitingOptions:
		value, err := driver.Input(ctx, prompt.InputConfig{Message: p.Message, Default: p.Default})
		if errors.Is(err, prompt.ErrCancelled) {
			return s.Cancel()
		}
		if err != nil {
			return p, fmt.Errorf("placement: prompt %s: %w", p.Step, err)
		}
		if p.Step == StepAwaitingLabel {
			return s.SubmitLabel(value)
		}
		return s.SubmitOptions(value)
	case StepAwaitingRequired:
		required, err := driver.Confirm(ctx, prompt.ConfirmConfig{Message: p.Message, Default: p.DefaultRequired})
		if errors.Is(err, prompt.ErrCancelled) {
			return s.Cancel()
		}
		if err != nil {
			return p, fmt.Errorf("placement: prompt %s: %w", p.Step, err)
		}
		return s.SubmitRequired(required)
	default:
		return p, fmt.Errorf("%w: unexpected step %s", ErrInvalidTransition, p.Step)
	}
}
