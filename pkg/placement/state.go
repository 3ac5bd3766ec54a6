package placement

import (
	"errors"
	"strings"
)

// Step identifies the dialog state.
type Step string

const (
	StepIdle             Step = "idle"
	StepAwaitingLabel    Step = "awaiting-label"
	StepAwaitingRequired Step = "awaiting-required"
	StepAwaitingOptions  Step = "awaiting-options"
	StepCommitted        Step = "committed"
	StepAborted          Step = "aborted"
)

// Active reports whether the step waits for user input.
func (s Step) Active() bool {
	switch s {
	case StepAwaitingLabel, StepAwaitingRequired, StepAwaitingOptions:
		return true
	default:
		return false
	}
}

// Outcome summarises how a placement ended.
type Outcome string

const (
	OutcomeCommitted Outcome = "committed"
	OutcomeAborted   Outcome = "aborted"
)

const (
	LabelMessage    = "Enter label for this field:"
	RequiredMessage = "Is this field required?"
	OptionsMessage  = "Enter comma-separated options:"
)

var (
	// ErrInvalidTransition is returned when an event does not apply to the
	// current step.
	ErrInvalidTransition = errors.New("placement: invalid transition")
	// ErrPlacementActive is returned when a placement is started while
	// another one still awaits input.
	ErrPlacementActive = errors.New("placement: another placement is in progress")
	// ErrUnknownTemplate is returned when beginning with a zero template.
	ErrUnknownTemplate = errors.New("placement: template is required")
)

// Prompt describes the question the current step is waiting on.
type Prompt struct {
	Step    Step   `json:"step"`
	Message string `json:"message"`
	Default string `json:"default,omitempty"`
	// DefaultRequired seeds yes/no prompts.
	DefaultRequired bool `json:"defaultRequired,omitempty"`
}

// ParseOptions splits a comma separated list, trimming every token and
// keeping order and blanks. An empty answer yields no options.
func ParseOptions(raw string) []string {
	if raw == "" {
		return []string{}
	}
	tokens := strings.Split(raw, ",")
	for i, token := range tokens {
		tokens[i] = strings.TrimSpace(token)
	}
	return tokens
}
