package placement

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-formbuilder/pkg/catalog"
	"github.com/goliatone/go-formbuilder/pkg/draft"
)

// ObserverFunc is notified once per finished placement.
type ObserverFunc func(kind catalog.FieldKind, outcome Outcome)

// Option configures a Session.
type Option func(*Session)

// WithIDGenerator overrides the identifier source used on commit.
func WithIDGenerator(gen draft.IDGenerator) Option {
	return func(s *Session) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithObserver registers a callback for finished placements.
func WithObserver(fn ObserverFunc) Option {
	return func(s *Session) {
		s.observer = fn
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Session runs the placement protocol against a single draft.
type Session struct {
	mu       sync.Mutex
	draft    *draft.FormDraft
	newID    draft.IDGenerator
	observer ObserverFunc
	logger   *zap.Logger

	step     Step
	template catalog.FieldTemplate
	label    string
	required bool
	last     draft.PlacedField
}

// NewSession binds a session to the draft it appends to.
func NewSession(target *draft.FormDraft, options ...Option) *Session {
	if target == nil {
		target = draft.New()
	}
	s := &Session{
		draft:  target,
		newID:  draft.NewUUID,
		logger: zap.NewNop(),
		step:   StepIdle,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Draft exposes the draft the session appends to.
func (s *Session) Draft() *draft.FormDraft {
	return s.draft
}

// Step reports the current dialog step. After a placement ends the terminal
// step (committed or aborted) is reported until the next Begin.
func (s *Session) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Pending returns the prompt awaiting an answer, if any.
func (s *Session) Pending() (Prompt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.step.Active() {
		return Prompt{}, false
	}
	return s.promptLocked(), true
}

// Template returns the template being placed, or the last one placed.
func (s *Session) Template() catalog.FieldTemplate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.template
}

// Last returns the most recently committed field.
func (s *Session) Last() (draft.PlacedField, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last.ID == "" {
		return draft.PlacedField{}, false
	}
	return s.last, true
}

// Begin starts placing tpl and returns the label prompt.
func (s *Session) Begin(tpl catalog.FieldTemplate) (Prompt, error) {
	if tpl.IsZero() {
		return Prompt{}, ErrUnknownTemplate
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step.Active() {
		return Prompt{}, ErrPlacementActive
	}
	s.template = tpl
	s.label = ""
	s.required = false
	s.step = StepAwaitingLabel

	s.logger.Debug("placement started", zap.String("kind", tpl.Kind().String()))
	return s.promptLocked(), nil
}

// SubmitLabel answers the label prompt. A blank label aborts the placement.
func (s *Session) SubmitLabel(value string) (Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step != StepAwaitingLabel {
		return Prompt{}, s.invalidLocked("label")
	}
	label := strings.TrimSpace(value)
	if label == "" {
		s.finishLocked(OutcomeAborted)
		return s.promptLocked(), nil
	}
	s.label = label
	s.step = StepAwaitingRequired
	return s.promptLocked(), nil
}

// SubmitRequired answers the required prompt.
func (s *Session) SubmitRequired(required bool) (Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step != StepAwaitingRequired {
		return Prompt{}, s.invalidLocked("required")
	}
	return s.submitRequiredLocked(required)
}

func (s *Session) submitRequiredLocked(required bool) (Prompt, error) {
	s.required = required
	if s.template.Kind().HasOptions() {
		s.step = StepAwaitingOptions
		return s.promptLocked(), nil
	}
	if err := s.commitLocked(nil); err != nil {
		return s.promptLocked(), err
	}
	return s.promptLocked(), nil
}

// SubmitOptions answers the options prompt with a comma separated list.
func (s *Session) SubmitOptions(raw string) (Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step != StepAwaitingOptions {
		return Prompt{}, s.invalidLocked("options")
	}
	if err := s.commitLocked(ParseOptions(raw)); err != nil {
		return s.promptLocked(), err
	}
	return s.promptLocked(), nil
}

// Cancel dismisses the current prompt. Dismissing the label prompt aborts the
// placement; dismissing the required prompt answers no; dismissing the
// options prompt commits the field with no options.
func (s *Session) Cancel() (Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.step {
	case StepAwaitingLabel:
		s.finishLocked(OutcomeAborted)
		return s.promptLocked(), nil
	case StepAwaitingRequired:
		return s.submitRequiredLocked(false)
	case StepAwaitingOptions:
		if err := s.commitLocked([]string{}); err != nil {
			return s.promptLocked(), err
		}
		return s.promptLocked(), nil
	default:
		return Prompt{}, s.invalidLocked("cancel")
	}
}

// Abort discards an in-flight placement regardless of step, e.g. when the
// owner goes away. It is a no-op when nothing is pending.
func (s *Session) Abort() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step.Active() {
		s.finishLocked(OutcomeAborted)
	}
}

func (s *Session) commitLocked(options []string) error {
	field := draft.PlacedField{
		ID:       s.newID(),
		Kind:     s.template.Kind(),
		Label:    s.label,
		Required: s.required,
	}
	if s.template.Kind().HasOptions() {
		field.Options = options
	}
	if err := s.draft.Append(field); err != nil {
		s.finishLocked(OutcomeAborted)
		return fmt.Errorf("placement: commit: %w", err)
	}
	s.last = field
	s.finishLocked(OutcomeCommitted)
	return nil
}

func (s *Session) finishLocked(outcome Outcome) {
	if outcome == OutcomeCommitted {
		s.step = StepCommitted
	} else {
		s.step = StepAborted
	}
	kind := s.template.Kind()
	s.logger.Debug("placement finished", zap.String("kind", kind.String()), zap.String("outcome", string(outcome)))
	if s.observer != nil {
		s.observer(kind, outcome)
	}
}

func (s *Session) promptLocked() Prompt {
	switch s.step {
	case StepAwaitingLabel:
		return Prompt{Step: s.step, Message: LabelMessage, Default: s.template.DefaultLabel()}
	case StepAwaitingRequired:
		return Prompt{Step: s.step, Message: RequiredMessage}
	case StepAwaitingOptions:
		return Prompt{Step: s.step, Message: OptionsMessage, Default: catalog.DefaultOptionsInput}
	default:
		return Prompt{Step: s.step}
	}
}

func (s *Session) invalidLocked(event string) error {
	return fmt.Errorf("%w: %s while %s", ErrInvalidTransition, event, s.step)
}
