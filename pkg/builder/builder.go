// Package builder wires the palette, the drag gesture, the placement dialog
// and the draft into one component instance. A Builder is created empty when
// the component mounts and discarded with Close when it unmounts; nothing is
// persisted.
package builder

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-formbuilder/pkg/catalog"
	"github.com/goliatone/go-formbuilder/pkg/draft"
	"github.com/goliatone/go-formbuilder/pkg/drag"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/placement"
	"github.com/goliatone/go-formbuilder/pkg/prompt"
)

// GestureOutcome labels how a drag gesture ended.
type GestureOutcome string

const (
	GestureDropped   GestureOutcome = "dropped"
	GestureElsewhere GestureOutcome = "elsewhere"
	GestureRejected  GestureOutcome = "rejected"
)

// Action names a dialog answer.
type Action string

const (
	ActionLabel    Action = "label"
	ActionRequired Action = "required"
	ActionOptions  Action = "options"
	ActionCancel   Action = "cancel"
)

// ErrUnknownAction is returned by Respond for unsupported actions.
var ErrUnknownAction = errors.New("builder: unknown dialog action")

// Response is an answer to the pending prompt.
type Response struct {
	Action   Action `json:"action"`
	Value    string `json:"value,omitempty"`
	Required bool   `json:"required,omitempty"`
}

// Option configures a Builder.
type Option func(*config)

type config struct {
	source          catalog.Source
	title           string
	logger          *zap.Logger
	placementOpts   []placement.Option
	gestureObserver func(GestureOutcome)
}

// WithCatalog overrides the palette source (defaults to catalog.Default()).
func WithCatalog(source catalog.Source) Option {
	return func(cfg *config) {
		if source != nil {
			cfg.source = source
		}
	}
}

// WithTitle sets the heading rendered above the drop zone.
func WithTitle(title string) Option {
	return func(cfg *config) {
		cfg.title = title
	}
}

// WithLogger attaches a structured logger shared with the placement session.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithPlacementOptions forwards options to the placement session.
func WithPlacementOptions(options ...placement.Option) Option {
	return func(cfg *config) {
		cfg.placementOpts = append(cfg.placementOpts, options...)
	}
}

// WithGestureObserver is notified once per finished drag gesture.
func WithGestureObserver(fn func(GestureOutcome)) Option {
	return func(cfg *config) {
		cfg.gestureObserver = fn
	}
}

// Builder is one form builder component instance.
type Builder struct {
	source          catalog.Source
	title           string
	logger          *zap.Logger
	draft           *draft.FormDraft
	gesture         *drag.Gesture
	session         *placement.Session
	gestureObserver func(GestureOutcome)
}

// New mounts a builder with an empty draft.
func New(options ...Option) *Builder {
	cfg := config{
		source: catalog.Default(),
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	d := draft.New()
	sessionOpts := append([]placement.Option{placement.WithLogger(cfg.logger)}, cfg.placementOpts...)
	return &Builder{
		source:          cfg.source,
		title:           cfg.title,
		logger:          cfg.logger,
		draft:           d,
		gesture:         drag.NewGesture(cfg.source),
		session:         placement.NewSession(d, sessionOpts...),
		gestureObserver: cfg.gestureObserver,
	}
}

// Catalog returns the palette currently in effect.
func (b *Builder) Catalog() *catalog.Catalog {
	return b.source.Current()
}

// Draft exposes the placed fields.
func (b *Builder) Draft() *draft.FormDraft {
	return b.draft
}

// Session exposes the placement dialog.
func (b *Builder) Session() *placement.Session {
	return b.session
}

// StartDrag picks up the palette entry for kind. Gestures cannot start while
// a placement dialog is open.
func (b *Builder) StartDrag(kind catalog.FieldKind) error {
	if b.session.Step().Active() {
		return placement.ErrPlacementActive
	}
	if err := b.gesture.Start(kind); err != nil {
		if errors.Is(err, drag.ErrUnacceptedPayload) {
			b.observeGesture(GestureRejected)
		}
		return err
	}
	return nil
}

// Hover toggles the drop zone hover state.
func (b *Builder) Hover(over bool) error {
	return b.gesture.Hover(over)
}

// Drop releases the dragged entry on the drop zone and opens the placement
// dialog for it.
func (b *Builder) Drop() (placement.Prompt, error) {
	if b.session.Step().Active() {
		return placement.Prompt{}, placement.ErrPlacementActive
	}
	tpl, err := b.gesture.Drop()
	if err != nil {
		return placement.Prompt{}, err
	}
	b.observeGesture(GestureDropped)
	b.logger.Debug("field dropped", zap.String("kind", tpl.Kind().String()))
	return b.session.Begin(tpl)
}

// DropPayload handles a drop whose payload did not originate from a tracked
// gesture; only catalog entries are accepted.
func (b *Builder) DropPayload(raw string) (placement.Prompt, error) {
	if b.session.Step().Active() {
		return placement.Prompt{}, placement.ErrPlacementActive
	}
	tpl, err := b.gesture.Accept(raw)
	if err != nil {
		b.observeGesture(GestureRejected)
		return placement.Prompt{}, err
	}
	b.observeGesture(GestureDropped)
	return b.session.Begin(tpl)
}

// DropElsewhere ends the gesture without placing anything.
func (b *Builder) DropElsewhere() error {
	if err := b.gesture.DropElsewhere(); err != nil {
		return err
	}
	b.observeGesture(GestureElsewhere)
	return nil
}

// Respond feeds an answer to the pending prompt.
func (b *Builder) Respond(resp Response) (placement.Prompt, error) {
	switch resp.Action {
	case ActionLabel:
		return b.session.SubmitLabel(resp.Value)
	case ActionRequired:
		return b.session.SubmitRequired(resp.Required)
	case ActionOptions:
		return b.session.SubmitOptions(resp.Value)
	case ActionCancel:
		return b.session.Cancel()
	default:
		return placement.Prompt{}, fmt.Errorf("%w: %q", ErrUnknownAction, resp.Action)
	}
}

// Place runs a full drag-and-drop for kind with answers collected from
// driver. It is the synchronous path used by terminal sessions.
func (b *Builder) Place(ctx context.Context, driver prompt.Driver, kind catalog.FieldKind) (placement.Result, error) {
	if err := b.StartDrag(kind); err != nil {
		return placement.Result{}, err
	}
	tpl, err := b.gesture.Drop()
	if err != nil {
		return placement.Result{}, err
	}
	b.observeGesture(GestureDropped)
	return placement.Place(ctx, b.session, driver, tpl)
}

// Model snapshots the builder for rendering.
func (b *Builder) Model() model.FormModel {
	var pending *placement.Prompt
	if p, ok := b.session.Pending(); ok {
		pending = &p
	}
	return model.New(model.Input{
		Title:   b.title,
		Catalog: b.Catalog(),
		Gesture: b.gesture.State(),
		Fields:  b.draft.Fields(),
		Pending: pending,
	})
}

// Close unmounts the component, abandoning any open dialog or gesture.
func (b *Builder) Close() {
	b.session.Abort()
	_ = b.gesture.DropElsewhere()
}

func (b *Builder) observeGesture(outcome GestureOutcome) {
	if b.gestureObserver != nil {
		b.gestureObserver(outcome)
	}
}
