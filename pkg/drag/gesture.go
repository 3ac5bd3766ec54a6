// Package drag models a single drag gesture from a palette entry to the drop
// zone: idle -> dragging -> dropped (on target or elsewhere) -> idle.
package drag

import (
	"errors"
	"fmt"
	"sync"

	"github.com/goliatone/go-formbuilder/pkg/catalog"
)

// Phase is the gesture state.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseDragging Phase = "dragging"
)

var (
	// ErrUnacceptedPayload is returned when the dragged payload is not a
	// catalog entry.
	ErrUnacceptedPayload = errors.New("drag: payload is not a catalog entry")
	// ErrNotDragging is returned for hover or drop events outside a gesture.
	ErrNotDragging = errors.New("drag: no gesture in progress")
	// ErrAlreadyDragging is returned when a second gesture starts before the
	// first one ended.
	ErrAlreadyDragging = errors.New("drag: gesture already in progress")
)

// State is the visual state consumed by renderers.
type State struct {
	Phase  Phase             `json:"phase"`
	Source catalog.FieldKind `json:"source,omitempty"`
	Hover  bool              `json:"hover"`
}

// Dragging reports whether kind is the entry currently being dragged.
func (s State) Dragging(kind catalog.FieldKind) bool {
	return s.Phase == PhaseDragging && s.Source == kind
}

// Gesture tracks at most one drag at a time against a catalog source.
type Gesture struct {
	mu      sync.Mutex
	catalog catalog.Source
	state   State
	payload catalog.FieldTemplate
}

// NewGesture binds the gesture to the palette it accepts payloads from.
func NewGesture(source catalog.Source) *Gesture {
	return &Gesture{catalog: source, state: State{Phase: PhaseIdle}}
}

// State returns the current visual state.
func (g *Gesture) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Start picks up the palette entry for kind.
func (g *Gesture) Start(kind catalog.FieldKind) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Phase == PhaseDragging {
		return ErrAlreadyDragging
	}
	tpl, err := g.lookup(kind)
	if err != nil {
		return err
	}
	g.payload = tpl
	g.state = State{Phase: PhaseDragging, Source: kind}
	return nil
}

// Hover toggles the drop target hover state while a gesture is active.
func (g *Gesture) Hover(over bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Phase != PhaseDragging {
		return ErrNotDragging
	}
	g.state.Hover = over
	return nil
}

// Drop releases the payload on the drop target and returns the template to
// place. The gesture is back to idle afterwards.
func (g *Gesture) Drop() (catalog.FieldTemplate, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Phase != PhaseDragging {
		return catalog.FieldTemplate{}, ErrNotDragging
	}
	tpl := g.payload
	g.resetLocked()
	return tpl, nil
}

// DropElsewhere ends the gesture without placing anything.
func (g *Gesture) DropElsewhere() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Phase != PhaseDragging {
		return ErrNotDragging
	}
	g.resetLocked()
	return nil
}

// Accept validates a raw payload identifier as a catalog entry without
// starting a gesture. Used by drop targets receiving foreign drags.
func (g *Gesture) Accept(raw string) (catalog.FieldTemplate, error) {
	kind, err := catalog.ParseFieldKind(raw)
	if err != nil {
		return catalog.FieldTemplate{}, fmt.Errorf("%w: %v", ErrUnacceptedPayload, err)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lookup(kind)
}

func (g *Gesture) lookup(kind catalog.FieldKind) (catalog.FieldTemplate, error) {
	var current *catalog.Catalog
	if g.catalog != nil {
		current = g.catalog.Current()
	}
	tpl, err := current.Lookup(kind)
	if err != nil {
		return catalog.FieldTemplate{}, fmt.Errorf("%w: %v", ErrUnacceptedPayload, err)
	}
	return tpl, nil
}

func (g *Gesture) resetLocked() {
	g.state = State{Phase: PhaseIdle}
	g.payload = catalog.FieldTemplate{}
}
