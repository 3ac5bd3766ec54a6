// Package draft holds the ordered, session-lived list of fields placed on a
// form. A FormDraft only grows: there is no removal, reordering or clear
// operation, and a fresh draft is obtained by creating a new one.
package draft

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-formbuilder/pkg/catalog"
)

var (
	// ErrDuplicateID is returned when appending a field whose id is already
	// present in the draft.
	ErrDuplicateID = errors.New("draft: duplicate field id")
	// ErrInvalidField wraps PlacedField validation failures.
	ErrInvalidField = errors.New("draft: invalid field")
)

// IDGenerator produces identifiers for placed fields.
type IDGenerator func() string

// NewUUID generates a random (v4) UUID string.
func NewUUID() string {
	return uuid.NewString()
}

// PlacedField is a concrete field added to a draft.
type PlacedField struct {
	ID       string            `json:"id"`
	Kind     catalog.FieldKind `json:"kind"`
	Label    string            `json:"label"`
	Required bool              `json:"required"`
	Options  []string          `json:"options,omitempty"`
}

// Validate checks the invariants every placed field must satisfy.
func (f PlacedField) Validate() error {
	if strings.TrimSpace(f.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidField)
	}
	if !f.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidField, f.Kind)
	}
	if strings.TrimSpace(f.Label) == "" {
		return fmt.Errorf("%w: label is required", ErrInvalidField)
	}
	if len(f.Options) > 0 && !f.Kind.HasOptions() {
		return fmt.Errorf("%w: options are only allowed for select", ErrInvalidField)
	}
	return nil
}

func (f PlacedField) clone() PlacedField {
	out := f
	if f.Options != nil {
		out.Options = append([]string{}, f.Options...)
	}
	return out
}

// FormDraft is the append-only sequence of placed fields. Insertion order is
// display order. It is safe for concurrent use.
type FormDraft struct {
	mu     sync.RWMutex
	fields []PlacedField
	ids    map[string]struct{}
}

// New returns an empty draft.
func New() *FormDraft {
	return &FormDraft{ids: make(map[string]struct{})}
}

// Append validates field and adds it as the last element.
func (d *FormDraft) Append(field PlacedField) error {
	if err := field.Validate(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ids == nil {
		d.ids = make(map[string]struct{})
	}
	if _, exists := d.ids[field.ID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateID, field.ID)
	}
	d.ids[field.ID] = struct{}{}
	d.fields = append(d.fields, field.clone())
	return nil
}

// Fields returns a copy of the placed fields in display order.
func (d *FormDraft) Fields() []PlacedField {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]PlacedField, len(d.fields))
	for i, field := range d.fields {
		out[i] = field.clone()
	}
	return out
}

// Contains reports whether a field with id was placed.
func (d *FormDraft) Contains(id string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	_, ok := d.ids[id]
	return ok
}

func (d *FormDraft) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.fields)
}

func (d *FormDraft) Empty() bool {
	return d.Len() == 0
}
