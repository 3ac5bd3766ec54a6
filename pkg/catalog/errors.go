package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownKind is returned for identifiers outside the closed kind set.
	ErrUnknownKind = errors.New("catalog: unknown field kind")
	// ErrInvalidTemplate wraps template validation failures.
	ErrInvalidTemplate = errors.New("catalog: invalid template")
	// ErrDuplicateKind signals two templates sharing the same kind.
	ErrDuplicateKind = errors.New("catalog: duplicate kind")
	// ErrNotFound is returned by Lookup for kinds absent from the catalog.
	ErrNotFound = errors.New("catalog: template not found")
)

func invalidTemplate(kind FieldKind, reason string) error {
	return fmt.Errorf("%w %q: %s", ErrInvalidTemplate, kind, reason)
}
