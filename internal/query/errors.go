// Package query holds the listing pipeline shared by every repository:
// field resolution, predicate building, stable sorting and page slicing.
// Everything here is pure; repositories compose the pieces explicitly.
package query

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to callers. Match them with errors.Is; the concrete
// error carries the offending field or argument in its message.
var (
	ErrFieldNotFound   = errors.New("field not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrTypeMismatch    = errors.New("type mismatch")
)

func fieldNotFound(name string) error {
	return fmt.Errorf("%w: %q", ErrFieldNotFound, name)
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func typeMismatch(field string, kind Kind, c Comparator) error {
	return fmt.Errorf("%w: %s is not applicable to %s field %q", ErrTypeMismatch, c, kind, field)
}
