package query

import (
	"slices"
	"strings"
)

// Direction is the sort order.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection accepts asc/desc in any case, plus the long forms.
// A blank value means Descending.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return Descending, nil
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return "", invalidArgument("unknown sort order %q", s)
	}
}

// Sort orders a listing. The zero value sorts by the primary field, descending.
type Sort struct {
	Field     string
	Direction Direction
}

// ResolvedSort is a Sort whose field has been looked up.
type ResolvedSort[T any] struct {
	Field      Field[T]
	Descending bool
}

// ResolveSort validates s against fields and fills in the defaults.
func ResolveSort[T any](fields *FieldSet[T], s Sort) (ResolvedSort[T], error) {
	f := fields.Primary()
	if strings.TrimSpace(s.Field) != "" {
		var err error
		if f, err = fields.Lookup(s.Field); err != nil {
			return ResolvedSort[T]{}, err
		}
	}
	dir, err := ParseDirection(string(s.Direction))
	if err != nil {
		return ResolvedSort[T]{}, err
	}
	return ResolvedSort[T]{Field: f, Descending: dir == Descending}, nil
}

// Apply returns a sorted copy of items. The sort is stable: records with
// equal keys keep their input order in both directions.
func (rs ResolvedSort[T]) Apply(items []T) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		n := compareValues(rs.Field.Kind, rs.Field.Get(a), rs.Field.Get(b))
		if rs.Descending {
			return -n
		}
		return n
	})
	return out
}

// ApplySort resolves s and applies it in one step.
func ApplySort[T any](fields *FieldSet[T], items []T, s Sort) ([]T, error) {
	rs, err := ResolveSort(fields, s)
	if err != nil {
		return nil, err
	}
	return rs.Apply(items), nil
}
