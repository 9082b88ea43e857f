package query

import (
	"fmt"
	"strings"
	"time"
)

// Kind is the comparable shape of a field value.
type Kind int

const (
	KindString Kind = iota + 1
	KindNumber
	KindBool
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	default:
		return "unknown"
	}
}

// orderable reports whether <, <=, > and >= make sense for the kind.
func (k Kind) orderable() bool {
	return k == KindString || k == KindNumber || k == KindTime
}

// Field binds a public field name to an accessor on T and, for SQL-backed
// stores, to a column. Get returns string, float64, bool, time.Time or nil.
type Field[T any] struct {
	Name   string
	Column string
	Kind   Kind
	Get    func(T) any
}

// String declares a text field.
func String[T any](name, column string, get func(T) string) Field[T] {
	return Field[T]{Name: name, Column: column, Kind: KindString, Get: func(r T) any { return get(r) }}
}

// Int declares an integer field. Integers are compared as numbers, so a
// filter value of "5" or 5.0 matches 5.
func Int[T any](name, column string, get func(T) int64) Field[T] {
	return Field[T]{Name: name, Column: column, Kind: KindNumber, Get: func(r T) any { return float64(get(r)) }}
}

// Float declares a floating point field.
func Float[T any](name, column string, get func(T) float64) Field[T] {
	return Field[T]{Name: name, Column: column, Kind: KindNumber, Get: func(r T) any { return get(r) }}
}

// Bool declares a boolean field. Bool fields only support Equal and NotEqual.
func Bool[T any](name, column string, get func(T) bool) Field[T] {
	return Field[T]{Name: name, Column: column, Kind: KindBool, Get: func(r T) any { return get(r) }}
}

// Time declares a nullable timestamp field.
func Time[T any](name, column string, get func(T) *time.Time) Field[T] {
	return Field[T]{Name: name, Column: column, Kind: KindTime, Get: func(r T) any {
		if t := get(r); t != nil {
			return *t
		}
		return nil
	}}
}

// FieldSet is the per-entity lookup table from field name to accessor.
// Names are matched case-insensitively. A FieldSet is read-only after
// construction and safe for concurrent use.
type FieldSet[T any] struct {
	byName  map[string]Field[T]
	order   []string
	primary string
}

// NewFieldSet builds the table once, typically at package init. It panics on
// empty or duplicate names and when primary is not one of the fields: those
// are programming errors in the entity declaration, not request errors.
func NewFieldSet[T any](primary string, fields ...Field[T]) *FieldSet[T] {
	fs := &FieldSet[T]{byName: make(map[string]Field[T], len(fields))}
	for _, f := range fields {
		key := strings.ToLower(strings.TrimSpace(f.Name))
		if key == "" || f.Get == nil || f.Kind == 0 {
			panic(fmt.Sprintf("query: incomplete field declaration %q", f.Name))
		}
		if _, dup := fs.byName[key]; dup {
			panic(fmt.Sprintf("query: duplicate field %q", f.Name))
		}
		fs.byName[key] = f
		fs.order = append(fs.order, f.Name)
	}
	if _, ok := fs.byName[strings.ToLower(primary)]; !ok {
		panic(fmt.Sprintf("query: primary field %q is not declared", primary))
	}
	fs.primary = strings.ToLower(primary)
	return fs
}

// Lookup resolves a field by name.
func (s *FieldSet[T]) Lookup(name string) (Field[T], error) {
	f, ok := s.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Field[T]{}, fieldNotFound(name)
	}
	return f, nil
}

// Primary returns the identifier field used as the default sort key.
func (s *FieldSet[T]) Primary() Field[T] { return s.byName[s.primary] }

// Names lists the declared field names in declaration order.
func (s *FieldSet[T]) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
