package query

import (
	"cmp"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Predicate is a boolean test over one record.
type Predicate[T any] func(T) bool

// Condition is a Filter resolved against a FieldSet: the field is known, the
// comparator is applicable and Value has been coerced to the field kind
// (string, float64, bool, time.Time, or nil for a null check).
type Condition[T any] struct {
	Field      Field[T]
	Comparator Comparator
	Value      any
	// Never is set for ordered comparisons on fields that have no order;
	// such a condition matches nothing.
	Never bool
}

// Compile resolves criteria into conditions, grouped the same way. Empty
// groups are dropped. All validation happens here so that matching itself
// cannot fail.
func Compile[T any](fields *FieldSet[T], criteria Criteria) ([][]Condition[T], error) {
	out := make([][]Condition[T], 0, len(criteria))
	for _, g := range criteria {
		if len(g) == 0 {
			continue
		}
		conds := make([]Condition[T], 0, len(g))
		for _, f := range g {
			c, err := compileFilter(fields, f)
			if err != nil {
				return nil, err
			}
			conds = append(conds, c)
		}
		out = append(out, conds)
	}
	return out, nil
}

func compileFilter[T any](fields *FieldSet[T], f Filter) (Condition[T], error) {
	field, err := fields.Lookup(f.Field)
	if err != nil {
		return Condition[T]{}, err
	}
	if f.Comparator < Equal || f.Comparator > EndsWith {
		return Condition[T]{}, invalidArgument("unknown comparator %d on %q", int(f.Comparator), field.Name)
	}
	if f.Comparator.textual() && field.Kind != KindString {
		return Condition[T]{}, typeMismatch(field.Name, field.Kind, f.Comparator)
	}
	c := Condition[T]{Field: field, Comparator: f.Comparator}
	if f.Value == nil {
		if f.Comparator != Equal && f.Comparator != NotEqual {
			return Condition[T]{}, invalidArgument("%s on %q requires a value", f.Comparator, field.Name)
		}
		return c, nil
	}
	if f.Comparator.ordered() && !field.Kind.orderable() {
		c.Never = true
		return c, nil
	}
	v, err := coerce(field.Kind, f.Value)
	if err != nil {
		return Condition[T]{}, invalidArgument("value %v for %q: %v", f.Value, field.Name, err)
	}
	c.Value = v
	return c, nil
}

// coerce converts a filter value to the canonical representation of kind.
// Numeric strings become numbers for numeric fields.
func coerce(kind Kind, v any) (any, error) {
	switch kind {
	case KindString:
		return cast.ToStringE(v)
	case KindNumber:
		if s, ok := v.(string); ok {
			s = strings.TrimSpace(s)
			if s == "" {
				return nil, invalidArgument("empty number")
			}
			v = s
		}
		return cast.ToFloat64E(v)
	case KindBool:
		return cast.ToBoolE(v)
	case KindTime:
		return cast.ToTimeE(v)
	default:
		return nil, invalidArgument("unsupported kind %s", kind)
	}
}

// Match reports whether record r satisfies the condition.
func (c Condition[T]) Match(r T) bool {
	if c.Never {
		return false
	}
	v := c.Field.Get(r)
	if v == nil || c.Value == nil {
		switch c.Comparator {
		case Equal:
			return v == nil && c.Value == nil
		case NotEqual:
			return v != nil || c.Value != nil
		default:
			return false
		}
	}
	switch c.Comparator {
	case Contains:
		return strings.Contains(strings.ToLower(v.(string)), strings.ToLower(c.Value.(string)))
	case StartsWith:
		return strings.HasPrefix(strings.ToLower(v.(string)), strings.ToLower(c.Value.(string)))
	case EndsWith:
		return strings.HasSuffix(strings.ToLower(v.(string)), strings.ToLower(c.Value.(string)))
	}
	n := compareValues(c.Field.Kind, v, c.Value)
	switch c.Comparator {
	case Equal:
		return n == 0
	case NotEqual:
		return n != 0
	case LessThan:
		return n < 0
	case LessThanOrEqual:
		return n <= 0
	case GreaterThan:
		return n > 0
	case GreaterThanOrEqual:
		return n >= 0
	}
	return false
}

// compareValues orders two values of the same kind. nil sorts before any
// value. Strings compare case-insensitively.
func compareValues(kind Kind, a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	switch kind {
	case KindString:
		return strings.Compare(strings.ToLower(a.(string)), strings.ToLower(b.(string)))
	case KindNumber:
		return cmp.Compare(a.(float64), b.(float64))
	case KindBool:
		x, y := a.(bool), b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		default:
			return 1
		}
	case KindTime:
		return a.(time.Time).Compare(b.(time.Time))
	}
	return 0
}

func matchAny[T any](conds []Condition[T], r T) bool {
	for _, c := range conds {
		if c.Match(r) {
			return true
		}
	}
	return false
}

// Build compiles criteria into a predicate. The predicate holds no mutable
// state and may be shared across goroutines.
func Build[T any](fields *FieldSet[T], criteria Criteria) (Predicate[T], error) {
	groups, err := Compile(fields, criteria)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return func(T) bool { return true }, nil
	}
	return func(r T) bool {
		for _, g := range groups {
			if !matchAny(g, r) {
				return false
			}
		}
		return true
	}, nil
}

// Apply returns the records accepted by p, in input order. The input slice
// is left untouched.
func Apply[T any](items []T, p Predicate[T]) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if p(it) {
			out = append(out, it)
		}
	}
	return out
}
