package query

import (
	"slices"
	"strings"

	"github.com/spf13/cast"
)

// Comparator is the operator of a single filter.
type Comparator int

const (
	Equal Comparator = iota
	NotEqual
	LessThan
	LessThanOrEqual
	GreaterThan
	GreaterThanOrEqual
	Contains
	StartsWith
	EndsWith
)

var comparatorNames = [...]string{
	Equal:              "==",
	NotEqual:           "!=",
	LessThan:           "<",
	LessThanOrEqual:    "<=",
	GreaterThan:        ">",
	GreaterThanOrEqual: ">=",
	Contains:           "contains",
	StartsWith:         "startswith",
	EndsWith:           "endswith",
}

func (c Comparator) String() string {
	if c < Equal || c > EndsWith {
		return "unknown"
	}
	return comparatorNames[c]
}

func (c Comparator) ordered() bool {
	return c >= LessThan && c <= GreaterThanOrEqual
}

func (c Comparator) textual() bool {
	return c >= Contains && c <= EndsWith
}

var comparatorAliases = map[string]Comparator{
	"==": Equal, "=": Equal, "eq": Equal, "equal": Equal,
	"!=": NotEqual, "<>": NotEqual, "ne": NotEqual, "neq": NotEqual, "notequal": NotEqual,
	"<": LessThan, "lt": LessThan, "lessthan": LessThan,
	"<=": LessThanOrEqual, "lte": LessThanOrEqual, "le": LessThanOrEqual, "lessthanorequal": LessThanOrEqual,
	">": GreaterThan, "gt": GreaterThan, "greaterthan": GreaterThan,
	">=": GreaterThanOrEqual, "gte": GreaterThanOrEqual, "ge": GreaterThanOrEqual, "greaterthanorequal": GreaterThanOrEqual,
	"contains": Contains, "like": Contains,
	"startswith": StartsWith, "prefix": StartsWith,
	"endswith": EndsWith, "suffix": EndsWith,
}

// ParseComparator accepts symbols (">=") as well as names ("gte", "StartsWith").
func ParseComparator(s string) (Comparator, error) {
	c, ok := comparatorAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, invalidArgument("unknown comparator %q", s)
	}
	return c, nil
}

// Filter describes one predicate. It is a value type; build a new one rather
// than mutating a shared instance.
type Filter struct {
	Field      string
	Value      any
	Comparator Comparator
}

// ParseFilter reads the "field:comparator:value" form used by list endpoints.
// The value is everything after the second colon and stays a string; it is
// coerced to the field type when the filter is compiled.
func ParseFilter(s string) (Filter, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 || strings.TrimSpace(parts[0]) == "" {
		return Filter{}, invalidArgument("filter %q must look like field:comparator:value", s)
	}
	c, err := ParseComparator(parts[1])
	if err != nil {
		return Filter{}, err
	}
	return Filter{Field: strings.TrimSpace(parts[0]), Comparator: c, Value: parts[2]}, nil
}

// Group is a disjunction: a record matches when any filter matches.
// An empty group places no constraint.
type Group []Filter

// Criteria is a conjunction of groups: a record matches when every group
// matches. Empty criteria accept every record.
type Criteria []Group

// Where wraps a single filter into its own group.
func Where(f Filter) Group { return Group{f} }

// Or groups filters so that any of them may match.
func Or(filters ...Filter) Group { return Group(slices.Clone(filters)) }

// And returns a new Criteria with groups appended, skipping empty ones.
// c itself is never written to, so one base can be extended many times.
func (c Criteria) And(groups ...Group) Criteria {
	out := c[:len(c):len(c)]
	for _, g := range groups {
		if len(g) > 0 {
			out = append(out, g)
		}
	}
	return out
}

// SearchGroup expands a free-text search term into one OR group: a
// case-insensitive Contains over every text field, plus Equal over every
// numeric field when the term parses as a number. A blank term yields an
// empty group.
func SearchGroup(term string, textFields, numericFields []string) Group {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}
	g := make(Group, 0, len(textFields)+len(numericFields))
	for _, f := range textFields {
		g = append(g, Filter{Field: f, Value: term, Comparator: Contains})
	}
	if n, err := cast.ToFloat64E(term); err == nil {
		for _, f := range numericFields {
			g = append(g, Filter{Field: f, Value: n, Comparator: Equal})
		}
	}
	return g
}
