package query

// ListParams is everything a paginated listing needs.
type ListParams struct {
	Page     PageRequest
	Criteria Criteria
	Sort     Sort
}

// Plan is ListParams validated against a FieldSet. Building a plan first
// means a bad field, comparator or page size fails before any data is read.
type Plan[T any] struct {
	Groups [][]Condition[T]
	Sort   ResolvedSort[T]
	Page   PageRequest
}

// Prepare validates p. Errors are ErrFieldNotFound, ErrInvalidArgument or
// ErrTypeMismatch, returned unchanged to the caller.
func Prepare[T any](fields *FieldSet[T], p ListParams) (Plan[T], error) {
	groups, err := Compile(fields, p.Criteria)
	if err != nil {
		return Plan[T]{}, err
	}
	rs, err := ResolveSort(fields, p.Sort)
	if err != nil {
		return Plan[T]{}, err
	}
	page, err := p.Page.Normalize()
	if err != nil {
		return Plan[T]{}, err
	}
	return Plan[T]{Groups: groups, Sort: rs, Page: page}, nil
}

// Predicate returns the plan's filter as a predicate.
func (pl Plan[T]) Predicate() Predicate[T] {
	groups := pl.Groups
	return func(r T) bool {
		for _, g := range groups {
			if !matchAny(g, r) {
				return false
			}
		}
		return true
	}
}

// Execute runs filter, then sort, then paginate over an in-memory snapshot.
func (pl Plan[T]) Execute(items []T) Page[T] {
	filtered := Apply(items, pl.Predicate())
	sorted := pl.Sort.Apply(filtered)
	return window(sorted, pl.Page)
}

// Run prepares and executes p over items in one call.
func Run[T any](fields *FieldSet[T], items []T, p ListParams) (Page[T], error) {
	pl, err := Prepare(fields, p)
	if err != nil {
		return Page[T]{}, err
	}
	return pl.Execute(items), nil
}
