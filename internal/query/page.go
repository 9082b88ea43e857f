package query

import "math"

// Default page parameters used when a caller omits them.
const (
	DefaultPageNumber = 1
	DefaultPageSize   = 10
	MaxPageSize       = 500
)

// PageRequest selects a 1-based page.
type PageRequest struct {
	Number int
	Size   int
}

// Normalize clamps Number to at least 1 and rejects a non-positive Size.
// Sizes above MaxPageSize are rejected too, so a single request cannot
// pull an unbounded window.
func (r PageRequest) Normalize() (PageRequest, error) {
	if r.Size <= 0 {
		return PageRequest{}, invalidArgument("page size must be > 0, got %d", r.Size)
	}
	if r.Size > MaxPageSize {
		return PageRequest{}, invalidArgument("page size must be <= %d, got %d", MaxPageSize, r.Size)
	}
	if r.Number < 1 {
		r.Number = 1
	}
	return r, nil
}

// Offset is the number of records preceding the page. Call it on a
// normalized request. It saturates instead of overflowing for absurd page
// numbers, which then simply land past the end.
func (r PageRequest) Offset() int {
	if r.Number-1 > math.MaxInt/r.Size {
		return math.MaxInt
	}
	return (r.Number - 1) * r.Size
}

// Page is a bounded slice of a filtered and sorted collection.
// TotalCount is the size of the filtered set before slicing.
type Page[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"total_count"`
	PageNumber int `json:"page_number"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// NewPage assembles a page from an already sliced window. Items is never nil
// so the JSON form is always an array.
func NewPage[T any](items []T, total int, r PageRequest) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if r.Size > 0 {
		pages = (total + r.Size - 1) / r.Size
	}
	return Page[T]{Items: items, TotalCount: total, PageNumber: r.Number, PageSize: r.Size, TotalPages: pages}
}

// Paginate slices items into the requested page. A page past the end is
// empty, not an error.
func Paginate[T any](items []T, pageNumber, pageSize int) (Page[T], error) {
	r, err := PageRequest{Number: pageNumber, Size: pageSize}.Normalize()
	if err != nil {
		return Page[T]{}, err
	}
	return window(items, r), nil
}

func window[T any](items []T, r PageRequest) Page[T] {
	total := len(items)
	start := r.Offset()
	if start >= total {
		return NewPage[T](nil, total, r)
	}
	end := min(start+r.Size, total)
	out := make([]T, end-start)
	copy(out, items[start:end])
	return NewPage(out, total, r)
}
