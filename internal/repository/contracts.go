package repository

import (
	"context"

	"github.com/maxviazov/catalog-service/internal/model"
	"github.com/maxviazov/catalog-service/internal/query"
)

// Pinger represents a minimal readiness probe capability.
// I use it to decouple health checks from storage implementation details.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TxFunc is the unit of work executed within a transaction boundary.
// I pass context through so nested calls can honor cancellations and deadlines.
type TxFunc func(ctx context.Context) error

// TxManager abstracts transactional execution for repositories that support it.
// I prefer a single entry point to keep transaction boundaries explicit and testable.
type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// Store is the persistence surface every entity repository offers.
// Methods are plain data-store calls: not-found and duplicate guarding is the
// caller's job, although Update and Delete still report ErrNotFound when the
// row is gone and unique indexes still surface ErrAlreadyExists.
type Store[T any] interface {
	Create(ctx context.Context, v T) (T, error)
	GetByID(ctx context.Context, id int64) (T, error)
	Update(ctx context.Context, v T) (T, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]T, error)
	// GetPaginated filters, sorts and pages in that order. Query errors
	// (query.ErrFieldNotFound and friends) are returned unchanged.
	GetPaginated(ctx context.Context, p query.ListParams) (query.Page[T], error)
	// ExistsBy reports whether any record has field equal to value, using
	// the same equality as query.Equal (case-insensitive for text).
	ExistsBy(ctx context.Context, field string, value any) (bool, error)
	// ExistsByExcludingID is ExistsBy ignoring the record with the given id.
	ExistsByExcludingID(ctx context.Context, id int64, field string, value any) (bool, error)
}

// ProductRepository declares persistence operations for products.
type ProductRepository interface {
	Store[model.Product]
	// PriceCheck reads only the price of a product.
	PriceCheck(ctx context.Context, id int64) (float64, error)
}

// RoleRepository declares persistence operations for roles.
type RoleRepository interface {
	Store[model.Role]
}
