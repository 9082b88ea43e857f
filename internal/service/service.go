// Package service holds business logic orchestration across repositories and handlers.
// Kept intentionally lean: only use-case coordination, validation and domain error shaping.
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/maxviazov/catalog-service/internal/model"
	"github.com/maxviazov/catalog-service/internal/query"
	"github.com/maxviazov/catalog-service/internal/repository"
)

// ErrInvalidInput is the marker error for aggregated validation failures (maps to HTTP 400).
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// NewInvalidInputError builds an aggregated validation error if any field errors are present.
func NewInvalidInputError(fe []FieldError) error {
	if len(fe) == 0 { // protective case
		return nil
	}
	return &invalidInputError{fields: fe}
}

// duplicateError names the fields that collide with an existing record and
// unwraps to repository.ErrAlreadyExists (HTTP 409).
type duplicateError struct {
	entity string
	fields []FieldError
}

func (e *duplicateError) Error() string {
	names := make([]string, 0, len(e.fields))
	for _, f := range e.fields {
		names = append(names, f.Field)
	}
	return e.entity + " with the same " + strings.Join(names, " and ") + " already exists"
}
func (e *duplicateError) Unwrap() error        { return repository.ErrAlreadyExists }
func (e *duplicateError) Fields() []FieldError { return e.fields }

// FieldErrors extracts field details from a validation or duplicate error.
func FieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	var fe interface{ Fields() []FieldError }
	if errors.As(err, &fe) {
		return fe.Fields()
	}
	return nil
}

// PageQuery is a listing request as a client states it. Search is matched
// against the entity's search fields; Filters are AND-ed with each other and
// with the search.
type PageQuery struct {
	PageNumber int
	PageSize   int
	Search     string
	SortBy     string
	SortOrder  string
	Filters    []query.Filter
}

// ProductService defines product use cases.
type ProductService interface {
	GetPaginated(ctx context.Context, q PageQuery) (query.Page[model.Product], error)
	GetAll(ctx context.Context) ([]model.Product, error)
	GetByID(ctx context.Context, id int64) (model.Product, error)
	Create(ctx context.Context, in ProductInput) (model.Product, error)
	Update(ctx context.Context, in ProductUpdate) (model.Product, error)
	Delete(ctx context.Context, id int64) error
	PriceCheck(ctx context.Context, id int64) (float64, error)
}

// RoleService defines role administration use cases.
type RoleService interface {
	GetPaginated(ctx context.Context, q PageQuery) (query.Page[model.Role], error)
	GetAll(ctx context.Context) ([]model.Role, error)
	GetByID(ctx context.Context, id int64) (model.Role, error)
	Create(ctx context.Context, in RoleInput) (model.Role, error)
	Update(ctx context.Context, in RoleUpdate) (model.Role, error)
	Delete(ctx context.Context, id int64) error
}

type actorKey struct{}

// WithActor records the id of the user performing the request; it ends up
// in the audit fields of whatever the request writes.
func WithActor(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

// ActorFrom returns the acting user id, or nil when the request is anonymous.
func ActorFrom(ctx context.Context) *int64 {
	if id, ok := ctx.Value(actorKey{}).(int64); ok {
		return &id
	}
	return nil
}
