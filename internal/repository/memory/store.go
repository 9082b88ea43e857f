// Package memory is an in-process implementation of the repository
// contracts. It backs the "memory" storage driver and the service tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/maxviazov/catalog-service/internal/query"
	"github.com/maxviazov/catalog-service/internal/repository"
)

// Store keeps records of T in insertion order, which is also ascending id
// order. Rows pass through clone on the way in and out, so callers never
// share memory with a stored row.
type Store[T any] struct {
	mu     sync.RWMutex
	fields *query.FieldSet[T]
	idOf   func(T) int64
	withID func(T, int64) T
	clone  func(T) T
	unique []string
	rows   []T
	nextID int64
}

// NewStore builds a store for T. clone must return a deep copy. unique names
// fields that behave like a unique index: Create and Update fail with
// repository.ErrAlreadyExists when another record holds an equal value.
func NewStore[T any](fields *query.FieldSet[T], idOf func(T) int64, withID func(T, int64) T, clone func(T) T, unique ...string) *Store[T] {
	for _, u := range unique {
		if _, err := fields.Lookup(u); err != nil {
			panic(fmt.Sprintf("memory: unique %v", err))
		}
	}
	return &Store[T]{fields: fields, idOf: idOf, withID: withID, clone: clone, unique: unique, nextID: 1}
}

func (s *Store[T]) indexOf(id int64) int {
	return slices.IndexFunc(s.rows, func(r T) bool { return s.idOf(r) == id })
}

// violates reports whether v collides with another row on a unique field.
// Callers hold the lock.
func (s *Store[T]) violates(v T, selfID int64) (bool, error) {
	for _, u := range s.unique {
		f, _ := s.fields.Lookup(u)
		p, err := query.Build(s.fields, query.Criteria{query.Where(query.Filter{Field: u, Value: f.Get(v), Comparator: query.Equal})})
		if err != nil {
			return false, err
		}
		for _, r := range s.rows {
			if s.idOf(r) != selfID && p(r) {
				return true, nil
			}
		}
	}
	return false, nil
}

func (s *Store[T]) Create(ctx context.Context, v T) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	dup, err := s.violates(v, 0)
	if err != nil {
		return zero, err
	}
	if dup {
		return zero, repository.ErrAlreadyExists
	}
	v = s.withID(s.clone(v), s.nextID)
	s.nextID++
	s.rows = append(s.rows, v)
	return s.clone(v), nil
}

func (s *Store[T]) GetByID(ctx context.Context, id int64) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return zero, repository.ErrNotFound
	}
	return s.clone(s.rows[i]), nil
}

func (s *Store[T]) Update(ctx context.Context, v T) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.idOf(v)
	i := s.indexOf(id)
	if i < 0 {
		return zero, repository.ErrNotFound
	}
	dup, err := s.violates(v, id)
	if err != nil {
		return zero, err
	}
	if dup {
		return zero, repository.ErrAlreadyExists
	}
	s.rows[i] = s.clone(v)
	return s.clone(v), nil
}

func (s *Store[T]) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return repository.ErrNotFound
	}
	s.rows = slices.Delete(s.rows, i, i+1)
	return nil
}

func (s *Store[T]) List(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.rows))
	for i, r := range s.rows {
		out[i] = s.clone(r)
	}
	return out, nil
}

// GetPaginated validates p before taking the lock, then runs filter, sort
// and paginate over a snapshot.
func (s *Store[T]) GetPaginated(ctx context.Context, p query.ListParams) (query.Page[T], error) {
	plan, err := query.Prepare(s.fields, p)
	if err != nil {
		return query.Page[T]{}, err
	}
	snapshot, err := s.List(ctx)
	if err != nil {
		return query.Page[T]{}, err
	}
	return plan.Execute(snapshot), nil
}

func (s *Store[T]) ExistsBy(ctx context.Context, field string, value any) (bool, error) {
	return s.exists(ctx, field, value, nil)
}

func (s *Store[T]) ExistsByExcludingID(ctx context.Context, id int64, field string, value any) (bool, error) {
	return s.exists(ctx, field, value, &id)
}

func (s *Store[T]) exists(ctx context.Context, field string, value any, exclude *int64) (bool, error) {
	p, err := query.Build(s.fields, query.Criteria{query.Where(query.Filter{Field: field, Value: value, Comparator: query.Equal})})
	if err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.rows {
		if exclude != nil && s.idOf(r) == *exclude {
			continue
		}
		if p(r) {
			return true, nil
		}
	}
	return false, nil
}

// Pinger satisfies readiness checks for the memory driver.
type Pinger struct{}

func (Pinger) Ping(ctx context.Context) error { return ctx.Err() }
