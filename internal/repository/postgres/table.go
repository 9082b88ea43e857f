package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/catalog-service/internal/query"
	"github.com/maxviazov/catalog-service/internal/repository"
)

// scanFunc reads one row of the table's column list, followed by extra
// destinations (used for the window total).
type scanFunc[T any] func(row pgx.Row, extra ...any) (T, error)

// table implements the entity-agnostic half of repository.Store on top of a
// single Postgres table. Entity repositories embed it and add their own
// INSERT/UPDATE statements.
type table[T any] struct {
	pool    *pgxpool.Pool
	name    string
	columns string
	primary string
	fields  *query.FieldSet[T]
	scan    scanFunc[T]
}

func (t *table[T]) GetByID(ctx context.Context, id int64) (T, error) {
	var zero T
	if err := ensurePool(t.pool); err != nil {
		return zero, err
	}
	row := getQ(ctx, t.pool).QueryRow(ctx,
		"SELECT "+t.columns+" FROM "+t.name+" WHERE "+t.primary+" = $1", id)
	out, err := t.scan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, repository.ErrNotFound
		}
		return zero, repository.MapPgError(err)
	}
	return out, nil
}

func (t *table[T]) List(ctx context.Context) ([]T, error) {
	if err := ensurePool(t.pool); err != nil {
		return nil, err
	}
	rows, err := getQ(ctx, t.pool).Query(ctx,
		"SELECT "+t.columns+" FROM "+t.name+" ORDER BY "+t.primary)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()
	out := make([]T, 0)
	for rows.Next() {
		v, err := t.scan(rows)
		if err != nil {
			return nil, repository.MapPgError(err)
		}
		out = append(out, v)
	}
	return out, repository.MapPgError(rows.Err())
}

func (t *table[T]) Delete(ctx context.Context, id int64) error {
	if err := ensurePool(t.pool); err != nil {
		return err
	}
	tag, err := getQ(ctx, t.pool).Exec(ctx, "DELETE FROM "+t.name+" WHERE "+t.primary+" = $1", id)
	if err != nil {
		return repository.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// GetPaginated pushes filter, sort, limit and offset down into one query.
// The total rides along as a window count; only when the page lands past
// the end (no rows to carry it) is a second COUNT issued.
func (t *table[T]) GetPaginated(ctx context.Context, p query.ListParams) (query.Page[T], error) {
	plan, err := query.Prepare(t.fields, p)
	if err != nil {
		return query.Page[T]{}, err
	}
	if err := ensurePool(t.pool); err != nil {
		return query.Page[T]{}, err
	}
	st := listStatement(t.name, t.columns, t.primary, plan)
	exec := getQ(ctx, t.pool)

	rows, err := exec.Query(ctx, st.list, st.args...)
	if err != nil {
		return query.Page[T]{}, repository.MapPgError(err)
	}
	defer rows.Close()
	items := make([]T, 0, plan.Page.Size)
	total := 0
	for rows.Next() {
		v, err := t.scan(rows, &total)
		if err != nil {
			return query.Page[T]{}, repository.MapPgError(err)
		}
		items = append(items, v)
	}
	if err := rows.Err(); err != nil {
		return query.Page[T]{}, repository.MapPgError(err)
	}

	if len(items) == 0 && plan.Page.Offset() > 0 {
		if err := exec.QueryRow(ctx, st.count, st.args[:st.whereArgs]...).Scan(&total); err != nil {
			return query.Page[T]{}, repository.MapPgError(err)
		}
	}
	return query.NewPage(items, total, plan.Page), nil
}

func (t *table[T]) ExistsBy(ctx context.Context, field string, value any) (bool, error) {
	return t.exists(ctx, field, value, nil)
}

func (t *table[T]) ExistsByExcludingID(ctx context.Context, id int64, field string, value any) (bool, error) {
	return t.exists(ctx, field, value, &id)
}

func (t *table[T]) exists(ctx context.Context, field string, value any, exclude *int64) (bool, error) {
	groups, err := query.Compile(t.fields, query.Criteria{query.Where(query.Filter{Field: field, Value: value, Comparator: query.Equal})})
	if err != nil {
		return false, err
	}
	if err := ensurePool(t.pool); err != nil {
		return false, err
	}
	var a args
	where := whereSQL(groups, &a)
	if exclude != nil {
		where += " AND " + t.primary + " <> " + a.add(*exclude)
	}
	var found bool
	err = getQ(ctx, t.pool).QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM "+t.name+" WHERE "+where+")", a...).Scan(&found)
	if err != nil {
		return false, repository.MapPgError(err)
	}
	return found, nil
}
