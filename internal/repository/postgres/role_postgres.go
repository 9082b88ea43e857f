package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/catalog-service/internal/model"
	"github.com/maxviazov/catalog-service/internal/repository"
)

const roleColumns = `id, name, normalized_name, code, is_active,
	entry_by, entry_date, updated_by, updated_date`

type roleRepository struct {
	*table[model.Role]
}

func NewRoleRepository(pool *pgxpool.Pool) repository.RoleRepository {
	return &roleRepository{table: &table[model.Role]{
		pool:    pool,
		name:    "roles",
		columns: roleColumns,
		primary: "id",
		fields:  model.RoleFields,
		scan:    scanRole,
	}}
}

func scanRole(row pgx.Row, extra ...any) (model.Role, error) {
	var r model.Role
	dest := append([]any{
		&r.ID, &r.Name, &r.NormalizedName, &r.Code, &r.IsActive,
		&r.EntryBy, &r.EntryDate, &r.UpdatedBy, &r.UpdatedDate,
	}, extra...)
	err := row.Scan(dest...)
	return r, err
}

func (r *roleRepository) Create(ctx context.Context, role model.Role) (model.Role, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Role{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO roles (name, normalized_name, code, is_active, entry_by, entry_date)
		 VALUES ($1, $2, $3, $4, $5, COALESCE($6, now()))
		 RETURNING `+roleColumns,
		role.Name, role.NormalizedName, role.Code, role.IsActive, role.EntryBy, role.EntryDate,
	)
	out, err := scanRole(row)
	if err != nil {
		return model.Role{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *roleRepository) Update(ctx context.Context, role model.Role) (model.Role, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Role{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`UPDATE roles
		 SET name = $2, normalized_name = $3, code = $4, is_active = $5,
		     updated_by = $6, updated_date = COALESCE($7, now())
		 WHERE id = $1
		 RETURNING `+roleColumns,
		role.ID, role.Name, role.NormalizedName, role.Code, role.IsActive, role.UpdatedBy, role.UpdatedDate,
	)
	out, err := scanRole(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Role{}, repository.ErrNotFound
		}
		return model.Role{}, repository.MapPgError(err)
	}
	return out, nil
}

var _ repository.RoleRepository = (*roleRepository)(nil)
