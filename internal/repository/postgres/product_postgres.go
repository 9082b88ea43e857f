package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/catalog-service/internal/model"
	"github.com/maxviazov/catalog-service/internal/repository"
)

const productColumns = `id, code, name, price, quantity, description, is_active,
	entry_by, entry_date, updated_by, updated_date`

type productRepository struct {
	*table[model.Product]
}

func NewProductRepository(pool *pgxpool.Pool) repository.ProductRepository {
	return &productRepository{table: &table[model.Product]{
		pool:    pool,
		name:    "products",
		columns: productColumns,
		primary: "id",
		fields:  model.ProductFields,
		scan:    scanProduct,
	}}
}

func scanProduct(row pgx.Row, extra ...any) (model.Product, error) {
	var p model.Product
	dest := append([]any{
		&p.ID, &p.Code, &p.Name, &p.Price, &p.Quantity, &p.Description, &p.IsActive,
		&p.EntryBy, &p.EntryDate, &p.UpdatedBy, &p.UpdatedDate,
	}, extra...)
	err := row.Scan(dest...)
	return p, err
}

func (r *productRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Product{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO products (code, name, price, quantity, description, is_active, entry_by, entry_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, now()))
		 RETURNING `+productColumns,
		p.Code, p.Name, p.Price, p.Quantity, p.Description, p.IsActive, p.EntryBy, p.EntryDate,
	)
	out, err := scanProduct(row)
	if err != nil {
		return model.Product{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *productRepository) Update(ctx context.Context, p model.Product) (model.Product, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Product{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`UPDATE products
		 SET code = $2, name = $3, price = $4, quantity = $5, description = $6, is_active = $7,
		     updated_by = $8, updated_date = COALESCE($9, now())
		 WHERE id = $1
		 RETURNING `+productColumns,
		p.ID, p.Code, p.Name, p.Price, p.Quantity, p.Description, p.IsActive, p.UpdatedBy, p.UpdatedDate,
	)
	out, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Product{}, repository.ErrNotFound
		}
		return model.Product{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *productRepository) PriceCheck(ctx context.Context, id int64) (float64, error) {
	if err := ensurePool(r.pool); err != nil {
		return 0, err
	}
	var price float64
	err := getQ(ctx, r.pool).QueryRow(ctx, `SELECT price FROM products WHERE id = $1`, id).Scan(&price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, repository.ErrNotFound
		}
		return 0, repository.MapPgError(err)
	}
	return price, nil
}

var _ repository.ProductRepository = (*productRepository)(nil)
