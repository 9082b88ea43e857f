package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/maxviazov/catalog-service/internal/cache"
	"github.com/maxviazov/catalog-service/internal/model"
	"github.com/maxviazov/catalog-service/internal/query"
	"github.com/maxviazov/catalog-service/internal/repository"
)

// ProductInput is the writable part of a product.
type ProductInput struct {
	Code        string  `json:"code" validate:"required,min=2,max=8"`
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Price       float64 `json:"price" validate:"gte=0"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
	Description string  `json:"description" validate:"max=350"`
	IsActive    *bool   `json:"is_active"`
}

func (in *ProductInput) normalize() {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
}

// ProductUpdate carries the id of the product being replaced.
type ProductUpdate struct {
	ID int64 `json:"id" validate:"gt=0"`
	ProductInput
}

// productService holds product use-case logic: validation + orchestration, no transport / SQL details.
type productService struct {
	repo  repository.ProductRepository
	tx    repository.TxManager
	cache *cache.Lookup[model.Product]
	log   zerolog.Logger
	now   func() time.Time
}

func NewProductService(repo repository.ProductRepository, tx repository.TxManager, lookup *cache.Lookup[model.Product], logger zerolog.Logger) ProductService {
	l := logger.With().Str("module", "service").Str("component", "product").Logger()
	return &productService{repo: repo, tx: tx, cache: lookup, log: l, now: time.Now}
}

func (s *productService) GetPaginated(ctx context.Context, q PageQuery) (query.Page[model.Product], error) {
	p, err := listParams(q, model.ProductSearchText, model.ProductSearchNumeric)
	if err != nil {
		return query.Page[model.Product]{}, err
	}
	res, err := s.repo.GetPaginated(ctx, p)
	if err != nil {
		s.log.Debug().Err(err).Int("page", q.PageNumber).Int("size", q.PageSize).Str("sort_by", q.SortBy).Msg("list products failed")
		return query.Page[model.Product]{}, err
	}
	return res, nil
}

func (s *productService) GetAll(ctx context.Context) ([]model.Product, error) {
	return s.repo.List(ctx)
}

func (s *productService) GetByID(ctx context.Context, id int64) (model.Product, error) {
	if err := requirePositiveID(id); err != nil {
		return model.Product{}, err
	}
	return s.cache.Get(ctx, id, func(ctx context.Context) (model.Product, error) {
		return s.repo.GetByID(ctx, id)
	})
}

func (s *productService) Create(ctx context.Context, in ProductInput) (model.Product, error) {
	start := time.Now()
	in.normalize()
	if err := validateInput(in); err != nil {
		s.log.Debug().Interface("field_errors", FieldErrors(err)).Msg("product validation failed")
		return model.Product{}, err
	}

	now := s.now().UTC()
	p := model.Product{
		Code:        in.Code,
		Name:        in.Name,
		Price:       in.Price,
		Quantity:    in.Quantity,
		Description: in.Description,
		IsActive:    boolOr(in.IsActive, true),
		Audit:       model.Audit{EntryBy: ActorFrom(ctx), EntryDate: &now},
	}

	var out model.Product
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.checkUnique(ctx, 0, in); err != nil {
			return err
		}
		var err error
		out, err = s.repo.Create(ctx, p)
		return err
	})
	if err != nil {
		s.log.Error().Err(err).Str("code", in.Code).Str("name", in.Name).Msg("create product failed")
		return model.Product{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Int64("product_id", out.ID).Msg("product created")
	return out, nil
}

func (s *productService) Update(ctx context.Context, in ProductUpdate) (model.Product, error) {
	in.normalize()
	if err := validateInput(in); err != nil {
		s.log.Debug().Interface("field_errors", FieldErrors(err)).Msg("product validation failed")
		return model.Product{}, err
	}

	var out model.Product
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetByID(ctx, in.ID)
		if err != nil {
			return err
		}
		if err := s.checkUnique(ctx, in.ID, in.ProductInput); err != nil {
			return err
		}
		now := s.now().UTC()
		current.Code = in.Code
		current.Name = in.Name
		current.Price = in.Price
		current.Quantity = in.Quantity
		current.Description = in.Description
		current.IsActive = boolOr(in.IsActive, current.IsActive)
		current.UpdatedBy = ActorFrom(ctx)
		current.UpdatedDate = &now
		out, err = s.repo.Update(ctx, current)
		return err
	})
	if err != nil {
		s.log.Error().Err(err).Int64("product_id", in.ID).Msg("update product failed")
		return model.Product{}, err
	}
	s.cache.Invalidate(in.ID)
	s.log.Info().Int64("product_id", out.ID).Msg("product updated")
	return out, nil
}

func (s *productService) Delete(ctx context.Context, id int64) error {
	if err := requirePositiveID(id); err != nil {
		return err
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		s.log.Error().Err(err).Int64("product_id", id).Msg("delete product failed")
		return err
	}
	s.cache.Invalidate(id)
	s.log.Info().Int64("product_id", id).Msg("product deleted")
	return nil
}

func (s *productService) PriceCheck(ctx context.Context, id int64) (float64, error) {
	if err := requirePositiveID(id); err != nil {
		return 0, err
	}
	return s.repo.PriceCheck(ctx, id)
}

func (s *productService) checkUnique(ctx context.Context, excludeID int64, in ProductInput) error {
	return checkUnique[model.Product](ctx, s.repo, "product", excludeID,
		unique{field: "Name", json: "name", value: in.Name},
		unique{field: "Code", json: "code", value: in.Code},
	)
}
