// Package contract holds behaviour suites every repository implementation
// must pass. The memory store runs them always; the Postgres store runs them
// when CONTRACT_TESTS=1.
package contract

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/maxviazov/catalog-service/internal/model"
	"github.com/maxviazov/catalog-service/internal/query"
	"github.com/maxviazov/catalog-service/internal/repository"
)

type ProductFactory func(t *testing.T) (repository.ProductRepository, func())

type RoleFactory func(t *testing.T) (repository.RoleRepository, func())

type TxFactory func(t *testing.T) (tx repository.TxManager, products repository.ProductRepository, cleanup func())

func newProduct(i int, name string) model.Product {
	return model.Product{
		Code:        fmt.Sprintf("P%04d", i),
		Name:        name,
		Price:       float64(i%5) + 0.5,
		Quantity:    i,
		Description: "seeded",
		IsActive:    i%2 == 0,
	}
}

func ids(ps []model.Product) []int64 {
	out := make([]int64, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func RunProductRepositoryContract(t *testing.T, makeRepo ProductFactory) {
	t.Helper()

	t.Run("create_and_get", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Create(ctx, newProduct(1, "Widget"))
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if created.ID == 0 {
			t.Fatalf("expected id to be assigned")
		}
		got, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got.ID != created.ID || got.Name != "Widget" || got.Code != "P0001" || got.Price != 1.5 {
			t.Fatalf("mismatch: %+v", got)
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.GetByID(context.Background(), 999999)
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("update_and_delete", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Create(ctx, newProduct(2, "Gadget"))
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		created.Price = 42
		created.Name = "Gadget XL"
		if _, err := repo.Update(ctx, created); err != nil {
			t.Fatalf("update: %v", err)
		}
		got, err := repo.GetByID(ctx, created.ID)
		if err != nil || got.Price != 42 || got.Name != "Gadget XL" {
			t.Fatalf("update not persisted: %+v err=%v", got, err)
		}
		if err := repo.Delete(ctx, created.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := repo.GetByID(ctx, created.ID); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}
		if err := repo.Delete(ctx, created.ID); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound on second delete, got %v", err)
		}
		if _, err := repo.Update(ctx, created); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound on update of deleted row, got %v", err)
		}
	})

	t.Run("duplicate_code_conflict", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		if _, err := repo.Create(ctx, newProduct(3, "First")); err != nil {
			t.Fatalf("seed: %v", err)
		}
		dup := newProduct(3, "Second")
		dup.Code = "p0003"
		if _, err := repo.Create(ctx, dup); !errors.Is(err, repository.ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("exists_by", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		a, err := repo.Create(ctx, newProduct(4, "Alpha"))
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		if ok, err := repo.ExistsBy(ctx, "Name", "alpha"); err != nil || !ok {
			t.Fatalf("expected Alpha to exist (case-insensitive), ok=%v err=%v", ok, err)
		}
		if ok, err := repo.ExistsBy(ctx, "Name", "Beta"); err != nil || ok {
			t.Fatalf("expected Beta to be absent, ok=%v err=%v", ok, err)
		}
		if ok, err := repo.ExistsByExcludingID(ctx, a.ID, "Name", "Alpha"); err != nil || ok {
			t.Fatalf("expected own row to be excluded, ok=%v err=%v", ok, err)
		}
		if ok, err := repo.ExistsByExcludingID(ctx, a.ID+1000, "Code", "P0004"); err != nil || !ok {
			t.Fatalf("expected other id to still see the code, ok=%v err=%v", ok, err)
		}
		if _, err := repo.ExistsBy(ctx, "Nonexistent", "x"); !errors.Is(err, query.ErrFieldNotFound) {
			t.Fatalf("expected ErrFieldNotFound, got %v", err)
		}
	})

	t.Run("paginated_filter_sort_page", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		var widgets []int64
		for i := 1; i <= 20; i++ {
			name := fmt.Sprintf("Thing %02d", i)
			if i%3 == 0 {
				name = fmt.Sprintf("Widget %02d", i)
			}
			p, err := repo.Create(ctx, newProduct(i, name))
			if err != nil {
				t.Fatalf("seed %d: %v", i, err)
			}
			if i%3 == 0 {
				widgets = append(widgets, p.ID)
			}
		}
		if len(widgets) != 6 {
			t.Fatalf("bad fixture: %d widgets", len(widgets))
		}
		contains := query.Criteria{query.Where(query.Filter{Field: "Name", Value: "widget", Comparator: query.Contains})}

		page, err := repo.GetPaginated(ctx, query.ListParams{
			Page:     query.PageRequest{Number: 2, Size: 4},
			Criteria: contains,
			Sort:     query.Sort{Field: "Id", Direction: query.Ascending},
		})
		if err != nil {
			t.Fatalf("paginate: %v", err)
		}
		if page.TotalCount != 6 || len(page.Items) != 2 || page.TotalPages != 2 {
			t.Fatalf("unexpected page: total=%d len=%d pages=%d", page.TotalCount, len(page.Items), page.TotalPages)
		}
		if got := ids(page.Items); got[0] != widgets[4] || got[1] != widgets[5] {
			t.Fatalf("unexpected ids %v, widgets %v", got, widgets)
		}

		beyond, err := repo.GetPaginated(ctx, query.ListParams{Page: query.PageRequest{Number: 9, Size: 4}, Criteria: contains})
		if err != nil {
			t.Fatalf("paginate beyond: %v", err)
		}
		if beyond.TotalCount != 6 || len(beyond.Items) != 0 {
			t.Fatalf("expected empty page with total 6, got total=%d len=%d", beyond.TotalCount, len(beyond.Items))
		}

		// Prices cycle 0.5..4.5; ties keep id order.
		byPrice, err := repo.GetPaginated(ctx, query.ListParams{
			Page: query.PageRequest{Number: 1, Size: 20},
			Sort: query.Sort{Field: "price", Direction: query.Ascending},
		})
		if err != nil {
			t.Fatalf("sort by price: %v", err)
		}
		for i := 1; i < len(byPrice.Items); i++ {
			prev, cur := byPrice.Items[i-1], byPrice.Items[i]
			if prev.Price > cur.Price || (prev.Price == cur.Price && prev.ID > cur.ID) {
				t.Fatalf("not sorted stably at %d: %+v then %+v", i, prev, cur)
			}
		}

		search := query.Criteria{query.SearchGroup("2.5", model.ProductSearchText, model.ProductSearchNumeric)}
		priced, err := repo.GetPaginated(ctx, query.ListParams{Page: query.PageRequest{Number: 1, Size: 50}, Criteria: search})
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if priced.TotalCount != 4 {
			t.Fatalf("expected 4 products priced 2.5, got %d", priced.TotalCount)
		}
	})

	t.Run("paginated_errors", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		if _, err := repo.Create(ctx, newProduct(1, "Only")); err != nil {
			t.Fatalf("seed: %v", err)
		}
		_, err := repo.GetPaginated(ctx, query.ListParams{Page: query.PageRequest{Number: 1, Size: 10}, Sort: query.Sort{Field: "Nonexistent"}})
		if !errors.Is(err, query.ErrFieldNotFound) {
			t.Fatalf("expected ErrFieldNotFound, got %v", err)
		}
		_, err = repo.GetPaginated(ctx, query.ListParams{Page: query.PageRequest{Number: 1, Size: 0}})
		if !errors.Is(err, query.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
		bad := query.Criteria{query.Where(query.Filter{Field: "Price", Value: "x", Comparator: query.Contains})}
		_, err = repo.GetPaginated(ctx, query.ListParams{Page: query.PageRequest{Number: 1, Size: 10}, Criteria: bad})
		if !errors.Is(err, query.ErrTypeMismatch) {
			t.Fatalf("expected ErrTypeMismatch, got %v", err)
		}
	})

	t.Run("price_check", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		p, err := repo.Create(ctx, newProduct(7, "Priced"))
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		price, err := repo.PriceCheck(ctx, p.ID)
		if err != nil || price != 2.5 {
			t.Fatalf("expected 2.5, got %v err=%v", price, err)
		}
		if _, err := repo.PriceCheck(ctx, p.ID+1000); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("canceled_context", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := repo.GetPaginated(ctx, query.ListParams{Page: query.PageRequest{Number: 1, Size: 10}}); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if _, err := repo.Create(ctx, newProduct(8, "Never")); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	})
}

func RunRoleRepositoryContract(t *testing.T, makeRepo RoleFactory) {
	t.Helper()

	t.Run("crud_roundtrip", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Create(ctx, model.Role{Name: "Auditor", NormalizedName: "AUDITOR", Code: "AUD", IsActive: true})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		created.Code = "AUDIT"
		if _, err := repo.Update(ctx, created); err != nil {
			t.Fatalf("update: %v", err)
		}
		got, err := repo.GetByID(ctx, created.ID)
		if err != nil || got.Code != "AUDIT" {
			t.Fatalf("unexpected role %+v err=%v", got, err)
		}
		all, err := repo.List(ctx)
		if err != nil || len(all) == 0 {
			t.Fatalf("list: len=%d err=%v", len(all), err)
		}
		if err := repo.Delete(ctx, created.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
	})

	t.Run("duplicate_name_conflict", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		if _, err := repo.Create(ctx, model.Role{Name: "Editor", NormalizedName: "EDITOR", Code: "EDT"}); err != nil {
			t.Fatalf("seed: %v", err)
		}
		_, err := repo.Create(ctx, model.Role{Name: "editor", NormalizedName: "EDITOR", Code: "EDT2"})
		if !errors.Is(err, repository.ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("paginated_search", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		for _, n := range []string{"Reviewer", "Reporter", "Operator"} {
			if _, err := repo.Create(ctx, model.Role{Name: n, NormalizedName: n, Code: n[:3] + "X"}); err != nil {
				t.Fatalf("seed %s: %v", n, err)
			}
		}
		res, err := repo.GetPaginated(ctx, query.ListParams{
			Page:     query.PageRequest{Number: 1, Size: 10},
			Criteria: query.Criteria{query.Where(query.Filter{Field: "Name", Value: "re", Comparator: query.StartsWith})},
			Sort:     query.Sort{Field: "Name", Direction: query.Ascending},
		})
		if err != nil {
			t.Fatalf("paginate: %v", err)
		}
		if res.TotalCount != 2 || res.Items[0].Name != "Reporter" || res.Items[1].Name != "Reviewer" {
			t.Fatalf("unexpected page %+v", res)
		}
	})
}

// RunTxContract checks that a failing unit of work surfaces its error.
func RunTxContract(t *testing.T, makeTx TxFactory) {
	t.Helper()

	t.Run("error_propagates", func(t *testing.T) {
		tx, _, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		boom := errors.New("boom")
		err := tx.WithinTx(context.Background(), func(ctx context.Context) error { return boom })
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
	})

	t.Run("commit_visible", func(t *testing.T) {
		tx, products, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		var id int64
		err := tx.WithinTx(context.Background(), func(ctx context.Context) error {
			p, err := products.Create(ctx, newProduct(9, "Committed"))
			id = p.ID
			return err
		})
		if err != nil {
			t.Fatalf("tx: %v", err)
		}
		if _, err := products.GetByID(context.Background(), id); err != nil {
			t.Fatalf("expected committed row, got %v", err)
		}
	})
}
