package memory

import (
	"context"
	"time"

	"github.com/maxviazov/catalog-service/internal/model"
	"github.com/maxviazov/catalog-service/internal/repository"
)

type productRepository struct {
	*Store[model.Product]
}

// NewProductRepository returns an empty in-memory product store with
// unique Code and Name, mirroring the Postgres indexes.
func NewProductRepository() repository.ProductRepository {
	return &productRepository{Store: NewStore(model.ProductFields,
		func(p model.Product) int64 { return p.ID },
		func(p model.Product, id int64) model.Product { p.ID = id; return p },
		model.Product.Clone,
		"Code", "Name",
	)}
}

func (r *productRepository) PriceCheck(ctx context.Context, id int64) (float64, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return p.Price, nil
}

type roleRepository struct {
	*Store[model.Role]
}

// defaultRoles matches the rows the roles migration inserts.
var defaultRoles = []model.Role{
	{Name: "Admin", NormalizedName: "ADMIN", Code: "ADMIN", IsActive: true},
	{Name: "User", NormalizedName: "USER", Code: "USER", IsActive: true},
}

// NewRoleRepository returns an in-memory role store with unique Name and
// Code, holding the same default roles a freshly migrated database has.
func NewRoleRepository() repository.RoleRepository {
	r := newRoleRepository()
	now := time.Now().UTC()
	for _, role := range defaultRoles {
		role.EntryDate = &now
		if _, err := r.Create(context.Background(), role); err != nil {
			panic("memory: seed roles: " + err.Error())
		}
	}
	return r
}

// NewEmptyRoleRepository returns a role store without the default roles.
func NewEmptyRoleRepository() repository.RoleRepository {
	return newRoleRepository()
}

func newRoleRepository() *roleRepository {
	return &roleRepository{Store: NewStore(model.RoleFields,
		func(r model.Role) int64 { return r.ID },
		func(r model.Role, id int64) model.Role { r.ID = id; return r },
		model.Role.Clone,
		"Name", "Code",
	)}
}

// txManager runs the unit of work directly. Each store call is atomic on its
// own; there is nothing to roll back in memory.
type txManager struct{}

func NewTxManager() repository.TxManager { return txManager{} }

func (txManager) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}

var (
	_ repository.ProductRepository = (*productRepository)(nil)
	_ repository.RoleRepository    = (*roleRepository)(nil)
	_ repository.Pinger            = Pinger{}
)
