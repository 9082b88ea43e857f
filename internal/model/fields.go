package model

import (
	"time"

	"github.com/maxviazov/catalog-service/internal/query"
)

// ProductFields maps public field names to Product accessors and columns.
var ProductFields = query.NewFieldSet("Id",
	query.Int("Id", "id", func(p Product) int64 { return p.ID }),
	query.String("Code", "code", func(p Product) string { return p.Code }),
	query.String("Name", "name", func(p Product) string { return p.Name }),
	query.Float("Price", "price", func(p Product) float64 { return p.Price }),
	query.Int("Quantity", "quantity", func(p Product) int64 { return int64(p.Quantity) }),
	query.String("Description", "description", func(p Product) string { return p.Description }),
	query.Bool("IsActive", "is_active", func(p Product) bool { return p.IsActive }),
	query.Time("EntryDate", "entry_date", func(p Product) *time.Time { return p.EntryDate }),
	query.Time("UpdatedDate", "updated_date", func(p Product) *time.Time { return p.UpdatedDate }),
)

// Fields searched by the free-text box on the product listing.
var (
	ProductSearchText    = []string{"Code", "Name", "Description"}
	ProductSearchNumeric = []string{"Price"}
)

// RoleFields maps public field names to Role accessors and columns.
var RoleFields = query.NewFieldSet("Id",
	query.Int("Id", "id", func(r Role) int64 { return r.ID }),
	query.String("Name", "name", func(r Role) string { return r.Name }),
	query.String("Code", "code", func(r Role) string { return r.Code }),
	query.Bool("IsActive", "is_active", func(r Role) bool { return r.IsActive }),
	query.Time("EntryDate", "entry_date", func(r Role) *time.Time { return r.EntryDate }),
)

var RoleSearchText = []string{"Name", "Code"}
