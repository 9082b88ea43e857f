// Package model contains domain entities and the query field tables that
// expose them to filtering and sorting.
// I keep it lean and focused on data shapes without behavior.
package model

import "time"

// Audit carries who created or last changed a record and when.
type Audit struct {
	EntryBy     *int64     `json:"entry_by,omitempty"`
	EntryDate   *time.Time `json:"entry_date,omitempty"`
	UpdatedBy   *int64     `json:"updated_by,omitempty"`
	UpdatedDate *time.Time `json:"updated_date,omitempty"`
}

// Clone returns a copy of a that shares no pointers with it.
func (a Audit) Clone() Audit {
	return Audit{
		EntryBy:     clonePtr(a.EntryBy),
		EntryDate:   clonePtr(a.EntryDate),
		UpdatedBy:   clonePtr(a.UpdatedBy),
		UpdatedDate: clonePtr(a.UpdatedDate),
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Product is a catalog item.
type Product struct {
	ID          int64   `json:"id"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Description string  `json:"description"`
	IsActive    bool    `json:"is_active"`
	Audit
}

// Clone returns a deep copy of p.
func (p Product) Clone() Product {
	p.Audit = p.Audit.Clone()
	return p
}

// Role is an administrative role users can be assigned to.
type Role struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	NormalizedName string `json:"normalized_name"`
	Code           string `json:"code"`
	IsActive       bool   `json:"is_active"`
	Audit
}

// Clone returns a deep copy of r.
func (r Role) Clone() Role {
	r.Audit = r.Audit.Clone()
	return r
}
