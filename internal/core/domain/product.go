package domain

import "github.com/shopspring/decimal"

// Product is a catalog entry. Price and stock are server-owned.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	Active      *bool           `json:"active,omitempty"`
}

// InStock reports whether at least one unit is available.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// IsActive treats a missing flag as active, matching the backend default.
func (p Product) IsActive() bool {
	return p.Active == nil || *p.Active
}
