// internal/core/domain/product.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductCategory represents product categories carried by the chain
type ProductCategory string

// Category constants
const (
	CategoryCement     ProductCategory = "cement"
	CategoryBricks     ProductCategory = "bricks"
	CategorySteel      ProductCategory = "steel"
	CategoryTiles      ProductCategory = "tiles"
	CategoryPaint      ProductCategory = "paint"
	CategoryTools      ProductCategory = "tools"
	CategoryElectrical ProductCategory = "electrical"
	CategoryPlumbing   ProductCategory = "plumbing"
	CategoryOther      ProductCategory = "other"
)

// Product is read-only reference data owned by the catalog. The stock core
// never mutates products; it only resolves ids to prices and unit labels.
type Product struct {
	ID          int64           `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Category    ProductCategory `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Unit        string          `json:"unit"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Store is reference data for a branch of the chain.
type Store struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	City      string    `json:"city,omitempty"`
	Manager   string    `json:"manager,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
