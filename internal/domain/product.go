package domain

import (
	"context"
	"time"
)

const DefaultUnit = "шт"

// Product is an inventory item owned by one user
type Product struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	PurchasePrice float64   `json:"purchase_price"`
	SellingPrice  float64   `json:"selling_price"`
	StockQuantity int       `json:"stock_quantity"`
	MinStock      int       `json:"min_stock"`
	Unit          string    `json:"unit"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IsLowStock reports whether the product is at or below its reorder threshold
func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= p.MinStock
}

// RestockNeed is the quantity required to bring the product back to its threshold
func (p *Product) RestockNeed() int {
	if need := p.MinStock - p.StockQuantity; need > 0 {
		return need
	}
	return 0
}

// StockValue is the stock valued at purchase price
func (p *Product) StockValue() float64 {
	return float64(p.StockQuantity) * p.PurchasePrice
}

// PotentialRevenue is the stock valued at selling price
func (p *Product) PotentialRevenue() float64 {
	return float64(p.StockQuantity) * p.SellingPrice
}

// ProductCreate represents product creation input
type ProductCreate struct {
	Name          string  `json:"name" validate:"required,min=1,max=100"`
	Category      string  `json:"category" validate:"max=50"`
	PurchasePrice float64 `json:"purchase_price" validate:"gte=0"`
	SellingPrice  float64 `json:"selling_price" validate:"gte=0"`
	StockQuantity int     `json:"stock_quantity" validate:"gte=0"`
	MinStock      int     `json:"min_stock" validate:"gte=0"`
	Unit          string  `json:"unit" validate:"max=20"`
}

// ProductPatch enumerates the mutable product fields. Stock is changed only
// through sales and stock movements.
type ProductPatch struct {
	Name          *string  `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Category      *string  `json:"category,omitempty" validate:"omitempty,max=50"`
	PurchasePrice *float64 `json:"purchase_price,omitempty" validate:"omitempty,gte=0"`
	SellingPrice  *float64 `json:"selling_price,omitempty" validate:"omitempty,gte=0"`
	MinStock      *int     `json:"min_stock,omitempty" validate:"omitempty,gte=0"`
	Unit          *string  `json:"unit,omitempty" validate:"omitempty,max=20"`
}

// IsEmpty reports whether the patch changes nothing
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Category == nil && p.PurchasePrice == nil &&
		p.SellingPrice == nil && p.MinStock == nil && p.Unit == nil
}

// ProductRepository defines the interface for product storage
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	// GetByID returns the product owned by userID; ErrNotFound when absent
	GetByID(ctx context.Context, userID, id int64) (*Product, error)
	// GetForUpdate is GetByID with a row lock held until the surrounding transaction ends
	GetForUpdate(ctx context.Context, userID, id int64) (*Product, error)
	GetByName(ctx context.Context, userID int64, name string) (*Product, error)
	ListByUser(ctx context.Context, userID int64) ([]Product, error)
	ListByCategory(ctx context.Context, userID int64, category string) ([]Product, error)
	ListLowStock(ctx context.Context, userID int64) ([]Product, error)
	Search(ctx context.Context, userID int64, query string, limit int) ([]Product, error)
	Update(ctx context.Context, userID, id int64, patch ProductPatch) (*Product, error)
	UpdateStock(ctx context.Context, userID, id int64, quantity int) error
	Delete(ctx context.Context, userID, id int64) error
}
