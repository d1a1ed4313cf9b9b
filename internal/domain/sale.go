package domain

import (
	"context"
	"time"
)

// Sale records one sale of a product
type Sale struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	ProductID   int64     `json:"product_id"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
	TotalAmount float64   `json:"total_amount"`
	SaleDate    time.Time `json:"sale_date"`
}

// SaleDetail is a sale joined with the current state of its product
type SaleDetail struct {
	Sale    Sale    `json:"sale"`
	Product Product `json:"product"`
}

// Cost is the sale quantity valued at the product's current purchase price
func (d SaleDetail) Cost() float64 {
	return float64(d.Sale.Quantity) * d.Product.PurchasePrice
}

// SaleCreate represents sale input. A zero unit price means the product's selling price.
type SaleCreate struct {
	ProductID int64   `json:"product_id" validate:"required,gt=0"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
	UnitPrice float64 `json:"unit_price" validate:"gte=0"`
}

// Stock movement types. Any type other than MovementIncoming decreases stock.
const (
	MovementIncoming   = "incoming"
	MovementOutgoing   = "outgoing"
	MovementWriteOff   = "write_off"
	MovementCorrection = "correction"
)

// StockMovement records a manual stock adjustment
type StockMovement struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	ProductID    int64     `json:"product_id"`
	MovementType string    `json:"movement_type"`
	Quantity     int       `json:"quantity"`
	Reason       string    `json:"reason"`
	CreatedAt    time.Time `json:"created_at"`
}

// Delta is the signed stock change this movement applies
func (m *StockMovement) Delta() int {
	if m.MovementType == MovementIncoming {
		return m.Quantity
	}
	return -m.Quantity
}

// StockMovementCreate represents stock movement input
type StockMovementCreate struct {
	ProductID    int64  `json:"product_id" validate:"required,gt=0"`
	MovementType string `json:"movement_type" validate:"required,max=20"`
	Quantity     int    `json:"quantity" validate:"required,gt=0"`
	Reason       string `json:"reason" validate:"max=255"`
}

// OperationResult reports the business outcome of a sale or stock movement.
// Rejections are results, not errors; Err carries the matching sentinel.
type OperationResult struct {
	Success  bool           `json:"success"`
	Message  string         `json:"message"`
	Sale     *Sale          `json:"sale,omitempty"`
	Movement *StockMovement `json:"movement,omitempty"`
	Product  *Product       `json:"product,omitempty"`
	Err      error          `json:"-"`
}

// SaleRepository defines the interface for sale storage
type SaleRepository interface {
	Create(ctx context.Context, sale *Sale) error
	// FindByPeriod returns sales with their products, sale_date within [start, end], oldest first
	FindByPeriod(ctx context.Context, userID int64, start, end time.Time) ([]SaleDetail, error)
	ListRecent(ctx context.Context, userID int64, limit int) ([]SaleDetail, error)
}

// StockMovementRepository defines the interface for stock movement storage
type StockMovementRepository interface {
	Create(ctx context.Context, movement *StockMovement) error
	ListByProduct(ctx context.Context, userID, productID int64, limit int) ([]StockMovement, error)
}
