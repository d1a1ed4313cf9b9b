package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrens/business-assistant/internal/domain"
	"github.com/jackc/pgx/v5"
)

const saleDetailColumns = `
	s.id, s.user_id, s.product_id, s.quantity, s.unit_price, s.total_amount, s.sale_date,
	p.id, p.user_id, p.name, p.category, p.purchase_price, p.selling_price,
	p.stock_quantity, p.min_stock, p.unit, p.created_at, p.updated_at`

// SaleRepository implements domain.SaleRepository
type SaleRepository struct {
	db *DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *DB) *SaleRepository {
	return &SaleRepository{db: db}
}

func (r *SaleRepository) Create(ctx context.Context, s *domain.Sale) error {
	query := `
		INSERT INTO sales (user_id, product_id, quantity, unit_price, total_amount, sale_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.q(ctx).QueryRow(ctx, query,
		s.UserID,
		s.ProductID,
		s.Quantity,
		s.UnitPrice,
		s.TotalAmount,
		s.SaleDate,
	).Scan(&s.ID)
	return mapError(err, "create sale")
}

// FindByPeriod returns the user's sales in [start, end] joined with their products, oldest first
func (r *SaleRepository) FindByPeriod(ctx context.Context, userID int64, start, end time.Time) ([]domain.SaleDetail, error) {
	query := `
		SELECT ` + saleDetailColumns + `
		FROM sales s
		JOIN products p ON p.id = s.product_id
		WHERE s.user_id = $1 AND s.sale_date >= $2 AND s.sale_date <= $3
		ORDER BY s.sale_date ASC, s.id ASC
	`
	return r.list(ctx, "find sales", query, userID, start, end)
}

// ListRecent returns the latest sales, newest first
func (r *SaleRepository) ListRecent(ctx context.Context, userID int64, limit int) ([]domain.SaleDetail, error) {
	query := `
		SELECT ` + saleDetailColumns + `
		FROM sales s
		JOIN products p ON p.id = s.product_id
		WHERE s.user_id = $1
		ORDER BY s.sale_date DESC, s.id DESC
		LIMIT $2
	`
	return r.list(ctx, "list recent sales", query, userID, limit)
}

func (r *SaleRepository) list(ctx context.Context, op, query string, args ...any) ([]domain.SaleDetail, error) {
	rows, err := r.db.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, op)
	}
	defer rows.Close()

	sales := []domain.SaleDetail{}
	for rows.Next() {
		d, err := scanSaleDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, d)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, op)
	}
	return sales, nil
}

func scanSaleDetail(row pgx.Row) (domain.SaleDetail, error) {
	var d domain.SaleDetail
	err := row.Scan(
		&d.Sale.ID,
		&d.Sale.UserID,
		&d.Sale.ProductID,
		&d.Sale.Quantity,
		&d.Sale.UnitPrice,
		&d.Sale.TotalAmount,
		&d.Sale.SaleDate,
		&d.Product.ID,
		&d.Product.UserID,
		&d.Product.Name,
		&d.Product.Category,
		&d.Product.PurchasePrice,
		&d.Product.SellingPrice,
		&d.Product.StockQuantity,
		&d.Product.MinStock,
		&d.Product.Unit,
		&d.Product.CreatedAt,
		&d.Product.UpdatedAt,
	)
	return d, err
}

// StockMovementRepository implements domain.StockMovementRepository
type StockMovementRepository struct {
	db *DB
}

// NewStockMovementRepository creates a new stock movement repository
func NewStockMovementRepository(db *DB) *StockMovementRepository {
	return &StockMovementRepository{db: db}
}

func (r *StockMovementRepository) Create(ctx context.Context, m *domain.StockMovement) error {
	query := `
		INSERT INTO stock_movements (user_id, product_id, movement_type, quantity, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.q(ctx).QueryRow(ctx, query,
		m.UserID,
		m.ProductID,
		m.MovementType,
		m.Quantity,
		m.Reason,
		m.CreatedAt,
	).Scan(&m.ID)
	return mapError(err, "create stock movement")
}

func (r *StockMovementRepository) ListByProduct(ctx context.Context, userID, productID int64, limit int) ([]domain.StockMovement, error) {
	query := `
		SELECT id, user_id, product_id, movement_type, quantity, reason, created_at
		FROM stock_movements
		WHERE user_id = $1 AND product_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`
	rows, err := r.db.q(ctx).Query(ctx, query, userID, productID, limit)
	if err != nil {
		return nil, mapError(err, "list stock movements")
	}
	defer rows.Close()

	movements := []domain.StockMovement{}
	for rows.Next() {
		var m domain.StockMovement
		if err := rows.Scan(
			&m.ID,
			&m.UserID,
			&m.ProductID,
			&m.MovementType,
			&m.Quantity,
			&m.Reason,
			&m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan stock movement: %w", err)
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}
