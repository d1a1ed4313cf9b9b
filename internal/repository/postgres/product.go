package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/Rrens/business-assistant/internal/domain"
	"github.com/jackc/pgx/v5"
)

const productColumns = `id, user_id, name, category, purchase_price, selling_price,
	stock_quantity, min_stock, unit, created_at, updated_at`

// ProductRepository implements domain.ProductRepository.
// Every lookup is scoped to the owning user.
type ProductRepository struct {
	db *DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	query := `
		INSERT INTO products (user_id, name, category, purchase_price, selling_price, stock_quantity, min_stock, unit)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := r.db.q(ctx).QueryRow(ctx, query,
		p.UserID,
		p.Name,
		p.Category,
		p.PurchasePrice,
		p.SellingPrice,
		p.StockQuantity,
		p.MinStock,
		p.Unit,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return mapError(err, "create product")
}

func (r *ProductRepository) GetByID(ctx context.Context, userID, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE user_id = $1 AND id = $2`

	p, err := scanProduct(r.db.q(ctx).QueryRow(ctx, query, userID, id))
	if err != nil {
		return nil, mapError(err, "get product")
	}
	return p, nil
}

// GetForUpdate locks the product row until the surrounding transaction ends
func (r *ProductRepository) GetForUpdate(ctx context.Context, userID, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE user_id = $1 AND id = $2 FOR UPDATE`

	p, err := scanProduct(r.db.q(ctx).QueryRow(ctx, query, userID, id))
	if err != nil {
		return nil, mapError(err, "lock product")
	}
	return p, nil
}

// GetByName matches the product name case-insensitively
func (r *ProductRepository) GetByName(ctx context.Context, userID int64, name string) (*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE user_id = $1 AND lower(name) = lower($2)
		ORDER BY id ASC
		LIMIT 1
	`

	p, err := scanProduct(r.db.q(ctx).QueryRow(ctx, query, userID, name))
	if err != nil {
		return nil, mapError(err, "get product by name")
	}
	return p, nil
}

func (r *ProductRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE user_id = $1 ORDER BY name ASC, id ASC`
	return r.list(ctx, "list products", query, userID)
}

func (r *ProductRepository) ListByCategory(ctx context.Context, userID int64, category string) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE user_id = $1 AND category = $2 ORDER BY name ASC, id ASC`
	return r.list(ctx, "list products by category", query, userID, category)
}

// ListLowStock returns products at or below their minimum, largest shortfall first
func (r *ProductRepository) ListLowStock(ctx context.Context, userID int64) ([]domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE user_id = $1 AND stock_quantity <= min_stock
		ORDER BY (min_stock - stock_quantity) DESC, name ASC
	`
	return r.list(ctx, "list low stock products", query, userID)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching query literally as a substring
func containsPattern(query string) string {
	return "%" + likeEscaper.Replace(query) + "%"
}

// Search matches name or category against query with ILIKE
func (r *ProductRepository) Search(ctx context.Context, userID int64, query string, limit int) ([]domain.Product, error) {
	pattern := containsPattern(query)
	sel := psql.Select(productColumns).
		From("products").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"category": pattern},
		}).
		OrderBy("name ASC")
	if limit > 0 {
		sel = sel.Limit(uint64(limit))
	}

	sql, args, err := sel.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build product search: %w", err)
	}
	return r.list(ctx, "search products", sql, args...)
}

// Update writes the fields set in patch. Stock is not part of the patch.
func (r *ProductRepository) Update(ctx context.Context, userID, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	if patch.IsEmpty() {
		return r.GetByID(ctx, userID, id)
	}

	update := psql.Update("products").
		SetMap(productSetMap(patch)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"user_id": userID, "id": id}).
		Suffix("RETURNING " + productColumns)

	sql, args, err := update.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build product update: %w", err)
	}

	p, err := scanProduct(r.db.q(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapError(err, "update product")
	}
	return p, nil
}

// UpdateStock sets the absolute stock quantity
func (r *ProductRepository) UpdateStock(ctx context.Context, userID, id int64, quantity int) error {
	query := `UPDATE products SET stock_quantity = $3, updated_at = NOW() WHERE user_id = $1 AND id = $2`
	tag, err := r.db.q(ctx).Exec(ctx, query, userID, id, quantity)
	if err != nil {
		return mapError(err, "update stock")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to update stock of product %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, userID, id int64) error {
	query := `DELETE FROM products WHERE user_id = $1 AND id = $2`
	tag, err := r.db.q(ctx).Exec(ctx, query, userID, id)
	if err != nil {
		return mapError(err, "delete product")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to delete product %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *ProductRepository) list(ctx context.Context, op, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.db.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, op)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, op)
	}
	return products, nil
}

func productSetMap(p domain.ProductPatch) map[string]interface{} {
	set := make(map[string]interface{})
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Category != nil {
		set["category"] = *p.Category
	}
	if p.PurchasePrice != nil {
		set["purchase_price"] = *p.PurchasePrice
	}
	if p.SellingPrice != nil {
		set["selling_price"] = *p.SellingPrice
	}
	if p.MinStock != nil {
		set["min_stock"] = *p.MinStock
	}
	if p.Unit != nil {
		set["unit"] = *p.Unit
	}
	return set
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.Category,
		&p.PurchasePrice,
		&p.SellingPrice,
		&p.StockQuantity,
		&p.MinStock,
		&p.Unit,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
