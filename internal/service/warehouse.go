package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rrens/business-assistant/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	warehouseLockPrefix = "stock"
	defaultSearchLimit  = 20
)

// WarehouseService manages the product catalogue, sales and stock movements
type WarehouseService struct {
	productRepo  domain.ProductRepository
	saleRepo     domain.SaleRepository
	movementRepo domain.StockMovementRepository
	tx           domain.TxRunner
	locker       Locker
	cache        ReportCache
	now          Clock
}

// NewWarehouseService creates a new warehouse service
func NewWarehouseService(
	productRepo domain.ProductRepository,
	saleRepo domain.SaleRepository,
	movementRepo domain.StockMovementRepository,
	tx domain.TxRunner,
	locker Locker,
	cache ReportCache,
) *WarehouseService {
	if locker == nil {
		locker = NewKeyedMutex()
	}
	if cache == nil {
		cache = NoopCache()
	}
	return &WarehouseService{
		productRepo:  productRepo,
		saleRepo:     saleRepo,
		movementRepo: movementRepo,
		tx:           tx,
		locker:       locker,
		cache:        cache,
		now:          time.Now,
	}
}

// CreateProduct adds a product to the user's catalogue
func (s *WarehouseService) CreateProduct(ctx context.Context, userID int64, input domain.ProductCreate) (*domain.Product, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	product := &domain.Product{
		UserID:        userID,
		Name:          strings.TrimSpace(input.Name),
		Category:      input.Category,
		PurchasePrice: domain.RoundMoney(input.PurchasePrice),
		SellingPrice:  domain.RoundMoney(input.SellingPrice),
		StockQuantity: input.StockQuantity,
		MinStock:      input.MinStock,
		Unit:          input.Unit,
	}
	if product.Category == "" {
		product.Category = domain.DefaultCategory
	}
	if product.Unit == "" {
		product.Unit = domain.DefaultUnit
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	s.invalidate(ctx, userID)

	log.Info().Int64("user_id", userID).Int64("product_id", product.ID).Str("name", product.Name).Msg("Product created")
	return product, nil
}

// GetProduct returns one product of the user
func (s *WarehouseService) GetProduct(ctx context.Context, userID, id int64) (*domain.Product, error) {
	product, err := s.productRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// GetProductByName looks a product up by case-insensitive name
func (s *WarehouseService) GetProductByName(ctx context.Context, userID int64, name string) (*domain.Product, error) {
	product, err := s.productRepo.GetByName(ctx, userID, strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// ListProducts returns the whole catalogue, or one category of it
func (s *WarehouseService) ListProducts(ctx context.Context, userID int64, category string) ([]domain.Product, error) {
	var (
		products []domain.Product
		err      error
	)
	if category != "" {
		products, err = s.productRepo.ListByCategory(ctx, userID, category)
	} else {
		products, err = s.productRepo.ListByUser(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// SearchProducts matches name or category against query
func (s *WarehouseService) SearchProducts(ctx context.Context, userID int64, query string, limit int) ([]domain.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is empty", domain.ErrValidation)
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	products, err := s.productRepo.Search(ctx, userID, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

// LowStock returns products at or below their reorder threshold
func (s *WarehouseService) LowStock(ctx context.Context, userID int64) ([]domain.Product, error) {
	products, err := s.productRepo.ListLowStock(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock: %w", err)
	}
	return products, nil
}

// UpdateProduct applies a typed patch to a product
func (s *WarehouseService) UpdateProduct(ctx context.Context, userID, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	if err := validateInput(patch); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return s.GetProduct(ctx, userID, id)
	}
	product, err := s.productRepo.Update(ctx, userID, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	s.invalidate(ctx, userID)
	return product, nil
}

// DeleteProduct removes a product together with its sales and movements
func (s *WarehouseService) DeleteProduct(ctx context.Context, userID, id int64) error {
	if err := s.productRepo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	s.invalidate(ctx, userID)
	return nil
}

// CreateSale records a sale and decrements stock in one transaction.
// A missing product or insufficient stock is reported in the result, not as an error.
func (s *WarehouseService) CreateSale(ctx context.Context, userID int64, input domain.SaleCreate) (*domain.OperationResult, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	requestedPrice := domain.RoundMoney(input.UnitPrice)
	if input.UnitPrice > 0 && requestedPrice == 0 {
		return nil, fmt.Errorf("%w: unit price is below 0.01", domain.ErrValidation)
	}

	unlock, err := s.locker.Lock(ctx, userKey(warehouseLockPrefix, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to lock stock: %w", err)
	}
	defer unlock()

	var result *domain.OperationResult
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		product, err := s.productRepo.GetForUpdate(ctx, userID, input.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				result = productNotFound()
				return nil
			}
			return err
		}

		if input.Quantity > product.StockQuantity {
			result = insufficientStock(product)
			return nil
		}

		unitPrice := requestedPrice
		if unitPrice == 0 {
			unitPrice = domain.RoundMoney(product.SellingPrice)
		}

		sale := &domain.Sale{
			UserID:      userID,
			ProductID:   product.ID,
			Quantity:    input.Quantity,
			UnitPrice:   unitPrice,
			TotalAmount: domain.LineTotal(input.Quantity, unitPrice),
			SaleDate:    s.now(),
		}
		if err := s.saleRepo.Create(ctx, sale); err != nil {
			return err
		}

		product.StockQuantity -= input.Quantity
		if err := s.productRepo.UpdateStock(ctx, userID, product.ID, product.StockQuantity); err != nil {
			return err
		}

		result = &domain.OperationResult{
			Success: true,
			Message: fmt.Sprintf("✅ Продажа зафиксирована: %d %s на сумму %.2f руб", sale.Quantity, product.Unit, sale.TotalAmount),
			Sale:    sale,
			Product: product,
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sale: %w", err)
	}

	if result.Success {
		s.invalidate(ctx, userID)
		log.Info().
			Int64("user_id", userID).
			Int64("product_id", input.ProductID).
			Int("quantity", input.Quantity).
			Float64("total", result.Sale.TotalAmount).
			Msg("Sale recorded")
	}
	return result, nil
}

// CreateStockMovement applies a manual stock adjustment in one transaction.
// Incoming movements add stock, every other type subtracts; stock never goes negative.
func (s *WarehouseService) CreateStockMovement(ctx context.Context, userID int64, input domain.StockMovementCreate) (*domain.OperationResult, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, userKey(warehouseLockPrefix, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to lock stock: %w", err)
	}
	defer unlock()

	var result *domain.OperationResult
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		product, err := s.productRepo.GetForUpdate(ctx, userID, input.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				result = productNotFound()
				return nil
			}
			return err
		}

		movement := &domain.StockMovement{
			UserID:       userID,
			ProductID:    product.ID,
			MovementType: input.MovementType,
			Quantity:     input.Quantity,
			Reason:       input.Reason,
			CreatedAt:    s.now(),
		}

		newStock := product.StockQuantity + movement.Delta()
		if newStock < 0 {
			result = insufficientStock(product)
			return nil
		}

		if err := s.movementRepo.Create(ctx, movement); err != nil {
			return err
		}
		if err := s.productRepo.UpdateStock(ctx, userID, product.ID, newStock); err != nil {
			return err
		}
		product.StockQuantity = newStock

		result = &domain.OperationResult{
			Success:  true,
			Message:  fmt.Sprintf("✅ Остатки обновлены: %s %s %d %s", product.Name, movement.MovementType, movement.Quantity, product.Unit),
			Movement: movement,
			Product:  product,
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create stock movement: %w", err)
	}

	if result.Success {
		s.invalidate(ctx, userID)
	}
	return result, nil
}

// ListMovements returns the latest movements of one product
func (s *WarehouseService) ListMovements(ctx context.Context, userID, productID int64, limit int) ([]domain.StockMovement, error) {
	if limit <= 0 {
		limit = 50
	}
	movements, err := s.movementRepo.ListByProduct(ctx, userID, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock movements: %w", err)
	}
	return movements, nil
}

func (s *WarehouseService) invalidate(ctx context.Context, userID int64) {
	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("Failed to invalidate report cache")
	}
}

func productNotFound() *domain.OperationResult {
	return &domain.OperationResult{
		Success: false,
		Message: "❌ Товар не найден",
		Err:     domain.ErrNotFound,
	}
}

func insufficientStock(p *domain.Product) *domain.OperationResult {
	return &domain.OperationResult{
		Success: false,
		Message: fmt.Sprintf("❌ Недостаточно товара. В наличии: %d %s", p.StockQuantity, p.Unit),
		Product: p,
		Err:     domain.ErrInsufficientStock,
	}
}
