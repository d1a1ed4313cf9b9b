package handler

import (
	"errors"
	"net/http"

	"github.com/Rrens/business-assistant/internal/api/response"
	"github.com/Rrens/business-assistant/internal/domain"
)

const (
	defaultSearchLimit   = 20
	defaultMovementLimit = 50
)

// WarehouseHandler handles product, sale and stock movement endpoints
type WarehouseHandler struct {
	warehouse WarehouseService
	reports   ReportService
}

// NewWarehouseHandler creates a new warehouse handler
func NewWarehouseHandler(warehouse WarehouseService, reports ReportService) *WarehouseHandler {
	return &WarehouseHandler{warehouse: warehouse, reports: reports}
}

// ListProducts lists the caller's products, optionally by ?category=
func (h *WarehouseHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	products, err := h.warehouse.ListProducts(r.Context(), userID, r.URL.Query().Get("category"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, products)
}

// CreateProduct adds a product to the caller's catalogue
func (h *WarehouseHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var input domain.ProductCreate
	if !decodeBody(w, r, &input) {
		return
	}

	product, err := h.warehouse.CreateProduct(r.Context(), userID, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, product)
}

// GetProduct returns one product
func (h *WarehouseHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "productID")
	if !ok {
		return
	}

	product, err := h.warehouse.GetProduct(r.Context(), userID, id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, product)
}

// UpdateProduct patches catalogue fields of a product
func (h *WarehouseHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "productID")
	if !ok {
		return
	}

	var patch domain.ProductPatch
	if !decodeBody(w, r, &patch) {
		return
	}

	product, err := h.warehouse.UpdateProduct(r.Context(), userID, id, patch)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, product)
}

// DeleteProduct removes a product
func (h *WarehouseHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "productID")
	if !ok {
		return
	}

	if err := h.warehouse.DeleteProduct(r.Context(), userID, id); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}

// LowStock lists products at or below their reorder threshold
func (h *WarehouseHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	products, err := h.warehouse.LowStock(r.Context(), userID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, products)
}

// SearchProducts matches products by name with ?q=
func (h *WarehouseHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	limit, err := queryInt(r, "limit", defaultSearchLimit)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	products, err := h.warehouse.SearchProducts(r.Context(), userID, r.URL.Query().Get("q"), limit)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, products)
}

// CreateSale records a sale. Business rejections such as insufficient stock
// come back as an unsuccessful result with the matching status code.
func (h *WarehouseHandler) CreateSale(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var input domain.SaleCreate
	if !decodeBody(w, r, &input) {
		return
	}

	result, err := h.warehouse.CreateSale(r.Context(), userID, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	writeOperationResult(w, result)
}

// RecentSales lists the caller's latest sales
func (h *WarehouseHandler) RecentSales(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	sales, err := h.reports.RecentSales(r.Context(), userID, limit)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, sales)
}

// CreateMovement records a manual stock adjustment for the product in the path
func (h *WarehouseHandler) CreateMovement(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	productID, ok := pathID(w, r, "productID")
	if !ok {
		return
	}

	var input domain.StockMovementCreate
	input.ProductID = productID
	if !decodeBody(w, r, &input) {
		return
	}
	if input.ProductID != productID {
		response.BadRequest(w, "product_id does not match the path")
		return
	}

	result, err := h.warehouse.CreateStockMovement(r.Context(), userID, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	writeOperationResult(w, result)
}

// ListMovements lists stock movements of the product in the path
func (h *WarehouseHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	productID, ok := pathID(w, r, "productID")
	if !ok {
		return
	}

	limit, err := queryInt(r, "limit", defaultMovementLimit)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	movements, err := h.warehouse.ListMovements(r.Context(), userID, productID, limit)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, movements)
}

func writeOperationResult(w http.ResponseWriter, result *domain.OperationResult) {
	if result.Success {
		response.Created(w, result)
		return
	}

	status := http.StatusUnprocessableEntity
	switch {
	case errors.Is(result.Err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(result.Err, domain.ErrInsufficientStock):
		status = http.StatusConflict
	case errors.Is(result.Err, domain.ErrValidation):
		status = http.StatusBadRequest
	}
	response.JSON(w, status, result)
}
