package transport

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"stock-tracker/internal/domain"
	"stock-tracker/internal/middleware"
	"stock-tracker/internal/repository"
	"stock-tracker/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultLowStockThreshold is applied when the low-stock query carries no
// threshold parameter
const DefaultLowStockThreshold = 10

// CreateProductRequest represents the product creation payload. A missing
// quantity defaults to 0.
type CreateProductRequest struct {
	Name              string   `json:"name" validate:"required"`
	Description       string   `json:"description"`
	Category          string   `json:"category"`
	AvailableQuantity *int     `json:"available_quantity" validate:"omitempty,gte=0"`
	Price             *float64 `json:"price" validate:"omitempty,gte=0"`
	ImageURL          string   `json:"image_url"`
}

// UpdateProductRequest represents a partial product update. Absent fields
// are left untouched; quantity is not updatable here.
type UpdateProductRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	ImageURL    *string  `json:"image_url"`
}

// RestockRequest represents a manual restock payload
type RestockRequest struct {
	Quantity    int    `json:"quantity" validate:"required,gt=0"`
	Description string `json:"description"`
}

// ProductHandler handles HTTP requests for catalog and restock operations
type ProductHandler struct {
	productService service.ProductService
	historyService service.StockHistoryService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, historyService service.StockHistoryService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		historyService: historyService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/search", h.Search)
		r.Get("/low-stock", h.LowStock)
		r.Get("/category/{category}", h.ByCategory)
		r.Get("/{productID}", h.Get)
		r.Put("/{productID}", h.Update)
		r.Delete("/{productID}", h.Delete)
		r.Get("/{productID}/stock-history", h.StockHistory)
		r.Post("/{productID}/restock", h.Restock)
	})
}

// List handles listing all products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.GetAll(r.Context())
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// Get handles retrieving a single product
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.parseProductID(w, r)
	if !ok {
		return
	}

	product, err := h.productService.GetByID(r.Context(), productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to get product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Create handles product creation
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product creation validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	quantity := 0
	if req.AvailableQuantity != nil {
		quantity = *req.AvailableQuantity
	}

	product := &domain.Product{
		Name:              req.Name,
		Description:       req.Description,
		Category:          req.Category,
		AvailableQuantity: quantity,
		Price:             req.Price,
		ImageURL:          req.ImageURL,
	}

	created, err := h.productService.Create(r.Context(), product)
	if err != nil {
		if errors.Is(err, service.ErrNegativeQuantity) {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Failed to create product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	h.logger.Info("Product created",
		zap.String("product_id", created.ID.String()),
		zap.Int("initial_quantity", created.AvailableQuantity),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, created)
}

// Update handles partial product updates
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.parseProductID(w, r)
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product update validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patch := domain.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
	}

	updated, err := h.productService.Update(r.Context(), productID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to update product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, updated)
}

// Delete handles product deletion
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.parseProductID(w, r)
	if !ok {
		return
	}

	if err := h.productService.Delete(r.Context(), productID); err != nil {
		h.logger.Error("Failed to delete product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Search handles case-insensitive name substring search
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")

	products, err := h.productService.Search(r.Context(), name)
	if err != nil {
		h.logger.Error("Failed to search products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to search products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// ByCategory handles listing products in a category
func (h *ProductHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	products, err := h.productService.GetByCategory(r.Context(), category)
	if err != nil {
		h.logger.Error("Failed to get products by category", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get products by category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// LowStock handles the low stock query
func (h *ProductHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	threshold := DefaultLowStockThreshold
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "threshold must be an integer")
			return
		}
		threshold = parsed
	}

	products, err := h.productService.GetLowStock(r.Context(), threshold)
	if err != nil {
		h.logger.Error("Failed to get low stock products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get low stock products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// StockHistory handles the per-product ledger projection
func (h *ProductHandler) StockHistory(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.parseProductID(w, r)
	if !ok {
		return
	}

	order := repository.SortOrderAsc
	if strings.EqualFold(r.URL.Query().Get("order"), "desc") {
		order = repository.SortOrderDesc
	}

	entries, err := h.historyService.ByProduct(r.Context(), productID, order)
	if err != nil {
		h.logger.Error("Failed to get stock history", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get stock history")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, entries)
}

// Restock handles manual stock credits
func (h *ProductHandler) Restock(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.parseProductID(w, r)
	if !ok {
		return
	}

	var req RestockRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Restock validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	description := req.Description
	if description == "" {
		description = "Manual restock"
	}

	var userID *string
	if id, ok := middleware.GetUserID(r.Context()); ok {
		userID = &id
	}

	product, err := h.productService.Restock(r.Context(), productID, req.Quantity, description, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to restock product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.Info("Product restocked",
		zap.String("product_id", productID.String()),
		zap.Int("quantity", req.Quantity),
	)
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) parseProductID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return uuid.Nil, false
	}
	return productID, true
}
