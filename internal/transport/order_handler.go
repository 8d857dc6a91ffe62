package transport

import (
	"errors"
	"net/http"

	"stock-tracker/internal/domain"
	"stock-tracker/internal/middleware"
	"stock-tracker/internal/repository"
	"stock-tracker/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderItemRequest is one line of an order creation payload
type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// CreateOrderRequest represents the order creation payload. UserID and
// UserEmail fall back to the authenticated principal when absent.
type CreateOrderRequest struct {
	Items     []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	UserID    string             `json:"user_id"`
	UserEmail string             `json:"user_email" validate:"omitempty,email"`
}

// OrderHandler handles HTTP requests for order operations
type OrderHandler struct {
	orderService service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// RegisterRoutes registers all order routes
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/status/{status}", h.ListByStatus)
		r.Get("/user/{userID}", h.ListByUser)
		r.Get("/email/{email}", h.ListByEmail)
		r.Get("/{orderID}", h.Get)
		r.Post("/{orderID}/cancel", h.Cancel)
		r.Delete("/{orderID}", h.Delete)
	})
}

// List handles listing all orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.GetAll(r.Context())
	if err != nil {
		h.logger.Error("Failed to list orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// Get handles retrieving a single order
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.parseOrderID(w, r)
	if !ok {
		return
	}

	order, err := h.orderService.GetByID(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to get order", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get order")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// ListByStatus handles listing orders with a given status
func (h *OrderHandler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	status := domain.OrderStatus(chi.URLParam(r, "status"))
	if !status.Valid() {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order status")
		return
	}

	orders, err := h.orderService.GetByStatus(r.Context(), status)
	if err != nil {
		h.logger.Error("Failed to list orders by status", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// ListByUser handles listing orders placed by a user
func (h *OrderHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	orders, err := h.orderService.GetByUserID(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list orders by user", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// ListByEmail handles listing orders placed under an email address
func (h *OrderHandler) ListByEmail(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	orders, err := h.orderService.GetByUserEmail(r.Context(), email)
	if err != nil {
		h.logger.Error("Failed to list orders by email", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// Create handles order creation
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Order creation validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items := make([]service.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID in order items")
			return
		}
		items = append(items, service.OrderLine{ProductID: productID, Quantity: item.Quantity})
	}

	userID := req.UserID
	if userID == "" {
		if id, ok := middleware.GetUserID(r.Context()); ok {
			userID = id
		}
	}
	userEmail := req.UserEmail
	if userEmail == "" {
		if email, ok := middleware.GetUserEmail(r.Context()); ok {
			userEmail = email
		}
	}

	order, err := h.orderService.Create(r.Context(), service.CreateOrderInput{
		Items:     items,
		UserID:    userID,
		UserEmail: userEmail,
	})
	if err != nil {
		var insufficient *service.InsufficientStockError
		switch {
		case errors.As(err, &insufficient), errors.Is(err, repository.ErrProductNotFound):
			h.logger.Debug("Order rejected", zap.Error(err))
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Failed to create order", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create order")
		}
		return
	}

	h.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.Int("items", len(order.Items)),
		zap.Float64("total_amount", order.TotalAmount),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, order)
}

// Cancel handles order cancellation
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.parseOrderID(w, r)
	if !ok {
		return
	}

	order, err := h.orderService.Cancel(r.Context(), orderID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrOrderNotFound):
			w.WriteHeader(http.StatusNotFound)
		case errors.Is(err, service.ErrOrderAlreadyCancelled):
			middleware.RespondWithError(w, http.StatusBadRequest, "Order is already cancelled")
		case errors.Is(err, repository.ErrProductNotFound):
			// The order references a product deleted since it was placed;
			// its stock cannot be restored.
			h.logger.Debug("Order cancellation rejected", zap.Error(err))
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Failed to cancel order", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to cancel order")
		}
		return
	}

	h.logger.Info("Order cancelled", zap.String("order_id", order.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// Delete handles hard order deletion (not cancellation; stock is untouched)
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.parseOrderID(w, r)
	if !ok {
		return
	}

	if err := h.orderService.Delete(r.Context(), orderID); err != nil {
		h.logger.Error("Failed to delete order", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete order")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *OrderHandler) parseOrderID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order ID")
		return uuid.Nil, false
	}
	return orderID, true
}
