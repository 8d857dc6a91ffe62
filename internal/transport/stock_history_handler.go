package transport

import (
	"net/http"

	"stock-tracker/internal/domain"
	"stock-tracker/internal/middleware"
	"stock-tracker/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StockHistoryHandler exposes the ledger's read-only projections
type StockHistoryHandler struct {
	historyService service.StockHistoryService
	logger         *zap.Logger
}

// NewStockHistoryHandler creates a new StockHistoryHandler
func NewStockHistoryHandler(historyService service.StockHistoryService, logger *zap.Logger) *StockHistoryHandler {
	return &StockHistoryHandler{
		historyService: historyService,
		logger:         logger,
	}
}

// RegisterRoutes registers all stock history routes
func (h *StockHistoryHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/stock-history", func(r chi.Router) {
		r.Get("/reference/{referenceID}", h.ByReference)
		r.Get("/type/{changeType}", h.ByChangeType)
	})
}

// ByReference handles lookup of ledger entries cross-linked to a reference
// id (typically an order)
func (h *StockHistoryHandler) ByReference(w http.ResponseWriter, r *http.Request) {
	referenceID, err := uuid.Parse(chi.URLParam(r, "referenceID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid reference ID")
		return
	}

	entries, err := h.historyService.ByReference(r.Context(), referenceID)
	if err != nil {
		h.logger.Error("Failed to get stock history by reference", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get stock history")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, entries)
}

// ByChangeType handles lookup of ledger entries by change type
func (h *StockHistoryHandler) ByChangeType(w http.ResponseWriter, r *http.Request) {
	changeType := domain.ChangeType(chi.URLParam(r, "changeType"))
	if !changeType.Valid() {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid change type")
		return
	}

	entries, err := h.historyService.ByChangeType(r.Context(), changeType)
	if err != nil {
		h.logger.Error("Failed to get stock history by change type", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get stock history")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, entries)
}
