package ledger

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/aaditya574/ledgelogger/internal/platform/httpx"
	"github.com/aaditya574/ledgelogger/internal/shared"
)

// Handler wires HTTP endpoints for the transaction and stock routes.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a ledger handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountTransactionRoutes registers the purchase and sale endpoints.
func (h *Handler) MountTransactionRoutes(r chi.Router) {
	r.Post("/buy", h.handleBuy)
	r.Post("/sell", h.handleSell)
}

// MountStockRoutes registers the stock listing endpoints.
func (h *Handler) MountStockRoutes(r chi.Router) {
	r.Get("/", h.handleListStocks)
	r.Get("/{sortBy}", h.handleListStocks)
}

type buyRequest struct {
	VendorID    int64   `json:"vendor_id" validate:"required,gt=0"`
	ItemID      int64   `json:"item_id" validate:"required,gt=0"`
	RackNumber  int64   `json:"rack_number" validate:"gte=0"`
	Units       int64   `json:"units" validate:"required,gt=0"`
	BuyingPrice float64 `json:"buying_price" validate:"gte=0"`
}

type sellRequest struct {
	BuyerID      int64   `json:"buyer_id" validate:"required,gt=0"`
	ItemID       int64   `json:"item_id" validate:"required,gt=0"`
	StockID      int64   `json:"stock_id" validate:"required,gt=0"`
	Units        int64   `json:"units" validate:"required,gt=0"`
	SellingPrice float64 `json:"selling_price" validate:"gte=0"`
}

func (h *Handler) handleBuy(w http.ResponseWriter, r *http.Request) {
	ownerID := shared.OwnerFromContext(r.Context())
	if ownerID == 0 {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	var req buyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	stock, err := h.service.RecordPurchase(r.Context(), PurchaseInput{
		OwnerID:        ownerID,
		VendorID:       req.VendorID,
		ItemID:         req.ItemID,
		RackNumber:     req.RackNumber,
		Units:          req.Units,
		BuyingPrice:    req.BuyingPrice,
		IdempotencyKey: r.Header.Get("Idempotency-Key"),
	})
	if err != nil {
		h.logger.Warn("record purchase", slog.Int64("owner_id", ownerID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, stock)
}

func (h *Handler) handleSell(w http.ResponseWriter, r *http.Request) {
	ownerID := shared.OwnerFromContext(r.Context())
	if ownerID == 0 {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	var req sellRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	err := h.service.RecordSale(r.Context(), SaleInput{
		OwnerID:        ownerID,
		BuyerID:        req.BuyerID,
		ItemID:         req.ItemID,
		StockID:        req.StockID,
		Units:          req.Units,
		SellingPrice:   req.SellingPrice,
		IdempotencyKey: r.Header.Get("Idempotency-Key"),
	})
	if err != nil {
		h.logger.Warn("record sale", slog.Int64("owner_id", ownerID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]string{"message": "item sold successfully"})
}

func (h *Handler) handleListStocks(w http.ResponseWriter, r *http.Request) {
	ownerID := shared.OwnerFromContext(r.Context())
	if ownerID == 0 {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	sortBy := chi.URLParam(r, "sortBy")
	listings, err := h.service.ListStocks(r.Context(), ownerID, sortBy)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if listings == nil {
		listings = []StockListing{}
	}
	httpx.JSON(w, http.StatusOK, listings)
}
