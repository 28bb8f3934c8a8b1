package reports

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/aaditya574/ledgelogger/internal/platform/httpx"
	"github.com/aaditya574/ledgelogger/internal/shared"
)

// Handler wires HTTP endpoints for the report routes.
type Handler struct {
	logger  *slog.Logger
	service *Service
	printer *message.Printer
}

// NewHandler constructs a reports handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, printer: message.NewPrinter(language.English)}
}

// MountRoutes registers report routes. Trailing path segments are optional
// and default to the current day, month, or year.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/date", h.handleDaily)
	r.Get("/date/{date}", h.handleDaily)
	r.Get("/month", h.handleMonthly)
	r.Get("/month/{year}", h.handleMonthly)
	r.Get("/month/{year}/{month}", h.handleMonthly)
	r.Get("/year", h.handleYearly)
	r.Get("/year/{year}", h.handleYearly)
}

type formattedTotals struct {
	TotalBuyingAmount  string `json:"totalBuyingAmount"`
	TotalSellingAmount string `json:"totalSellingAmount"`
	NetProfitLoss      string `json:"netProfitLoss"`
}

type dailyResponse struct {
	DailyReport
	Formatted formattedTotals `json:"formatted"`
}

func (h *Handler) handleDaily(w http.ResponseWriter, r *http.Request) {
	ownerID := shared.OwnerFromContext(r.Context())
	if ownerID == 0 {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	var day time.Time
	if raw := chi.URLParam(r, "date"); raw != "" {
		parsed, err := time.Parse(DateFormat, raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}

	report, err := h.service.Daily(r.Context(), ownerID, day)
	if err != nil {
		h.logger.Error("daily report", slog.Int64("owner_id", ownerID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, dailyResponse{
		DailyReport: report,
		Formatted: formattedTotals{
			TotalBuyingAmount:  h.amount(report.TotalBuyingAmount),
			TotalSellingAmount: h.amount(report.TotalSellingAmount),
			NetProfitLoss:      h.amount(report.NetProfitLoss),
		},
	})
}

func (h *Handler) handleMonthly(w http.ResponseWriter, r *http.Request) {
	ownerID := shared.OwnerFromContext(r.Context())
	if ownerID == 0 {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	year, ok := h.intParam(w, r, "year")
	if !ok {
		return
	}
	month, ok := h.intParam(w, r, "month")
	if !ok {
		return
	}
	if month < 0 || month > 12 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "month must be 1-12")
		return
	}

	rollups, err := h.service.Monthly(r.Context(), ownerID, year, time.Month(month))
	if err != nil {
		h.logger.Error("monthly report", slog.Int64("owner_id", ownerID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rollups)
}

func (h *Handler) handleYearly(w http.ResponseWriter, r *http.Request) {
	ownerID := shared.OwnerFromContext(r.Context())
	if ownerID == 0 {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	year, ok := h.intParam(w, r, "year")
	if !ok {
		return
	}

	rollups, err := h.service.Yearly(r.Context(), ownerID, year)
	if err != nil {
		h.logger.Error("yearly report", slog.Int64("owner_id", ownerID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rollups)
}

// intParam parses an optional numeric URL segment, 0 when absent.
func (h *Handler) intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", name+" must be a positive integer")
		return 0, false
	}
	return value, true
}

func (h *Handler) amount(v float64) string {
	return h.printer.Sprintf("%.2f", v)
}
