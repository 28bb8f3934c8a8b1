package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/aaditya574/ledgelogger/internal/auth"
	"github.com/aaditya574/ledgelogger/internal/ledger"
	"github.com/aaditya574/ledgelogger/internal/masterdata/buyers"
	"github.com/aaditya574/ledgelogger/internal/masterdata/items"
	"github.com/aaditya574/ledgelogger/internal/masterdata/vendors"
	"github.com/aaditya574/ledgelogger/internal/observability"
	"github.com/aaditya574/ledgelogger/internal/platform/httpx"
	"github.com/aaditya574/ledgelogger/internal/reports"
	"github.com/aaditya574/ledgelogger/internal/shared"
	"github.com/aaditya574/ledgelogger/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	AuthHandler    *auth.Handler
	LedgerHandler  *ledger.Handler
	ReportsHandler *reports.Handler
	ItemsHandler   *items.Handler
	VendorsHandler *vendors.Handler
	BuyersHandler  *buyers.Handler
	JobsHandler    *jobs.Handler
	Metrics        *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", func(r chi.Router) {
		params.AuthHandler.MountRoutes(r)
		r.Get("/csrf", func(w http.ResponseWriter, r *http.Request) {
			sess := shared.SessionFromContext(r.Context())
			if sess == nil || sess.Owner() == 0 {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
				return
			}
			token, err := params.CSRFManager.EnsureToken(r.Context(), sess)
			if err != nil {
				params.Logger.Error("ensure csrf token", slog.Any("error", err))
				httpx.Problem(w, http.StatusInternalServerError, "Internal Server Error", "")
				return
			}
			httpx.JSON(w, http.StatusOK, map[string]string{"csrf_token": token})
		})
	})

	r.Route("/items", params.ItemsHandler.MountRoutes)
	r.Route("/vendors", params.VendorsHandler.MountRoutes)
	r.Route("/buyers", params.BuyersHandler.MountRoutes)
	r.Route("/stocks", params.LedgerHandler.MountStockRoutes)
	r.Route("/transactions", params.LedgerHandler.MountTransactionRoutes)
	r.Route("/report", params.ReportsHandler.MountRoutes)
	if params.JobsHandler != nil {
		r.Route("/jobs", params.JobsHandler.MountRoutes)
	}

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
