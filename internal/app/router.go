package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/cafebooks/cafebooks/internal/accounting/accounts"
	"github.com/cafebooks/cafebooks/internal/accounting/journals"
	"github.com/cafebooks/cafebooks/internal/accounting/posting"
	"github.com/cafebooks/cafebooks/internal/fx"
	"github.com/cafebooks/cafebooks/internal/inventory"
	"github.com/cafebooks/cafebooks/internal/masterdata/products"
	"github.com/cafebooks/cafebooks/internal/masterdata/warehouses"
	"github.com/cafebooks/cafebooks/internal/observability"
	"github.com/cafebooks/cafebooks/internal/procurement"
	"github.com/cafebooks/cafebooks/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config

	AccountsHandler    *accounts.Handler
	JournalsHandler    *journals.Handler
	PostingHandler     *posting.Handler
	FxHandler          *fx.Handler
	InventoryHandler   *inventory.Handler
	ProcurementHandler *procurement.Handler
	ProductsHandler    *products.Handler
	WarehousesHandler  *warehouses.Handler

	JobsHandler *jobs.Handler
	Metrics     *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		params.AccountsHandler.MountRoutes(r)
		params.JournalsHandler.MountRoutes(r)
		params.PostingHandler.MountRoutes(r)
		params.FxHandler.MountRoutes(r)
		params.InventoryHandler.MountRoutes(r)
		params.ProcurementHandler.MountRoutes(r)
		params.ProductsHandler.MountRoutes(r)
		params.WarehousesHandler.MountRoutes(r)
	})

	if params.JobsHandler != nil {
		r.Route("/jobs", params.JobsHandler.MountRoutes)
	}

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
