package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vastra-shop/vastra/internal/auth"
	"github.com/vastra-shop/vastra/internal/catalog"
	"github.com/vastra-shop/vastra/internal/payments"
	"github.com/vastra-shop/vastra/internal/sheets"
	"github.com/vastra-shop/vastra/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	MiddlewareCfg   MiddlewareConfig
	AuthHandler     *auth.Handler
	CatalogHandler  *catalog.Handler
	PaymentsHandler *payments.Handler
	SheetsHandler   *sheets.Handler
	JobsHandler     *jobs.Handler
}

// NewRouter constructs the chi.Router with the storefront, webhook and
// admin surfaces.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(params.MiddlewareCfg) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	params.CatalogHandler.MountStorefront(r)
	params.PaymentsHandler.MountStorefront(r)

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Route("/admin", func(admin chi.Router) {
		admin.Use(auth.RequireAdmin)
		admin.Route("/products", params.CatalogHandler.MountAdmin)
		admin.Route("/sheets", params.SheetsHandler.MountRoutes)
		if params.JobsHandler != nil {
			admin.Route("/jobs", params.JobsHandler.MountRoutes)
		}
		params.PaymentsHandler.MountAdmin(admin)
	})

	return r
}
