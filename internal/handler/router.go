// internal/handler/router.go
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/unclebandit/customer-records/internal/controller"
	"github.com/unclebandit/customer-records/internal/metrics"
)

// Pinger is satisfied by *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps holds what the router needs to serve the API.
type Deps struct {
	Customers *controller.CustomerController
	Addresses *controller.AddressController
	DB        Pinger
	Log       *zap.Logger

	CORSOrigin string
	// RateLimiter is optional; nil disables limiting.
	RateLimiter *RateLimiter
}

// NewRouter mounts the REST routes at / and /api.
func NewRouter(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(metrics.InstrumentHandler)
	if d.CORSOrigin != "" {
		r.Use(CORS(d.CORSOrigin))
	}
	if d.RateLimiter != nil {
		r.Use(d.RateLimiter.Handler)
	}

	r.Get("/healthz", healthz(d.DB))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	api := apiRoutes(d)
	r.Mount("/api", api)
	r.Mount("/", api)

	return r
}

func apiRoutes(d Deps) chi.Router {
	r := chi.NewRouter()

	r.Route("/customers", func(r chi.Router) {
		r.Get("/", d.Customers.ListCustomers)
		r.Post("/", d.Customers.CreateCustomer)
		r.Get("/{id}", d.Customers.GetCustomer)
		r.Put("/{id}", d.Customers.UpdateCustomer)
		r.Delete("/{id}", d.Customers.DeleteCustomer)
		r.Get("/{id}/addresses", d.Addresses.ListAddresses)
		r.Post("/{id}/addresses", d.Addresses.CreateAddress)
	})

	r.Route("/addresses", func(r chi.Router) {
		r.Get("/{id}", d.Addresses.GetAddress)
		r.Put("/{id}", d.Addresses.UpdateAddress)
		r.Delete("/{id}", d.Addresses.DeleteAddress)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		controller.WriteError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		controller.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

func healthz(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				controller.WriteError(w, http.StatusServiceUnavailable, "database unavailable")
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}
}
