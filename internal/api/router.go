// Package api exposes the bill service over HTTP.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options configures the cross-cutting parts of the router.
type Options struct {
	CORSOrigins []string
	// Registry receives the HTTP metrics and is served on /metrics.
	// Nil disables both.
	Registry *prometheus.Registry
}

// NewRouter wires the bill routes and wraps them with request ID, logging,
// metrics and CORS middleware.
func NewRouter(h *Handler, opts Options) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.HandleFunc("/bills", h.ListBills).Methods(http.MethodGet)
	r.HandleFunc("/bills", h.CreateBill).Methods(http.MethodPost)
	r.HandleFunc("/bills/{id:[0-9]+}", h.GetBill).Methods(http.MethodGet)
	r.HandleFunc("/bills/{id:[0-9]+}", h.EditBill).Methods(http.MethodPut)
	r.HandleFunc("/bills/{id:[0-9]+}", h.DeleteBill).Methods(http.MethodDelete)
	r.HandleFunc("/bills/{id:[0-9]+}/paid", h.TogglePaid).Methods(http.MethodPut)

	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)

	var metrics *Metrics
	if opts.Registry != nil {
		metrics = NewMetrics(opts.Registry)
		r.Handle("/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	var handler http.Handler = r
	handler = corsMiddleware(opts.CORSOrigins)(handler)
	handler = observeMiddleware(r, metrics)(handler)
	handler = requestIDMiddleware(handler)
	return handler
}
