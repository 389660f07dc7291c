package web

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Ondalf/spothinta/internal/docs"
	"github.com/Ondalf/spothinta/internal/infrastructure/metrics"
	"github.com/Ondalf/spothinta/internal/web/handlers"
	"github.com/Ondalf/spothinta/internal/web/middleware"
)

// NewRouter wires the HTTP surface: the REST API, the websocket stream,
// health, Prometheus metrics and the Swagger UI.
func NewRouter(price *handlers.PriceHandler, health *handlers.HealthHandler, stream *handlers.StreamHandler) http.Handler {
	r := mux.NewRouter()

	r.Use(middleware.RequestTracing)
	r.Use(metrics.HTTPMetricsMiddleware)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/price", price.GetPrice).Methods(http.MethodGet)
	api.HandleFunc("/prices", price.GetPrices).Methods(http.MethodGet)
	api.HandleFunc("/aggregates", price.GetAggregates).Methods(http.MethodGet)
	api.HandleFunc("/regions", price.GetRegions).Methods(http.MethodGet)
	api.HandleFunc("/refresh", price.Refresh).Methods(http.MethodPost)
	api.HandleFunc("/stream", stream.Stream).Methods(http.MethodGet)

	r.HandleFunc("/health", health.Health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	r.HandleFunc("/swagger/doc.json", serveSwaggerSpec).Methods(http.MethodGet)
	r.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.HandleFunc("/docs", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/swagger/index.html", http.StatusMovedPermanently)
	}).Methods(http.MethodGet)

	return r
}

// serveSwaggerSpec serves the OpenAPI document with the host rewritten to
// whatever the client dialed, so "Try it out" targets the right instance.
func serveSwaggerSpec(w http.ResponseWriter, r *http.Request) {
	spec := strings.Replace(docs.SwaggerJSON, `"host": "localhost:8080"`, `"host": "`+r.Host+`"`, 1)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(spec))
}
