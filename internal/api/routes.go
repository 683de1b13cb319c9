package api

import (
	"github.com/gorilla/mux"
)

// SetupRoutes configures all API routes.
func SetupRoutes(handler *Handler) *mux.Router {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	// Market data
	api.HandleFunc("/prices/{class}", handler.GetPrices).Methods("GET")
	api.HandleFunc("/search/{class}", handler.Search).Methods("GET")

	// Portfolio valuation
	api.HandleFunc("/portfolio/reprice", handler.Reprice).Methods("POST")
	api.HandleFunc("/portfolio/metrics", handler.Metrics).Methods("POST")

	// Cache operations
	api.HandleFunc("/cache/{class}/refresh", handler.RefreshCache).Methods("POST")
	api.HandleFunc("/cache/{class}/status", handler.CacheStatus).Methods("GET")
	api.HandleFunc("/cache/{class}", handler.ClearCache).Methods("DELETE")

	return r
}
