package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/finbook/marketdata/internal/models"
	"github.com/finbook/marketdata/internal/search"
	"github.com/finbook/marketdata/internal/valuation"
)

// Cache is the resolution surface the handlers need from the cache manager.
type Cache interface {
	Resolve(ctx context.Context, class models.InstrumentClass) *models.Snapshot
	Refresh(ctx context.Context, class models.InstrumentClass) *models.Snapshot
	Clear(ctx context.Context, class models.InstrumentClass) error
	Status(class models.InstrumentClass) models.CacheStatus
	Tier(class models.InstrumentClass) models.Tier
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	cache Cache
	log   zerolog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(cache Cache, log zerolog.Logger) *Handler {
	return &Handler{
		cache: cache,
		log:   log,
	}
}

// snapshotResponse is the wire form of a resolved snapshot.
type snapshotResponse struct {
	Class  models.InstrumentClass `json:"class"`
	AsOf   string                 `json:"as_of"`
	Tier   models.Tier            `json:"tier"`
	Count  int                    `json:"count"`
	Quotes []models.Quote         `json:"quotes,omitempty"`
	Funds  []models.FundNAV       `json:"funds,omitempty"`
}

func newSnapshotResponse(snap *models.Snapshot, tier models.Tier) snapshotResponse {
	resp := snapshotResponse{
		Class: snap.Class,
		AsOf:  snap.AsOf.String(),
		Tier:  tier,
		Count: snap.Len(),
	}
	for _, k := range snap.Keys() {
		switch r := snap.Records[k].(type) {
		case models.Quote:
			resp.Quotes = append(resp.Quotes, r)
		case models.FundNAV:
			resp.Funds = append(resp.Funds, r)
		}
	}
	return resp
}

// GetPrices handles GET /api/v1/prices/{class}
func (h *Handler) GetPrices(w http.ResponseWriter, r *http.Request) {
	class, ok := h.cachedClass(w, r)
	if !ok {
		return
	}

	snap := h.cache.Resolve(r.Context(), class)
	respondJSON(w, http.StatusOK, newSnapshotResponse(snap, h.cache.Tier(class)))
}

// Search handles GET /api/v1/search/{class}?q=
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	class, ok := h.cachedClass(w, r)
	if !ok {
		return
	}

	// The UI queries per keystroke; gate before touching the cache so
	// sub-minimum queries cost nothing.
	query := r.URL.Query().Get("q")
	if len(strings.TrimSpace(query)) < search.MinQueryLen {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"class":   class,
			"query":   query,
			"results": []models.Record{},
		})
		return
	}

	snap := h.cache.Resolve(r.Context(), class)
	results := search.New(snap).Search(query)
	if results == nil {
		results = []models.Record{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"class":   class,
		"query":   query,
		"results": results,
	})
}

// Reprice handles POST /api/v1/portfolio/reprice
func (h *Handler) Reprice(w http.ResponseWriter, r *http.Request) {
	var holdings []models.Holding
	if err := json.NewDecoder(r.Body).Decode(&holdings); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	equities := h.cache.Resolve(r.Context(), models.ClassEquity)
	funds := h.cache.Resolve(r.Context(), models.ClassFund)
	respondJSON(w, http.StatusOK, valuation.Reprice(holdings, equities, funds))
}

// Metrics handles POST /api/v1/portfolio/metrics
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	var holdings []models.Holding
	if err := json.NewDecoder(r.Body).Decode(&holdings); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	respondJSON(w, http.StatusOK, valuation.Aggregate(holdings))
}

// RefreshCache handles POST /api/v1/cache/{class}/refresh
func (h *Handler) RefreshCache(w http.ResponseWriter, r *http.Request) {
	class, ok := h.cachedClass(w, r)
	if !ok {
		return
	}

	snap := h.cache.Refresh(r.Context(), class)
	respondJSON(w, http.StatusOK, newSnapshotResponse(snap, h.cache.Tier(class)))
}

// ClearCache handles DELETE /api/v1/cache/{class}
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	class, ok := h.cachedClass(w, r)
	if !ok {
		return
	}

	if err := h.cache.Clear(r.Context(), class); err != nil {
		h.log.Error().Err(err).Str("class", string(class)).Msg("failed to clear cache")
		http.Error(w, "failed to clear cache", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CacheStatus handles GET /api/v1/cache/{class}/status
func (h *Handler) CacheStatus(w http.ResponseWriter, r *http.Request) {
	class, ok := h.cachedClass(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, h.cache.Status(class))
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// cachedClass parses the {class} path variable and rejects classes that
// have no snapshot cache.
func (h *Handler) cachedClass(w http.ResponseWriter, r *http.Request) (models.InstrumentClass, bool) {
	vars := mux.Vars(r)
	class, err := models.ParseInstrumentClass(vars["class"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return "", false
	}
	if !class.Cached() {
		http.Error(w, "no price cache for class "+string(class), http.StatusBadRequest)
		return "", false
	}
	return class, true
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
