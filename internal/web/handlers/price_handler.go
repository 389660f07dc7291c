package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Ondalf/spothinta/internal/client/spothinta"
	"github.com/Ondalf/spothinta/internal/infrastructure/logging"
	"github.com/Ondalf/spothinta/internal/model"
)

// PriceCache is the slice of the region cache the handlers consume.
type PriceCache interface {
	EnsureFreshForced(ctx context.Context, region model.Region, now time.Time) error
	CurrentPrice(region model.Region, variant model.PriceVariant, now time.Time) *float64
	Aggregates(region model.Region) (minPrice, maxPrice *float64)
	Snapshot(region model.Region) model.RegionSnapshot
}

// PriceHandler serves the price query endpoints.
type PriceHandler struct {
	cache PriceCache
	now   func() time.Time
}

// NewPriceHandler creates a handler over the region cache.
func NewPriceHandler(cache PriceCache) *PriceHandler {
	return &PriceHandler{
		cache: cache,
		now:   time.Now,
	}
}

// NewPriceHandlerWithClock creates a handler with a fixed clock, for tests.
func NewPriceHandlerWithClock(cache PriceCache, now func() time.Time) *PriceHandler {
	return &PriceHandler{cache: cache, now: now}
}

// priceResponse is the current price document.
type priceResponse struct {
	Region     string    `json:"region"`
	Variant    string    `json:"variant"`
	Price      *float64  `json:"price"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// aggregatesResponse is the min/max document.
type aggregatesResponse struct {
	Region   string   `json:"region"`
	MinPrice *float64 `json:"min_price"`
	MaxPrice *float64 `json:"max_price"`
}

// regionsResponse lists the supported bidding zones.
type regionsResponse struct {
	Regions []string `json:"regions"`
	Default string   `json:"default"`
}

// GetPrice handles GET /api/v1/price?region=FI&variant=with_tax.
// A null price is a legitimate "no data yet" outcome, not an error.
func (h *PriceHandler) GetPrice(w http.ResponseWriter, r *http.Request) {
	region, variant, ok := h.parseRegionVariant(w, r)
	if !ok {
		return
	}

	now := h.now()
	price := h.cache.CurrentPrice(region, variant, now)

	writeJSON(w, r.Context(), http.StatusOK, priceResponse{
		Region:     region.String(),
		Variant:    string(variant),
		Price:      price,
		ResolvedAt: now.UTC(),
	})
}

// GetPrices handles GET /api/v1/prices?region=FI: the full region snapshot.
func (h *PriceHandler) GetPrices(w http.ResponseWriter, r *http.Request) {
	region, ok := h.parseRegion(w, r)
	if !ok {
		return
	}
	writeJSON(w, r.Context(), http.StatusOK, h.cache.Snapshot(region))
}

// GetAggregates handles GET /api/v1/aggregates?region=FI.
func (h *PriceHandler) GetAggregates(w http.ResponseWriter, r *http.Request) {
	region, ok := h.parseRegion(w, r)
	if !ok {
		return
	}

	minPrice, maxPrice := h.cache.Aggregates(region)
	writeJSON(w, r.Context(), http.StatusOK, aggregatesResponse{
		Region:   region.String(),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
	})
}

// GetRegions handles GET /api/v1/regions.
func (h *PriceHandler) GetRegions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r.Context(), http.StatusOK, regionsResponse{
		Regions: model.RegionStrings(),
		Default: model.DefaultRegion.String(),
	})
}

// Refresh handles POST /api/v1/refresh?region=FI: an administrative forced
// fetch that bypasses the refresh policy.
func (h *PriceHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	region, ok := h.parseRegion(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	if err := h.cache.EnsureFreshForced(ctx, region, h.now()); err != nil {
		logging.ErrorWithError(ctx, "Forced refresh failed", err, logging.Fields{
			logging.FieldRegion: region.String(),
		})
		switch {
		case errors.Is(err, spothinta.ErrRateLimited):
			writeError(w, ctx, http.StatusTooManyRequests, "RATE_LIMITED", "provider rate limit exceeded")
		case errors.Is(err, spothinta.ErrDecode):
			writeError(w, ctx, http.StatusBadGateway, "DECODE_ERROR", "provider response not decodable")
		default:
			writeError(w, ctx, http.StatusBadGateway, "FETCH_ERROR", "provider request failed")
		}
		return
	}

	writeJSON(w, ctx, http.StatusOK, map[string]interface{}{
		"region":  region.String(),
		"message": "refresh completed",
	})
}

func (h *PriceHandler) parseRegion(w http.ResponseWriter, r *http.Request) (model.Region, bool) {
	region, err := model.ParseRegion(defaulted(r.URL.Query().Get("region"), model.DefaultRegion.String()))
	if err != nil {
		writeError(w, r.Context(), http.StatusBadRequest, "INVALID_REGION", err.Error())
		return "", false
	}
	return region, true
}

func (h *PriceHandler) parseRegionVariant(w http.ResponseWriter, r *http.Request) (model.Region, model.PriceVariant, bool) {
	region, ok := h.parseRegion(w, r)
	if !ok {
		return "", "", false
	}
	variant, err := model.ParseVariant(r.URL.Query().Get("variant"))
	if err != nil {
		writeError(w, r.Context(), http.StatusBadRequest, "INVALID_VARIANT", err.Error())
		return "", "", false
	}
	return region, variant, true
}

func defaulted(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, ctx context.Context, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.ErrorWithError(ctx, "Failed to encode JSON response", err, logging.Fields{
			logging.FieldStatusCode: statusCode,
		})
	}
}

// writeError writes an error response in the shared error envelope.
func writeError(w http.ResponseWriter, ctx context.Context, statusCode int, code, message string) {
	writeJSON(w, ctx, statusCode, map[string]interface{}{
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
		},
	})
}
