package cache

import (
	"context"
	"sync"
	"time"

	"github.com/Ondalf/spothinta/internal/infrastructure/logging"
	"github.com/Ondalf/spothinta/internal/model"
)

// Store holds the most recently fetched series for one region plus the
// aggregates derived from it. It knows nothing about refresh policy or the
// network.
//
// Install publishes a fully constructed snapshot in one step, so readers
// always observe series, aggregates and last-fetch instant from the same
// install, never a mix.
type Store struct {
	region model.Region

	mu    sync.RWMutex
	state *model.RegionSnapshot
}

// NewStore creates an empty store for one region.
func NewStore(region model.Region) *Store {
	return &Store{
		region: region,
		state: &model.RegionSnapshot{
			Region: region,
		},
	}
}

// Install sorts points, replaces the series and recomputes the min/max
// aggregates from the tax-inclusive field. fetchedAt is the caller-supplied
// UTC instant of the successful fetch.
func (s *Store) Install(points model.TimeSeries, fetchedAt time.Time) model.RegionSnapshot {
	sorted := points.Sorted()
	minPrice, maxPrice, skipped := aggregates(sorted)
	if skipped > 0 {
		logging.Warn(context.Background(), "Series points without tax-inclusive price skipped from aggregates", logging.Fields{
			logging.FieldRegion: s.region.String(),
			"skipped":           skipped,
			"points":            len(sorted),
		})
	}

	fetchedAtUTC := fetchedAt.UTC()
	next := &model.RegionSnapshot{
		Region:    s.region,
		Series:    sorted,
		LastFetch: &fetchedAtUTC,
		MinPrice:  minPrice,
		MaxPrice:  maxPrice,
	}

	s.mu.Lock()
	s.state = next
	s.mu.Unlock()

	return *next
}

// Snapshot returns a read-only consistent view of the region state. Safe
// for concurrent readers; the underlying series is never mutated after
// install.
func (s *Store) Snapshot() model.RegionSnapshot {
	s.mu.RLock()
	state := s.state
	s.mu.RUnlock()
	return *state
}

// aggregates computes min/max over the tax-inclusive field of every point
// that carries one. Both are nil iff no such values exist. The
// tax-exclusive variant never feeds the aggregates.
func aggregates(series model.TimeSeries) (minPrice, maxPrice *float64, skipped int) {
	for _, point := range series {
		if point.PriceWithTax == nil {
			skipped++
			continue
		}
		v := *point.PriceWithTax
		if minPrice == nil || v < *minPrice {
			minPrice = &v
		}
		if maxPrice == nil || v > *maxPrice {
			maxPrice = &v
		}
	}
	return minPrice, maxPrice, skipped
}
