package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Ondalf/spothinta/internal/cache/snapshot"
	"github.com/Ondalf/spothinta/internal/infrastructure/logging"
	"github.com/Ondalf/spothinta/internal/infrastructure/metrics"
	"github.com/Ondalf/spothinta/internal/model"
)

// Fetcher retrieves one region's price series from the provider.
type Fetcher interface {
	TodayAndDayForward(ctx context.Context, region model.Region, resolution model.Resolution) (model.TimeSeries, error)
}

// Config configures a RegionCache. Zero values fall back to the provider
// defaults (15 minute resolution, 14:30 Europe/Helsinki cutover).
type Config struct {
	Resolution    model.Resolution
	CutoverHour   int
	CutoverMinute int
	CutoverZone   *time.Location

	// Snapshots, when set, persists every installed dataset and feeds
	// Seed at startup. Fetching and querying work without it.
	Snapshots snapshot.Store
}

// RegionCache is the facade external collaborators call: it owns one store
// per region, drives the refresh policy and fetcher on demand, and serves
// price queries. Regions are fully independent; an in-flight fetch for one
// region never blocks another.
type RegionCache struct {
	fetcher    Fetcher
	resolution model.Resolution
	cutoverH   int
	cutoverM   int
	zone       *time.Location
	snapshots  snapshot.Store

	mu      sync.Mutex
	regions map[model.Region]*Store

	flight singleflight.Group
}

// New creates a RegionCache around a fetcher.
func New(fetcher Fetcher, cfg Config) *RegionCache {
	resolution := cfg.Resolution
	if resolution == 0 {
		resolution = model.DefaultResolution
	}
	zone := cfg.CutoverZone
	if zone == nil {
		zone = DefaultCutoverZone
	}
	cutoverH, cutoverM := cfg.CutoverHour, cfg.CutoverMinute
	if cutoverH == 0 && cutoverM == 0 {
		cutoverH, cutoverM = DefaultCutoverHour, DefaultCutoverMinute
	}

	return &RegionCache{
		fetcher:    fetcher,
		resolution: resolution,
		cutoverH:   cutoverH,
		cutoverM:   cutoverM,
		zone:       zone,
		snapshots:  cfg.Snapshots,
		regions:    make(map[model.Region]*Store),
	}
}

// store returns the region's store, creating an empty one on first touch.
func (c *RegionCache) store(region model.Region) *Store {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.regions[region]
	if !ok {
		st = NewStore(region)
		c.regions[region] = st
	}
	return st
}

// Seed restores persisted snapshots for the given regions. Called once at
// startup, before the scheduler runs; a restart inside the same local day
// then serves yesterday's fetch instead of spending a provider request.
func (c *RegionCache) Seed(ctx context.Context, regions []model.Region) {
	if c.snapshots == nil {
		return
	}

	for _, region := range regions {
		snap, err := c.snapshots.Load(ctx, region)
		switch {
		case errors.Is(err, snapshot.ErrNotFound):
			metrics.RecordSnapshotOperation("load", "miss")
		case err != nil:
			metrics.RecordSnapshotOperation("load", "error")
			logging.WarnWithError(ctx, "Failed to load persisted snapshot", err, logging.Fields{
				logging.FieldRegion: region.String(),
			})
		case snap.LastFetch == nil:
			metrics.RecordSnapshotOperation("load", "miss")
		default:
			metrics.RecordSnapshotOperation("load", "success")
			installed := c.store(region).Install(snap.Series, *snap.LastFetch)
			metrics.RecordInstall(region.String(), len(installed.Series), *installed.LastFetch, installed.MinPrice, installed.MaxPrice)
			logging.Info(ctx, "Seeded region from persisted snapshot", logging.Fields{
				logging.FieldRegion: region.String(),
				"points":            len(installed.Series),
				"last_fetch":        installed.LastFetch.Format(time.RFC3339),
			})
		}
	}
}

// EnsureFresh evaluates the refresh policy for region and, when a fetch is
// due, retrieves and installs a new series. A failed fetch leaves existing
// state untouched and is returned to the caller; the policy keeps
// reporting due until a fetch succeeds.
func (c *RegionCache) EnsureFresh(ctx context.Context, region model.Region, now time.Time) error {
	if !region.IsSupported() {
		return fmt.Errorf("%w: %q", model.ErrUnknownRegion, region)
	}

	st := c.store(region)
	due := IsRefreshDue(st.Snapshot().LastFetch, now, c.cutoverH, c.cutoverM, c.zone)
	metrics.RecordRefreshDecision(region.String(), due)
	if !due {
		logging.Debug(ctx, "Refresh not due, serving cached data", logging.Fields{
			logging.FieldRegion: region.String(),
			"last_fetch":        formatLastFetch(st.Snapshot().LastFetch),
		})
		return nil
	}

	return c.refresh(ctx, st, now, false)
}

// EnsureFreshForced bypasses the refresh policy and fetches now. Used by
// the admin refresh endpoint.
func (c *RegionCache) EnsureFreshForced(ctx context.Context, region model.Region, now time.Time) error {
	if !region.IsSupported() {
		return fmt.Errorf("%w: %q", model.ErrUnknownRegion, region)
	}
	return c.refresh(ctx, c.store(region), now, true)
}

// refresh performs the fetch-and-install under a per-region flight guard:
// concurrent due callers for the same region coalesce onto one outbound
// request and observe the same result. The network call holds no lock;
// only the final install touches shared state.
func (c *RegionCache) refresh(ctx context.Context, st *Store, now time.Time, force bool) error {
	_, err, _ := c.flight.Do(st.region.String(), func() (interface{}, error) {
		if !force {
			// A caller whose due check raced an already-completed fetch
			// lands here after the install; re-evaluate before fetching.
			if !IsRefreshDue(st.Snapshot().LastFetch, now, c.cutoverH, c.cutoverM, c.zone) {
				return nil, nil
			}
		}

		series, err := c.fetcher.TodayAndDayForward(ctx, st.region, c.resolution)
		metrics.RecordRefresh(st.region.String(), err)
		if err != nil {
			logging.ErrorWithError(ctx, "Fetch failed, keeping existing cached state", err, logging.Fields{
				logging.FieldRegion: st.region.String(),
			})
			return nil, err
		}

		installed := st.Install(series, now)
		metrics.RecordInstall(st.region.String(), len(installed.Series), *installed.LastFetch, installed.MinPrice, installed.MaxPrice)
		logging.Info(ctx, "Installed price series", logging.Fields{
			logging.FieldRegion: st.region.String(),
			"points":            len(installed.Series),
		})

		c.persist(ctx, installed)
		return nil, nil
	})
	return err
}

// persist saves the installed snapshot; persistence failures are logged,
// never surfaced, because the in-memory state is already correct.
func (c *RegionCache) persist(ctx context.Context, snap model.RegionSnapshot) {
	if c.snapshots == nil {
		return
	}
	if err := c.snapshots.Save(ctx, snap); err != nil {
		metrics.RecordSnapshotOperation("save", "error")
		logging.WarnWithError(ctx, "Failed to persist snapshot", err, logging.Fields{
			logging.FieldRegion: snap.Region.String(),
		})
		return
	}
	metrics.RecordSnapshotOperation("save", "success")
}

// CurrentPrice resolves the applicable price at now for region and variant.
// It never fails and never triggers a fetch: absence of data yields nil,
// and freshness is the caller's responsibility via EnsureFresh.
func (c *RegionCache) CurrentPrice(region model.Region, variant model.PriceVariant, now time.Time) *float64 {
	if !region.IsSupported() {
		return nil
	}

	snap := c.store(region).Snapshot()
	res := Resolve(snap.Series, now, variant)
	if res.Fallback {
		metrics.RecordResolverFallback(region.String(), res.FallbackReason)
		logging.Warn(context.Background(), "Price resolution fell back to last series entry", logging.Fields{
			logging.FieldRegion:  region.String(),
			logging.FieldVariant: string(variant),
			"reason":             res.FallbackReason,
		})
	}
	if res.Price != nil {
		metrics.RecordCurrentPrice(region.String(), string(variant), *res.Price)
	}
	return res.Price
}

// Aggregates returns the stored min/max tax-inclusive prices for region.
// Both are nil until a series with parseable values is installed.
func (c *RegionCache) Aggregates(region model.Region) (minPrice, maxPrice *float64) {
	if !region.IsSupported() {
		return nil, nil
	}
	snap := c.store(region).Snapshot()
	return snap.MinPrice, snap.MaxPrice
}

// Snapshot returns the full consistent region state, for the API surface.
func (c *RegionCache) Snapshot(region model.Region) model.RegionSnapshot {
	return c.store(region).Snapshot()
}

func formatLastFetch(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return t.Format(time.RFC3339)
}
