// Package scheduler drives the background cadence: periodic refresh checks
// against the cutover policy and quarter-hour price republication.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/robfig/cron/v3"

	"github.com/Ondalf/spothinta/internal/cache"
	"github.com/Ondalf/spothinta/internal/client/spothinta"
	"github.com/Ondalf/spothinta/internal/infrastructure/logging"
	"github.com/Ondalf/spothinta/internal/model"
	"github.com/Ondalf/spothinta/internal/stream"
)

// quarterHourSpec fires on every quarter-hour boundary, when the applicable
// price entry can roll over.
const quarterHourSpec = "0 0,15,30,45 * * * *"

// Config holds the scheduler cadence.
type Config struct {
	// RefreshInterval is how often the refresh policy is evaluated per
	// region. The policy itself decides whether a fetch happens, so this
	// can be much shorter than a day without extra provider traffic.
	RefreshInterval time.Duration

	// WarmupRetries and WarmupDelay shape the startup fetch. The provider
	// allows roughly one request per minute, so the delay between warm-up
	// attempts must stay above that.
	WarmupRetries int
	WarmupDelay   time.Duration
}

// Scheduler manages the cron tasks.
type Scheduler struct {
	cron    *cron.Cron
	cache   *cache.RegionCache
	hub     *stream.Hub
	regions []model.Region
	cfg     Config
	ctx     context.Context
}

// New creates a Scheduler over the region cache. The hub may be nil when no
// streaming surface is wired.
func New(ctx context.Context, regionCache *cache.RegionCache, hub *stream.Hub, regions []model.Region, cfg Config) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		cache:   regionCache,
		hub:     hub,
		regions: regions,
		cfg:     cfg,
		ctx:     ctx,
	}
}

// Register adds the refresh and quarter-hour tasks.
func (s *Scheduler) Register() error {
	refreshSpec := fmt.Sprintf("@every %s", s.cfg.RefreshInterval)
	if _, err := s.cron.AddFunc(refreshSpec, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	if _, err := s.cron.AddFunc(quarterHourSpec, s.tickTask); err != nil {
		return fmt.Errorf("register quarter-hour task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	regions := make([]string, len(s.regions))
	for i, r := range s.regions {
		regions[i] = r.String()
	}
	logging.Info(s.ctx, "Scheduler started", logging.Fields{
		"refresh_interval": s.cfg.RefreshInterval.String(),
		"regions":          regions,
	})
}

// Stop stops the cron scheduler and waits for running tasks to finish.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	logging.Info(s.ctx, "Scheduler stopped", nil)
}

// Warmup performs the initial fetch for every configured region, retrying
// transient failures. A region that stays cold after all attempts is left
// to the periodic refresh task; startup proceeds regardless.
func (s *Scheduler) Warmup(ctx context.Context) {
	attempts := s.cfg.WarmupRetries
	if attempts < 1 {
		// retry.Attempts(0) means retry forever; warm-up always bounds it.
		attempts = 1
	}

	for _, region := range s.regions {
		region := region
		err := retry.Do(
			func() error {
				return s.cache.EnsureFresh(ctx, region, time.Now())
			},
			retry.Attempts(uint(attempts)),
			retry.Delay(s.cfg.WarmupDelay),
			retry.DelayType(retry.FixedDelay),
			retry.Context(ctx),
			retry.RetryIf(func(err error) bool {
				// A 429 means the provider's per-minute budget is spent;
				// hammering it again only extends the penalty window.
				return !errors.Is(err, spothinta.ErrRateLimited)
			}),
			retry.OnRetry(func(n uint, err error) {
				logging.WarnWithError(ctx, "Warm-up fetch failed, retrying", err, logging.Fields{
					logging.FieldRegion: region.String(),
					"attempt":           n + 1,
				})
			}),
		)
		if err != nil {
			logging.ErrorWithError(ctx, "Warm-up failed, region starts cold", err, logging.Fields{
				logging.FieldRegion: region.String(),
			})
			continue
		}
		logging.Info(ctx, "Warm-up completed", logging.Fields{
			logging.FieldRegion: region.String(),
		})
		s.publish(region, time.Now())
	}
}

// refreshTask evaluates the refresh policy for every region. Failures are
// logged and retried on the next interval; after a successful pass the
// region's prices are republished so subscribers see freshly installed
// data without waiting for the next quarter-hour.
func (s *Scheduler) refreshTask() {
	now := time.Now()
	for _, region := range s.regions {
		if err := s.cache.EnsureFresh(s.ctx, region, now); err != nil {
			logging.WarnWithError(s.ctx, "Scheduled refresh failed", err, logging.Fields{
				logging.FieldRegion: region.String(),
			})
			continue
		}
		s.publish(region, now)
	}
}

// tickTask re-resolves the applicable price on each quarter-hour boundary.
// Resolution also updates the current-price gauges, so the tick keeps
// metrics aligned with the price actually in force.
func (s *Scheduler) tickTask() {
	now := time.Now()
	for _, region := range s.regions {
		s.publish(region, now)
	}
}

// publish resolves both variants for region at now and fans the result out
// to stream subscribers.
func (s *Scheduler) publish(region model.Region, now time.Time) {
	for _, variant := range []model.PriceVariant{model.VariantWithTax, model.VariantWithoutTax} {
		price := s.cache.CurrentPrice(region, variant, now)
		if s.hub == nil {
			continue
		}
		s.hub.Publish(stream.PriceUpdate{
			Region:     region,
			Variant:    variant,
			Price:      price,
			ResolvedAt: now.UTC(),
		})
	}
}
