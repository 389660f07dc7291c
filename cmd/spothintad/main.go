package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ondalf/spothinta/internal/cache"
	"github.com/Ondalf/spothinta/internal/cache/snapshot"
	"github.com/Ondalf/spothinta/internal/client/spothinta"
	"github.com/Ondalf/spothinta/internal/config"
	"github.com/Ondalf/spothinta/internal/infrastructure/logging"
	"github.com/Ondalf/spothinta/internal/infrastructure/metrics"
	"github.com/Ondalf/spothinta/internal/model"
	"github.com/Ondalf/spothinta/internal/scheduler"
	"github.com/Ondalf/spothinta/internal/stream"
	"github.com/Ondalf/spothinta/internal/web"
	"github.com/Ondalf/spothinta/internal/web/handlers"
	"github.com/Ondalf/spothinta/internal/web/server"
)

const serviceVersion = "1.0.0"

func main() {
	cfg, err := config.NewLoader().Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logCfg := logging.DefaultConfig().
		WithLevel(logging.ParseLevel(cfg.Logging.Level)).
		WithFormat(logging.LogFormat(cfg.Logging.Format))
	logCfg.Version = serviceVersion
	if err := logging.Configure(logCfg); err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}

	ctx := logging.WithRequestID(context.Background(), logging.GenerateRequestID())
	logging.Info(ctx, "Starting spothinta daemon", logging.Fields{
		"version": serviceVersion,
		"regions": cfg.Cache.Regions,
	})

	regions := make([]model.Region, 0, len(cfg.Cache.Regions))
	for _, raw := range cfg.Cache.Regions {
		region, err := model.ParseRegion(raw)
		if err != nil {
			logging.ErrorWithError(ctx, "Invalid region in configuration", err, nil)
			os.Exit(1)
		}
		regions = append(regions, region)
	}

	snapshots, err := snapshot.NewFromConfig(snapshot.Config{
		Backend:       cfg.Snapshot.Backend,
		RedisAddr:     cfg.Snapshot.Redis.Addr,
		RedisPassword: cfg.Snapshot.Redis.Password,
		RedisDB:       cfg.Snapshot.Redis.DB,
	})
	if err != nil {
		logging.ErrorWithError(ctx, "Failed to create snapshot store", err, nil)
		os.Exit(1)
	}
	defer func() {
		_ = snapshots.Close()
	}()

	metrics.SetServiceInfo(serviceVersion, cfg.Snapshot.Backend)

	zone, err := time.LoadLocation(cfg.Cache.CutoverZone)
	if err != nil {
		logging.ErrorWithError(ctx, "Failed to load cutover zone", err, nil)
		os.Exit(1)
	}

	client := spothinta.NewClientWith(cfg.Provider.BaseURL, cfg.Provider.Timeout)
	regionCache := cache.New(client, cache.Config{
		Resolution:    model.Resolution(cfg.Cache.Resolution),
		CutoverHour:   cfg.Cache.CutoverHour,
		CutoverMinute: cfg.Cache.CutoverMinute,
		CutoverZone:   zone,
		Snapshots:     snapshots,
	})
	regionCache.Seed(ctx, regions)

	hub := stream.NewHub()

	sched := scheduler.New(ctx, regionCache, hub, regions, scheduler.Config{
		RefreshInterval: cfg.Scheduler.RefreshInterval,
		WarmupRetries:   cfg.Scheduler.WarmupRetries,
		WarmupDelay:     cfg.Scheduler.WarmupDelay,
	})
	if err := sched.Register(); err != nil {
		logging.ErrorWithError(ctx, "Failed to register scheduler tasks", err, nil)
		os.Exit(1)
	}

	router := web.NewRouter(
		handlers.NewPriceHandler(regionCache),
		handlers.NewHealthHandler(),
		handlers.NewStreamHandler(hub),
	)
	srv := server.NewServer(router, cfg.Server.Port)

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logging.ErrorWithError(ctx, "HTTP server failed", err, nil)
			os.Exit(1)
		}
	}()

	// Warm regions before the cron cadence takes over; a cold region is
	// retried there, so startup never blocks on the provider for long.
	go func() {
		sched.Warmup(ctx)
		sched.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info(ctx, "Shutting down", nil)
	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logging.ErrorWithError(ctx, "Server forced to shutdown", err, nil)
		os.Exit(1)
	}

	logging.Info(ctx, "Shutdown completed", nil)
}
