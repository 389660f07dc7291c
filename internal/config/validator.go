package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/Ondalf/spothinta/internal/model"
)

// Validator validates a loaded configuration.
type Validator struct{}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks the whole configuration.
func (v *Validator) Validate(config *Config) error {
	if err := v.validateServer(config.Server); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}
	if err := v.validateProvider(config.Provider); err != nil {
		return fmt.Errorf("provider config validation failed: %w", err)
	}
	if err := v.validateCache(config.Cache); err != nil {
		return fmt.Errorf("cache config validation failed: %w", err)
	}
	if err := v.validateSnapshot(config.Snapshot); err != nil {
		return fmt.Errorf("snapshot config validation failed: %w", err)
	}
	if err := v.validateScheduler(config.Scheduler); err != nil {
		return fmt.Errorf("scheduler config validation failed: %w", err)
	}
	if err := v.validateLogging(config.Logging); err != nil {
		return fmt.Errorf("logging config validation failed: %w", err)
	}
	return nil
}

func (v *Validator) validateServer(config ServerConfig) error {
	if config.Port <= 0 || config.Port > 65535 {
		return fmt.Errorf("invalid port: %d, must be between 1-65535", config.Port)
	}
	if config.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive, got: %v", config.ShutdownTimeout)
	}
	return nil
}

func (v *Validator) validateProvider(config ProviderConfig) error {
	if config.BaseURL == "" {
		return fmt.Errorf("base_url must not be empty")
	}
	u, err := url.Parse(config.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base_url: %q", config.BaseURL)
	}
	if config.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got: %v", config.Timeout)
	}
	return nil
}

func (v *Validator) validateCache(config CacheConfig) error {
	if len(config.Regions) == 0 {
		return fmt.Errorf("at least one region must be configured")
	}
	for _, region := range config.Regions {
		if _, err := model.ParseRegion(region); err != nil {
			return fmt.Errorf("invalid region %q, must be one of: %v", region, model.RegionStrings())
		}
	}
	if err := model.Resolution(config.Resolution).Validate(); err != nil {
		return err
	}
	if config.CutoverHour < 0 || config.CutoverHour > 23 {
		return fmt.Errorf("invalid cutover_hour: %d", config.CutoverHour)
	}
	if config.CutoverMinute < 0 || config.CutoverMinute > 59 {
		return fmt.Errorf("invalid cutover_minute: %d", config.CutoverMinute)
	}
	if _, err := time.LoadLocation(config.CutoverZone); err != nil {
		return fmt.Errorf("invalid cutover_zone %q: %w", config.CutoverZone, err)
	}
	return nil
}

func (v *Validator) validateSnapshot(config SnapshotConfig) error {
	switch config.Backend {
	case "memory":
	case "redis":
		if config.Redis.Addr == "" {
			return fmt.Errorf("redis addr must not be empty when backend is redis")
		}
		if config.Redis.DB < 0 {
			return fmt.Errorf("redis db must not be negative, got: %d", config.Redis.DB)
		}
	default:
		return fmt.Errorf("invalid snapshot backend: %q, must be one of: [memory redis]", config.Backend)
	}
	return nil
}

func (v *Validator) validateScheduler(config SchedulerConfig) error {
	if config.RefreshInterval < time.Minute {
		return fmt.Errorf("refresh_interval too short: %v, the provider allows roughly one request per minute", config.RefreshInterval)
	}
	if config.WarmupRetries < 0 {
		return fmt.Errorf("warmup_retries must not be negative, got: %d", config.WarmupRetries)
	}
	if config.WarmupRetries > 0 && config.WarmupDelay < time.Minute {
		return fmt.Errorf("warmup_delay too short: %v, must respect the provider rate limit", config.WarmupDelay)
	}
	return nil
}

func (v *Validator) validateLogging(config LoggingConfig) error {
	switch config.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q, must be one of: [debug info warn error]", config.Level)
	}
	switch config.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %q, must be one of: [json text]", config.Format)
	}
	return nil
}
