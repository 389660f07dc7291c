package config

import (
	"time"
)

// Config represents the complete daemon configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Provider  ProviderConfig  `yaml:"provider" mapstructure:"provider"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Snapshot  SnapshotConfig  `yaml:"snapshot" mapstructure:"snapshot"`
	Scheduler SchedulerConfig `yaml:"scheduler" mapstructure:"scheduler"`
	Logging   LoggingConfig   `yaml:"logging" mapstructure:"logging"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" mapstructure:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// ProviderConfig contains spot-hinta.fi client configuration.
type ProviderConfig struct {
	BaseURL string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// CacheConfig contains the refresh policy and query configuration.
type CacheConfig struct {
	Regions       []string `yaml:"regions" mapstructure:"regions"`
	Resolution    int      `yaml:"resolution" mapstructure:"resolution"`
	CutoverHour   int      `yaml:"cutover_hour" mapstructure:"cutover_hour"`
	CutoverMinute int      `yaml:"cutover_minute" mapstructure:"cutover_minute"`
	CutoverZone   string   `yaml:"cutover_zone" mapstructure:"cutover_zone"`
}

// SnapshotConfig contains warm-start persistence configuration.
type SnapshotConfig struct {
	Backend string      `yaml:"backend" mapstructure:"backend"`
	Redis   RedisConfig `yaml:"redis" mapstructure:"redis"`
}

// RedisConfig contains Redis-specific configuration.
type RedisConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
}

// SchedulerConfig contains the periodic trigger configuration. The refresh
// interval is deliberately coarse; the refresh policy decides whether a
// tick actually fetches.
type SchedulerConfig struct {
	RefreshInterval time.Duration `yaml:"refresh_interval" mapstructure:"refresh_interval"`
	WarmupRetries   int           `yaml:"warmup_retries" mapstructure:"warmup_retries"`
	WarmupDelay     time.Duration `yaml:"warmup_delay" mapstructure:"warmup_delay"`
}

// LoggingConfig contains logging system configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// GetDefaultConfig returns the default configuration.
func GetDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ShutdownTimeout: 30 * time.Second,
		},
		Provider: ProviderConfig{
			BaseURL: "https://api.spot-hinta.fi",
			Timeout: 15 * time.Second,
		},
		Cache: CacheConfig{
			Regions:       []string{"FI"},
			Resolution:    15,
			CutoverHour:   14,
			CutoverMinute: 30,
			CutoverZone:   "Europe/Helsinki",
		},
		Snapshot: SnapshotConfig{
			Backend: "memory",
			Redis: RedisConfig{
				Addr:     "localhost:6379",
				Password: "",
				DB:       0,
			},
		},
		Scheduler: SchedulerConfig{
			RefreshInterval: 2 * time.Hour,
			WarmupRetries:   3,
			WarmupDelay:     75 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
