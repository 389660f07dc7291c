package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Loader handles configuration loading using Viper.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader instance.
func NewLoader() *Loader {
	return &Loader{
		v: viper.New(),
	}
}

// Load loads configuration from files and environment variables, validates
// it, and returns the result.
func (l *Loader) Load() (*Config, error) {
	l.setupViper()

	if err := l.v.ReadInConfig(); err != nil {
		// Without a config.yaml the defaults plus env vars apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := GetDefaultConfig()
	if err := l.v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	l.overrideWithEnvVars(config)

	if err := NewValidator().Validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// setupViper configures Viper to read files and env vars.
func (l *Loader) setupViper() {
	l.v.SetConfigName("config")
	l.v.SetConfigType("yaml")

	l.v.AddConfigPath("./configs")
	l.v.AddConfigPath("../configs")
	l.v.AddConfigPath(".")
	l.v.AddConfigPath("/etc/spothinta")

	l.v.AutomaticEnv()
	l.v.SetEnvPrefix("SPOTHINTA") // env vars: SPOTHINTA_SERVER_PORT etc.
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	l.bindEnvVars()
}

// bindEnvVars maps short environment variable names to configuration keys.
func (l *Loader) bindEnvVars() {
	envMappings := map[string]string{
		"server.port":                "PORT",
		"provider.base_url":          "PROVIDER_BASE_URL",
		"provider.timeout":           "PROVIDER_TIMEOUT",
		"cache.resolution":           "PRICE_RESOLUTION",
		"cache.cutover_zone":         "CUTOVER_ZONE",
		"snapshot.backend":           "SNAPSHOT_BACKEND",
		"snapshot.redis.addr":        "REDIS_ADDR",
		"snapshot.redis.password":    "REDIS_PASSWORD",
		"snapshot.redis.db":          "REDIS_DB",
		"scheduler.refresh_interval": "REFRESH_INTERVAL",
		"logging.level":              "LOG_LEVEL",
		"logging.format":             "LOG_FORMAT",
	}

	for configKey, envVar := range envMappings {
		_ = l.v.BindEnv(configKey, envVar)
	}
}

// overrideWithEnvVars handles env vars viper cannot map directly.
func (l *Loader) overrideWithEnvVars(config *Config) {
	// REGIONS as a comma-separated string
	if regionsEnv := os.Getenv("REGIONS"); regionsEnv != "" {
		var clean []string
		for _, region := range strings.Split(regionsEnv, ",") {
			region = strings.TrimSpace(strings.ToUpper(region))
			if region != "" {
				clean = append(clean, region)
			}
		}
		if len(clean) > 0 {
			config.Cache.Regions = clean
		}
	}
}
