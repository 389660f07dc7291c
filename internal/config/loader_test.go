package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaultConfig(t *testing.T) {
	cfg := GetDefaultConfig()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "https://api.spot-hinta.fi", cfg.Provider.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, []string{"FI"}, cfg.Cache.Regions)
	assert.Equal(t, 15, cfg.Cache.Resolution)
	assert.Equal(t, 14, cfg.Cache.CutoverHour)
	assert.Equal(t, 30, cfg.Cache.CutoverMinute)
	assert.Equal(t, "Europe/Helsinki", cfg.Cache.CutoverZone)
	assert.Equal(t, "memory", cfg.Snapshot.Backend)
	assert.Equal(t, 2*time.Hour, cfg.Scheduler.RefreshInterval)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_DefaultsWithoutConfigFile(t *testing.T) {
	// No config file in the test working directory: defaults apply.
	cfg, err := NewLoader().Load()
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfig().Server.Port, cfg.Server.Port)
	assert.Equal(t, []string{"FI"}, cfg.Cache.Regions)
}

func TestLoad_RegionsFromEnv(t *testing.T) {
	t.Setenv("REGIONS", "fi, se3 ,NO1")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"FI", "SE3", "NO1"}, cfg.Cache.Regions)
}

func TestLoad_InvalidRegionFromEnvFailsValidation(t *testing.T) {
	t.Setenv("REGIONS", "FI,DE")

	_, err := NewLoader().Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid region "DE"`)
}

func TestLoad_PortFromEnv(t *testing.T) {
	t.Setenv("PORT", "9191")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Server.Port)
}
