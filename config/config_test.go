package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaultsAndEnv(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("STATION_SOURCE", "mongo")
	t.Setenv("API_UPDATE_DELAY_MS", "0")

	LoadConfig()

	assert.Equal(t, "9090", AppConfig.AppPort)
	assert.Equal(t, "mongo", AppConfig.StationSource)
	assert.Equal(t, "stationcal", AppConfig.DatabaseName)
	assert.Equal(t, "*/15 * * * *", AppConfig.RefreshCron)
	assert.Equal(t, time.Duration(0), AppConfig.APIUpdateDelay())
	assert.False(t, IsProduction())
}

func TestDurationsFallBack(t *testing.T) {
	c := Config{}
	assert.Equal(t, 15*time.Second, c.APITimeout())
	assert.Equal(t, time.Minute, c.StationsCacheTTL())

	c = Config{APITimeoutSeconds: 3, StationsCacheTTLSeconds: 10, APIUpdateDelayMs: 250}
	assert.Equal(t, 3*time.Second, c.APITimeout())
	assert.Equal(t, 10*time.Second, c.StationsCacheTTL())
	assert.Equal(t, 250*time.Millisecond, c.APIUpdateDelay())
}
