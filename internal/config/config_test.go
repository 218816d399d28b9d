package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MemoryDriverSkipsDatabaseVars(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.example, ,http://b.example")
	t.Setenv("SEED_ROOMS", "Hall,Chapel")

	cfg := Load()

	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Empty(t, cfg.DBHost)
	assert.Equal(t, DefaultFacilityTimezone, cfg.FacilityTimezone)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.CORSAllowOrigins)
	assert.Equal(t, []string{"Hall", "Chapel"}, cfg.SeedRooms)
}

func TestLoad_MySQLDriverReadsDatabaseVars(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("APP_PORT", "5000")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASS", "")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "rooms")
	t.Setenv("FACILITY_TIMEZONE", "UTC")

	cfg := Load()

	assert.Equal(t, StoreMySQL, cfg.StoreDriver)
	assert.Equal(t, "app", cfg.DBUser)
	assert.Equal(t, "rooms", cfg.DBName)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowOrigins)
	assert.Nil(t, cfg.SeedRooms)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLocation_UnknownZone(t *testing.T) {
	_, err := Config{FacilityTimezone: "Mars/Olympus"}.Location()
	assert.Error(t, err)
}

func TestLoadRateLimitConfig_Shorthands(t *testing.T) {
	t.Setenv("RATE_LIMIT_BURST", "5")
	t.Setenv("RATE_LIMIT_REFILL_EVERY", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 5, cfg.Capacity)
	assert.Equal(t, 1, cfg.RefillTokens)
	assert.Equal(t, 2*time.Second, cfg.RefillInterval)
	assert.Equal(t, 10*time.Second, cfg.TTL, "ttl is raised to five refill intervals")
	assert.Equal(t, "ip_route", cfg.KeyStrategy)
}

func TestLoadCacheConfig_Defaults(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")
	t.Setenv("CACHE_TTL", "not-a-duration")

	cfg := LoadCacheConfig()

	assert.True(t, cfg.Enabled)
	assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, cfg.Methods)
	assert.Equal(t, 30*time.Second, cfg.TTL)
	assert.Equal(t, "path_query", cfg.KeyStrategy)
}

func TestLoadQueueConfig(t *testing.T) {
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("AMQP_URL", "amqp://u:p@broker:5672/")
	t.Setenv("QUEUE_ENABLED", "yes")

	cfg := LoadQueueConfig()

	assert.True(t, cfg.Enabled)
	assert.Equal(t, "amqp://u:p@broker:5672/", cfg.URL)
	assert.Equal(t, "reservation.changed", cfg.QueueName)
	assert.Equal(t, 2*time.Second, cfg.DialTimeout)
	assert.Equal(t, 256, cfg.BufferSize)
}
