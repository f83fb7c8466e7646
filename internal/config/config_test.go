package config

import (
	"testing"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"
)

func TestLoad_MemoryStore(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("AMQP_URL", "amqp://broker:5672/")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("EVENTS_ENABLED", "yes")

	cfg := Load()
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.DBUser)
	assert.Equal(t, log.DEBUG, cfg.LogLevel)
	assert.True(t, cfg.EventsEnabled)
	assert.Equal(t, "amqp://broker:5672/", cfg.RabbitURL)
	assert.Equal(t, "logs", cfg.EventLogDir)
}

func TestLoadStaffTokenTTL(t *testing.T) {
	t.Setenv("STAFF_TOKEN_TTL", "")
	assert.Equal(t, 12*time.Hour, LoadStaffTokenTTL())
	t.Setenv("STAFF_TOKEN_TTL", "45m")
	assert.Equal(t, 45*time.Minute, LoadStaffTokenTTL())
}

func TestLoad_MySQLStore(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "MySQL")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "seating")
	t.Setenv("RABBITMQ_URL", "amqp://primary/")
	t.Setenv("AMQP_URL", "amqp://secondary/")

	cfg := Load()
	assert.Equal(t, StoreMySQL, cfg.StoreDriver)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "app", cfg.DBUser)
	assert.Equal(t, "3306", cfg.DBPort)
	assert.Equal(t, "amqp://primary/", cfg.RabbitURL)
}

func TestLoadRateLimitConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "10s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	rl := LoadRateLimitConfig()
	assert.True(t, rl.Enabled)
	assert.Equal(t, 1, rl.Capacity)
	assert.Equal(t, 10*time.Second, rl.RefillInterval)
	assert.Equal(t, 50*time.Second, rl.TTL)
	assert.Equal(t, "ip_token", rl.KeyStrategy)

	t.Setenv("RATE_LIMIT_BURST", "5")
	assert.Equal(t, 5, LoadRateLimitConfig().Capacity)
}

func TestLoadCacheConfig(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("CACHE_TTL", "garbage")

	c := LoadCacheConfig()
	assert.False(t, c.Enabled)
	assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, c.Methods)
	assert.Equal(t, 10*time.Minute, c.TTL)
}

func TestLoadRedisConfig(t *testing.T) {
	t.Setenv("REDIS_ADDR", "cache:6380")
	assert.Equal(t, "cache:6380", LoadRedisConfig().Addr)

	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_PORT", "6379")
	t.Setenv("REDIS_TLS", "1")
	r := LoadRedisConfig()
	assert.Equal(t, "redis:6379", r.Addr)
	assert.True(t, r.TLS)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.WARN, ParseLevel("WARNING"))
	assert.Equal(t, log.ERROR, ParseLevel("error"))
	assert.Equal(t, log.INFO, ParseLevel("chatty"))
}
