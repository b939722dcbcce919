package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORE_DRIVER", "REDIS_URI", "TOKEN_TTL_HOURS", "ELIGIBILITY_THRESHOLD", "CORS_ALLOWED_ORIGINS", "TRUSTED_PROXIES"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mongo", cfg.StoreDriver)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 72*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 0.5, cfg.EligibilityThreshold)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Empty(t, cfg.TrustedProxies)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("REDIS_URI", "redis://cache:6380")
	t.Setenv("TOKEN_TTL_HOURS", "12")
	t.Setenv("ELIGIBILITY_THRESHOLD", "0.6")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.0.2.10")

	cfg := Load()
	assert.Equal(t, "sqlite", cfg.StoreDriver)
	assert.Equal(t, "cache:6380", cfg.RedisAddr)
	assert.Equal(t, 12*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 0.6, cfg.EligibilityThreshold)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, []string{"10.0.0.0/8", "192.0.2.10"}, cfg.TrustedProxies)
}

func TestLoadInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("TOKEN_TTL_HOURS", "soon")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "-3")
	t.Setenv("ELIGIBILITY_THRESHOLD", "1.5")

	cfg := Load()
	assert.Equal(t, 72*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.Equal(t, 0.5, cfg.EligibilityThreshold)
}
