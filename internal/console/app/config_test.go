package app

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	require.NoError(t, env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}}))
	cfg.Sanitize()

	require.Equal(t, "http://localhost:8080/api", cfg.BaseURL)
	require.Equal(t, 10*time.Second, cfg.APITimeout)
	require.Equal(t, StoreSQLite, cfg.Store)
	require.NotEmpty(t, cfg.StorePath)
	require.Equal(t, 60*time.Second, cfg.MonitorInterval)
	require.Equal(t, 5, cfg.ExpiryWarnMinutes)
	require.Equal(t, 2*time.Second, cfg.LogoutCooldown)
	require.Equal(t, 100*time.Millisecond, cfg.SettleDelay)
	require.Equal(t, 3*time.Second, cfg.NotifyDedupWindow)
	require.False(t, cfg.PublishServerErrors)
}

func TestConfigFromEnvironment(t *testing.T) {
	var cfg Config
	require.NoError(t, env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{
		"BOT_API_BASE_URL":          "https://bot.example.com/api/",
		"BOT_STORE":                 " Redis ",
		"BOT_REDIS_ADDR":            "cache:6379",
		"BOT_MONITOR_INTERVAL":      "30s",
		"BOT_PUBLISH_SERVER_ERRORS": "true",
		"BOT_RATE_LIMIT":            "-5",
	}}))
	cfg.Sanitize()

	require.Equal(t, "https://bot.example.com/api", cfg.BaseURL)
	require.Equal(t, StoreRedis, cfg.Store)
	require.Equal(t, "cache:6379", cfg.RedisAddr)
	require.Empty(t, cfg.StorePath)
	require.Equal(t, 30*time.Second, cfg.MonitorInterval)
	require.True(t, cfg.PublishServerErrors)
	require.Zero(t, cfg.RateLimit)
}

func TestConfigSanitizeGuardrails(t *testing.T) {
	cfg := Config{
		Store:             "etcd",
		StorePath:         "/tmp/x.db",
		MonitorInterval:   time.Millisecond,
		ExpiryWarnMinutes: -1,
		SettleDelay:       -time.Second,
	}
	cfg.Sanitize()

	require.Equal(t, StoreSQLite, cfg.Store)
	require.Equal(t, "/tmp/x.db", cfg.StorePath)
	require.Equal(t, 60*time.Second, cfg.MonitorInterval)
	require.Equal(t, 5, cfg.ExpiryWarnMinutes)
	require.Zero(t, cfg.SettleDelay)
	require.Equal(t, 10*time.Second, cfg.APITimeout)
}
