package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Credential store backends.
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Config is loaded from the environment. Command-line flags override it.
type Config struct {
	BaseURL    string        `env:"BOT_API_BASE_URL" envDefault:"http://localhost:8080/api"`
	APITimeout time.Duration `env:"BOT_API_TIMEOUT" envDefault:"10s"`

	// RateLimit caps outbound requests per minute; zero disables it.
	RateLimit int `env:"BOT_RATE_LIMIT" envDefault:"0"`

	// PublishServerErrors surfaces 5xx responses as notifications.
	PublishServerErrors bool `env:"BOT_PUBLISH_SERVER_ERRORS" envDefault:"false"`

	Store       string `env:"BOT_STORE" envDefault:"sqlite"`
	StorePath   string `env:"BOT_STORE_PATH"`
	RedisAddr   string `env:"BOT_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPrefix string `env:"BOT_REDIS_PREFIX" envDefault:"botadmin:"`

	// KeyFile enables encryption at rest; the key is created on first use.
	KeyFile string `env:"BOT_STORE_KEY_FILE"`

	MonitorInterval   time.Duration `env:"BOT_MONITOR_INTERVAL" envDefault:"60s"`
	ExpiryWarnMinutes int           `env:"BOT_EXPIRY_WARN_MINUTES" envDefault:"5"`
	LogoutCooldown    time.Duration `env:"BOT_LOGOUT_COOLDOWN" envDefault:"2s"`
	SettleDelay       time.Duration `env:"BOT_SETTLE_DELAY" envDefault:"100ms"`
	NotifyDedupWindow time.Duration `env:"BOT_NOTIFY_DEDUP_WINDOW" envDefault:"3s"`

	WatchAddr           string        `env:"BOT_WATCH_ADDR" envDefault:"127.0.0.1:9464"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"5s"`

	Env       string `env:"ENV" envDefault:"prod"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"warn"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// LoadConfig reads an optional .env file and then the environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return Config{}, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}

// Sanitize applies guardrails to values loaded from env or flags.
func (c *Config) Sanitize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.APITimeout <= 0 {
		c.APITimeout = 10 * time.Second
	}
	if c.RateLimit < 0 {
		c.RateLimit = 0
	}

	c.Store = strings.ToLower(strings.TrimSpace(c.Store))
	switch c.Store {
	case StoreSQLite, StoreRedis, StoreMemory:
	default:
		c.Store = StoreSQLite
	}
	if c.Store == StoreSQLite && c.StorePath == "" {
		c.StorePath = defaultStorePath()
	}

	if c.MonitorInterval < time.Second {
		c.MonitorInterval = 60 * time.Second
	}
	if c.ExpiryWarnMinutes <= 0 {
		c.ExpiryWarnMinutes = 5
	}
	if c.LogoutCooldown <= 0 {
		c.LogoutCooldown = 2 * time.Second
	}
	if c.SettleDelay < 0 {
		c.SettleDelay = 0
	}
	if c.NotifyDedupWindow <= 0 {
		c.NotifyDedupWindow = 3 * time.Second
	}
	if c.ShutdownGracePeriod <= 0 {
		c.ShutdownGracePeriod = 5 * time.Second
	}
}

// defaultStorePath is session.db under the user config directory, or the
// working directory when there is none.
func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "botadmin-session.db"
	}
	return filepath.Join(dir, "botadmin", "session.db")
}
