package service

import (
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/botadmin/pkg/slogx"
	"github.com/aussiebroadwan/botadmin/pkg/tokenx"
)

const DefaultMonitorInterval = 60 * time.Second

// ExpiryMonitor periodically checks the stored access token. It warns once
// per token when expiry is near and, once the token has expired, stops
// itself and calls OnExpired.
type ExpiryMonitor struct {
	Interval    time.Duration
	WarnMinutes int
	Inspector   tokenx.Inspector
	Logger      *slog.Logger

	// Token reads the current access token on every tick.
	Token func() string
	// OnWarn runs when the token first enters the warning window.
	OnWarn func(remaining time.Duration)
	// OnExpired runs after the worker has exited, so it may call Stop.
	OnExpired func()

	mu     sync.Mutex
	stopCh chan struct{}
	doneCh chan struct{}
	warned string
}

// NewExpiryMonitor applies defaults: 60s interval and a five minute warning.
func NewExpiryMonitor(token func() string, onExpired func(), logger *slog.Logger) *ExpiryMonitor {
	if logger == nil {
		logger = slogx.Discard()
	}
	return &ExpiryMonitor{
		Interval:    DefaultMonitorInterval,
		WarnMinutes: int(tokenx.DefaultExpiryWarning / time.Minute),
		Logger:      logger,
		Token:       token,
		OnExpired:   onExpired,
	}
}

// Start launches the background worker, replacing any earlier run.
func (m *ExpiryMonitor) Start() {
	m.Stop()

	interval := m.Interval
	if interval <= 0 {
		interval = DefaultMonitorInterval
	}

	stopCh := make(chan struct{})
	doneCh := make(chan struct{})

	m.mu.Lock()
	m.stopCh, m.doneCh = stopCh, doneCh
	m.warned = ""
	m.mu.Unlock()

	go m.run(interval, stopCh, doneCh)
	m.Logger.Debug("expiry monitor started", "interval", interval)
}

// Stop ends the worker and waits for it. Safe to call when not running.
func (m *ExpiryMonitor) Stop() {
	m.mu.Lock()
	stopCh, doneCh := m.stopCh, m.doneCh
	m.stopCh, m.doneCh = nil, nil
	m.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	<-doneCh
	m.Logger.Debug("expiry monitor stopped")
}

func (m *ExpiryMonitor) Running() bool {
	m.mu.Lock()
	doneCh := m.doneCh
	m.mu.Unlock()

	if doneCh == nil {
		return false
	}
	select {
	case <-doneCh:
		return false
	default:
		return true
	}
}

func (m *ExpiryMonitor) run(interval time.Duration, stopCh <-chan struct{}, doneCh chan struct{}) {
	expired := false
	defer func() {
		close(doneCh)
		if expired && m.OnExpired != nil {
			m.OnExpired()
		}
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if m.check() {
				expired = true
				return
			}
		case <-stopCh:
			return
		}
	}
}

// check reports whether the session is over.
func (m *ExpiryMonitor) check() bool {
	token := ""
	if m.Token != nil {
		token = m.Token()
	}
	if token == "" || m.Inspector.IsExpired(token) {
		m.Logger.Info("access token expired")
		return true
	}

	if !m.Inspector.IsExpiringSoon(token, m.WarnMinutes) {
		return false
	}

	m.mu.Lock()
	first := m.warned != token
	m.warned = token
	m.mu.Unlock()

	if first {
		remaining := m.Inspector.Remaining(token)
		m.Logger.Warn("access token expires soon", "remaining", remaining.Round(time.Second))
		if m.OnWarn != nil {
			m.OnWarn(remaining)
		}
	}
	return false
}
