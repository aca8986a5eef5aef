package service_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/botadmin/internal/console/service"
	"github.com/stretchr/testify/require"
)

// tokenBox hands the monitor whatever token the test sets.
type tokenBox struct {
	mu    sync.Mutex
	token string
}

func (b *tokenBox) get() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.token
}

func (b *tokenBox) set(v string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.token = v
}

func TestExpiryMonitorWarnsOncePerToken(t *testing.T) {
	t.Parallel()

	box := &tokenBox{token: mintToken(t, time.Now().Add(2*time.Minute))}

	var warnings, expirations atomic.Int32
	var lastRemaining atomic.Int64
	m := service.NewExpiryMonitor(box.get, func() { expirations.Add(1) }, nil)
	m.Interval = 5 * time.Millisecond
	m.OnWarn = func(remaining time.Duration) {
		lastRemaining.Store(int64(remaining))
		warnings.Add(1)
	}

	m.Start()
	t.Cleanup(m.Stop)

	require.Eventually(t, func() bool { return warnings.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	require.EqualValues(t, 1, warnings.Load())
	require.Positive(t, lastRemaining.Load())

	box.set(mintToken(t, time.Now().Add(3*time.Minute)))
	require.Eventually(t, func() bool { return warnings.Load() == 2 }, time.Second, time.Millisecond)

	require.Zero(t, expirations.Load())
	require.True(t, m.Running())
}

func TestExpiryMonitorQuietOutsideWindow(t *testing.T) {
	t.Parallel()

	box := &tokenBox{token: mintToken(t, time.Now().Add(time.Hour))}

	var warnings atomic.Int32
	m := service.NewExpiryMonitor(box.get, nil, nil)
	m.Interval = 5 * time.Millisecond
	m.OnWarn = func(time.Duration) { warnings.Add(1) }

	m.Start()
	time.Sleep(30 * time.Millisecond)
	m.Stop()

	require.Zero(t, warnings.Load())
	require.False(t, m.Running())
}

func TestExpiryMonitorStopsOnExpiry(t *testing.T) {
	t.Parallel()

	for name, token := range map[string]string{
		"expired token": mintToken(t, time.Now().Add(-10*time.Second)),
		"missing token": "",
	} {
		t.Run(name, func(t *testing.T) {
			box := &tokenBox{token: token}

			var m *service.ExpiryMonitor
			expired := make(chan struct{})
			m = service.NewExpiryMonitor(box.get, func() {
				// The callback is allowed to stop the monitor itself.
				m.Stop()
				close(expired)
			}, nil)
			m.Interval = 5 * time.Millisecond

			m.Start()

			select {
			case <-expired:
			case <-time.After(time.Second):
				t.Fatal("monitor never reported expiry")
			}
			require.False(t, m.Running())
		})
	}
}

func TestExpiryMonitorRestart(t *testing.T) {
	t.Parallel()

	box := &tokenBox{token: mintToken(t, time.Now().Add(time.Hour))}
	m := service.NewExpiryMonitor(box.get, nil, nil)
	m.Interval = 5 * time.Millisecond

	m.Start()
	m.Start()
	require.True(t, m.Running())

	m.Stop()
	m.Stop()
	require.False(t, m.Running())
}
