package service

import (
	"sync"
	"sync/atomic"
	"time"
)

// DefaultLogoutCooldown is how long the guard stays held after a forced
// logout starts.
const DefaultLogoutCooldown = 2 * time.Second

// LogoutGuard lets a single forced logout run at a time. Once acquired it
// releases itself after the cooldown, so failures that arrive while the
// first logout is still settling are ignored.
type LogoutGuard struct {
	cooldown time.Duration

	active atomic.Bool

	mu    sync.Mutex
	gen   uint64
	timer *time.Timer
}

func NewLogoutGuard(cooldown time.Duration) *LogoutGuard {
	if cooldown <= 0 {
		cooldown = DefaultLogoutCooldown
	}
	return &LogoutGuard{cooldown: cooldown}
}

// TryAcquire reports whether the caller won the guard.
func (g *LogoutGuard) TryAcquire() bool {
	if !g.active.CompareAndSwap(false, true) {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.gen++
	gen := g.gen
	g.timer = time.AfterFunc(g.cooldown, func() { g.release(gen) })
	return true
}

func (g *LogoutGuard) Active() bool { return g.active.Load() }

// Reset releases the guard immediately and cancels the pending cooldown.
func (g *LogoutGuard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.gen++
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	g.active.Store(false)
}

// release only clears the guard it was scheduled for; a Reset in between
// invalidates it.
func (g *LogoutGuard) release(gen uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.gen != gen {
		return
	}
	g.timer = nil
	g.active.Store(false)
}
