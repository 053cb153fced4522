// Package netwatch tracks server reachability. The cache layer consults
// IsOnline to decide whether freshness checks and sync replays may touch the
// network; the host application wires the offline→online transition to the
// sync registry.
package netwatch

import (
	"context"
	"sync"
	"time"

	"edupocket/internal/logging"
)

// Pinger probes the remote endpoint; the REST client satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Monitor holds the current online/offline state.
type Monitor struct {
	pinger      Pinger
	log         logging.Logger
	probeWindow time.Duration

	mu       sync.Mutex
	online   bool
	onOnline func()
}

// NewMonitor returns a Monitor that starts in the offline state; the first
// successful probe switches it online.
func NewMonitor(pinger Pinger, log logging.Logger) *Monitor {
	return &Monitor{pinger: pinger, log: log, probeWindow: 3 * time.Second}
}

// OnOnline registers the callback fired on every offline→online transition.
// Typically this triggers the sync registry.
func (m *Monitor) OnOnline(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onOnline = fn
}

// IsOnline reports the state observed by the last probe.
func (m *Monitor) IsOnline() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Check runs a single probe, updates the state and returns it. The callback
// registered with OnOnline runs synchronously when the probe flips the state
// to online.
func (m *Monitor) Check(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, m.probeWindow)
	err := m.pinger.Ping(probeCtx)
	cancel()

	m.mu.Lock()
	wasOnline := m.online
	m.online = err == nil
	fire := m.online && !wasOnline && m.onOnline != nil
	fn := m.onOnline
	m.mu.Unlock()

	if m.online != wasOnline {
		if m.online {
			m.log.Info(ctx, "connectivity regained")
		} else {
			m.log.Info(ctx, "connectivity lost", "error", err)
		}
	}
	if fire {
		fn()
	}
	return err == nil
}

// Watch probes on a ticker until ctx is done. Run it from a goroutine owned
// by the host application.
func (m *Monitor) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Check(ctx)
		case <-ctx.Done():
			return
		}
	}
}
