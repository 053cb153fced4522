// Package freshness decides when a cached list is stale enough to refetch.
// The server exposes a lightweight version endpoint per list; its marker is
// an opaque token compared only for equality. An unavailable marker means
// "cannot determine staleness" and is deliberately treated as fresh, so a
// marker-endpoint outage degrades to stale-but-visible data instead of
// blocking screens.
package freshness

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"edupocket/internal/logging"
)

// FetchFunc retrieves the current remote marker for one list.
type FetchFunc func(ctx context.Context) (string, error)

type check struct {
	marker string
	at     time.Time
}

// Gate caches marker checks per key with a minimum re-check interval, so
// rapid UI refocus events cannot translate into a version request each.
// Construct one per application and inject it; it carries no global state.
type Gate struct {
	cooldown time.Duration
	log      logging.Logger
	now      func() time.Time

	mu    sync.Mutex
	last  map[string]check
	group singleflight.Group
}

// NewGate returns a Gate with the given re-check cooldown.
func NewGate(cooldown time.Duration, log logging.Logger) *Gate {
	return &Gate{
		cooldown: cooldown,
		log:      log,
		now:      time.Now,
		last:     make(map[string]check),
	}
}

// Marker returns the remote freshness marker for key. Within the cooldown
// window the previous result is returned without a network call; concurrent
// callers for the same key share a single fetch. A failed fetch yields ""
// ("unknown"), which IsStale treats as fresh.
func (g *Gate) Marker(ctx context.Context, key string, fetch FetchFunc) string {
	g.mu.Lock()
	if c, ok := g.last[key]; ok && g.now().Sub(c.at) < g.cooldown {
		g.mu.Unlock()
		return c.marker
	}
	g.mu.Unlock()

	v, err, _ := g.group.Do(key, func() (any, error) {
		return fetch(ctx)
	})

	marker := ""
	if err != nil {
		g.log.Warn(ctx, "freshness check failed, assuming fresh", "key", key, "error", err)
	} else {
		marker, _ = v.(string)
	}

	g.mu.Lock()
	g.last[key] = check{marker: marker, at: g.now()}
	g.mu.Unlock()

	return marker
}

// IsStale reports whether the cached copy behind localMarker needs a
// refetch. An empty remote marker means the check was unavailable and is
// never treated as stale.
func IsStale(localMarker, remoteMarker string) bool {
	return remoteMarker != "" && localMarker != remoteMarker
}
