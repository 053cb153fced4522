// Package syncx replays records created offline once connectivity returns.
// Each handler drains one entity table's unsynced rows; the host application
// invokes RunAll when it regains connectivity or on manual refresh. There is
// no timer or daemon here on purpose — sync is opportunistic.
package syncx

import (
	"context"
	"errors"
	"sync"

	"edupocket/internal/logging"
)

// Handler scans one table for unsynced rows and replays them to the remote
// API, flipping synced=1 on success. Failed rows are left as they are and
// picked up by the next run; a handler never retries within a single pass.
type Handler func(ctx context.Context) error

// Registry holds the sync handlers. Construct one at application startup and
// pass it by reference to whoever needs to register or trigger sync; it is
// injected state, not a package-level global, so tests can run isolated
// instances.
type Registry struct {
	log logging.Logger

	mu       sync.Mutex
	handlers []Handler
}

// NewRegistry returns an empty Registry.
func NewRegistry(log logging.Logger) *Registry {
	return &Registry{log: log}
}

// Register appends a handler. Handlers are registered once per entity type
// during startup and never unregistered.
func (r *Registry) Register(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = append(r.handlers, h)
}

// RunAll invokes every registered handler. A failing handler is logged and
// does not prevent the remaining handlers from running; the joined error is
// returned for the caller's reporting.
func (r *Registry) RunAll(ctx context.Context) error {
	r.mu.Lock()
	handlers := make([]Handler, len(r.handlers))
	copy(handlers, r.handlers)
	r.mu.Unlock()

	var errs []error
	for _, h := range handlers {
		if err := h(ctx); err != nil {
			r.log.Warn(ctx, "sync handler finished with errors", "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
