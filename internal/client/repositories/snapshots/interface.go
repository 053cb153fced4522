package snapshots

import (
	"context"
	"time"
)

// Entry is one cached snapshot: an opaque JSON payload, the moment it was
// saved, and an optional server-issued freshness marker.
type Entry struct {
	Payload []byte
	Marker  string
	SavedAt time.Time
}

// Repository is a flat key→snapshot store. Keys are derived by the cache
// layer; a key maps to at most one entry and writing overwrites wholesale.
type Repository interface {
	// Save upserts the entry stored under key.
	Save(ctx context.Context, key string, e Entry) error

	// Load returns the entry for key, or (nil, nil) when absent.
	Load(ctx context.Context, key string) (*Entry, error)

	// Clear removes the entry for key. Clearing an absent key is not an error.
	Clear(ctx context.Context, key string) error
}
