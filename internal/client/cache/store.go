package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"edupocket/internal/client/repositories/snapshots"
	"edupocket/internal/logging"
)

// Store saves and loads whole JSON payloads under derived keys. Reads never
// fail: a missing or corrupt entry degrades to "absent" and the normal
// fetch-and-cache path repopulates it. Writes surface their errors so the
// caller can decide whether to alert the user.
type Store struct {
	repo snapshots.Repository
	log  logging.Logger
	now  func() time.Time
}

// NewStore returns a Store over the given snapshot repository.
func NewStore(repo snapshots.Repository, log logging.Logger) *Store {
	return &Store{repo: repo, log: log, now: time.Now}
}

// Save serializes payload and stores it under key with the current time.
// The timestamp written is returned for immediate "last updated" display.
func (s *Store) Save(ctx context.Context, key Key, payload any) (time.Time, error) {
	return s.SaveVersioned(ctx, key, payload, "")
}

// SaveVersioned is Save plus a server-issued freshness marker kept alongside
// the payload.
func (s *Store) SaveVersioned(ctx context.Context, key Key, payload any, marker string) (time.Time, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to serialize payload for %s: %w", key.String(), err)
	}

	savedAt := s.now()
	e := snapshots.Entry{Payload: data, Marker: marker, SavedAt: savedAt}
	if err := s.repo.Save(ctx, key.String(), e); err != nil {
		return time.Time{}, err
	}
	return savedAt, nil
}

// Load deserializes the payload stored under key into dst and returns the
// time it was saved. It reports ok=false when the entry is absent or cannot
// be decoded; it never returns an error.
func (s *Store) Load(ctx context.Context, key Key, dst any) (time.Time, bool) {
	_, savedAt, ok := s.LoadVersioned(ctx, key, dst)
	return savedAt, ok
}

// LoadVersioned is Load plus the freshness marker stored with the entry.
func (s *Store) LoadVersioned(ctx context.Context, key Key, dst any) (string, time.Time, bool) {
	e, err := s.repo.Load(ctx, key.String())
	if err != nil {
		s.log.Warn(ctx, "snapshot load failed, treating as cache miss", "key", key.String(), "error", err)
		return "", time.Time{}, false
	}
	if e == nil {
		return "", time.Time{}, false
	}

	if dst != nil {
		if err := json.Unmarshal(e.Payload, dst); err != nil {
			s.log.Warn(ctx, "corrupt snapshot, treating as cache miss", "key", key.String(), "error", err)
			return "", time.Time{}, false
		}
	}
	return e.Marker, e.SavedAt, true
}

// LoadRaw returns the stored payload without decoding it.
func (s *Store) LoadRaw(ctx context.Context, key Key) (json.RawMessage, time.Time, bool) {
	e, err := s.repo.Load(ctx, key.String())
	if err != nil {
		s.log.Warn(ctx, "snapshot load failed, treating as cache miss", "key", key.String(), "error", err)
		return nil, time.Time{}, false
	}
	if e == nil {
		return nil, time.Time{}, false
	}
	return json.RawMessage(e.Payload), e.SavedAt, true
}

// Clear removes the entry stored under key.
func (s *Store) Clear(ctx context.Context, key Key) error {
	return s.repo.Clear(ctx, key.String())
}
