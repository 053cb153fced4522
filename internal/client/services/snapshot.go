package services

import (
	"context"
	"encoding/json"
	"time"

	"edupocket/internal/client/cache"
	"edupocket/internal/logging"
)

// SnapshotClient is the slice of the remote API the snapshot screens need.
type SnapshotClient interface {
	FetchDashboard(ctx context.Context, ownerID string) (json.RawMessage, error)
	FetchSchedule(ctx context.Context, ownerID, termID string) (json.RawMessage, error)
}

// SnapshotService serves the dashboard and the timetable. Both are opaque
// server-rendered payloads cached whole under a derived key; Get never goes
// to the network, Refresh is explicit.
type SnapshotService struct {
	remote SnapshotClient
	store  *cache.Store
	log    logging.Logger
}

func NewSnapshotService(remote SnapshotClient, store *cache.Store, log logging.Logger) *SnapshotService {
	return &SnapshotService{remote: remote, store: store, log: log}
}

func (s *SnapshotService) Dashboard(ctx context.Context, ownerID string) (json.RawMessage, time.Time, bool) {
	return s.store.LoadRaw(ctx, cache.NewKey("dashboard", ownerID))
}

func (s *SnapshotService) RefreshDashboard(ctx context.Context, ownerID string) (json.RawMessage, time.Time, error) {
	payload, err := s.remote.FetchDashboard(ctx, ownerID)
	if err != nil {
		return nil, time.Time{}, err
	}

	savedAt, err := s.store.Save(ctx, cache.NewKey("dashboard", ownerID), payload)
	if err != nil {
		return nil, time.Time{}, err
	}
	return payload, savedAt, nil
}

// Schedule is keyed by owner and term so switching terms never shows the
// other term's timetable.
func (s *SnapshotService) Schedule(ctx context.Context, ownerID, termID string) (json.RawMessage, time.Time, bool) {
	return s.store.LoadRaw(ctx, cache.NewKey("schedule", ownerID, termID))
}

func (s *SnapshotService) RefreshSchedule(ctx context.Context, ownerID, termID string) (json.RawMessage, time.Time, error) {
	payload, err := s.remote.FetchSchedule(ctx, ownerID, termID)
	if err != nil {
		return nil, time.Time{}, err
	}

	savedAt, err := s.store.Save(ctx, cache.NewKey("schedule", ownerID, termID), payload)
	if err != nil {
		return nil, time.Time{}, err
	}
	return payload, savedAt, nil
}
