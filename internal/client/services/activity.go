package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"edupocket/internal/client/cache"
	"edupocket/internal/client/models"
	"edupocket/internal/client/repositories/activities"
	"edupocket/internal/common"
	"edupocket/internal/listx"
	"edupocket/internal/logging"
)

// ActivityClient is the slice of the remote API the attendance screens need.
type ActivityClient interface {
	FetchActivities(ctx context.Context, f models.ActivityFilter) ([]models.Activity, error)
	CreateActivity(ctx context.Context, a models.Activity) (*models.Activity, error)
	FetchActivityGroups(ctx context.Context, classID, termID string) (json.RawMessage, error)
}

// ActivityService records attendance and similar per-student entries.
// Recording works fully offline: the record lands in the cache unsynced and
// the registry replays it. The activity-group definitions are a snapshot
// refreshed only on demand.
type ActivityService struct {
	repo   activities.Repository
	remote ActivityClient
	store  *cache.Store
	online Connectivity
	log    logging.Logger
	now    func() time.Time
}

func NewActivityService(repo activities.Repository, remote ActivityClient, store *cache.Store,
	online Connectivity, log logging.Logger) *ActivityService {
	return &ActivityService{
		repo: repo, remote: remote, store: store,
		online: orOffline(online), log: log, now: time.Now,
	}
}

// List returns cached activity records matching f.
func (s *ActivityService) List(ctx context.Context, f models.ActivityFilter) ([]models.Activity, error) {
	return s.repo.Query(ctx, f)
}

// Refresh refetches activity records for f and returns the updated cached view.
func (s *ActivityService) Refresh(ctx context.Context, f models.ActivityFilter) ([]models.Activity, error) {
	fetched, err := s.remote.FetchActivities(ctx, f)
	if err != nil {
		return nil, err
	}

	fetched = listx.Dedupe(fetched, models.Activity.DedupKey)
	if err := s.repo.UpsertMany(ctx, fetched, true); err != nil {
		s.log.Warn(ctx, "activity cache update incomplete", "error", err)
	}
	return s.repo.Query(ctx, f)
}

// Record stores an activity entry, delivering it immediately when online.
// The entry is visible locally either way.
func (s *ActivityService) Record(ctx context.Context, a models.Activity) (*models.Activity, error) {
	if a.Id == "" {
		a.Id = uuid.NewString()
	}
	if a.Date == "" {
		a.Date = s.now().Format("2006-01-02")
	}
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	if err := s.repo.UpsertMany(ctx, []models.Activity{a}, false); err != nil {
		return nil, err
	}

	if !s.online.IsOnline() {
		return &a, nil
	}

	created, err := s.remote.CreateActivity(ctx, a)
	if err != nil {
		s.log.Warn(ctx, "activity not delivered, queued for sync", "id", a.Id, "error", err)
		return &a, nil
	}
	if created == nil || created.Id == "" {
		if err := s.repo.MarkSynced(ctx, a.Id); err != nil {
			s.log.Warn(ctx, "failed to mark activity synced", "id", a.Id, "error", err)
		}
		return &a, nil
	}

	if err := s.repo.UpsertMany(ctx, []models.Activity{*created}, true); err != nil {
		s.log.Warn(ctx, "failed to store delivered activity", "id", created.Id, "error", err)
		if err := s.repo.MarkSynced(ctx, a.Id); err != nil {
			s.log.Warn(ctx, "failed to mark activity synced", "id", a.Id, "error", err)
		}
		return created, nil
	}
	if created.Id != a.Id {
		// The server assigned its own id; drop the provisional row so the
		// record does not show up twice.
		if err := s.repo.Delete(ctx, a.Id); err != nil {
			s.log.Warn(ctx, "failed to remove provisional activity", "id", a.Id, "error", err)
		}
	}
	return created, nil
}

// Groups returns the cached activity-group definitions for a class and term.
func (s *ActivityService) Groups(ctx context.Context, ownerID, classID, termID string) (json.RawMessage, time.Time, bool) {
	return s.store.LoadRaw(ctx, cache.NewKey("activity.groups", ownerID, classID, termID))
}

// RefreshGroups refetches the group definitions and caches them.
func (s *ActivityService) RefreshGroups(ctx context.Context, ownerID, classID, termID string) (json.RawMessage, time.Time, error) {
	payload, err := s.remote.FetchActivityGroups(ctx, classID, termID)
	if err != nil {
		return nil, time.Time{}, err
	}

	savedAt, err := s.store.Save(ctx, cache.NewKey("activity.groups", ownerID, classID, termID), payload)
	if err != nil {
		return nil, time.Time{}, err
	}
	return payload, savedAt, nil
}
