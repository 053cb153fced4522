package services

import (
	"context"
	"time"

	"edupocket/internal/client/cache"
	"edupocket/internal/client/freshness"
	"edupocket/internal/client/models"
	"edupocket/internal/client/repositories/classes"
	"edupocket/internal/listx"
	"edupocket/internal/logging"
)

// ClassFetcher is the slice of the remote API the class screen needs.
type ClassFetcher interface {
	FetchClasses(ctx context.Context, f models.ClassFilter) ([]models.Class, error)
	FetchClassesVersion(ctx context.Context, f models.ClassFilter) (string, error)
}

// ClassList is what the class screen renders.
type ClassList struct {
	Items     []models.Class
	UpdatedAt time.Time
	FromCache bool
}

// ClassService serves the class list with the marker-gated freshness policy:
// cached rows render immediately, and a refetch happens only when the remote
// version marker differs from the one stored at the last refresh.
type ClassService struct {
	repo   classes.Repository
	remote ClassFetcher
	store  *cache.Store
	gate   *freshness.Gate
	seq    *cache.SeqTracker
	online Connectivity
	log    logging.Logger
}

// NewClassService wires a ClassService. All collaborators are injected; the
// service holds no global state.
func NewClassService(repo classes.Repository, remote ClassFetcher, store *cache.Store,
	gate *freshness.Gate, seq *cache.SeqTracker, online Connectivity, log logging.Logger) *ClassService {
	return &ClassService{
		repo: repo, remote: remote, store: store,
		gate: gate, seq: seq, online: orOffline(online), log: log,
	}
}

// List returns the classes matching f, scoped to ownerID. Offline, or when
// the remote marker matches the stored one, the cached rows are returned
// as-is. A stale marker triggers a refetch; if that fails the cached rows are
// still returned rather than an error, because an old list beats no list.
func (s *ClassService) List(ctx context.Context, ownerID string, f models.ClassFilter) (*ClassList, error) {
	cached, err := s.repo.Query(ctx, f)
	if err != nil {
		return nil, err
	}

	key := cache.NewKey("classes.marker", ownerID, f.SchoolId, f.TermId)
	local, savedAt, _ := s.store.LoadVersioned(ctx, key, nil)

	if !s.online.IsOnline() {
		return &ClassList{Items: cached, UpdatedAt: savedAt, FromCache: true}, nil
	}

	remote := s.gate.Marker(ctx, key.String(), func(ctx context.Context) (string, error) {
		return s.remote.FetchClassesVersion(ctx, f)
	})
	if !freshness.IsStale(local, remote) && len(cached) > 0 {
		return &ClassList{Items: cached, UpdatedAt: savedAt, FromCache: true}, nil
	}

	return s.refresh(ctx, key, f, remote, cached, savedAt)
}

func (s *ClassService) refresh(ctx context.Context, key cache.Key, f models.ClassFilter,
	marker string, cached []models.Class, savedAt time.Time) (*ClassList, error) {

	seq := s.seq.Begin(key.String())

	fetched, err := s.remote.FetchClasses(ctx, f)
	if err != nil {
		s.log.Warn(ctx, "class refresh failed, serving cached", "error", err)
		return &ClassList{Items: cached, UpdatedAt: savedAt, FromCache: true}, nil
	}
	if !s.seq.Latest(key.String(), seq) {
		// A newer request for the same key finished first; its result is
		// already in the cache and this one must not overwrite it.
		return &ClassList{Items: cached, UpdatedAt: savedAt, FromCache: true}, nil
	}

	fetched = listx.Dedupe(fetched, models.Class.DedupKey)
	if err := s.repo.UpsertMany(ctx, fetched, true); err != nil {
		s.log.Warn(ctx, "class cache update incomplete", "error", err)
	}

	updatedAt, err := s.store.SaveVersioned(ctx, key, refreshStamp{Count: len(fetched)}, marker)
	if err != nil {
		s.log.Warn(ctx, "failed to persist class freshness marker", "error", err)
	}

	items, err := s.repo.Query(ctx, f)
	if err != nil {
		items = fetched
	}
	return &ClassList{Items: items, UpdatedAt: updatedAt, FromCache: false}, nil
}
