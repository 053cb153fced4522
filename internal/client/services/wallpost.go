package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"edupocket/internal/client/cache"
	"edupocket/internal/client/freshness"
	"edupocket/internal/client/models"
	"edupocket/internal/client/repositories/wallposts"
	"edupocket/internal/common"
	"edupocket/internal/listx"
	"edupocket/internal/logging"
)

// WallPostClient is the slice of the remote API the wall screen needs.
type WallPostClient interface {
	FetchWallPosts(ctx context.Context, f models.WallPostFilter) ([]models.WallPost, error)
	FetchWallPostsVersion(ctx context.Context, f models.WallPostFilter) (string, error)
	CreateWallPost(ctx context.Context, p models.WallPost) (*models.WallPost, error)
}

// WallPostList is what the wall screen renders.
type WallPostList struct {
	Items     []models.WallPost
	UpdatedAt time.Time
	FromCache bool
}

// WallPostService serves the wall with the same marker-gated policy as
// classes, and accepts new posts offline: a post composed without
// connectivity gets a client-generated id, lands in the cache as unsynced and
// is replayed by the sync registry.
type WallPostService struct {
	repo   wallposts.Repository
	remote WallPostClient
	store  *cache.Store
	gate   *freshness.Gate
	seq    *cache.SeqTracker
	online Connectivity
	log    logging.Logger
	now    func() time.Time
}

func NewWallPostService(repo wallposts.Repository, remote WallPostClient, store *cache.Store,
	gate *freshness.Gate, seq *cache.SeqTracker, online Connectivity, log logging.Logger) *WallPostService {
	return &WallPostService{
		repo: repo, remote: remote, store: store,
		gate: gate, seq: seq, online: orOffline(online), log: log, now: time.Now,
	}
}

// List returns wall posts matching f, newest first.
func (s *WallPostService) List(ctx context.Context, ownerID string, f models.WallPostFilter) (*WallPostList, error) {
	cached, err := s.repo.Query(ctx, f)
	if err != nil {
		return nil, err
	}

	key := cache.NewKey("wallposts.marker", ownerID, f.SchoolId, f.ClassId)
	local, savedAt, _ := s.store.LoadVersioned(ctx, key, nil)

	if !s.online.IsOnline() {
		return &WallPostList{Items: cached, UpdatedAt: savedAt, FromCache: true}, nil
	}

	remote := s.gate.Marker(ctx, key.String(), func(ctx context.Context) (string, error) {
		return s.remote.FetchWallPostsVersion(ctx, f)
	})
	if !freshness.IsStale(local, remote) && len(cached) > 0 {
		return &WallPostList{Items: cached, UpdatedAt: savedAt, FromCache: true}, nil
	}

	seq := s.seq.Begin(key.String())

	fetched, err := s.remote.FetchWallPosts(ctx, f)
	if err != nil {
		s.log.Warn(ctx, "wall refresh failed, serving cached", "error", err)
		return &WallPostList{Items: cached, UpdatedAt: savedAt, FromCache: true}, nil
	}
	if !s.seq.Latest(key.String(), seq) {
		return &WallPostList{Items: cached, UpdatedAt: savedAt, FromCache: true}, nil
	}

	fetched = listx.Dedupe(fetched, models.WallPost.DedupKey)
	if err := s.repo.UpsertMany(ctx, fetched, true); err != nil {
		s.log.Warn(ctx, "wall cache update incomplete", "error", err)
	}

	updatedAt, err := s.store.SaveVersioned(ctx, key, refreshStamp{Count: len(fetched)}, remote)
	if err != nil {
		s.log.Warn(ctx, "failed to persist wall freshness marker", "error", err)
	}

	items, err := s.repo.Query(ctx, f)
	if err != nil {
		items = fetched
	}
	return &WallPostList{Items: items, UpdatedAt: updatedAt, FromCache: false}, nil
}

// Create stores the post locally first, then attempts immediate delivery when
// online. Either way the post is visible on the wall right away; an
// undelivered post stays unsynced and the registry replays it later.
func (s *WallPostService) Create(ctx context.Context, p models.WallPost) (*models.WallPost, error) {
	if p.Id == "" {
		p.Id = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	if err := s.repo.UpsertMany(ctx, []models.WallPost{p}, false); err != nil {
		return nil, err
	}

	if !s.online.IsOnline() {
		return &p, nil
	}

	created, err := s.remote.CreateWallPost(ctx, p)
	if err != nil {
		s.log.Warn(ctx, "wall post not delivered, queued for sync", "id", p.Id, "error", err)
		return &p, nil
	}
	if created == nil || created.Id == "" {
		if err := s.repo.MarkSynced(ctx, p.Id); err != nil {
			s.log.Warn(ctx, "failed to mark wall post synced", "id", p.Id, "error", err)
		}
		return &p, nil
	}

	if err := s.repo.UpsertMany(ctx, []models.WallPost{*created}, true); err != nil {
		s.log.Warn(ctx, "failed to store delivered wall post", "id", created.Id, "error", err)
		if err := s.repo.MarkSynced(ctx, p.Id); err != nil {
			s.log.Warn(ctx, "failed to mark wall post synced", "id", p.Id, "error", err)
		}
		return created, nil
	}
	if created.Id != p.Id {
		// The server assigned its own id; drop the provisional row so the
		// post does not show up twice.
		if err := s.repo.Delete(ctx, p.Id); err != nil {
			s.log.Warn(ctx, "failed to remove provisional wall post", "id", p.Id, "error", err)
		}
	}
	return created, nil
}
