package syncx

import (
	"context"
	"errors"
	"fmt"

	"edupocket/internal/client/models"
	"edupocket/internal/client/repositories/activities"
	"edupocket/internal/client/repositories/wallposts"
	"edupocket/internal/logging"
)

// WallPostCreator is the remote operation a wall post replay needs.
type WallPostCreator interface {
	CreateWallPost(ctx context.Context, p models.WallPost) (*models.WallPost, error)
}

// NewWallPostHandler returns a Handler replaying offline-composed wall posts.
// Rows are handled independently: a rejection of one post leaves the rest of
// the batch untouched, and the rejected post stays unsynced for the next run.
func NewWallPostHandler(repo wallposts.Repository, remote WallPostCreator, log logging.Logger) Handler {
	return func(ctx context.Context) error {
		pending, err := repo.Unsynced(ctx)
		if err != nil {
			return fmt.Errorf("wall post sync: %w", err)
		}

		var errs []error
		for _, p := range pending {
			created, err := remote.CreateWallPost(ctx, p)
			if err != nil {
				log.Warn(ctx, "wall post rejected, keeping for next sync", "id", p.Id, "error", err)
				errs = append(errs, fmt.Errorf("wall post %s: %w", p.Id, err))
				continue
			}

			// The server echo is authoritative; keep it under the id the
			// server assigned and drop the provisional row when the ids
			// differ so the post does not render twice.
			if created == nil || created.Id == "" {
				if err := repo.MarkSynced(ctx, p.Id); err != nil {
					errs = append(errs, fmt.Errorf("wall post %s: %w", p.Id, err))
				}
				continue
			}
			if err := repo.UpsertMany(ctx, []models.WallPost{*created}, true); err != nil {
				errs = append(errs, fmt.Errorf("wall post %s: %w", p.Id, err))
				continue
			}
			if created.Id != p.Id {
				if err := repo.Delete(ctx, p.Id); err != nil {
					errs = append(errs, fmt.Errorf("wall post %s: %w", p.Id, err))
				}
			}
		}
		return errors.Join(errs...)
	}
}

// ActivityCreator is the remote operation an activity replay needs.
type ActivityCreator interface {
	CreateActivity(ctx context.Context, a models.Activity) (*models.Activity, error)
}

// NewActivityHandler returns a Handler replaying attendance and activity
// records captured offline.
func NewActivityHandler(repo activities.Repository, remote ActivityCreator, log logging.Logger) Handler {
	return func(ctx context.Context) error {
		pending, err := repo.Unsynced(ctx)
		if err != nil {
			return fmt.Errorf("activity sync: %w", err)
		}

		var errs []error
		for _, a := range pending {
			created, err := remote.CreateActivity(ctx, a)
			if err != nil {
				log.Warn(ctx, "activity rejected, keeping for next sync", "id", a.Id, "error", err)
				errs = append(errs, fmt.Errorf("activity %s: %w", a.Id, err))
				continue
			}

			if created == nil || created.Id == "" {
				if err := repo.MarkSynced(ctx, a.Id); err != nil {
					errs = append(errs, fmt.Errorf("activity %s: %w", a.Id, err))
				}
				continue
			}
			if err := repo.UpsertMany(ctx, []models.Activity{*created}, true); err != nil {
				errs = append(errs, fmt.Errorf("activity %s: %w", a.Id, err))
				continue
			}
			if created.Id != a.Id {
				if err := repo.Delete(ctx, a.Id); err != nil {
					errs = append(errs, fmt.Errorf("activity %s: %w", a.Id, err))
				}
			}
		}
		return errors.Join(errs...)
	}
}
