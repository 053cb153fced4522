package wallposts

import (
	"context"

	"edupocket/internal/client/models"
)

// Repository describes local storage for WallPost records. Posts composed
// offline sit here with synced=0 until the sync registry replays them.
type Repository interface {
	UpsertMany(ctx context.Context, items []models.WallPost, synced bool) error
	Query(ctx context.Context, f models.WallPostFilter) ([]models.WallPost, error)
	GetByID(ctx context.Context, id string) (*models.WallPost, error)
	Unsynced(ctx context.Context) ([]models.WallPost, error)
	MarkSynced(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
