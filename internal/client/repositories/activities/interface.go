package activities

import (
	"context"

	"edupocket/internal/client/models"
)

// Repository describes local storage for Activity records (attendance and
// similar per-student, per-day entries). Records captured offline sit here
// with synced=0 until the sync registry replays them.
type Repository interface {
	UpsertMany(ctx context.Context, items []models.Activity, synced bool) error
	Query(ctx context.Context, f models.ActivityFilter) ([]models.Activity, error)
	GetByID(ctx context.Context, id string) (*models.Activity, error)
	Unsynced(ctx context.Context) ([]models.Activity, error)
	MarkSynced(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
