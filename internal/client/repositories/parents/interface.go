package parents

import (
	"context"

	"edupocket/internal/client/models"
)

// Repository describes local storage for Parent (guardian) records.
type Repository interface {
	UpsertMany(ctx context.Context, items []models.Parent, synced bool) error
	Query(ctx context.Context, f models.ParentFilter) ([]models.Parent, error)
	GetByID(ctx context.Context, id string) (*models.Parent, error)
	Unsynced(ctx context.Context) ([]models.Parent, error)
	MarkSynced(ctx context.Context, id string) error
}
