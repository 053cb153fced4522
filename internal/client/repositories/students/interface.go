package students

import (
	"context"

	"edupocket/internal/client/models"
)

// Repository describes local storage for Student records.
type Repository interface {
	UpsertMany(ctx context.Context, items []models.Student, synced bool) error
	Query(ctx context.Context, f models.StudentFilter) ([]models.Student, error)
	GetByID(ctx context.Context, id string) (*models.Student, error)
	Unsynced(ctx context.Context) ([]models.Student, error)
	MarkSynced(ctx context.Context, id string) error
}
