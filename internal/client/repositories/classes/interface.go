package classes

import (
	"context"

	"edupocket/internal/client/models"
)

// Repository describes local storage for Class records.
// Implementations are typically backed by a local SQLite database.
type Repository interface {
	// UpsertMany inserts or replaces records keyed by Id. Failures are
	// per-record: one bad record never aborts the rest of the batch.
	UpsertMany(ctx context.Context, items []models.Class, synced bool) error

	// Query filters on indexed columns in SQL, then applies the free-text
	// Search filter in memory against the full serialized record.
	Query(ctx context.Context, f models.ClassFilter) ([]models.Class, error)

	// GetByID returns the record or nil when absent.
	GetByID(ctx context.Context, id string) (*models.Class, error)

	// Unsynced returns records not yet confirmed persisted remotely.
	Unsynced(ctx context.Context) ([]models.Class, error)

	// MarkSynced flips a record to synced=1 after remote confirmation.
	MarkSynced(ctx context.Context, id string) error
}
