package documents

import (
	"context"
	"time"

	"github.com/dmitrijs2005/docflow/internal/server/models"
)

// Repository persists document metadata. Lookups that take an owner never
// return documents in the deleted state unless the method says otherwise.
type Repository interface {
	Create(ctx context.Context, doc *models.Document) (*models.Document, error)
	GetByID(ctx context.Context, ownerID, id string) (*models.Document, error)
	GetByName(ctx context.Context, ownerID, name string) (*models.Document, error)
	// GetLiveByID finds a non-deleted document by id, whoever owns it.
	GetLiveByID(ctx context.Context, id string) (*models.Document, error)
	// ListLiveByName returns every non-deleted document called name,
	// regardless of owner, oldest first.
	ListLiveByName(ctx context.Context, name string) ([]*models.Document, error)
	// GetDeletedByName finds name among the owner's binned documents.
	GetDeletedByName(ctx context.Context, ownerID, name string) (*models.Document, error)
	// ExistsByName reports whether the owner has any document called name,
	// deleted or not.
	ExistsByName(ctx context.Context, ownerID, name string) (bool, error)

	List(ctx context.Context, ownerID string, limit, offset int) ([]*models.Document, error)
	ListByStatus(ctx context.Context, ownerID string, status models.Status) ([]*models.Document, error)
	ListByTag(ctx context.Context, ownerID, tag string) ([]*models.Document, error)
	ListByCategory(ctx context.Context, ownerID, category string) ([]*models.Document, error)
	ListByFileType(ctx context.Context, ownerID, fileType string) ([]*models.Document, error)

	Update(ctx context.Context, id string, patch models.DocumentPatch) (*models.Document, error)
	SoftDelete(ctx context.Context, id string, purgeAfter time.Time) (*models.Document, error)
	Restore(ctx context.Context, id string) (*models.Document, error)
	SetStatus(ctx context.Context, id string, status models.Status) (*models.Document, error)

	// PurgeExpired hard-deletes the owner's binned documents whose purge time
	// is at or before now and returns them.
	PurgeExpired(ctx context.Context, ownerID string, now time.Time) ([]*models.Document, error)
	// Delete hard-deletes one of the owner's binned documents.
	Delete(ctx context.Context, ownerID, id string) error
}
