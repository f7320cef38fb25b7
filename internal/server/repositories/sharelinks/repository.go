package sharelinks

import (
	"context"
	"time"

	"github.com/dmitrijs2005/docflow/internal/server/models"
)

type Repository interface {
	// DeleteExpired removes every link whose expiry is at or before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	GetByFilename(ctx context.Context, ownerID, filename string) (*models.ShareLink, error)
	GetByToken(ctx context.Context, token string) (*models.ShareLink, error)
	// Create fails with ErrTokenTaken when the token is in use and with a
	// conflict when the owner already has a link for the filename.
	Create(ctx context.Context, link *models.ShareLink) (*models.ShareLink, error)
	Delete(ctx context.Context, token string) error
	// ConsumeVisit spends one visit of a live link and returns it as it was
	// before the visit. The row is removed when no visits remain.
	ConsumeVisit(ctx context.Context, token string, now time.Time) (*models.ShareLink, error)
}
