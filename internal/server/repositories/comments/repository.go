package comments

import (
	"context"

	"github.com/dmitrijs2005/docflow/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, c *models.Comment) (*models.Comment, error)
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	// ListByDocument returns the document's comments oldest first.
	ListByDocument(ctx context.Context, docID string) ([]*models.Comment, error)
	UpdateText(ctx context.Context, id, text string) (*models.Comment, error)
	Delete(ctx context.Context, id string) error
}
