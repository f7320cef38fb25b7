package notifications

import (
	"context"

	"github.com/dmitrijs2005/docflow/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, n *models.Notification) (*models.Notification, error)
	ListByReceiver(ctx context.Context, receiverID string) ([]*models.Notification, error)
	MarkAllRead(ctx context.Context, receiverID string) (int64, error)
	UpdateStatus(ctx context.Context, id, receiverID string, status models.NotificationStatus) (*models.Notification, error)
	DeleteAll(ctx context.Context, receiverID string) (int64, error)
}
