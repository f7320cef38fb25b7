package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/docflow/internal/common"
	"github.com/dmitrijs2005/docflow/internal/dbx"
	"github.com/dmitrijs2005/docflow/internal/logging"
	"github.com/dmitrijs2005/docflow/internal/server/models"
	"github.com/dmitrijs2005/docflow/internal/server/repositories/repomanager"
)

// NotificationService records share events for their recipients.
type NotificationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewNotificationService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *NotificationService {
	return &NotificationService{db: db, repomanager: m, log: log.With("module", "notifications")}
}

// Notify creates one unread notification per recipient. Either every
// recipient is notified or none is.
func (s *NotificationService) Notify(ctx context.Context, sharer *models.User, recipients []string, filename string) ([]*models.Notification, error) {
	var out []*models.Notification
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		usersRepo := s.repomanager.Users(tx)

		receivers := make([]*models.User, 0, len(recipients))
		for _, r := range recipients {
			u, err := resolveUser(ctx, usersRepo, r)
			if err != nil {
				return err
			}
			receivers = append(receivers, u)
		}

		repo := s.repomanager.Notifications(tx)
		msg := fmt.Sprintf("%s shared %s with you! Access the shared file via mail...", sharer.UserName, filename)
		for _, u := range receivers {
			n, err := repo.Create(ctx, &models.Notification{ReceiverID: u.ID, Message: msg, Status: models.NotificationUnread})
			if err != nil {
				return err
			}
			out = append(out, n)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *NotificationService) List(ctx context.Context, user *models.User) ([]*models.Notification, error) {
	return s.repomanager.Notifications(s.db).ListByReceiver(ctx, user.ID)
}

// MarkAllRead returns how many notifications changed state.
func (s *NotificationService) MarkAllRead(ctx context.Context, user *models.User) (int64, error) {
	return s.repomanager.Notifications(s.db).MarkAllRead(ctx, user.ID)
}

// UpdateStatus sets the status of one of user's notifications. Setting the
// status it already has succeeds without change.
func (s *NotificationService) UpdateStatus(ctx context.Context, user *models.User, id string, status models.NotificationStatus) (*models.Notification, error) {
	if _, ok := models.ParseNotificationStatus(string(status)); !ok {
		return nil, common.Wrap(common.ErrorBadRequest, fmt.Sprintf("unknown notification status %q", status), nil)
	}
	if !isUUID(id) {
		return nil, common.Wrap(common.ErrorNotFound, fmt.Sprintf("notification %s", id), nil)
	}
	return s.repomanager.Notifications(s.db).UpdateStatus(ctx, id, user.ID, status)
}

// Clear deletes all of user's notifications.
func (s *NotificationService) Clear(ctx context.Context, user *models.User) (int64, error) {
	n, err := s.repomanager.Notifications(s.db).DeleteAll(ctx, user.ID)
	if err != nil {
		return 0, err
	}
	s.log.Debug(ctx, "notifications cleared", "user_id", user.ID, "count", n)
	return n, nil
}
