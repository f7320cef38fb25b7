// Package notifications stores per-user share notifications in PostgreSQL.
package notifications

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/docflow/internal/common"
	"github.com/dmitrijs2005/docflow/internal/dbx"
	"github.com/dmitrijs2005/docflow/internal/server/models"
)

const columns = `id, receiver_id, message, status, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNotification(row rowScanner) (*models.Notification, error) {
	var (
		n      models.Notification
		status string
	)
	if err := row.Scan(&n.ID, &n.ReceiverID, &n.Message, &status, &n.CreatedAt); err != nil {
		return nil, err
	}
	n.Status = models.NotificationStatus(status)
	return &n, nil
}

func (r *PostgresRepository) Create(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	query := `INSERT INTO notifications (receiver_id, message, status)
		VALUES ($1, $2, $3)
		RETURNING ` + columns

	status := n.Status
	if status == "" {
		status = models.NotificationUnread
	}

	created, err := scanNotification(r.db.QueryRowContext(ctx, query, n.ReceiverID, n.Message, string(status)))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

// ListByReceiver returns the receiver's notifications in insertion order.
func (r *PostgresRepository) ListByReceiver(ctx context.Context, receiverID string) ([]*models.Notification, error) {
	query := `SELECT ` + columns + ` FROM notifications
		WHERE receiver_id = $1
		ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, receiverID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) MarkAllRead(ctx context.Context, receiverID string) (int64, error) {
	query := `UPDATE notifications SET status = 'read' WHERE receiver_id = $1 AND status = 'unread'`
	return r.exec(ctx, query, receiverID)
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id, receiverID string, status models.NotificationStatus) (*models.Notification, error) {
	query := `UPDATE notifications SET status = $3
		WHERE id = $1 AND receiver_id = $2
		RETURNING ` + columns

	n, err := scanNotification(r.db.QueryRowContext(ctx, query, id, receiverID, string(status)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.Wrap(common.ErrorNotFound, fmt.Sprintf("notification %s not found", id), nil)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) DeleteAll(ctx context.Context, receiverID string) (int64, error) {
	query := `DELETE FROM notifications WHERE receiver_id = $1`
	return r.exec(ctx, query, receiverID)
}
