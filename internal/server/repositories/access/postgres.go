// Package access stores per-document update grants in PostgreSQL.
package access

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/docflow/internal/common"
	"github.com/dmitrijs2005/docflow/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Grant(ctx context.Context, docID, userID string) error {
	query := `INSERT INTO doc_user_access (doc_id, user_id) VALUES ($1, $2)`

	if _, err := r.db.ExecContext(ctx, query, docID, userID); err != nil {
		if _, ok := dbx.UniqueViolation(err); ok {
			return common.Wrap(common.ErrorConflict, "access already granted", err)
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) RevokeAll(ctx context.Context, docID string) error {
	query := `DELETE FROM doc_user_access WHERE doc_id = $1`

	if _, err := r.db.ExecContext(ctx, query, docID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) HasAccess(ctx context.Context, docID, userID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM doc_user_access WHERE doc_id = $1 AND user_id = $2)`

	var ok bool
	if err := r.db.QueryRowContext(ctx, query, docID, userID).Scan(&ok); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}
