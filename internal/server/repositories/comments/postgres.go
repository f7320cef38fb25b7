// Package comments stores document comments in PostgreSQL.
package comments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/docflow/internal/common"
	"github.com/dmitrijs2005/docflow/internal/dbx"
	"github.com/dmitrijs2005/docflow/internal/server/models"
)

const columns = `id, doc_id, author_id, comment, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComment(row rowScanner) (*models.Comment, error) {
	var c models.Comment
	if err := row.Scan(&c.ID, &c.DocID, &c.AuthorID, &c.Text, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PostgresRepository) queryOne(ctx context.Context, id, query string, args ...any) (*models.Comment, error) {
	c, err := scanComment(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.Wrap(common.ErrorNotFound, fmt.Sprintf("comment %s not found", id), nil)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	query := `INSERT INTO document_comments (doc_id, author_id, comment)
		VALUES ($1, $2, $3)
		RETURNING ` + columns

	created, err := scanComment(r.db.QueryRowContext(ctx, query, c.DocID, c.AuthorID, c.Text))
	if err != nil {
		if dbx.ForeignKeyViolation(err) {
			return nil, common.Wrap(common.ErrorNotFound, fmt.Sprintf("document %s not found", c.DocID), err)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	query := `SELECT ` + columns + ` FROM document_comments WHERE id = $1`
	return r.queryOne(ctx, id, query, id)
}

func (r *PostgresRepository) ListByDocument(ctx context.Context, docID string) ([]*models.Comment, error) {
	query := `SELECT ` + columns + ` FROM document_comments
		WHERE doc_id = $1
		ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, docID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) UpdateText(ctx context.Context, id, text string) (*models.Comment, error) {
	query := `UPDATE document_comments SET comment = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + columns
	return r.queryOne(ctx, id, query, id, text)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM document_comments WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.Wrap(common.ErrorNotFound, fmt.Sprintf("comment %s not found", id), nil)
	}
	return nil
}
