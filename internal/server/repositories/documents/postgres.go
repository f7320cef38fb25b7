// Package documents stores document metadata in PostgreSQL.
package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/docflow/internal/common"
	"github.com/dmitrijs2005/docflow/internal/dbx"
	"github.com/dmitrijs2005/docflow/internal/server/models"
)

const columns = `id, owner_id, name, s3_url, size, file_type, tags, categories,
	file_hash, status, access_to, created_at, purge_after`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanDocument is the single row-to-record mapping for the documents table.
func scanDocument(row rowScanner) (*models.Document, error) {
	var (
		doc        models.Document
		fileType   sql.NullString
		status     string
		purgeAfter sql.NullTime
	)

	err := row.Scan(&doc.ID, &doc.OwnerID, &doc.Name, &doc.S3URL, &doc.Size, &fileType,
		&doc.Tags, &doc.Categories, &doc.FileHash, &status, &doc.AccessTo, &doc.CreatedAt, &purgeAfter)
	if err != nil {
		return nil, err
	}

	doc.FileType = fileType.String
	doc.Status = models.Status(status)
	if purgeAfter.Valid {
		t := purgeAfter.Time
		doc.PurgeAfter = &t
	}
	return &doc, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// translate maps driver errors to error kinds. what names the subject for
// the error message.
func translate(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return common.Wrap(common.ErrorNotFound, what+" not found", nil)
	}
	if constraint, ok := dbx.UniqueViolation(err); ok {
		return common.Wrap(common.ErrorConflict, what+" already exists", fmt.Errorf("constraint %s: %w", constraint, err))
	}
	return fmt.Errorf("db error: %w", err)
}

func (r *PostgresRepository) queryOne(ctx context.Context, what, query string, args ...any) (*models.Document, error) {
	doc, err := scanDocument(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, translate(err, what)
	}
	return doc, nil
}

func (r *PostgresRepository) queryMany(ctx context.Context, query string, args ...any) ([]*models.Document, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, doc *models.Document) (*models.Document, error) {
	query := `INSERT INTO documents
		(owner_id, name, s3_url, size, file_type, tags, categories, file_hash, status, access_to)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + columns

	status := doc.Status
	if status == "" {
		status = models.StatusPrivate
	}

	return r.queryOne(ctx, fmt.Sprintf("document %q", doc.Name), query,
		doc.OwnerID, doc.Name, doc.S3URL, doc.Size, nullString(doc.FileType),
		doc.Tags, doc.Categories, doc.FileHash, string(status), doc.AccessTo)
}

func (r *PostgresRepository) GetByID(ctx context.Context, ownerID, id string) (*models.Document, error) {
	query := `SELECT ` + columns + ` FROM documents
		WHERE owner_id = $1 AND id = $2 AND status <> 'deleted'`
	return r.queryOne(ctx, fmt.Sprintf("document %s", id), query, ownerID, id)
}

func (r *PostgresRepository) GetLiveByID(ctx context.Context, id string) (*models.Document, error) {
	query := `SELECT ` + columns + ` FROM documents
		WHERE id = $1 AND status <> 'deleted'`
	return r.queryOne(ctx, fmt.Sprintf("document %s", id), query, id)
}

func (r *PostgresRepository) GetByName(ctx context.Context, ownerID, name string) (*models.Document, error) {
	query := `SELECT ` + columns + ` FROM documents
		WHERE owner_id = $1 AND name = $2 AND status <> 'deleted'`
	return r.queryOne(ctx, fmt.Sprintf("document %q", name), query, ownerID, name)
}

func (r *PostgresRepository) ListLiveByName(ctx context.Context, name string) ([]*models.Document, error) {
	query := `SELECT ` + columns + ` FROM documents
		WHERE name = $1 AND status <> 'deleted'
		ORDER BY created_at, id`
	return r.queryMany(ctx, query, name)
}

func (r *PostgresRepository) GetDeletedByName(ctx context.Context, ownerID, name string) (*models.Document, error) {
	query := `SELECT ` + columns + ` FROM documents
		WHERE owner_id = $1 AND name = $2 AND status = 'deleted'
		ORDER BY purge_after DESC
		LIMIT 1`
	return r.queryOne(ctx, fmt.Sprintf("deleted document %q", name), query, ownerID, name)
}

func (r *PostgresRepository) ExistsByName(ctx context.Context, ownerID, name string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM documents WHERE owner_id = $1 AND name = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, ownerID, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) List(ctx context.Context, ownerID string, limit, offset int) ([]*models.Document, error) {
	query := `SELECT ` + columns + ` FROM documents
		WHERE owner_id = $1 AND status NOT IN ('deleted', 'archived')
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3`
	return r.queryMany(ctx, query, ownerID, limit, offset)
}

func (r *PostgresRepository) ListByStatus(ctx context.Context, ownerID string, status models.Status) ([]*models.Document, error) {
	query := `SELECT ` + columns + ` FROM documents
		WHERE owner_id = $1 AND status = $2
		ORDER BY created_at, id`
	return r.queryMany(ctx, query, ownerID, string(status))
}

func (r *PostgresRepository) ListByTag(ctx context.Context, ownerID, tag string) ([]*models.Document, error) {
	query := `SELECT ` + columns + ` FROM documents
		WHERE owner_id = $1 AND status <> 'deleted' AND tags @> jsonb_build_array($2::text)
		ORDER BY created_at, id`
	return r.queryMany(ctx, query, ownerID, tag)
}

func (r *PostgresRepository) ListByCategory(ctx context.Context, ownerID, category string) ([]*models.Document, error) {
	query := `SELECT ` + columns + ` FROM documents
		WHERE owner_id = $1 AND status <> 'deleted' AND categories @> jsonb_build_array($2::text)
		ORDER BY created_at, id`
	return r.queryMany(ctx, query, ownerID, category)
}

func (r *PostgresRepository) ListByFileType(ctx context.Context, ownerID, fileType string) ([]*models.Document, error) {
	query := `SELECT ` + columns + ` FROM documents
		WHERE owner_id = $1 AND status <> 'deleted' AND file_type = $2
		ORDER BY created_at, id`
	return r.queryMany(ctx, query, ownerID, fileType)
}

// Update applies the non-nil fields of patch to the document with id.
func (r *PostgresRepository) Update(ctx context.Context, id string, patch models.DocumentPatch) (*models.Document, error) {
	var (
		sets []string
		args []any
	)
	add := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.S3URL != nil {
		add("s3_url", *patch.S3URL)
	}
	if patch.Size != nil {
		add("size", *patch.Size)
	}
	if patch.FileType != nil {
		add("file_type", nullString(*patch.FileType))
	}
	if patch.FileHash != nil {
		add("file_hash", *patch.FileHash)
	}
	if patch.Tags != nil {
		add("tags", *patch.Tags)
	}
	if patch.Categories != nil {
		add("categories", *patch.Categories)
	}
	if patch.Status != nil {
		add("status", string(*patch.Status))
	}
	if patch.AccessTo != nil {
		add("access_to", *patch.AccessTo)
	}

	what := fmt.Sprintf("document %s", id)
	if len(sets) == 0 {
		query := `SELECT ` + columns + ` FROM documents WHERE id = $1`
		return r.queryOne(ctx, what, query, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE documents SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), columns)

	return r.queryOne(ctx, what, query, args...)
}

// SoftDelete moves a live document to the bin, clearing the fields that are
// not kept while binned.
func (r *PostgresRepository) SoftDelete(ctx context.Context, id string, purgeAfter time.Time) (*models.Document, error) {
	query := `UPDATE documents
		SET status = 'deleted', tags = NULL, categories = NULL, access_to = NULL,
		    file_type = NULL, purge_after = $2
		WHERE id = $1 AND status <> 'deleted'
		RETURNING ` + columns
	return r.queryOne(ctx, fmt.Sprintf("document %s", id), query, id, purgeAfter)
}

func (r *PostgresRepository) Restore(ctx context.Context, id string) (*models.Document, error) {
	query := `UPDATE documents
		SET status = 'private', purge_after = NULL
		WHERE id = $1 AND status = 'deleted'
		RETURNING ` + columns
	return r.queryOne(ctx, fmt.Sprintf("document %s", id), query, id)
}

func (r *PostgresRepository) SetStatus(ctx context.Context, id string, status models.Status) (*models.Document, error) {
	query := `UPDATE documents SET status = $2 WHERE id = $1 RETURNING ` + columns
	return r.queryOne(ctx, fmt.Sprintf("document %s", id), query, id, string(status))
}

func (r *PostgresRepository) PurgeExpired(ctx context.Context, ownerID string, now time.Time) ([]*models.Document, error) {
	query := `DELETE FROM documents
		WHERE owner_id = $1 AND status = 'deleted' AND purge_after <= $2
		RETURNING ` + columns
	return r.queryMany(ctx, query, ownerID, now)
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id string) error {
	query := `DELETE FROM documents WHERE owner_id = $1 AND id = $2 AND status = 'deleted'`

	res, err := r.db.ExecContext(ctx, query, ownerID, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.Wrap(common.ErrorNotFound, fmt.Sprintf("document %s not found", id), nil)
	}
	return nil
}
