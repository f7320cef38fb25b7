// Package sharelinks stores shareable links in PostgreSQL.
package sharelinks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/docflow/internal/common"
	"github.com/dmitrijs2005/docflow/internal/dbx"
	"github.com/dmitrijs2005/docflow/internal/server/models"
)

// ErrTokenTaken is returned by Create when the generated token collides
// with an existing link.
var ErrTokenTaken = fmt.Errorf("%w: share token already taken", common.ErrorConflict)

const (
	columns = `token, owner_id, filename, url, expires_at, visits, share_to, created_at`

	tokenConstraint = "share_links_pkey"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLink(row rowScanner) (*models.ShareLink, error) {
	var l models.ShareLink
	err := row.Scan(&l.Token, &l.OwnerID, &l.Filename, &l.URL, &l.ExpiresAt, &l.Visits, &l.ShareTo, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *PostgresRepository) queryOne(ctx context.Context, query string, args ...any) (*models.ShareLink, error) {
	l, err := scanLink(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return l, nil
}

func (r *PostgresRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM share_links WHERE expires_at <= $1`

	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) GetByFilename(ctx context.Context, ownerID, filename string) (*models.ShareLink, error) {
	query := `SELECT ` + columns + ` FROM share_links WHERE owner_id = $1 AND filename = $2`
	return r.queryOne(ctx, query, ownerID, filename)
}

func (r *PostgresRepository) GetByToken(ctx context.Context, token string) (*models.ShareLink, error) {
	query := `SELECT ` + columns + ` FROM share_links WHERE token = $1`
	return r.queryOne(ctx, query, token)
}

func (r *PostgresRepository) Create(ctx context.Context, link *models.ShareLink) (*models.ShareLink, error) {
	query := `INSERT INTO share_links (token, owner_id, filename, url, expires_at, visits, share_to)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + columns

	l, err := scanLink(r.db.QueryRowContext(ctx, query,
		link.Token, link.OwnerID, link.Filename, link.URL, link.ExpiresAt, link.Visits, link.ShareTo))
	if err != nil {
		if constraint, ok := dbx.UniqueViolation(err); ok {
			if constraint == tokenConstraint {
				return nil, ErrTokenTaken
			}
			return nil, common.Wrap(common.ErrorConflict, fmt.Sprintf("link for %q already exists", link.Filename), err)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return l, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, token string) error {
	query := `DELETE FROM share_links WHERE token = $1`

	res, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// ConsumeVisit decrements visits while more than one remains; the last
// visit deletes the row instead. Both statements are conditional, so
// concurrent redemptions never spend more visits than the link had.
func (r *PostgresRepository) ConsumeVisit(ctx context.Context, token string, now time.Time) (*models.ShareLink, error) {
	update := `UPDATE share_links SET visits = visits - 1
		WHERE token = $1 AND expires_at > $2 AND visits > 1
		RETURNING ` + columns

	l, err := scanLink(r.db.QueryRowContext(ctx, update, token, now))
	if err == nil {
		l.Visits++
		return l, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("db error: %w", err)
	}

	del := `DELETE FROM share_links
		WHERE token = $1 AND expires_at > $2
		RETURNING ` + columns

	l, err = scanLink(r.db.QueryRowContext(ctx, del, token, now))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrLinkExpired
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return l, nil
}
