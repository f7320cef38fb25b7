package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/docflow/internal/dbx"
	"github.com/dmitrijs2005/docflow/internal/server/repositories/access"
	"github.com/dmitrijs2005/docflow/internal/server/repositories/comments"
	"github.com/dmitrijs2005/docflow/internal/server/repositories/documents"
	"github.com/dmitrijs2005/docflow/internal/server/repositories/notifications"
	"github.com/dmitrijs2005/docflow/internal/server/repositories/sharelinks"
	"github.com/dmitrijs2005/docflow/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can run
// the same repositories against the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Documents(db dbx.DBTX) documents.Repository
	Access(db dbx.DBTX) access.Repository
	ShareLinks(db dbx.DBTX) sharelinks.Repository
	Notifications(db dbx.DBTX) notifications.Repository
	Comments(db dbx.DBTX) comments.Repository
}
