package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/docflow/internal/common"
	"github.com/dmitrijs2005/docflow/internal/dbx"
	"github.com/dmitrijs2005/docflow/internal/logging"
	"github.com/dmitrijs2005/docflow/internal/server/config"
	"github.com/dmitrijs2005/docflow/internal/server/models"
	"github.com/dmitrijs2005/docflow/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/docflow/internal/server/storage"
)

// DefaultListLimit is the page size used when List is called with limit 0.
const DefaultListLimit = 10

// MetadataService owns the document lifecycle: lookup, patching, the bin
// and archiving. All lookups are scoped to the calling owner except
// GetGlobal.
type MetadataService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storage.ObjectStore
	locator     storage.Locator
	retention   time.Duration
	log         logging.Logger
	now         func() time.Time
}

func NewMetadataService(db *sql.DB, m repomanager.RepositoryManager, store storage.ObjectStore,
	locator storage.Locator, cfg *config.Config, log logging.Logger) *MetadataService {
	return &MetadataService{
		db:          db,
		repomanager: m,
		store:       store,
		locator:     locator,
		retention:   cfg.BinRetention,
		log:         log.With("module", "metadata"),
		now:         time.Now,
	}
}

// SearchQuery holds comma separated filters. Empty filters are skipped.
type SearchQuery struct {
	Tags       string
	Categories string
	FileTypes  string
	Statuses   string
}

// SearchResult has one group per non-empty filter. A group is nil when its
// filter was not given.
type SearchResult struct {
	Tags       []*models.Document
	Categories []*models.Document
	FileTypes  []*models.Document
	Statuses   []*models.Document
}

// Get resolves identifier as a document id when it parses as a UUID and as
// a name otherwise. Binned documents are never returned.
func (s *MetadataService) Get(ctx context.Context, owner *models.User, identifier string) (*models.Document, error) {
	repo := s.repomanager.Documents(s.db)
	if isUUID(identifier) {
		return repo.GetByID(ctx, owner.ID, identifier)
	}
	return repo.GetByName(ctx, owner.ID, identifier)
}

// GetGlobal returns the oldest live document called name, whoever owns it.
func (s *MetadataService) GetGlobal(ctx context.Context, name string) (*models.Document, error) {
	docs, err := s.repomanager.Documents(s.db).ListLiveByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, common.Wrap(common.ErrorNotFound, fmt.Sprintf("document %q", name), nil)
	}
	return docs[0], nil
}

// GetGranted resolves name globally and returns the document when user is
// not its owner but holds update access to it.
func (s *MetadataService) GetGranted(ctx context.Context, user *models.User, name string) (*models.Document, error) {
	doc, err := s.GetGlobal(ctx, name)
	if err != nil {
		return nil, err
	}
	if doc.OwnerID != user.ID {
		ok, err := s.repomanager.Access(s.db).HasAccess(ctx, doc.ID, user.ID)
		if err != nil {
			return nil, err
		}
		if ok {
			return doc, nil
		}
	}
	return nil, common.Wrap(common.ErrorNotFound, fmt.Sprintf("no shared document %q", name), nil)
}

// Create inserts the metadata of a freshly uploaded document.
func (s *MetadataService) Create(ctx context.Context, doc *models.Document) (*models.Document, error) {
	if doc.Status == "" {
		doc.Status = models.StatusPrivate
	}
	d, err := s.repomanager.Documents(s.db).Create(ctx, doc)
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.Wrap(common.ErrorConflict, fmt.Sprintf("Document with name: %s already exists.", doc.Name), err)
		}
		return nil, err
	}
	return d, nil
}

func (s *MetadataService) List(ctx context.Context, owner *models.User, limit, offset int) ([]*models.Document, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if offset < 0 {
		return nil, common.Wrap(common.ErrorBadRequest, "offset must not be negative", nil)
	}
	return s.repomanager.Documents(s.db).List(ctx, owner.ID, limit, offset)
}

func (s *MetadataService) ArchiveList(ctx context.Context, owner *models.User) ([]*models.Document, error) {
	return s.repomanager.Documents(s.db).ListByStatus(ctx, owner.ID, models.StatusArchived)
}

// Search runs every non-empty filter of q. Within a group a document
// matching several terms is listed once.
func (s *MetadataService) Search(ctx context.Context, owner *models.User, q SearchQuery) (*SearchResult, error) {
	repo := s.repomanager.Documents(s.db)
	res := &SearchResult{}

	group := func(filter string, lookup func(term string) ([]*models.Document, error)) ([]*models.Document, error) {
		terms := splitTerms(filter)
		if len(terms) == 0 {
			return nil, nil
		}
		out := []*models.Document{}
		for _, t := range terms {
			docs, err := lookup(t)
			if err != nil {
				return nil, err
			}
			out = append(out, docs...)
		}
		return dedupe(out), nil
	}

	var err error
	if res.Tags, err = group(q.Tags, func(t string) ([]*models.Document, error) {
		return repo.ListByTag(ctx, owner.ID, t)
	}); err != nil {
		return nil, err
	}
	if res.Categories, err = group(q.Categories, func(t string) ([]*models.Document, error) {
		return repo.ListByCategory(ctx, owner.ID, t)
	}); err != nil {
		return nil, err
	}
	if res.FileTypes, err = group(q.FileTypes, func(t string) ([]*models.Document, error) {
		var out []*models.Document
		for _, ct := range ContentTypesFor(t) {
			docs, err := repo.ListByFileType(ctx, owner.ID, ct)
			if err != nil {
				return nil, err
			}
			out = append(out, docs...)
		}
		return out, nil
	}); err != nil {
		return nil, err
	}
	if res.Statuses, err = group(q.Statuses, func(t string) ([]*models.Document, error) {
		st, ok := models.ParseStatus(t)
		if !ok {
			return nil, common.Wrap(common.ErrorBadRequest, fmt.Sprintf("unknown status %q", t), nil)
		}
		return repo.ListByStatus(ctx, owner.ID, st)
	}); err != nil {
		return nil, err
	}
	return res, nil
}

// Patch applies changes to a document. Owners may change any field and
// grant update access by listing e-mails in AccessTo; grants are recorded
// in the same transaction as the update, so an unknown or already granted
// e-mail leaves the document untouched. A non-owner patch only reaches a
// document the caller was granted and only changes content fields.
func (s *MetadataService) Patch(ctx context.Context, user *models.User, identifier string, patch models.DocumentPatch, isOwner bool) (*models.Document, error) {
	if !isOwner {
		doc, err := s.GetGranted(ctx, user, identifier)
		if err != nil {
			return nil, err
		}
		content := patch.ContentOnly()
		if content.IsEmpty() {
			return doc, nil
		}
		return s.repomanager.Documents(s.db).Update(ctx, doc.ID, content)
	}

	if patch.Status != nil {
		switch *patch.Status {
		case models.StatusPrivate, models.StatusPublic, models.StatusShared:
		default:
			return nil, common.Wrap(common.ErrorBadRequest,
				fmt.Sprintf("status %q can not be set directly", *patch.Status), nil)
		}
	}

	doc, err := s.Get(ctx, user, identifier)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return doc, nil
	}

	var out *models.Document
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if patch.AccessTo != nil {
			emails := *patch.AccessTo
			if err := s.grant(ctx, tx, doc, emails); err != nil {
				return err
			}
			merged := doc.AccessTo.Merge(emails)
			patch.AccessTo = &merged
		}

		var err error
		out, err = s.repomanager.Documents(tx).Update(ctx, doc.ID, patch)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MetadataService) grant(ctx context.Context, tx dbx.DBTX, doc *models.Document, emails []string) error {
	usersRepo := s.repomanager.Users(tx)
	accessRepo := s.repomanager.Access(tx)

	for _, email := range emails {
		u, err := usersRepo.GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.Wrap(common.ErrorNotFound,
					fmt.Sprintf("The user with '%s' does not exists, make sure user has account in DocFlow.", email), nil)
			}
			return err
		}
		if u.ID == doc.OwnerID {
			return common.Wrap(common.ErrorBadRequest, "the owner always has access", nil)
		}
		if err := accessRepo.Grant(ctx, doc.ID, u.ID); err != nil {
			if errors.Is(err, common.ErrorConflict) {
				return common.Wrap(common.ErrorConflict, fmt.Sprintf("User '%s' already has access...", email), err)
			}
			return err
		}
	}
	return nil
}

// SoftDelete moves a document to the bin. Grants are revoked and the
// document becomes eligible for purging once the retention period passes.
func (s *MetadataService) SoftDelete(ctx context.Context, owner *models.User, identifier string) (*models.Document, error) {
	doc, err := s.Get(ctx, owner, identifier)
	if err != nil {
		return nil, err
	}

	purgeAfter := s.now().Add(s.retention)
	var out *models.Document
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Access(tx).RevokeAll(ctx, doc.ID); err != nil {
			return err
		}
		var err error
		out, err = s.repomanager.Documents(tx).SoftDelete(ctx, doc.ID, purgeAfter)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "document binned", "doc_id", doc.ID, "purge_after", purgeAfter)
	return out, nil
}

// BinList returns the owner's binned documents after purging the ones whose
// retention has elapsed.
func (s *MetadataService) BinList(ctx context.Context, owner *models.User) ([]*models.Document, error) {
	if err := s.purgeExpired(ctx, owner); err != nil {
		return nil, err
	}
	return s.repomanager.Documents(s.db).ListByStatus(ctx, owner.ID, models.StatusDeleted)
}

func (s *MetadataService) purgeExpired(ctx context.Context, owner *models.User) error {
	purged, err := s.repomanager.Documents(s.db).PurgeExpired(ctx, owner.ID, s.now())
	if err != nil {
		return err
	}
	for _, d := range purged {
		s.log.Info(ctx, "document purged after retention", "doc_id", d.ID)
		s.deleteObject(ctx, d)
	}
	return nil
}

// deleteObject removes the stored bytes of doc. Failures are logged and
// leave an orphaned object behind.
func (s *MetadataService) deleteObject(ctx context.Context, doc *models.Document) {
	key, err := s.locator.URLToKey(doc.S3URL)
	if err == nil {
		err = s.store.Delete(ctx, key)
	}
	if err != nil {
		s.log.Error(ctx, "object delete failed, blob orphaned", "doc_id", doc.ID, "location", doc.S3URL, "error", err)
	}
}

// Restore takes the binned document called name back to private.
func (s *MetadataService) Restore(ctx context.Context, owner *models.User, name string) (*models.Document, error) {
	if err := s.purgeExpired(ctx, owner); err != nil {
		return nil, err
	}

	repo := s.repomanager.Documents(s.db)
	doc, err := repo.GetDeletedByName(ctx, owner.ID, name)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		exists, err := repo.ExistsByName(ctx, owner.ID, name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, common.Wrap(common.ErrorConflict, "Doc is not deleted", nil)
		}
		return nil, common.Wrap(common.ErrorNotFound, "Doc does not exists", nil)
	}

	out, err := repo.Restore(ctx, doc.ID)
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.Wrap(common.ErrorConflict, fmt.Sprintf("a live document named %q already exists", name), err)
		}
		return nil, err
	}
	return out, nil
}

func (s *MetadataService) Archive(ctx context.Context, owner *models.User, identifier string) (*models.Document, error) {
	doc, err := s.Get(ctx, owner, identifier)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.Wrap(common.ErrorNotFound, "Doc does not exist", err)
		}
		return nil, err
	}
	if doc.Status == models.StatusArchived {
		return nil, common.Wrap(common.ErrorConflict, "Doc is already archived", nil)
	}
	return s.repomanager.Documents(s.db).SetStatus(ctx, doc.ID, models.StatusArchived)
}

func (s *MetadataService) Unarchive(ctx context.Context, owner *models.User, identifier string) (*models.Document, error) {
	doc, err := s.Get(ctx, owner, identifier)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.Wrap(common.ErrorNotFound, "Doc does not exist", err)
		}
		return nil, err
	}
	if doc.Status != models.StatusArchived {
		return nil, common.Wrap(common.ErrorConflict, "Doc is not archived", nil)
	}
	return s.repomanager.Documents(s.db).SetStatus(ctx, doc.ID, models.StatusPrivate)
}

// PermDelete hard-deletes the owner's binned documents named by ids in one
// transaction and returns how many rows went. Ids that are no longer in the
// bin are skipped; live documents are never touched.
func (s *MetadataService) PermDelete(ctx context.Context, owner *models.User, ids []string) (int, error) {
	var n int
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		n = 0
		repo := s.repomanager.Documents(tx)
		for _, id := range ids {
			if err := repo.Delete(ctx, owner.ID, id); err != nil {
				if errors.Is(err, common.ErrorNotFound) {
					s.log.Debug(ctx, "purge target left the bin", "doc_id", id)
					continue
				}
				return err
			}
			n++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}
