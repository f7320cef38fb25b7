package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/docflow/internal/common"
	"github.com/dmitrijs2005/docflow/internal/logging"
	"github.com/dmitrijs2005/docflow/internal/server/models"
	"github.com/dmitrijs2005/docflow/internal/server/repositories/repomanager"
)

// CommentService keeps discussion threads on documents. A document's thread
// is open to its owner and to users holding update access to it; a comment
// can only be edited or removed by its author.
type CommentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewCommentService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *CommentService {
	return &CommentService{db: db, repomanager: m, log: log.With("module", "comments")}
}

// document returns the live document docID when user may see its thread.
// Documents the user cannot see are reported as missing.
func (s *CommentService) document(ctx context.Context, user *models.User, docID string) (*models.Document, error) {
	if !isUUID(docID) {
		return nil, common.Wrap(common.ErrorBadRequest, fmt.Sprintf("invalid document id %q", docID), nil)
	}
	doc, err := s.repomanager.Documents(s.db).GetLiveByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if doc.OwnerID == user.ID {
		return doc, nil
	}
	ok, err := s.repomanager.Access(s.db).HasAccess(ctx, doc.ID, user.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.Wrap(common.ErrorNotFound, fmt.Sprintf("document %s not found", docID), nil)
	}
	return doc, nil
}

func commentText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", common.Wrap(common.ErrorBadRequest, "comment must not be empty", nil)
	}
	return text, nil
}

func (s *CommentService) Create(ctx context.Context, user *models.User, docID, text string) (*models.Comment, error) {
	text, err := commentText(text)
	if err != nil {
		return nil, err
	}
	doc, err := s.document(ctx, user, docID)
	if err != nil {
		return nil, err
	}
	c, err := s.repomanager.Comments(s.db).Create(ctx, &models.Comment{DocID: doc.ID, AuthorID: user.ID, Text: text})
	if err != nil {
		return nil, err
	}
	s.log.Debug(ctx, "comment added", "doc_id", doc.ID, "author_id", user.ID)
	return c, nil
}

// List returns the document's thread, oldest first.
func (s *CommentService) List(ctx context.Context, user *models.User, docID string) ([]*models.Comment, error) {
	doc, err := s.document(ctx, user, docID)
	if err != nil {
		return nil, err
	}
	return s.repomanager.Comments(s.db).ListByDocument(ctx, doc.ID)
}

// authored loads comment id and checks that user wrote it.
func (s *CommentService) authored(ctx context.Context, user *models.User, id string) (*models.Comment, error) {
	if !isUUID(id) {
		return nil, common.Wrap(common.ErrorBadRequest, fmt.Sprintf("invalid comment id %q", id), nil)
	}
	c, err := s.repomanager.Comments(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.AuthorID != user.ID {
		return nil, common.Wrap(common.ErrorForbidden, "only the author can change a comment", nil)
	}
	return c, nil
}

func (s *CommentService) Update(ctx context.Context, user *models.User, id, text string) (*models.Comment, error) {
	text, err := commentText(text)
	if err != nil {
		return nil, err
	}
	if _, err := s.authored(ctx, user, id); err != nil {
		return nil, err
	}
	return s.repomanager.Comments(s.db).UpdateText(ctx, id, text)
}

func (s *CommentService) Delete(ctx context.Context, user *models.User, id string) error {
	if _, err := s.authored(ctx, user, id); err != nil {
		return err
	}
	if err := s.repomanager.Comments(s.db).Delete(ctx, id); err != nil {
		return err
	}
	s.log.Debug(ctx, "comment deleted", "comment_id", id)
	return nil
}
