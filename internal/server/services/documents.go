package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/docflow/internal/common"
	"github.com/dmitrijs2005/docflow/internal/logging"
	"github.com/dmitrijs2005/docflow/internal/server/models"
	"github.com/dmitrijs2005/docflow/internal/server/storage"
	"github.com/google/uuid"
)

// UploadOutcome tells which branch an upload took.
type UploadOutcome string

const (
	OutcomeAdded     UploadOutcome = "added"
	OutcomeUpdated   UploadOutcome = "updated"
	OutcomeUnchanged UploadOutcome = "unchanged"
)

// UploadInput is one file received from a caller.
type UploadInput struct {
	Filename    string
	Content     []byte
	ContentType string
	// Folder optionally nests the storage key below the uploader's id.
	Folder string
}

// UploadResult reports the outcome and the document as stored after the
// upload. IsOwner is false only when a collaborator pushed a new version of
// someone else's document.
type UploadResult struct {
	Outcome  UploadOutcome
	IsOwner  bool
	Document *models.Document
}

// DocumentService decides what an upload means and moves bytes between
// callers and the object store.
type DocumentService struct {
	metadata *MetadataService
	store    storage.ObjectStore
	locator  storage.Locator
	log      logging.Logger
	newKeyID func() string
}

func NewDocumentService(metadata *MetadataService, store storage.ObjectStore, locator storage.Locator, log logging.Logger) *DocumentService {
	return &DocumentService{
		metadata: metadata,
		store:    store,
		locator:  locator,
		log:      log.With("module", "documents"),
		newKeyID: uuid.NewString,
	}
}

// Upload stores in for user. The object is always written before its
// metadata; when the metadata write fails afterwards the object stays in
// storage and the failure is logged with its key.
func (s *DocumentService) Upload(ctx context.Context, user *models.User, in UploadInput) (*UploadResult, error) {
	name := strings.TrimSpace(in.Filename)
	if name == "" {
		return nil, common.Wrap(common.ErrorBadRequest, "filename is required", nil)
	}
	contentType := normalizeContentType(in.ContentType)
	ext, ok := ExtensionFor(contentType)
	if !ok {
		return nil, common.Wrap(common.ErrUnsupportedMediaType, fmt.Sprintf("content type %q", in.ContentType), nil)
	}

	hash := ContentHash(in.Content)
	size := int64(len(in.Content))

	existing, err := s.metadata.Get(ctx, user, name)
	switch {
	case err == nil:
		if existing.FileHash == hash {
			return &UploadResult{Outcome: OutcomeUnchanged, IsOwner: true, Document: existing}, nil
		}
		return s.writeVersion(ctx, user, existing, in.Content, contentType, hash, size, true)
	case !errors.Is(err, common.ErrorNotFound):
		return nil, err
	}

	granted, err := s.metadata.GetGranted(ctx, user, name)
	switch {
	case err == nil:
		if granted.FileHash != hash {
			return s.writeVersion(ctx, user, granted, in.Content, contentType, hash, size, false)
		}
	case !errors.Is(err, common.ErrorNotFound):
		return nil, err
	}

	key, err := s.newKey(user, in.Folder, ext)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, key, in.Content, contentType); err != nil {
		return nil, err
	}

	doc, err := s.metadata.Create(ctx, &models.Document{
		OwnerID:  user.ID,
		Name:     name,
		S3URL:    s.locator.KeyToURL(key),
		Size:     size,
		FileType: contentType,
		FileHash: hash,
		Status:   models.StatusPrivate,
	})
	if err != nil {
		s.log.Warn(ctx, "metadata insert failed after upload, blob orphaned", "key", key, "error", err)
		return nil, err
	}
	s.log.Info(ctx, "document added", "doc_id", doc.ID, "owner_id", user.ID, "size", size)
	return &UploadResult{Outcome: OutcomeAdded, IsOwner: true, Document: doc}, nil
}

// writeVersion overwrites the object behind doc and records the new content
// fields. The storage layer keeps the previous versions.
func (s *DocumentService) writeVersion(ctx context.Context, user *models.User, doc *models.Document,
	content []byte, contentType, hash string, size int64, isOwner bool) (*UploadResult, error) {
	key, err := s.locator.URLToKey(doc.S3URL)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, key, content, contentType); err != nil {
		return nil, err
	}

	url := s.locator.KeyToURL(key)
	patch := models.DocumentPatch{
		Name:     &doc.Name,
		S3URL:    &url,
		Size:     &size,
		FileType: &contentType,
		FileHash: &hash,
	}
	identifier := doc.ID
	if !isOwner {
		identifier = doc.Name
	}
	updated, err := s.metadata.Patch(ctx, user, identifier, patch, isOwner)
	if err != nil {
		s.log.Warn(ctx, "metadata update failed after upload, object holds newer bytes", "key", key, "error", err)
		return nil, err
	}
	s.log.Info(ctx, "document updated", "doc_id", doc.ID, "by", user.ID, "is_owner", isOwner)
	return &UploadResult{Outcome: OutcomeUpdated, IsOwner: isOwner, Document: updated}, nil
}

// newKey builds "{userID}[/{folder}]/{uuid}.{ext}".
func (s *DocumentService) newKey(user *models.User, folder, ext string) (string, error) {
	folder = strings.Trim(strings.TrimSpace(folder), "/")
	parts := []string{user.ID}
	if folder != "" {
		for _, seg := range strings.Split(folder, "/") {
			if seg == "" || seg == "." || seg == ".." {
				return "", common.Wrap(common.ErrorBadRequest, fmt.Sprintf("invalid folder %q", folder), nil)
			}
		}
		parts = append(parts, folder)
	}
	parts = append(parts, s.newKeyID()+"."+ext)
	return path.Join(parts...), nil
}

// Object is a downloaded file.
type Object struct {
	Name string
	Data []byte
}

// Download fetches the object behind location.
func (s *DocumentService) Download(ctx context.Context, location, name string) (*Object, error) {
	key, err := s.locator.URLToKey(location)
	if err != nil {
		return nil, err
	}
	data, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return &Object{Name: name, Data: data}, nil
}

var previewTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"pdf":  "application/pdf",
}

// Preview is a document materialized into a temporary file. Close removes
// the file.
type Preview struct {
	*os.File
	MediaType string
	Size      int64
}

func (p *Preview) Close() error {
	name := p.File.Name()
	err := p.File.Close()
	if rmErr := os.Remove(name); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
		return errors.Join(err, rmErr)
	}
	return err
}

// Preview returns a readable handle for images and PDFs. Other file types
// fail with ErrUnsupportedPreview.
func (s *DocumentService) Preview(ctx context.Context, doc *models.Document) (*Preview, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(doc.Name), "."))
	mediaType, ok := previewTypes[ext]
	if !ok {
		return nil, common.Wrap(common.ErrUnsupportedPreview, fmt.Sprintf("%q", doc.Name), nil)
	}

	obj, err := s.Download(ctx, doc.S3URL, doc.Name)
	if err != nil {
		return nil, err
	}

	f, err := os.CreateTemp("", "docflow-preview-*."+ext)
	if err != nil {
		return nil, common.Wrap(common.ErrorInternal, "creating preview file", err)
	}
	if _, err := f.Write(obj.Data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, common.Wrap(common.ErrorInternal, "writing preview file", err)
	}
	if _, err := f.Seek(0, 0); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, common.Wrap(common.ErrorInternal, "rewinding preview file", err)
	}
	return &Preview{File: f, MediaType: mediaType, Size: int64(len(obj.Data))}, nil
}

// PermanentlyDelete purges binned documents of owner together with their
// stored objects: every binned document called name, or the whole bin when
// all is set. Exactly the documents found in the bin are purged, so a
// document binned meanwhile keeps both its row and its object. Objects are
// deleted first; a failed object delete is logged and the row is purged
// anyway. It returns the number of purged documents.
func (s *DocumentService) PermanentlyDelete(ctx context.Context, owner *models.User, name string, all bool) (int, error) {
	binned, err := s.metadata.BinList(ctx, owner)
	if err != nil {
		return 0, err
	}

	var targets []*models.Document
	for _, d := range binned {
		if all || d.Name == name {
			targets = append(targets, d)
		}
	}
	if !all && len(targets) == 0 {
		return 0, common.Wrap(common.ErrorNotFound, fmt.Sprintf("no deleted document %q", name), nil)
	}

	ids := make([]string, 0, len(targets))
	for _, d := range targets {
		s.metadata.deleteObject(ctx, d)
		ids = append(ids, d.ID)
	}
	return s.metadata.PermDelete(ctx, owner, ids)
}
