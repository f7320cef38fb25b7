package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/docflow/internal/common"
	"github.com/dmitrijs2005/docflow/internal/logging"
	"github.com/dmitrijs2005/docflow/internal/server/config"
	"github.com/dmitrijs2005/docflow/internal/server/mail"
	"github.com/dmitrijs2005/docflow/internal/server/models"
	"github.com/dmitrijs2005/docflow/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/docflow/internal/server/repositories/sharelinks"
	"github.com/dmitrijs2005/docflow/internal/server/storage"
	"github.com/lithammer/shortuuid/v4"
)

// maxTokenAttempts bounds retries after a token collision.
const maxTokenAttempts = 5

// MintResult describes a share link handed to the owner.
type MintResult struct {
	Link *models.ShareLink
	// URL is the public address followers open.
	URL string
	// Existing is set when a live link was returned instead of a new one.
	Existing bool
}

// SharingService mints visit-limited links to stored documents and gates
// who may follow them.
type SharingService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	metadata      *MetadataService
	notifications *NotificationService
	store         storage.ObjectStore
	locator       storage.Locator
	mailer        mail.Sender

	linkTTL    time.Duration
	presignTTL time.Duration
	linkBase   string

	log      logging.Logger
	now      func() time.Time
	newToken func() string
}

func NewSharingService(db *sql.DB, m repomanager.RepositoryManager, metadata *MetadataService,
	notifications *NotificationService, store storage.ObjectStore, locator storage.Locator,
	mailer mail.Sender, cfg *config.Config, log logging.Logger) *SharingService {
	return &SharingService{
		db:            db,
		repomanager:   m,
		metadata:      metadata,
		notifications: notifications,
		store:         store,
		locator:       locator,
		mailer:        mailer,
		linkTTL:       cfg.ShareLinkTTL,
		presignTTL:    cfg.PresignTTL,
		linkBase:      strings.TrimRight(cfg.PublicBaseURL, "/") + cfg.APIPrefix + "/doc/",
		log:           log.With("module", "sharing"),
		now:           time.Now,
		newToken:      shortuuid.New,
	}
}

// LinkURL renders the public address of token.
func (s *SharingService) LinkURL(token string) string {
	return s.linkBase + token
}

// Mint returns a share link for the owner's document. Expired links are
// swept first. While a link for the same file is live it is returned as is:
// its visit budget and recipients are not changed. A new link is mailed to
// every recipient and each of them gets a notification; recipients must
// have accounts and are recorded by email. When mailing or notifying fails
// the new link is removed again so that a retry mints and sends afresh.
func (s *SharingService) Mint(ctx context.Context, owner *models.User, identifier string, visits int, recipients []string) (*MintResult, error) {
	if visits < 1 {
		return nil, common.Wrap(common.ErrorBadRequest, "visits must be at least 1", nil)
	}

	doc, err := s.metadata.Get(ctx, owner, identifier)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.ShareLinks(s.db)
	now := s.now()
	if n, err := repo.DeleteExpired(ctx, now); err != nil {
		return nil, err
	} else if n > 0 {
		s.log.Debug(ctx, "expired share links swept", "count", n)
	}

	if link, err := repo.GetByFilename(ctx, owner.ID, doc.Name); err == nil {
		return &MintResult{Link: link, URL: s.LinkURL(link.Token), Existing: true}, nil
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	receivers := make([]*models.User, 0, len(recipients))
	shareTo := make(models.StringList, 0, len(recipients))
	for _, r := range recipients {
		u, err := resolveUser(ctx, s.repomanager.Users(s.db), r)
		if err != nil {
			return nil, err
		}
		if shareTo.Contains(u.Email) {
			continue
		}
		receivers = append(receivers, u)
		shareTo = append(shareTo, u.Email)
	}

	key, err := s.locator.URLToKey(doc.S3URL)
	if err != nil {
		return nil, err
	}
	presigned, err := s.store.PresignGet(ctx, key, s.presignTTL)
	if err != nil {
		return nil, err
	}

	link, existing, err := s.create(ctx, repo, &models.ShareLink{
		OwnerID:   owner.ID,
		Filename:  doc.Name,
		URL:       presigned,
		ExpiresAt: now.Add(s.linkTTL),
		Visits:    visits,
		ShareTo:   shareTo,
	})
	if err != nil {
		return nil, err
	}
	res := &MintResult{Link: link, URL: s.LinkURL(link.Token), Existing: existing}
	if existing || len(receivers) == 0 {
		return res, nil
	}

	if err := s.announce(ctx, owner, receivers, shareTo, doc.Name, res.URL); err != nil {
		if derr := repo.Delete(ctx, link.Token); derr != nil && !errors.Is(derr, common.ErrorNotFound) {
			s.log.Error(ctx, "unsent share link not removed", "token", link.Token, "error", derr)
		}
		return nil, err
	}

	s.log.Info(ctx, "share link minted", "owner_id", owner.ID, "filename", doc.Name, "recipients", len(receivers))
	return res, nil
}

func (s *SharingService) announce(ctx context.Context, owner *models.User, receivers []*models.User, emails []string, filename, url string) error {
	for _, u := range receivers {
		msg := mail.Message{
			To:      u.Email,
			Subject: fmt.Sprintf("DocFlow: %s share a document", owner.UserName),
			Body: fmt.Sprintf("Visit the link: %s, to access the document shared by %s | %s.",
				url, owner.UserName, owner.Email),
		}
		if err := s.mailer.Send(ctx, msg); err != nil {
			return err
		}
	}
	_, err := s.notifications.Notify(ctx, owner, emails, filename)
	return err
}

// create inserts link under a fresh token. A token collision is retried
// with a new token; losing a race against a concurrent mint for the same
// file returns the winner's link.
func (s *SharingService) create(ctx context.Context, repo sharelinks.Repository, link *models.ShareLink) (*models.ShareLink, bool, error) {
	for range maxTokenAttempts {
		link.Token = s.newToken()
		out, err := repo.Create(ctx, link)
		switch {
		case err == nil:
			return out, false, nil
		case errors.Is(err, sharelinks.ErrTokenTaken):
			s.log.Warn(ctx, "share token collision, retrying")
			continue
		case errors.Is(err, common.ErrorConflict):
			winner, getErr := repo.GetByFilename(ctx, link.OwnerID, link.Filename)
			if getErr != nil {
				return nil, false, getErr
			}
			return winner, true, nil
		default:
			return nil, false, err
		}
	}
	return nil, false, common.Wrap(common.ErrorInternal, "could not allocate a unique share token", nil)
}

// Redeem spends one visit of token and returns the pre-signed URL it
// points to. The visit that exhausts the budget removes the link.
func (s *SharingService) Redeem(ctx context.Context, token string) (string, error) {
	link, err := s.repomanager.ShareLinks(s.db).ConsumeVisit(ctx, token, s.now())
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.Wrap(common.ErrLinkExpired,
				"Shared URL link either expired or reached the limit of visits...", nil)
		}
		return "", err
	}
	return link.URL, nil
}

// ConfirmAccess reports whether user may follow token: the owner and the
// listed recipients, by e-mail or username, may.
func (s *SharingService) ConfirmAccess(ctx context.Context, user *models.User, token string) (bool, error) {
	link, err := s.repomanager.ShareLinks(s.db).GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, common.Wrap(common.ErrLinkExpired, "The link has expired...", nil)
		}
		return false, err
	}
	if link.Expired(s.now()) {
		return false, common.Wrap(common.ErrLinkExpired, "The link has expired...", nil)
	}
	return link.OwnerID == user.ID || link.ShareTo.Contains(user.Email) || link.ShareTo.Contains(user.UserName), nil
}

// Follow checks that user may open token and then redeems it.
func (s *SharingService) Follow(ctx context.Context, user *models.User, token string) (string, error) {
	ok, err := s.ConfirmAccess(ctx, user, token)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", common.Wrap(common.ErrorForbidden, "you have no access to this link", nil)
	}
	return s.Redeem(ctx, token)
}

// SendAsAttachment mails the owner's document to every recipient as an
// attachment. With notify set, recipients must have accounts and each gets
// a notification.
func (s *SharingService) SendAsAttachment(ctx context.Context, owner *models.User, identifier string, recipients []string, notify bool) error {
	if len(recipients) == 0 {
		return common.Wrap(common.ErrorBadRequest, "at least one recipient is required", nil)
	}

	doc, err := s.metadata.Get(ctx, owner, identifier)
	if err != nil {
		return err
	}
	key, err := s.locator.URLToKey(doc.S3URL)
	if err != nil {
		return err
	}
	data, err := s.store.Get(ctx, key)
	if err != nil {
		return err
	}

	dir, err := os.MkdirTemp("", "docflow-attachment-*")
	if err != nil {
		return common.Wrap(common.ErrorInternal, "creating attachment dir", err)
	}
	defer os.RemoveAll(dir)

	attachment := filepath.Join(dir, filepath.Base(doc.Name))
	if err := os.WriteFile(attachment, data, 0o600); err != nil {
		return common.Wrap(common.ErrorInternal, "writing attachment", err)
	}

	for _, to := range recipients {
		msg := mail.Message{
			To:             strings.TrimSpace(to),
			Subject:        fmt.Sprintf("%s shared a file with you using DocFlow", owner.UserName),
			Body:           fmt.Sprintf("%s (%s) shared %s with you. The file is attached.", owner.UserName, owner.Email, doc.Name),
			AttachmentPath: attachment,
		}
		if err := s.mailer.Send(ctx, msg); err != nil {
			return err
		}
	}

	if notify {
		if _, err := s.notifications.Notify(ctx, owner, recipients, doc.Name); err != nil {
			return err
		}
	}
	s.log.Info(ctx, "document mailed", "doc_id", doc.ID, "recipients", len(recipients))
	return nil
}
