package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrijs2005/docflow/internal/common"
	"github.com/dmitrijs2005/docflow/internal/logging"
	"github.com/dmitrijs2005/docflow/internal/server/auth"
	"github.com/dmitrijs2005/docflow/internal/server/config"
	"github.com/dmitrijs2005/docflow/internal/server/models"
	"github.com/dmitrijs2005/docflow/internal/server/repositories/repomanager"
)

// IdentityService registers accounts, issues access tokens and turns a
// verified token back into the caller's identity.
type IdentityService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	log                         logging.Logger
}

func NewIdentityService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *IdentityService {
	return &IdentityService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenTTL,
		log:                         log.With("module", "identity"),
	}
}

// Register creates an account. Usernames may not contain '@' so recipients
// can be told apart from e-mail addresses.
func (s *IdentityService) Register(ctx context.Context, username, email string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || strings.ContainsAny(username, "@ ") {
		return nil, common.Wrap(common.ErrorBadRequest, fmt.Sprintf("invalid username %q", username), nil)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, common.Wrap(common.ErrorBadRequest, fmt.Sprintf("invalid email %q", email), err)
	}

	u, err := s.repomanager.Users(s.db).Create(ctx, &models.User{UserName: username, Email: email})
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "user registered", "user_id", u.ID, "username", u.UserName)
	return u, nil
}

// IssueToken returns a signed access token for user.
func (s *IdentityService) IssueToken(ctx context.Context, user *models.User) (string, error) {
	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", common.Wrap(common.ErrorInternal, "signing token", err)
	}
	return token, nil
}

// Authenticate verifies token and loads the caller. A token naming a user
// that no longer exists is unauthorized.
func (s *IdentityService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	u, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.Wrap(common.ErrorUnauthorized, "unknown user", nil)
		}
		return nil, err
	}
	return u, nil
}

// Lookup finds a user by e-mail, or by username when the value has no '@'.
func (s *IdentityService) Lookup(ctx context.Context, emailOrUsername string) (*models.User, error) {
	return resolveUser(ctx, s.repomanager.Users(s.db), emailOrUsername)
}
