// Package services contains DocFlow's business logic: the document engine,
// the metadata lifecycle, sharing links, notifications and identity lookup.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/docflow/internal/common"
	"github.com/dmitrijs2005/docflow/internal/server/models"
	"github.com/dmitrijs2005/docflow/internal/server/repositories/users"
	"github.com/google/uuid"
)

// isUUID reports whether identifier should be resolved as a document id
// rather than a name.
func isUUID(identifier string) bool {
	_, err := uuid.Parse(identifier)
	return err == nil
}

// resolveUser finds a user by e-mail, or by username when recipient has no
// '@'.
func resolveUser(ctx context.Context, repo users.Repository, recipient string) (*models.User, error) {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return nil, common.Wrap(common.ErrorBadRequest, "empty recipient", nil)
	}

	var (
		u   *models.User
		err error
	)
	if strings.Contains(recipient, "@") {
		u, err = repo.GetByEmail(ctx, recipient)
	} else {
		u, err = repo.GetByUsername(ctx, recipient)
	}
	if err != nil {
		if common.Kind(err) == common.ErrorNotFound {
			return nil, common.Wrap(common.ErrorNotFound,
				fmt.Sprintf("The user with '%s' does not exists, make sure user has account in DocFlow.", recipient), nil)
		}
		return nil, err
	}
	return u, nil
}

// splitTerms splits a comma separated filter, removing whitespace inside
// each term and dropping empty terms.
func splitTerms(filter string) []string {
	var out []string
	for _, t := range strings.Split(filter, ",") {
		t = strings.Join(strings.Fields(t), "")
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// dedupe keeps the first occurrence of each document id.
func dedupe(docs []*models.Document) []*models.Document {
	seen := make(map[string]struct{}, len(docs))
	out := make([]*models.Document, 0, len(docs))
	for _, d := range docs {
		if _, ok := seen[d.ID]; ok {
			continue
		}
		seen[d.ID] = struct{}{}
		out = append(out, d)
	}
	return out
}
