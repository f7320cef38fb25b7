package access

import "context"

// Repository records which users may push new versions of a document they
// do not own.
type Repository interface {
	// Grant fails with a conflict if the user already has access.
	Grant(ctx context.Context, docID, userID string) error
	RevokeAll(ctx context.Context, docID string) error
	HasAccess(ctx context.Context, docID, userID string) (bool, error)
}
