// Package storage is the object store gateway: byte blobs addressed by key,
// plus the mapping between keys and the location references kept in
// document metadata.
package storage

import (
	"context"
	"time"
)

// ObjectStore reads and writes whole objects in a single bucket.
type ObjectStore interface {
	// Put stores body under key, replacing any existing object.
	Put(ctx context.Context, key string, body []byte, contentType string) error
	// Get returns the object's bytes or an error wrapping common.ErrorNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	// PresignGet returns a URL granting temporary read access to key.
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}
