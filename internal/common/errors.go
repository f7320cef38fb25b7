// Package common defines the error kinds shared by repositories, services
// and the HTTP layer of DocFlow. Callers should use errors.Is to match them.
package common

import (
	"errors"
	"fmt"
)

var (
	// Error kinds. Every error surfaced by a service wraps exactly one of them.
	ErrorBadRequest   = errors.New("bad request")
	ErrorNotFound     = errors.New("not found")
	ErrorConflict     = errors.New("conflict")
	ErrorForbidden    = errors.New("forbidden")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorInternal     = errors.New("internal error")

	// Specific errors, each wrapping a kind.
	ErrUnsupportedMediaType = fmt.Errorf("%w: unsupported media type", ErrorBadRequest)
	ErrUnsupportedPreview   = fmt.Errorf("%w: unsupported preview type", ErrorBadRequest)
	ErrLinkExpired          = fmt.Errorf("%w: shared link expired or reached the limit of visits", ErrorNotFound)
	ErrInvalidToken         = fmt.Errorf("%w: invalid token", ErrorUnauthorized)
	ErrTokenExpired         = fmt.Errorf("%w: token expired", ErrorUnauthorized)
)

var kinds = []error{
	ErrorBadRequest,
	ErrorNotFound,
	ErrorConflict,
	ErrorForbidden,
	ErrorUnauthorized,
	ErrorInternal,
}

// Wrap attaches kind to cause. The message is placed between them, so the
// result reads "kind: msg: cause" and both kind and cause remain matchable.
func Wrap(kind error, msg string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w: %s", kind, msg)
	}
	return fmt.Errorf("%w: %s: %w", kind, msg, cause)
}

// Kind returns the error kind err belongs to. Errors that carry no kind are
// reported as ErrorInternal.
func Kind(err error) error {
	if err == nil {
		return nil
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return ErrorInternal
}
