package session

import (
	"context"
	"errors"
)

// ErrNotFound is returned for unknown session identifiers. Callers translate
// it into a 404; it never mutates state.
var ErrNotFound = errors.New("session not found")

// Repository provides session persistence operations. The memory
// implementation backs tests and single-node development; Redis and Mongo
// back production without changing callers.
type Repository interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}
