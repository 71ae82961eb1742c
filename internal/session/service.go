package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/merchant"
	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/wizard"
)

// Service wraps repository operations with session lifecycle logic.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service { return &Service{repo: r} }

// Create starts a fresh onboarding attempt at the welcome step.
func (s *Service) Create(ctx context.Context) (*Session, error) {
	now := time.Now().UTC()
	sess := &Session{
		ID:             uuid.NewString(),
		Step:           wizard.StepWelcome,
		Record:         merchant.NewRecord(),
		Status:         StatusInProgress,
		CreatedAt:      now,
		LastActivityAt: now,
	}
	if err := s.repo.Put(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get loads a session by identifier. Returns ErrNotFound for unknown ids.
func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	return s.repo.Get(ctx, id)
}

// Save persists a mutated session and touches its activity timestamp.
func (s *Service) Save(ctx context.Context, sess *Session) error {
	sess.LastActivityAt = time.Now().UTC()
	return s.repo.Put(ctx, sess)
}

// Mutate loads a session, applies fn, and persists the result. The wizard
// assumes one request at a time per session; concurrent writers to the same
// id resolve as last-write-wins.
func (s *Service) Mutate(ctx context.Context, id string, fn func(*Session) error) (*Session, error) {
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	if err := s.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Delete removes a session outright.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
