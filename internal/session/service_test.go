package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/merchant"
	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/wizard"
)

func TestServiceCreateAndGet(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	sess, err := svc.Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if sess.ID == "" || sess.Step != wizard.StepWelcome || sess.Status != StatusInProgress {
		t.Fatalf("unexpected new session: %+v", sess)
	}
	if sess.Record.LegalForm != merchant.LegalFormSoleProprietorship {
		t.Fatalf("legal form not preset: %q", sess.Record.LegalForm)
	}

	got, err := svc.Get(ctx, sess.ID)
	if err != nil || got.ID != sess.ID {
		t.Fatalf("get: %v %+v", err, got)
	}
}

func TestServiceNotFound(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	if _, err := svc.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestServiceMutateTouchesActivity(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	sess, err := svc.Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	before := sess.LastActivityAt
	time.Sleep(5 * time.Millisecond)

	got, err := svc.Mutate(ctx, sess.ID, func(s *Session) error {
		s.Record.Apply(merchant.Patch{merchant.FieldBusinessName: "ABC Traders"}, merchant.SourceUser)
		return nil
	})
	if err != nil {
		t.Fatalf("mutate: %v", err)
	}
	if got.Record.BusinessName != "ABC Traders" {
		t.Fatalf("mutation lost: %+v", got.Record)
	}
	if !got.LastActivityAt.After(before) {
		t.Fatalf("activity timestamp not touched")
	}

	// reload from the store, the mutation must be persisted
	reloaded, err := svc.Get(ctx, sess.ID)
	if err != nil || reloaded.Record.BusinessName != "ABC Traders" {
		t.Fatalf("persisted state wrong: %v %+v", err, reloaded)
	}
}

func TestMemoryRepositoryCopiesValues(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	s := &Session{ID: "s1", Step: wizard.StepWelcome, Record: merchant.NewRecord()}
	if err := repo.Put(ctx, s); err != nil {
		t.Fatalf("put: %v", err)
	}

	// mutating the original must not leak into the stored copy
	s.Record.BusinessName = "leaked"
	got, err := repo.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Record.BusinessName != "" {
		t.Fatalf("stored session aliased caller memory: %+v", got.Record)
	}

	if err := repo.Delete(ctx, "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, "s1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete should be ErrNotFound, got %v", err)
	}
}
