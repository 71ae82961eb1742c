package session

import (
	"context"
	"errors"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/merchant"
	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/wizard"
)

func TestRedisRepository_PutGetDelete(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	repo := NewRedisRepository(client, "test:onboarding:", time.Hour)

	ctx := context.Background()
	rec := merchant.NewRecord()
	rec.Apply(merchant.Patch{merchant.FieldBusinessName: "ABC Traders"}, merchant.SourceUser)
	s := &Session{
		ID:        "s1",
		Step:      wizard.StepBusinessInfo,
		Record:    rec,
		Status:    StatusInProgress,
		CreatedAt: time.Now().UTC(),
	}

	require.NoError(t, repo.Put(ctx, s))

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, wizard.StepBusinessInfo, got.Step)
	require.Equal(t, "ABC Traders", got.Record.BusinessName)
	require.Equal(t, merchant.SourceUser, got.Record.Sources[merchant.FieldBusinessName])

	require.NoError(t, repo.Delete(ctx, "s1"))
	_, err = repo.Get(ctx, "s1")
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestRedisRepository_IdleTTL(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	repo := NewRedisRepository(client, "", time.Minute)

	ctx := context.Background()
	require.NoError(t, repo.Put(ctx, &Session{ID: "s2", Record: merchant.NewRecord()}))

	// miniredis lets us advance the clock past the idle TTL
	m.FastForward(2 * time.Minute)

	_, err = repo.Get(ctx, "s2")
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestRedisRepository_MissingIsNotFound(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	repo := NewRedisRepository(client, "", 0)

	_, err = repo.Get(context.Background(), "ghost")
	require.True(t, errors.Is(err, ErrNotFound))
	require.True(t, errors.Is(repo.Delete(context.Background(), "ghost"), ErrNotFound))
}
