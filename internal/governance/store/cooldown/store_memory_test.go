package cooldown

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propdesk/pkg/domain"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	voter := domain.AccountIDFromUint64(1)
	admin := domain.AccountIDFromUint64(2)
	other := domain.AccountIDFromUint64(3)

	_, ok, err := store.LastVote(ctx, voter, admin)
	require.NoError(t, err)
	assert.False(t, ok, "unseen pair has no timestamp")

	first := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.SetLastVote(ctx, voter, admin, first))

	got, ok, err := store.LastVote(ctx, voter, admin)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, first, got)

	// Pairs are directional and independent.
	_, ok, err = store.LastVote(ctx, admin, voter)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = store.LastVote(ctx, voter, other)
	require.NoError(t, err)
	assert.False(t, ok)

	later := first.Add(36 * time.Hour)
	require.NoError(t, store.SetLastVote(ctx, voter, admin, later))
	got, _, err = store.LastVote(ctx, voter, admin)
	require.NoError(t, err)
	assert.Equal(t, later, got)
}
