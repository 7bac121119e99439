//go:build integration

package cooldown

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propdesk/pkg/domain"
	"propdesk/pkg/testutil/containers"
)

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	rc := containers.NewRedisContainer(t)
	store := NewRedisStore(rc.Client, time.Hour)

	voter := domain.AccountIDFromUint64(1)
	admin := domain.AccountIDFromUint64(2)

	_, ok, err := store.LastVote(ctx, voter, admin)
	require.NoError(t, err)
	assert.False(t, ok)

	at := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.SetLastVote(ctx, voter, admin, at))

	got, ok, err := store.LastVote(ctx, voter, admin)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, got.Equal(at))

	// Pairs are directional.
	_, ok, err = store.LastVote(ctx, admin, voter)
	require.NoError(t, err)
	assert.False(t, ok)

	t.Run("expired keys read as no vote", func(t *testing.T) {
		short := NewRedisStore(rc.Client, 50*time.Millisecond)
		other := domain.AccountIDFromUint64(3)
		require.NoError(t, short.SetLastVote(ctx, voter, other, at))

		assert.Eventually(t, func() bool {
			_, ok, err := short.LastVote(ctx, voter, other)
			return err == nil && !ok
		}, 2*time.Second, 50*time.Millisecond)
	})
}
