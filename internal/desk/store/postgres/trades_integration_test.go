//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propdesk/internal/desk/models"
	"propdesk/pkg/domain"
	"propdesk/pkg/testutil/containers"
)

func TestTradeStore(t *testing.T) {
	ctx := context.Background()
	pc := containers.NewPostgresContainer(t)

	store, err := Open(ctx, pc.DSN)
	require.NoError(t, err)
	t.Cleanup(store.Close)

	admin := domain.AccountIDFromUint64(1)
	other := domain.AccountIDFromUint64(2)
	user := domain.AccountIDFromUint64(3)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	records := []models.TradeRecord{
		{Admin: admin, Seq: 0, User: user, Amount: 5, TradeType: "buy", Metadata: domain.NewCommitment([]byte("a")), ExecutedAt: at},
		{Admin: other, Seq: 1, User: user, Amount: 7, TradeType: "sell", Metadata: domain.NewCommitment([]byte("b")), ExecutedAt: at},
		{Admin: admin, Seq: 2, User: user, Amount: 9, TradeType: "buy", Metadata: domain.NewCommitment([]byte("c")), ExecutedAt: at},
	}
	for _, record := range records {
		require.NoError(t, store.Append(ctx, record))
	}

	// Replayed appends are dropped.
	require.NoError(t, store.Append(ctx, records[0]))

	got, err := store.ListByAdmin(ctx, admin)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i, want := range []models.TradeRecord{records[0], records[2]} {
		assert.Equal(t, want.Seq, got[i].Seq)
		assert.Equal(t, want.Admin, got[i].Admin)
		assert.Equal(t, want.User, got[i].User)
		assert.Equal(t, want.Amount, got[i].Amount)
		assert.Equal(t, want.TradeType, got[i].TradeType)
		assert.Equal(t, want.Metadata, got[i].Metadata)
		assert.True(t, want.ExecutedAt.Equal(got[i].ExecutedAt))
	}
}
