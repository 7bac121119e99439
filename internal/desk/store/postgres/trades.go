// Package postgres persists the desk's trade history as a durable audit
// archive. The in-process store stays authoritative for reads inside an
// instance; this archive survives restarts and serves offline reconciliation.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"propdesk/internal/desk/models"
	"propdesk/pkg/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS desk_trades (
	admin       BYTEA       NOT NULL,
	seq         BIGINT      NOT NULL,
	usr         BYTEA       NOT NULL,
	amount      BIGINT      NOT NULL,
	trade_type  TEXT        NOT NULL,
	metadata    BYTEA       NOT NULL,
	executed_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (seq)
);
CREATE INDEX IF NOT EXISTS desk_trades_admin_idx ON desk_trades (admin, seq);
`

// TradeStore writes trade records to Postgres.
type TradeStore struct {
	pool *pgxpool.Pool
}

// Open connects and ensures the schema exists.
func Open(ctx context.Context, dsn string) (*TradeStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect trade store: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure trade schema: %w", err)
	}
	return &TradeStore{pool: pool}, nil
}

// Append writes one record. Records are immutable; a sequence collision means
// a replayed write, which is dropped rather than overwritten.
func (s *TradeStore) Append(ctx context.Context, record models.TradeRecord) error {
	adminRaw := record.Admin.Bytes32()
	usrRaw := record.User.Bytes32()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO desk_trades (admin, seq, usr, amount, trade_type, metadata, executed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (seq) DO NOTHING`,
		adminRaw[:], int64(record.Seq), usrRaw[:],
		int64(record.Amount), record.TradeType, record.Metadata[:], record.ExecutedAt,
	)
	if err != nil {
		return fmt.Errorf("append trade record: %w", err)
	}
	return nil
}

// ListByAdmin reads an admin's archived trades in sequence order.
func (s *TradeStore) ListByAdmin(ctx context.Context, admin domain.AccountID) ([]models.TradeRecord, error) {
	adminRaw := admin.Bytes32()
	rows, err := s.pool.Query(ctx, `
		SELECT admin, seq, usr, amount, trade_type, metadata, executed_at
		FROM desk_trades WHERE admin = $1 ORDER BY seq`,
		adminRaw[:],
	)
	if err != nil {
		return nil, fmt.Errorf("list trade records: %w", err)
	}
	defer rows.Close()

	var out []models.TradeRecord
	for rows.Next() {
		var (
			record       models.TradeRecord
			adminB, usrB []byte
			seq, amount  int64
			metadata     []byte
		)
		if err := rows.Scan(&adminB, &seq, &usrB, &amount, &record.TradeType, &metadata, &record.ExecutedAt); err != nil {
			return nil, fmt.Errorf("scan trade record: %w", err)
		}
		record.Admin = domain.AccountIDFromBytes(adminB)
		record.User = domain.AccountIDFromBytes(usrB)
		record.Seq = domain.TradeSeq(seq)
		record.Amount = domain.Amount(amount)
		copy(record.Metadata[:], metadata)
		out = append(out, record)
	}
	return out, rows.Err()
}

// Close releases the connection pool.
func (s *TradeStore) Close() {
	s.pool.Close()
}
