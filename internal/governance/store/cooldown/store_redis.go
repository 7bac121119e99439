package cooldown

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"propdesk/pkg/domain"
	"propdesk/pkg/platform/sentinel"
)

// RedisStore persists last-vote timestamps in Redis. Keys expire after the
// retention window; an expired key reads the same as no vote, which only
// matters once the cooldown itself has long passed.
type RedisStore struct {
	client    *redis.Client
	retention time.Duration
}

// NewRedisStore wraps an existing client. Retention must exceed the vote
// cooldown or the store would forget active cooldowns.
func NewRedisStore(client *redis.Client, retention time.Duration) *RedisStore {
	return &RedisStore{client: client, retention: retention}
}

func (s *RedisStore) key(voter, admin domain.AccountID) string {
	return fmt.Sprintf("propdesk:lastvote:%s:%s", voter.Hex(), admin.Hex())
}

func (s *RedisStore) LastVote(ctx context.Context, voter, admin domain.AccountID) (time.Time, bool, error) {
	raw, err := s.client.Get(ctx, s.key(voter, admin)).Result()
	if err == redis.Nil {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%w: read last vote: %v", sentinel.ErrUnavailable, err)
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse last vote timestamp: %w", err)
	}
	return t, true, nil
}

func (s *RedisStore) SetLastVote(ctx context.Context, voter, admin domain.AccountID, t time.Time) error {
	err := s.client.Set(ctx, s.key(voter, admin), t.Format(time.RFC3339Nano), s.retention).Err()
	if err != nil {
		return fmt.Errorf("%w: record last vote: %v", sentinel.ErrUnavailable, err)
	}
	return nil
}
