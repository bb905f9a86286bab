package snapshot

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "roster:snapshot:"

// RedisStore keeps snapshots in redis, one key per partition without TTL;
// session state persists until an explicit purge.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	return &RedisStore{client: redis.NewClient(opts)}, nil
}

func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Save(ctx context.Context, partition string, payload []byte) error {
	if err := s.client.Set(ctx, redisKeyPrefix+partition, payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", partition, err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, partition string) ([]byte, bool, error) {
	payload, err := s.client.Get(ctx, redisKeyPrefix+partition).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", partition, err)
	}

	return payload, true, nil
}

func (s *RedisStore) Purge(ctx context.Context, partitions ...string) error {
	keys := make([]string, 0, len(partitions))
	for _, partition := range partitions {
		keys = append(keys, redisKeyPrefix+partition)
	}

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}

	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
