package sessionstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopframe/go-shop-auth/internal/errors"
)

const redisKeyPrefix = "shopsession:"

// RedisRepo stores one record per shop under a single key, so SET is the
// atomic upsert the callback path relies on.
type RedisRepo struct {
	client *redis.Client
}

var _ Repo = (*RedisRepo)(nil)

func NewRedisRepo(client *redis.Client) *RedisRepo {
	return &RedisRepo{client: client}
}

func (r *RedisRepo) Put(ctx context.Context, shop string, record Record) (string, error) {
	if shop == "" {
		return "", fmt.Errorf("shop is required")
	}

	record.Shop = shop
	payload, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("marshal session record: %w", err)
	}

	if err := r.client.Set(ctx, redisKeyPrefix+shop, payload, 0).Err(); err != nil {
		return "", fmt.Errorf("redis set %s: %w", shop, err)
	}
	return uuid.New().String(), nil
}

func (r *RedisRepo) Get(ctx context.Context, shop string) (Record, error) {
	if shop == "" {
		return Record{}, fmt.Errorf("shop is required")
	}

	payload, err := r.client.Get(ctx, redisKeyPrefix+shop).Bytes()
	if err == redis.Nil {
		return Record{}, errors.ErrSessionNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("redis get %s: %w", shop, err)
	}

	var record Record
	if err := json.Unmarshal(payload, &record); err != nil {
		return Record{}, fmt.Errorf("unmarshal session record: %w", err)
	}
	return record, nil
}

func (r *RedisRepo) Delete(ctx context.Context, shop string) error {
	if shop == "" {
		return fmt.Errorf("shop is required")
	}
	if err := r.client.Del(ctx, redisKeyPrefix+shop).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", shop, err)
	}
	return nil
}
