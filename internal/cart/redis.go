package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Juan-JM/SmartCart-Frotend/internal/domain"
)

// RedisSnapshot keeps the cart under a single key per owner. No TTL:
// the cart survives until cleared, like its file counterpart.
type RedisSnapshot struct {
	client *redis.Client
	owner  string
}

func NewRedisSnapshot(client *redis.Client, owner string) *RedisSnapshot {
	return &RedisSnapshot{client: client, owner: owner}
}

func (r *RedisSnapshot) Load(ctx context.Context) (*domain.Cart, error) {
	data, err := r.client.Get(ctx, snapshotKey(r.owner)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return &cart, nil
}

func (r *RedisSnapshot) Save(ctx context.Context, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	if err := r.client.Set(ctx, snapshotKey(r.owner), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisSnapshot) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, snapshotKey(r.owner)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func snapshotKey(owner string) string {
	return fmt.Sprintf("cart:%s", owner)
}
