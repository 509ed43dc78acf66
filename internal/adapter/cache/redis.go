package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alejandrosejas/binance-bob-usdt/internal/domain/model"
)

// RedisSnapshot keeps the full history under a single key so multiple
// replicas restarting against the same Redis pick up the same state.
type RedisSnapshot struct {
	client *redis.Client
	key    string
}

func NewRedisSnapshot(addr, password string, db int, key string) (*RedisSnapshot, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisSnapshot{client: client, key: key}, nil
}

func (r *RedisSnapshot) Save(ctx context.Context, records []model.PriceRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("set snapshot: %w", err)
	}
	return nil
}

func (r *RedisSnapshot) Load(ctx context.Context) ([]model.PriceRecord, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	var records []model.PriceRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return records, nil
}

func (r *RedisSnapshot) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisSnapshot) Close() error {
	return r.client.Close()
}
