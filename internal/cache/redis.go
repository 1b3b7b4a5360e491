package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"material-mastery/internal/config"
	"material-mastery/internal/game"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "leaderboard:"

// RedisLeaderboard caches leaderboard standings as JSON with a TTL.
type RedisLeaderboard struct {
	client *redis.Client
	ttl    time.Duration
}

// Connect opens a client from cfg and checks it with PING.
func Connect(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

func NewRedisLeaderboard(client *redis.Client, ttl time.Duration) *RedisLeaderboard {
	return &RedisLeaderboard{client: client, ttl: ttl}
}

func (c *RedisLeaderboard) Get(ctx context.Context, key string) ([]game.Standing, bool, error) {
	raw, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var standings []game.Standing
	if err := json.Unmarshal(raw, &standings); err != nil {
		return nil, false, err
	}
	return standings, true, nil
}

func (c *RedisLeaderboard) Set(ctx context.Context, key string, standings []game.Standing) error {
	raw, err := json.Marshal(standings)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, keyPrefix+key, raw, c.ttl).Err()
}

// Invalidate drops every cached leaderboard.
func (c *RedisLeaderboard) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *RedisLeaderboard) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
