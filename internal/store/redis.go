package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jorgej/gimlet-skill-sub000/internal/metrics"
	"github.com/jorgej/gimlet-skill-sub000/internal/session"
)

const redisKeyPrefix = "skill:attrs:"

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string // Redis server address (host:port)
	Password string // Redis password (optional)
	DB       int    // Redis database number
}

// RedisStore implements Repository on Redis, one string key per user.
type RedisStore struct {
	client *redis.Client
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis address is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	slog.Info("connected to redis attribute store", "addr", cfg.Addr, "db", cfg.DB)
	return &RedisStore{client: client}, nil
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(userID string) string {
	return redisKeyPrefix + userID
}

// GetAttributes retrieves the attribute bag for a user.
func (s *RedisStore) GetAttributes(ctx context.Context, userID string) (session.Bag, error) {
	data, err := s.client.Get(ctx, redisKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("redis get attributes: %w", err)
	}
	bag, err := session.ParseBag(data)
	if err != nil {
		return nil, fmt.Errorf("decode attributes for %s: %w", userID, err)
	}
	return bag, nil
}

// PutAttributes creates or replaces the attribute bag for a user. Bags do not
// expire.
func (s *RedisStore) PutAttributes(ctx context.Context, userID string, bag session.Bag) error {
	data, err := bag.Encode()
	if err != nil {
		return fmt.Errorf("encode attributes: %w", err)
	}
	if err := s.client.Set(ctx, redisKey(userID), data, 0).Err(); err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("put").Inc()
		return fmt.Errorf("redis set attributes: %w", err)
	}
	return nil
}

// DeleteAttributes removes the attribute bag for a user.
func (s *RedisStore) DeleteAttributes(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, redisKey(userID)).Err(); err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("delete").Inc()
		return fmt.Errorf("redis delete attributes: %w", err)
	}
	return nil
}

// Ping checks if Redis is available.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
