package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/musikspil/internal/model"
	"github.com/mcoot/musikspil/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// It lets several client processes on one machine (e.g. a kiosk setup)
// share a device identity and preferences.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultConfig().Namespace
	}
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, localKey(s.cfg.Namespace, key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", model.ErrKeyNotFound
		}
		return "", err
	}
	return v, nil
}

func (s *Storage) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, localKey(s.cfg.Namespace, key), value, s.cfg.TTL).Err()
}

// SetIfAbsent stores value only if the key does not exist yet and returns
// the value that is stored afterwards. Two processes racing to create a
// device ID therefore agree on one.
func (s *Storage) SetIfAbsent(ctx context.Context, key, value string) (string, error) {
	k := localKey(s.cfg.Namespace, key)
	ok, err := s.client.SetNX(ctx, k, value, s.cfg.TTL).Result()
	if err != nil {
		return "", err
	}
	if ok {
		return value, nil
	}
	return s.Get(ctx, key)
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, localKey(s.cfg.Namespace, key)).Err()
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}
