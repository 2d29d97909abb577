package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Namespace separates devices sharing one Redis instance
	Namespace string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// DialTimeout bounds the initial connection check
	DialTimeout time.Duration

	// TTL applied to stored values. Zero keeps them forever.
	TTL time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		Namespace:    "default",
		PoolSize:     2,
		MinIdleConns: 1,
		DialTimeout:  5 * time.Second,
		TTL:          0,
	}
}
