// Package redis stores student records and course prerequisites in Redis.
//
// Layout, with every key under the configured prefix:
//   - student        hash   id -> record JSON
//   - student:order  zset   id scored by first-insertion sequence
//   - student:seq    string insertion counter
//   - course         hash   name -> prerequisites JSON array
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config holds Redis connection configuration.
type Config struct {
	// Host is the Redis server hostname.
	Host string

	// Port is the Redis server port.
	Port int

	// Password is the Redis authentication password (empty if no auth).
	Password string

	// DB is the Redis database number (0-15).
	DB int

	// Prefix namespaces every key, e.g. "records:".
	Prefix string

	// PoolSize is the maximum number of socket connections.
	PoolSize int

	// DialTimeout is the timeout for establishing new connections.
	DialTimeout time.Duration

	// ReadTimeout is the timeout for socket reads.
	ReadTimeout time.Duration

	// WriteTimeout is the timeout for socket writes.
	WriteTimeout time.Duration
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Host:         "localhost",
		Port:         6379,
		Prefix:       "records:",
		PoolSize:     4,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// Addr returns the Redis address in "host:port" format.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrConnection is returned when Redis cannot be reached.
	ErrConnection = errors.New("redis: connection failed")

	// ErrSerialization is returned when a stored value cannot be decoded.
	ErrSerialization = errors.New("redis: serialization failed")
)

// ══════════════════════════════════════════════════════════════════════════════
// KEYS
// ══════════════════════════════════════════════════════════════════════════════

// Keys builds the namespaced key names used by the stores.
type Keys struct {
	prefix string
}

// NewKeys returns key helpers for prefix.
func NewKeys(prefix string) Keys {
	return Keys{prefix: prefix}
}

// Students is the hash holding record JSON by ID.
func (k Keys) Students() string { return k.prefix + "student" }

// StudentOrder is the sorted set ordering IDs by first insertion.
func (k Keys) StudentOrder() string { return k.prefix + "student:order" }

// StudentSeq is the insertion counter.
func (k Keys) StudentSeq() string { return k.prefix + "student:seq" }

// Courses is the hash holding prerequisite lists by course name.
func (k Keys) Courses() string { return k.prefix + "course" }

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client wraps a go-redis client together with its key layout.
type Client struct {
	rdb  *redis.Client
	keys Keys
}

// Connect dials Redis and verifies the connection with a ping.
func Connect(ctx context.Context, cfg Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	return NewClient(rdb, cfg.Prefix), nil
}

// NewClient wraps an existing go-redis client.
func NewClient(rdb *redis.Client, prefix string) *Client {
	return &Client{rdb: rdb, keys: NewKeys(prefix)}
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping checks if Redis is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Students returns the record store.
func (c *Client) Students() *StudentStore {
	return &StudentStore{rdb: c.rdb, keys: c.keys}
}

// Courses returns the course store.
func (c *Client) Courses() *CourseStore {
	return &CourseStore{rdb: c.rdb, keys: c.keys}
}
