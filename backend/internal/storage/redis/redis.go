// Package redis stores users and posts as hashes. The unique email index is a
// plain key claimed with SET NX, active posts live in a sorted set scored by
// creation time. Every conditional write runs as a Lua script so the check
// and the write are one atomic step on the server.
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/itchan-dev/postboard/shared/config"
	"github.com/itchan-dev/postboard/shared/logger"
)

const defaultPrefix = "postboard:"

type Storage struct {
	client *goredis.Client
	prefix string
}

func New(ctx context.Context, cfg *config.Config) (*Storage, error) {
	logger.Log.Info("connecting to redis", "addr", cfg.Private.Redis.Addr, "db", cfg.Private.Redis.DB)
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Private.Redis.Addr,
		Password: cfg.Private.Redis.Password,
		DB:       cfg.Private.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	logger.Log.Info("connected to redis")
	return NewWithClient(client, defaultPrefix), nil
}

// NewWithClient wraps an existing client. All keys are namespaced by prefix.
func NewWithClient(client *goredis.Client, prefix string) *Storage {
	return &Storage{client: client, prefix: prefix}
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Storage) Cleanup() error {
	return s.client.Close()
}

func (s *Storage) userKey(id string) string         { return s.prefix + "user:" + id }
func (s *Storage) userEmailKey(email string) string { return s.prefix + "user_email:" + email }
func (s *Storage) postKey(id string) string         { return s.prefix + "post:" + id }
func (s *Storage) activePostsKey() string           { return s.prefix + "posts:active" }

// deleteMatching removes every key matching pattern using SCAN, so a large
// keyspace never blocks the server the way KEYS would.
func (s *Storage) deleteMatching(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, 500).Result()
		if err != nil {
			return fmt.Errorf("failed to scan %s: %w", pattern, err)
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete keys: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(field, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed %s %q: %w", field, value, err)
	}
	return t.UTC(), nil
}
