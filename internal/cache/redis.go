// Package cache provides Redis response caching. The cache is optional: when
// Redis is unreachable every operation degrades to a no-op and reads fall
// through to the data service.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"modboard/internal/observability"

	"github.com/redis/go-redis/v9"
)

type metricsHook struct{}

func (h metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (h metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// Cache wraps a Redis client. A Cache with a nil client is valid and inert.
type Cache struct {
	client *redis.Client
}

// New connects to Redis at addr, which may be a plain host:port or a
// redis:// URL. Connection failures are logged and yield an inert cache.
func New(addr string, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		return &Cache{}
	}

	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			logger.Warn("invalid redis url, continuing without cache",
				slog.String("addr", addr), slog.Any("error", err))
			return &Cache{}
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)
	client.AddHook(metricsHook{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, continuing without cache", slog.Any("error", err))
		return &Cache{}
	}

	logger.Info("redis connected", slog.String("addr", opts.Addr))
	return &Cache{client: client}
}

// NewWithClient wraps an existing client. Used by tests with miniredis.
func NewWithClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Client exposes the raw client for middleware that speaks Redis directly.
// Nil when the cache is inert.
func (c *Cache) Client() *redis.Client {
	return c.client
}

// Enabled reports whether a Redis connection is live.
func (c *Cache) Enabled() bool {
	return c.client != nil
}

// Close releases the underlying connection.
func (c *Cache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
