// Package cache stores rendered report PDFs. Stored report content never
// changes, so an entry stays valid until the report is deleted or it expires.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "report:pdf:"

// PDFCache is satisfied by Redis and Nop.
type PDFCache interface {
	// Get returns ok=false on a miss.
	Get(ctx context.Context, reportID string) (pdf []byte, ok bool, err error)
	Set(ctx context.Context, reportID string, pdf []byte) error
	Delete(ctx context.Context, reportID string) error
}

type Redis struct {
	client *redis.Client
	ttl    time.Duration
	log    *slog.Logger
}

// NewRedis connects to redisURL and checks the connection with PING.
func NewRedis(ctx context.Context, redisURL string, ttl time.Duration, log *slog.Logger) (*Redis, error) {
	const op = "internal.cache.NewRedis"

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%s: failed parsing redis URL: %w", op, err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%s: failed connecting to redis: %w", op, err)
	}

	return NewRedisWithClient(client, ttl, log), nil
}

func NewRedisWithClient(client *redis.Client, ttl time.Duration, log *slog.Logger) *Redis {
	return &Redis{client: client, ttl: ttl, log: log}
}

func (r *Redis) Get(ctx context.Context, reportID string) ([]byte, bool, error) {
	const op = "internal.cache.Redis.Get"

	b, err := r.client.Get(ctx, keyPrefix+reportID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	return b, true, nil
}

func (r *Redis) Set(ctx context.Context, reportID string, pdf []byte) error {
	const op = "internal.cache.Redis.Set"

	if err := r.client.Set(ctx, keyPrefix+reportID, pdf, r.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	r.log.Debug("cached report pdf", slog.String("op", op), slog.String("report_id", reportID), slog.Int("bytes", len(pdf)))

	return nil
}

func (r *Redis) Delete(ctx context.Context, reportID string) error {
	const op = "internal.cache.Redis.Delete"

	if err := r.client.Del(ctx, keyPrefix+reportID).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

// Nop is used when no redis URL is configured. Every Get is a miss.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (Nop) Set(context.Context, string, []byte) error         { return nil }
func (Nop) Delete(context.Context, string) error              { return nil }

var (
	_ PDFCache = (*Redis)(nil)
	_ PDFCache = Nop{}
)
