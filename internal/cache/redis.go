package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dotcommander/innerscope/internal/scoring"
)

const keyPrefix = "report:"

// Redis stores reports as JSON blobs with a TTL.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis wraps an existing client. A zero ttl stores reports without expiry.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// Dial connects to addr and pings it.
func Dial(ctx context.Context, addr string, ttl time.Duration) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", addr, err)
	}
	return NewRedis(client, ttl), nil
}

func (c *Redis) Get(ctx context.Context, id string) (*scoring.Report, bool, error) {
	data, err := c.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis: get %s: %w", id, err)
	}
	var r scoring.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, false, fmt.Errorf("redis: decode %s: %w", id, err)
	}
	return &r, true, nil
}

func (c *Redis) Set(ctx context.Context, report *scoring.Report) error {
	if report == nil || report.Metadata.ReportID == "" {
		return fmt.Errorf("redis: report has no id")
	}
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("redis: encode %s: %w", report.Metadata.ReportID, err)
	}
	return c.client.Set(ctx, keyPrefix+report.Metadata.ReportID, data, c.ttl).Err()
}

// Close releases the client.
func (c *Redis) Close() error {
	return c.client.Close()
}

var _ Cache = (*Redis)(nil)
