package counters

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"
)

const usageKeyTTL = 35 * 24 * time.Hour

// ValkeyUsageCounter implements ports.UsageCounter with one INCR'd key per day.
type ValkeyUsageCounter struct {
	client valkey.Client
}

// NewValkeyUsageCounter connects to a Valkey (Redis-compatible) server.
func NewValkeyUsageCounter(addr string) (*ValkeyUsageCounter, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("valkey connect: %w", err)
	}
	return &ValkeyUsageCounter{client: client}, nil
}

// UsageKey is the counter key for day, in UTC.
func UsageKey(day time.Time) string {
	return "usage:optimize:" + day.UTC().Format("2006-01-02")
}

// IncrementOptimizations bumps the day's counter and refreshes its expiry.
func (c *ValkeyUsageCounter) IncrementOptimizations(ctx context.Context, day time.Time) (int64, error) {
	key := UsageKey(day)

	results := c.client.DoMulti(ctx,
		c.client.B().Incr().Key(key).Build(),
		c.client.B().Expire().Key(key).Seconds(int64(usageKeyTTL.Seconds())).Build(),
	)

	n, err := results[0].AsInt64()
	if err != nil {
		return 0, fmt.Errorf("incr %s: %w", key, err)
	}
	if err := results[1].Error(); err != nil {
		return n, fmt.Errorf("expire %s: %w", key, err)
	}

	return n, nil
}

func (c *ValkeyUsageCounter) Ping(ctx context.Context) error {
	return c.client.Do(ctx, c.client.B().Ping().Build()).Error()
}

// Close releases the client.
func (c *ValkeyUsageCounter) Close() {
	c.client.Close()
}
