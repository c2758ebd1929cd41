package ports

import (
	"context"
	"time"
)

// Port: counts successful optimizations per day.
type UsageCounter interface {
	IncrementOptimizations(ctx context.Context, day time.Time) (int64, error)
}
