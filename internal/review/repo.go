package review

import (
	"context"
	"time"
)

// Repo stores sessions by id.
type Repo interface {
	GetOrCreate(ctx context.Context, id string) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	Sweep(now time.Time, ttl time.Duration) []string
}
