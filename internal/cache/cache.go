package cache

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// ErrUnavailable matches every error caused by the cache backend rather than
// by the caller.
var ErrUnavailable = errors.New("cache unavailable")

// BytesCache is a best-effort key/value cache. A miss is (nil, false, nil).
type BytesCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// VersionedCache adds a generation counter per entity. Readers build their
// cache keys from the generation they saw before loading, and writers Bump it
// after changing the entity, so a value loaded before a write is never served
// after it.
type VersionedCache interface {
	BytesCache
	// Version is 0 until the first Bump.
	Version(ctx context.Context, key string) (int64, error)
	Bump(ctx context.Context, key string) (int64, error)
}
