// Package cache stores rendered artifacts so repeated renders of an unchanged
// floor are served without re-drawing.
//
// # Backends
//
//   - [FileCache]: JSON entries under a directory, used by the CLI
//   - [RedisCache]: shared cache for several server instances
//   - [MongoCache]: artifact store with a TTL index
//   - [NullCache]: disables caching
//
// # Keys
//
// A [Keyer] derives keys from a content hash of the layout and the render
// options, so a change in live room data produces a new key rather than a
// stale hit. [NewScopedKeyer] prefixes keys when several deployments share
// one Redis or Mongo instance.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry. Implementations must be safe
// for concurrent use.
type Cache interface {
	// Get returns the data stored under key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default lifetimes.
const (
	TTLArtifact = 24 * time.Hour
	TTLReport   = time.Hour
)
