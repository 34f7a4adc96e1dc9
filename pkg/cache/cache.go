// Package cache provides byte-level caching for ingest results and rendered
// artifacts.
//
// # Backends
//
//   - [FileCache]: JSON entry files under a directory, for CLI use
//   - [RedisCache]: shared cache for the viewer server
//   - [NullCache]: caching disabled
//
// # Keys
//
// A [Keyer] derives cache keys from stable inputs: the repository HEAD and
// ingest options for datasets, and the dataset hash and render options for
// artifacts. [ScopedKeyer] adds a namespace prefix.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values.
const (
	// TTLIngest bounds how long an ingested dataset is reused for the same
	// repository HEAD.
	TTLIngest = 24 * time.Hour
	// TTLArtifact bounds how long a rendered chart is reused.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache stores opaque byte values under string keys.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}
