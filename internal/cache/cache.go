// Package cache provides the key/value stores behind the generation response
// cache: a bounded in-memory L1, a Redis L2, and a tiered combination.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Store is a TTL-bounded byte cache. Implementations must be safe for
// concurrent use. A failed Set is not reported; the cache is best effort.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

const keyPrefix = "rf:gen:"

// Key builds a deterministic cache key from parts.
func Key(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return keyPrefix + hex.EncodeToString(sum[:])
}
