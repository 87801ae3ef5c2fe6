package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from structural parts. Parts are joined with a
// separator and hashed, so a key never collides across attribute boundaries
// ("jean", "le boucher") vs ("jean le", "boucher").
func Key(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return "garmea:v1:" + hex.EncodeToString(hash[:])
}
