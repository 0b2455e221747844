package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores serialized registry responses between review runs so that
// re-reviewing the same corpus does not re-query the registry.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives the cache key for one registry lookup. kind separates lookup
// families (record, recalls, events) for the same identifier; hashing keeps
// keys filesystem-safe.
func Key(kind, identifier string) string {
	hash := sha256.Sum256([]byte(kind + ":" + identifier))
	return "predscan:v1:" + hex.EncodeToString(hash[:])
}
