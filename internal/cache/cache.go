package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is a byte store with per-entry expiry, used to keep digests
// of exports that were already cleaned.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from export content and the matching
// settings fingerprint, so changed settings never serve a stale
// digest. The version prefix invalidates everything when the digest
// schema changes.
func Key(content, fingerprint string) string {
	hash := sha256.Sum256([]byte(content + "\x00" + fingerprint))
	return "clipsift:v1:" + hex.EncodeToString(hash[:])
}
