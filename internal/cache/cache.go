// Package cache provides the layered (memory + disk) cache for evidence
// retrieval results, so repeated adjudications of the same claim do not
// re-pay search and fetch costs.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// EvidenceKey generates the cache key for a claim's evidence set. Keyed by
// claim text and domain so the same sentence in a different domain context
// is retrieved separately.
func EvidenceKey(claimText, domain string) string {
	hash := sha256.Sum256([]byte(domain + "\x00" + claimText))
	return "concord:v1:evidence:" + hex.EncodeToString(hash[:])
}

// ArticleKey generates the cache key for a fetched article body.
func ArticleKey(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "concord:v1:article:" + hex.EncodeToString(hash[:])
}
