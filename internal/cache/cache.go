// Package cache holds fetched page HTML between scans so a re-scan within
// the TTL skips the network round trip. A cache hit still yields a fresh
// report with a new scan id.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache is the page cache interface
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives the cache key for a URL
func Key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return "fixbot:page:v1:" + hex.EncodeToString(sum[:])
}

// Memory is the in-process cache layer
type Memory struct {
	inner *gocache.Cache
}

// NewMemory creates a memory cache with the given default TTL
func NewMemory(defaultTTL time.Duration) *Memory {
	return &Memory{inner: gocache.New(defaultTTL, 10*time.Minute)}
}

func (m *Memory) Get(key string) ([]byte, bool) {
	if v, ok := m.inner.Get(key); ok {
		return v.([]byte), true
	}
	return nil, false
}

func (m *Memory) Set(key string, value []byte, ttl time.Duration) error {
	m.inner.Set(key, value, ttl)
	return nil
}

func (m *Memory) Delete(key string) error {
	m.inner.Delete(key)
	return nil
}

func (m *Memory) Clear() error {
	m.inner.Flush()
	return nil
}
