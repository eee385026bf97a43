package retrieval

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/nurudeen19/rag-fortress/internal/application/dto"
)

// QueryCache is a TTL+LRU cache of pipeline answers. Keys include the
// caller's clearance so a cached high-clearance answer can never leak to a
// lower-clearance user asking the same question.
type QueryCache struct {
	lru *expirable.LRU[string, dto.QueryResponse]
}

// NewQueryCache builds the cache. size <= 0 falls back to 128 entries.
func NewQueryCache(size int, ttl time.Duration) *QueryCache {
	if size <= 0 {
		size = 128
	}
	return &QueryCache{
		lru: expirable.NewLRU[string, dto.QueryResponse](size, nil, ttl),
	}
}

// Key derives the cache key from the normalized question, clearance and topK.
func (c *QueryCache) Key(normalizedQuestion string, clearance, topK int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d|%d|%s", clearance, topK, normalizedQuestion)))
	return hex.EncodeToString(sum[:])
}

// Get returns a cached answer, flagged as cached.
func (c *QueryCache) Get(key string) (*dto.QueryResponse, bool) {
	resp, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	resp.Cached = true
	return &resp, true
}

// Put stores an answer. The stored copy is never marked cached; the flag is
// set on retrieval.
func (c *QueryCache) Put(key string, resp dto.QueryResponse) {
	resp.Cached = false
	c.lru.Add(key, resp)
}

// Purge drops every entry. Used after document ingestion so stale answers
// do not outlive new knowledge.
func (c *QueryCache) Purge() {
	c.lru.Purge()
}
