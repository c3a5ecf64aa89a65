package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"legalrag/internal/domain"
)

// DefaultTTL bounds how stale a cached ranking may get before the next
// identical query recomputes it.
const DefaultTTL = 5 * time.Minute

// ResultCache memoizes search results per query signature. Entries
// expire on their own; Flush drops everything after an ingest or clear
// so rankings never outlive the corpus they were computed on.
type ResultCache struct {
	entries *gocache.Cache
}

func New(ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ResultCache{
		entries: gocache.New(ttl, 2*ttl),
	}
}

// Key derives a stable cache key from the full query signature. The
// collection list is order-insensitive.
func Key(query string, topK int, threshold float64, collections []string) string {
	cols := make([]string, len(collections))
	copy(cols, collections)
	sort.Strings(cols)

	sig := fmt.Sprintf("%s|%d|%.4f|%s", query, topK, threshold, strings.Join(cols, ","))
	sum := sha256.Sum256([]byte(sig))
	return hex.EncodeToString(sum[:])
}

func (c *ResultCache) Get(key string) ([]domain.SearchResult, bool) {
	v, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	return v.([]domain.SearchResult), true
}

func (c *ResultCache) Put(key string, results []domain.SearchResult) {
	c.entries.SetDefault(key, results)
}

func (c *ResultCache) Flush() {
	c.entries.Flush()
}
