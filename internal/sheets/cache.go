package sheets

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/vastra-shop/vastra/internal/catalog"
)

type cacheEntry struct {
	fetchedAt time.Time
	records   []catalog.Record
}

// Cache is a process-wide, time-bounded cache in front of the remote
// spreadsheet reader, keyed by (sheet id, tab). Entries older than the
// TTL are refetched. Fetch failures are never cached, so a transient
// outage retries on the very next call; the storefront just shows fewer
// products in the meantime.
type Cache struct {
	client RemoteClient
	ttl    time.Duration

	mu      sync.Mutex
	entries map[string]cacheEntry
	group   singleflight.Group

	now func() time.Time
}

// NewCache constructs a Cache.
func NewCache(client RemoteClient, ttl time.Duration) *Cache {
	return &Cache{
		client:  client,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached records for a tab when fresh, otherwise fetches
// and repopulates. Concurrent misses for the same key are coalesced into
// a single remote fetch; different keys fetch independently.
func (c *Cache) Get(ctx context.Context, sheetID, tab string) ([]catalog.Record, error) {
	key := sheetID + "::" + tab

	c.mu.Lock()
	entry, ok := c.entries[key]
	fresh := ok && c.now().Sub(entry.fetchedAt) < c.ttl
	c.mu.Unlock()
	if fresh {
		return entry.records, nil
	}

	result, err, _ := c.group.Do(key, func() (any, error) {
		records, err := c.client.FetchRecords(ctx, sheetID, tab)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = cacheEntry{fetchedAt: c.now(), records: records}
		c.mu.Unlock()
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]catalog.Record), nil
}

// Invalidate drops every cached entry, forcing fresh fetches.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}
