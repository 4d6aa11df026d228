// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package templatecache

import (
	"context"
	"sync/atomic"

	"github.com/jellydator/ttlcache/v3"
)

// FetchFunc retrieves the raw bytes for a fully resolved resource path on a
// cache miss.
type FetchFunc func(ctx context.Context, path string) ([]byte, error)

// Resources caches raw resource bytes with get-or-compute semantics.
// Fetch failures are not cached: the next request retries.
type Resources struct {
	cache  *ttlcache.Cache[string, []byte]
	fetch  FetchFunc
	hits   atomic.Int64
	misses atomic.Int64
}

// NewResources creates the resource byte cache around a fetch function.
func NewResources(cfg Config, fetch FetchFunc) *Resources {
	cache := ttlcache.New(
		ttlcache.WithTTL[string, []byte](cfg.TTL),
		ttlcache.WithCapacity[string, []byte](cfg.Capacity),
	)
	go cache.Start()
	return &Resources{cache: cache, fetch: fetch}
}

// GetBytes returns the bytes for a resolved resource path, fetching and
// caching them when absent. Duplicate concurrent fetches of the same path
// are tolerated; last write wins.
func (c *Resources) GetBytes(ctx context.Context, path string) ([]byte, error) {
	if item := c.cache.Get(path); item != nil {
		c.hits.Add(1)
		resourceHits.Add(ctx, 1)
		return item.Value(), nil
	}
	c.misses.Add(1)
	resourceMisses.Add(ctx, 1)

	data, err := c.fetch(ctx, path)
	if err != nil {
		return nil, err
	}
	c.cache.Set(path, data, ttlcache.DefaultTTL)
	return data, nil
}

// Clear drops all entries.
func (c *Resources) Clear() {
	c.cache.DeleteAll()
}

// Close stops the cache background goroutine.
func (c *Resources) Close() {
	c.cache.Stop()
}

// Stats returns an inspection snapshot of the resource cache.
func (c *Resources) Stats() Stats {
	return Stats{
		Len:    c.cache.Len(),
		Keys:   c.cache.Keys(),
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
}
