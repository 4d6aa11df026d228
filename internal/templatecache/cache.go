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

// Package templatecache provides the two shared caches of the resolution
// subsystem: the structural template cache keyed by (namespace, templateId)
// and the raw resource byte cache keyed by resolved path. Structural
// entries are shared across callers; the mutation contract is documented on
// resolver.StructuralCache.
package templatecache

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/cardinalhq/docgen/internal/doctemplate"
	"github.com/cardinalhq/docgen/internal/resolver"
)

// Config holds cache settings shared by both caches.
type Config struct {
	Enabled  bool          `mapstructure:"enabled"`
	TTL      time.Duration `mapstructure:"ttl"`
	Capacity uint64        `mapstructure:"capacity"`
}

// DefaultConfig returns the cache defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:  true,
		TTL:      time.Hour,
		Capacity: 1024,
	}
}

var (
	structuralHits   metric.Int64Counter
	structuralMisses metric.Int64Counter
	resourceHits     metric.Int64Counter
	resourceMisses   metric.Int64Counter
)

func init() {
	meter := otel.Meter("github.com/cardinalhq/docgen/internal/templatecache")

	var err error

	structuralHits, err = meter.Int64Counter(
		"docgen.templatecache.structural.hits",
		metric.WithDescription("Number of structural template cache hits"),
	)
	if err != nil {
		log.Fatalf("failed to create structural.hits counter: %v", err)
	}

	structuralMisses, err = meter.Int64Counter(
		"docgen.templatecache.structural.misses",
		metric.WithDescription("Number of structural template cache misses"),
	)
	if err != nil {
		log.Fatalf("failed to create structural.misses counter: %v", err)
	}

	resourceHits, err = meter.Int64Counter(
		"docgen.templatecache.resource.hits",
		metric.WithDescription("Number of resource byte cache hits"),
	)
	if err != nil {
		log.Fatalf("failed to create resource.hits counter: %v", err)
	}

	resourceMisses, err = meter.Int64Counter(
		"docgen.templatecache.resource.misses",
		metric.WithDescription("Number of resource byte cache misses"),
	)
	if err != nil {
		log.Fatalf("failed to create resource.misses counter: %v", err)
	}
}

// Structural caches shared merged templates. It satisfies
// resolver.StructuralCache.
type Structural struct {
	cache  *ttlcache.Cache[resolver.Key, *doctemplate.Template]
	hits   atomic.Int64
	misses atomic.Int64
}

// NewStructural creates the structural template cache.
func NewStructural(cfg Config) *Structural {
	cache := ttlcache.New(
		ttlcache.WithTTL[resolver.Key, *doctemplate.Template](cfg.TTL),
		ttlcache.WithCapacity[resolver.Key, *doctemplate.Template](cfg.Capacity),
	)
	go cache.Start()
	return &Structural{cache: cache}
}

// Get returns the shared cached template for a key.
func (c *Structural) Get(key resolver.Key) (*doctemplate.Template, bool) {
	item := c.cache.Get(key)
	if item == nil {
		c.misses.Add(1)
		structuralMisses.Add(context.Background(), 1)
		return nil, false
	}
	c.hits.Add(1)
	structuralHits.Add(context.Background(), 1)
	return item.Value(), true
}

// Put stores a template. Last write wins; concurrent duplicate computation
// of the same key is tolerated.
func (c *Structural) Put(key resolver.Key, tmpl *doctemplate.Template) {
	c.cache.Set(key, tmpl, ttlcache.DefaultTTL)
}

// Clear drops all entries.
func (c *Structural) Clear() {
	c.cache.DeleteAll()
}

// Close stops the cache background goroutine.
func (c *Structural) Close() {
	c.cache.Stop()
}

// Stats returns an inspection snapshot of the structural cache.
func (c *Structural) Stats() Stats {
	keys := c.cache.Keys()
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		if k.Namespace == "" {
			names = append(names, k.TemplateID)
			continue
		}
		names = append(names, k.Namespace+"/"+k.TemplateID)
	}
	return Stats{
		Len:    c.cache.Len(),
		Keys:   names,
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
}

// Stats is a point-in-time cache inspection snapshot.
type Stats struct {
	Len    int      `yaml:"len" json:"len"`
	Keys   []string `yaml:"keys" json:"keys"`
	Hits   int64    `yaml:"hits" json:"hits"`
	Misses int64    `yaml:"misses" json:"misses"`
}
