package openai

import (
	"context"
	"fmt"
	"sync"

	"github.com/agrimet/crop-alert-service/internal/domain"
	"github.com/agrimet/crop-alert-service/internal/observability"
)

// CachedNarrator wraps a NarrativeGenerator with an in-memory LRU cache.
// Alerts for the same district, crop, stage, and rounded weather produce the
// same narrative, so repeat requests within a forecast window skip the API.
type CachedNarrator struct {
	inner   domain.NarrativeGenerator
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedNarrator creates a cache decorator around a narrative generator.
func NewCachedNarrator(inner domain.NarrativeGenerator, maxEntries int, metrics *observability.Metrics) *CachedNarrator {
	return &CachedNarrator{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedNarrator) Generate(ctx context.Context, record domain.AlertRecord) (*domain.Narrative, error) {
	key := cacheKey(record)
	if narrative, ok := c.cache.get(key); ok {
		c.metrics.AICache.WithLabelValues("hit").Inc()
		return narrative, nil
	}
	c.metrics.AICache.WithLabelValues("miss").Inc()

	narrative, err := c.inner.Generate(ctx, record)
	if err != nil {
		return nil, err
	}
	// Only cache real narratives; a declined enrichment stays retryable.
	if narrative != nil {
		c.cache.put(key, narrative)
	}
	return narrative, nil
}

// cacheKey buckets weather to whole degrees and millimetres so near-identical
// conditions share a narrative.
func cacheKey(record domain.AlertRecord) string {
	return fmt.Sprintf("%s|%s|%s|%s|%.0f|%.0f",
		record.Location.District, record.Crop.Name, record.Crop.Stage, record.Alert.Type,
		record.Weather.TemperatureC, record.Weather.RainfallMm)
}

// lruCache is a simple thread-safe LRU cache for narratives.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value *domain.Narrative
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (*domain.Narrative, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value *domain.Narrative) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictOldest()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if c.head == e {
		return
	}
	c.unlink(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.prev = nil
	e.next = c.head
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) unlink(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	}
	if c.head == e {
		c.head = e.next
	}
	if c.tail == e {
		c.tail = e.prev
	}
	e.prev = nil
	e.next = nil
}

func (c *lruCache) evictOldest() {
	if c.tail == nil {
		return
	}
	oldest := c.tail
	c.unlink(oldest)
	delete(c.entries, oldest.key)
}
