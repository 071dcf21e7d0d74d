// Movie Recommender - Content-Based Movie Recommendation Service
// Copyright 2026 Chethan C. (CHETHANCHARMANNAPK)
// SPDX-License-Identifier: MIT
// https://github.com/CHETHANCHARMANNAPK/movie-recommender

package tmdb

import (
	"sync"
	"time"
)

// lruEntry is a node in the cache's doubly-linked list.
type lruEntry struct {
	key       string
	value     Enrichment
	prev      *lruEntry
	next      *lruEntry
	expiresAt time.Time
}

// lruCache is a thread-safe LRU cache with TTL for enrichment lookups.
// A doubly-linked list keeps recency order and a map gives O(1) lookup;
// expired entries are dropped lazily on Get.
type lruCache struct {
	mu sync.Mutex

	capacity int
	ttl      time.Duration

	items map[string]*lruEntry

	// head.next is the most recently used, tail.prev the least.
	head *lruEntry
	tail *lruEntry
}

func newLRUCache(capacity int, ttl time.Duration) *lruCache {
	if capacity <= 0 {
		capacity = 1024
	}
	if ttl <= 0 {
		ttl = time.Hour
	}

	c := &lruCache{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*lruEntry, capacity),
		head:     &lruEntry{},
		tail:     &lruEntry{},
	}
	c.head.next = c.tail
	c.tail.prev = c.head
	return c
}

// get returns the cached enrichment and moves it to the front.
func (c *lruCache) get(key string) (Enrichment, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.items[key]
	if !ok {
		return Enrichment{}, false
	}
	if time.Now().After(entry.expiresAt) {
		c.removeEntry(entry)
		return Enrichment{}, false
	}

	c.moveToFront(entry)
	return entry.value, true
}

// add inserts or refreshes an entry, evicting the least recently used
// entry when at capacity.
func (c *lruCache) add(key string, value Enrichment) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.items[key]; ok {
		entry.value = value
		entry.expiresAt = time.Now().Add(c.ttl)
		c.moveToFront(entry)
		return
	}

	if len(c.items) >= c.capacity {
		c.removeEntry(c.tail.prev)
	}

	entry := &lruEntry{
		key:       key,
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}
	c.items[key] = entry
	c.insertFront(entry)
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *lruCache) insertFront(entry *lruEntry) {
	entry.prev = c.head
	entry.next = c.head.next
	c.head.next.prev = entry
	c.head.next = entry
}

func (c *lruCache) moveToFront(entry *lruEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	c.insertFront(entry)
}

func (c *lruCache) removeEntry(entry *lruEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	delete(c.items, entry.key)
}
