// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package cache provides a small thread-safe FIFO cache used to memoize
// signature verification results.
package cache

import (
	"sync"
)

// FIFOCache is a thread-safe fixed-capacity cache with FIFO eviction.
// Entries are immutable once inserted; there is no TTL.
type FIFOCache[K comparable, V any] struct {
	lk       sync.RWMutex
	cache    map[K]V
	queue    []K
	capacity int
}

// NewFIFOCache creates a FIFO cache with the given capacity. A capacity
// below one is treated as one.
func NewFIFOCache[K comparable, V any](capacity int) *FIFOCache[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &FIFOCache[K, V]{
		cache:    make(map[K]V, capacity),
		queue:    make([]K, 0, capacity),
		capacity: capacity,
	}
}

// Peek returns the cached value for key, if present.
func (c *FIFOCache[K, V]) Peek(key K) (V, bool) {
	c.lk.RLock()
	defer c.lk.RUnlock()
	val, ok := c.cache[key]
	return val, ok
}

// Put inserts a key-value pair, evicting the oldest entry at capacity.
// Re-inserting an existing key updates the value without re-queueing it.
func (c *FIFOCache[K, V]) Put(key K, val V) {
	c.lk.Lock()
	defer c.lk.Unlock()

	if _, exists := c.cache[key]; exists {
		c.cache[key] = val
		return
	}

	if len(c.queue) >= c.capacity {
		oldest := c.queue[0]
		c.queue = c.queue[1:]
		delete(c.cache, oldest)
	}

	c.cache[key] = val
	c.queue = append(c.queue, key)
}

// Len returns the current number of cached entries.
func (c *FIFOCache[K, V]) Len() int {
	c.lk.RLock()
	defer c.lk.RUnlock()
	return len(c.cache)
}
