/*
 * Copyright 2025 The FabricWatch Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package devicemap

import (
	"container/list"
	"sync"
)

// lruCache is a bounded least-recently-used cache of lookup results. Negative
// results (nil Resolution) are cached too, since misses dominate on fabrics
// with sparse metadata coverage.
type lruCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	items    map[string]*list.Element

	hits   int64
	misses int64
}

type cacheEntry struct {
	key   string
	value *Resolution
}

func newLRUCache(capacity int) *lruCache {
	return &lruCache{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

// Get returns the cached resolution and whether the key was present. A
// present key with a nil value is a cached "not found".
func (c *lruCache) Get(key string) (*Resolution, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}

	c.hits++
	c.order.MoveToFront(elem)

	return elem.Value.(*cacheEntry).value, true
}

func (c *lruCache) Put(key string, value *Resolution) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		elem.Value.(*cacheEntry).value = value
		c.order.MoveToFront(elem)

		return
	}

	if c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*cacheEntry).key)
		}
	}

	c.items[key] = c.order.PushFront(&cacheEntry{key: key, value: value})
}

// Clear drops every entry. Hit/miss counters survive; they describe cache
// effectiveness over the process lifetime, not one snapshot.
func (c *lruCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order.Init()
	c.items = make(map[string]*list.Element, c.capacity)
}

func (c *lruCache) Counters() (hits, misses int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.hits, c.misses
}

func (c *lruCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.order.Len()
}
