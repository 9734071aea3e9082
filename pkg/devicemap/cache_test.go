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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUCacheEvictsOldest(t *testing.T) {
	cache := newLRUCache(2)

	cache.Put("a", &Resolution{Alias: "A"})
	cache.Put("b", &Resolution{Alias: "B"})

	// Touch "a" so "b" becomes the eviction candidate.
	_, ok := cache.Get("a")
	require.True(t, ok)

	cache.Put("c", &Resolution{Alias: "C"})

	_, ok = cache.Get("b")
	assert.False(t, ok)

	_, ok = cache.Get("a")
	assert.True(t, ok)

	_, ok = cache.Get("c")
	assert.True(t, ok)

	assert.Equal(t, 2, cache.Len())
}

func TestLRUCacheNegativeEntries(t *testing.T) {
	cache := newLRUCache(4)

	cache.Put("missing", nil)

	value, ok := cache.Get("missing")
	require.True(t, ok)
	assert.Nil(t, value)
}

func TestLRUCacheUpdateExisting(t *testing.T) {
	cache := newLRUCache(2)

	cache.Put("a", &Resolution{Alias: "old"})
	cache.Put("a", &Resolution{Alias: "new"})

	value, ok := cache.Get("a")
	require.True(t, ok)
	assert.Equal(t, "new", value.Alias)
	assert.Equal(t, 1, cache.Len())
}

func TestLRUCacheClearResetsEntriesNotCounters(t *testing.T) {
	cache := newLRUCache(2)

	cache.Put("a", &Resolution{})

	_, _ = cache.Get("a")
	_, _ = cache.Get("nope")

	cache.Clear()

	assert.Equal(t, 0, cache.Len())

	_, ok := cache.Get("a")
	assert.False(t, ok)

	hits, misses := cache.Counters()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(2), misses)
}
