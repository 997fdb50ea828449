// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package httpfetch

import (
	"sync"
	"time"
)

// Cache is the optional same-day URL cache permitted by spec.md §5: keyed
// by full URL, TTL bounded to 5 minutes, holding no per-user state.
// Disabled (nil) by default; a Fetcher only consults it once its Cache
// field is set, e.g. via Fetcher.EnableCache.
type Cache struct {
	ttl   time.Duration
	mu    sync.Mutex
	items map[string]cacheItem
}

type cacheItem struct {
	body    []byte
	expires time.Time
}

const maxTTL = 5 * time.Minute

// NewCache builds a Cache with the given TTL, clamped to maxTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 || ttl > maxTTL {
		ttl = maxTTL
	}
	return &Cache{ttl: ttl, items: make(map[string]cacheItem)}
}

// Get returns the cached body for url, if present and unexpired.
func (c *Cache) Get(url string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[url]
	if !ok || time.Now().After(item.expires) {
		return nil, false
	}
	return item.body, true
}

// Set stores body for url with the cache's configured TTL.
func (c *Cache) Set(url string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[url] = cacheItem{body: body, expires: time.Now().Add(c.ttl)}
}
