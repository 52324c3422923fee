/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/cookieconsent/consent-service/internal/system/log"
)

type CacheItem struct {
	Value      interface{}
	Expiration time.Time
}

type Cache struct {
	items map[string]CacheItem
	mutex sync.RWMutex
	ttl   time.Duration
	now   func() time.Time
}

// NewCache creates a new cache with a TTL (time-to-live)
func NewCache(defaultTTL time.Duration) *Cache {
	return NewCacheWithClock(defaultTTL, time.Now)
}

// NewCacheWithClock creates a cache that reads time from the given clock.
func NewCacheWithClock(defaultTTL time.Duration, now func() time.Time) *Cache {
	return &Cache{
		items: make(map[string]CacheItem),
		ttl:   defaultTTL,
		now:   now,
	}
}

// Set adds an item to the cache using the default TTL
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL adds an item to the cache with an explicit TTL
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {

	log.GetLogger().Debug(fmt.Sprint("Setting cache for key: ", key))
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.items[key] = CacheItem{
		Value:      value,
		Expiration: c.now().Add(ttl),
	}
}

// Get retrieves an item from the cache
func (c *Cache) Get(key string) (interface{}, bool) {

	logger := log.GetLogger()
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, found := c.items[key]
	if !found {
		logger.Debug(fmt.Sprint("Cache not found for key: ", key))
		return nil, false
	}
	if !c.now().Before(item.Expiration) {
		logger.Debug(fmt.Sprint("Cache expired for key: ", key))
		return nil, false
	}

	return item.Value, true
}

// Increment atomically adds one to the counter stored under key. A missing or expired counter restarts at 1
// and expires ttl after that first increment.
func (c *Cache) Increment(key string, ttl time.Duration) int64 {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	item, found := c.items[key]
	count, _ := item.Value.(int64)
	if !found || !now.Before(item.Expiration) {
		c.items[key] = CacheItem{Value: int64(1), Expiration: now.Add(ttl)}
		return 1
	}
	count++
	item.Value = count
	c.items[key] = item
	return count
}

// Delete removes an item from the cache
func (c *Cache) Delete(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.items, key)
}

// Purge drops expired items.
func (c *Cache) Purge() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	for key, item := range c.items {
		if !now.Before(item.Expiration) {
			delete(c.items, key)
		}
	}
}
