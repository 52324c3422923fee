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

package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/cookieconsent/consent-service/internal/system/cache"
)

// Limiter decides whether one more request from key fits in the rolling window ending now.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

const purgeEvery = 1024

// InMemory is a sliding-log limiter kept in process memory. Each key holds the times of its accepted requests
// inside the last window; rejected requests are not recorded.
type InMemory struct {
	mu     sync.Mutex
	hits   *cache.Cache
	limit  int
	window time.Duration
	now    func() time.Time
	calls uint64
}

// NewInMemory returns a limiter allowing limit requests in any window-long span.
func NewInMemory(limit int, window time.Duration) *InMemory {
	return NewInMemoryWithClock(limit, window, time.Now)
}

// NewInMemoryWithClock returns an in-memory limiter reading time from now.
func NewInMemoryWithClock(limit int, window time.Duration, now func() time.Time) *InMemory {
	return &InMemory{
		hits:   cache.NewCacheWithClock(window, now),
		limit:  limit,
		window: window,
		now:    now,
	}
}

func (l *InMemory) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.calls++; l.calls%purgeEvery == 0 {
		l.hits.Purge()
	}

	now := l.now()
	cutoff := now.Add(-l.window)
	recent := make([]time.Time, 0, l.limit)
	if stored, ok := l.hits.Get(key); ok {
		for _, at := range stored.([]time.Time) {
			if at.After(cutoff) {
				recent = append(recent, at)
			}
		}
	}
	if len(recent) >= l.limit {
		return false, nil
	}

	// The log lives one window past its newest hit, after which every entry is stale.
	l.hits.SetWithTTL(key, append(recent, now), l.window)
	return true, nil
}
