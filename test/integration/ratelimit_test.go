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

//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cookieconsent/consent-service/internal/system/constants"
	"github.com/cookieconsent/consent-service/internal/system/ratelimit"
)

func TestRedisLimiter_WindowBoundary(t *testing.T) {
	ctx := context.Background()
	window := 500 * time.Millisecond
	limiter := ratelimit.NewRedis(rdb.Client, constants.SubmissionRateLimit, window)
	key := "203.0.113.10-" + t.Name()

	for i := 0; i < constants.SubmissionRateLimit; i++ {
		allowed, err := limiter.Allow(ctx, key)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d", i+1)
	}
	allowed, err := limiter.Allow(ctx, key)
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = limiter.Allow(ctx, "203.0.113.11-"+t.Name())
	require.NoError(t, err)
	assert.True(t, allowed, "other visitors are unaffected")

	time.Sleep(window + 100*time.Millisecond)
	allowed, err = limiter.Allow(ctx, key)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisLimiter_RollingWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	limiter := ratelimit.NewRedisWithClock(rdb.Client, constants.SubmissionRateLimit, time.Second,
		func() time.Time { return now })
	key := "203.0.113.12-" + t.Name()
	burst := func(n int) int {
		accepted := 0
		for i := 0; i < n; i++ {
			allowed, err := limiter.Allow(ctx, key)
			require.NoError(t, err)
			if allowed {
				accepted++
			}
		}
		return accepted
	}

	assert.Equal(t, 1, burst(1))
	now = now.Add(950 * time.Millisecond)
	assert.Equal(t, 4, burst(4))
	now = now.Add(60 * time.Millisecond)
	assert.Equal(t, 1, burst(5))
}
