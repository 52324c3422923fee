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
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "consent:ratelimit:"

// slidingLog trims hits older than the window from the key's sorted set and records this one only when fewer
// than the limit remain, in one atomic step. Scores are milliseconds since the epoch.
//
// KEYS[1] log key, ARGV[1] now, ARGV[2] window, ARGV[3] limit, ARGV[4] member.
var slidingLog = redis.NewScript(`
redis.call("ZREMRANGEBYSCORE", KEYS[1], "-inf", tonumber(ARGV[1]) - tonumber(ARGV[2]))
if redis.call("ZCARD", KEYS[1]) >= tonumber(ARGV[3]) then
  return 0
end
redis.call("ZADD", KEYS[1], ARGV[1], ARGV[4])
redis.call("PEXPIRE", KEYS[1], ARGV[2])
return 1
`)

// Redis is a sliding-log limiter shared by every replica through Redis.
type Redis struct {
	client redis.Scripter
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewRedis returns a limiter allowing limit requests in any window-long span.
func NewRedis(client redis.Scripter, limit int, window time.Duration) *Redis {
	return NewRedisWithClock(client, limit, window, time.Now)
}

// NewRedisWithClock returns a Redis limiter stamping hits with now. Replicas sharing a key should have
// synchronised clocks.
func NewRedisWithClock(client redis.Scripter, limit int, window time.Duration, now func() time.Time) *Redis {
	return &Redis{client: client, limit: limit, window: window, now: now}
}

func (l *Redis) Allow(ctx context.Context, key string) (bool, error) {
	nowMs := l.now().UnixMilli()
	args := []interface{}{
		strconv.FormatInt(nowMs, 10),
		strconv.FormatInt(l.window.Milliseconds(), 10),
		strconv.Itoa(l.limit),
		strconv.FormatInt(nowMs, 10) + "-" + uuid.NewString(),
	}
	allowed, err := slidingLog.Run(ctx, l.client, []string{keyPrefix + key}, args...).Int64()
	if err != nil {
		return false, errors.Wrap(err, "update rate limit log")
	}
	return allowed == 1, nil
}
