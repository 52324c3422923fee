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

package lock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLock(t *testing.T) {
	ctx := context.Background()
	l := NewLocalLock()

	acquired, err := l.Acquire(ctx, "prune")
	require.NoError(t, err)
	assert.True(t, acquired)

	acquired, _ = l.Acquire(ctx, "prune")
	assert.False(t, acquired)

	acquired, _ = l.Acquire(ctx, "other")
	assert.True(t, acquired)

	require.NoError(t, l.Release(ctx, "prune"))
	acquired, _ = l.Acquire(ctx, "prune")
	assert.True(t, acquired)
}

func TestGenerateLockKey_Stable(t *testing.T) {
	assert.Equal(t, generateLockKey("consent_log:prune"), generateLockKey("consent_log:prune"))
	assert.NotEqual(t, generateLockKey("a"), generateLockKey("b"))
}
