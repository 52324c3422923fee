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
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/cookieconsent/consent-service/internal/system/database/provider"
	"github.com/cookieconsent/consent-service/internal/system/errors"
	"github.com/cookieconsent/consent-service/internal/system/log"
)

// DistributedLock serialises a job across every instance sharing the same backend. Acquire never blocks; a false
// result means another holder is running the job.
type DistributedLock interface {
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// PostgresLock implements DistributedLock using PostgreSQL session advisory locks. The session is pinned to one
// pooled connection for the lifetime of the lock.
type PostgresLock struct {
	dbProvider provider.DBProviderInterface
	mu         sync.Mutex
	held       map[string]*heldLock
}

type heldLock struct {
	id      int64
	release func(ctx context.Context) error
}

func NewPostgresLock(dbProvider provider.DBProviderInterface) *PostgresLock {
	return &PostgresLock{dbProvider: dbProvider, held: map[string]*heldLock{}}
}

// generateLockKey maps the key onto the bigint advisory lock space.
func generateLockKey(key string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return int64(h.Sum64())
}

func (l *PostgresLock) Acquire(ctx context.Context, key string) (bool, error) {

	logger := log.GetLogger()
	dbClient, err := l.dbProvider.GetDBClient()
	if err != nil {
		errorMsg := "Failed during DB client creation for advisory lock acquiring."
		logger.Debug(errorMsg, log.Error(err))
		return false, errors.NewServerError(errors.DB_CLIENT_INIT.WithDescription(errorMsg), err)
	}

	lockID := generateLockKey(key)
	conn, err := dbClient.Conn(ctx)
	if err != nil {
		errorMsg := "Failed to reserve a connection for advisory lock."
		logger.Debug(errorMsg, log.Error(err))
		return false, errors.NewServerError(errors.LOCK_ACQUIRE.WithDescription(errorMsg), err)
	}

	var acquired bool
	if err := conn.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", lockID).Scan(&acquired); err != nil {
		_ = conn.Close()
		errorMsg := fmt.Sprintf("Failed to execute pg_try_advisory_lock for key %s", key)
		logger.Debug(errorMsg, log.Error(err))
		return false, errors.NewServerError(errors.LOCK_ACQUIRE.WithDescription(errorMsg), err)
	}
	if !acquired {
		_ = conn.Close()
		return false, nil
	}

	l.mu.Lock()
	l.held[key] = &heldLock{
		id: lockID,
		release: func(ctx context.Context) error {
			defer conn.Close()
			_, err := conn.ExecContext(ctx, "SELECT pg_advisory_unlock($1)", lockID)
			return err
		},
	}
	l.mu.Unlock()
	return true, nil
}

func (l *PostgresLock) Release(ctx context.Context, key string) error {

	l.mu.Lock()
	held, ok := l.held[key]
	delete(l.held, key)
	l.mu.Unlock()
	if !ok {
		return nil
	}
	if err := held.release(ctx); err != nil {
		errorMsg := fmt.Sprintf("Failed to release advisory lock %d", held.id)
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return errors.NewServerError(errors.LOCK_RELEASE.WithDescription(errorMsg), err)
	}
	return nil
}

// LocalLock is the single instance DistributedLock used by the document and in-memory backends.
type LocalLock struct {
	mu   sync.Mutex
	held map[string]bool
}

func NewLocalLock() *LocalLock {
	return &LocalLock{held: map[string]bool{}}
}

func (l *LocalLock) Acquire(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return false, nil
	}
	l.held[key] = true
	return true, nil
}

func (l *LocalLock) Release(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
	return nil
}
