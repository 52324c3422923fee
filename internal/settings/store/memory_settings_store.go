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

package store

import (
	"context"
	"sync"
)

// InMemorySettingsStore is a process local store used by tests and the memory storage backend.
type InMemorySettingsStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewInMemorySettingsStore() *InMemorySettingsStore {
	return &InMemorySettingsStore{values: map[string]string{}}
}

func (s *InMemorySettingsStore) GetAll(_ context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	values := make(map[string]string, len(s.values))
	for key, value := range s.values {
		values[key] = value
	}
	return values, nil
}

func (s *InMemorySettingsStore) Upsert(_ context.Context, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, value := range values {
		s.values[key] = value
	}
	return nil
}

func (s *InMemorySettingsStore) Ping(_ context.Context) error {
	return nil
}
