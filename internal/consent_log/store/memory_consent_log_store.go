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
	"sort"
	"sync"
	"time"

	"github.com/cookieconsent/consent-service/internal/consent_log/model"
)

type InMemoryConsentLogStore struct {
	mu      sync.RWMutex
	records []model.ConsentRecord
}

func NewInMemoryConsentLogStore() *InMemoryConsentLogStore {
	return &InMemoryConsentLogStore{}
}

func (s *InMemoryConsentLogStore) Insert(_ context.Context, record model.ConsentRecord) error {
	record.Categories = append([]string{}, record.Categories...)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

func (s *InMemoryConsentLogStore) Find(_ context.Context, query model.RecordQuery) ([]model.ConsentRecord, error) {
	s.mu.RLock()
	matched := make([]model.ConsentRecord, 0, len(s.records))
	for _, record := range s.records {
		if query.From != nil && record.CreatedAt.Before(*query.From) {
			continue
		}
		if query.To != nil && record.CreatedAt.After(*query.To) {
			continue
		}
		record.Categories = append([]string{}, record.Categories...)
		matched = append(matched, record)
	}
	s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})
	if query.Limit > 0 && len(matched) > query.Limit {
		matched = matched[:query.Limit]
	}
	return matched, nil
}

func (s *InMemoryConsentLogStore) DeleteBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.records[:0]
	var deleted int64
	for _, record := range s.records {
		if record.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, record)
	}
	s.records = kept
	return deleted, nil
}

func (s *InMemoryConsentLogStore) Ping(_ context.Context) error {
	return nil
}
