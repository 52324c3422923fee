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
	"time"

	"github.com/cookieconsent/consent-service/internal/consent_log/model"
)

// ConsentLogStoreInterface is append-only storage for consent records.
type ConsentLogStoreInterface interface {
	// Insert stores the whole record or nothing.
	Insert(ctx context.Context, record model.ConsentRecord) error
	Find(ctx context.Context, query model.RecordQuery) ([]model.ConsentRecord, error)
	// DeleteBefore removes every record created before cutoff and returns how many went.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
	Ping(ctx context.Context) error
}
