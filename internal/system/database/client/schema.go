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

package client

import (
	"context"

	"github.com/pkg/errors"

	"github.com/cookieconsent/consent-service/internal/system/log"
)

// WithSchema runs op and, when it fails because a table does not exist yet, applies the schema and runs op
// once more.
func WithSchema(ctx context.Context, dbClient DBClientInterface, schema string, op func() error) error {

	err := op()
	if err == nil || !IsUndefinedTable(err) {
		return err
	}

	log.GetLogger().Info("Storage tables missing, creating schema")
	if _, schemaErr := dbClient.Exec(ctx, schema); schemaErr != nil {
		return errors.Wrap(schemaErr, "create schema")
	}
	return op()
}
