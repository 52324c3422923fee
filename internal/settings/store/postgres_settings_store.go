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
	"database/sql"
	"fmt"

	"github.com/pkg/errors"

	"github.com/cookieconsent/consent-service/internal/system/database/client"
	"github.com/cookieconsent/consent-service/internal/system/database/provider"
	"github.com/cookieconsent/consent-service/internal/system/database/scripts"
	errors2 "github.com/cookieconsent/consent-service/internal/system/errors"
	"github.com/cookieconsent/consent-service/internal/system/log"
)

// PostgresSettingsStore keeps one row per setting key.
type PostgresSettingsStore struct {
	dbProvider provider.DBProviderInterface
}

func NewPostgresSettingsStore(dbProvider provider.DBProviderInterface) *PostgresSettingsStore {
	return &PostgresSettingsStore{dbProvider: dbProvider}
}

func (s *PostgresSettingsStore) GetAll(ctx context.Context) (map[string]string, error) {

	logger := log.GetLogger()
	dbClient, err := s.dbProvider.GetDBClient()
	if err != nil {
		errorMsg := "Failed to get db client for fetching settings"
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.FETCH_SETTINGS.WithDescription(errorMsg), err)
	}

	dbType := s.dbProvider.GetDBType()
	var results []map[string]interface{}
	err = client.WithSchema(ctx, dbClient, scripts.CreateSchema[dbType], func() error {
		var queryErr error
		results, queryErr = dbClient.ExecuteQuery(ctx, scripts.GetAllSettings[dbType])
		return queryErr
	})
	if err != nil {
		errorMsg := "Failed to execute query for fetching settings"
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.FETCH_SETTINGS.WithDescription(errorMsg),
			errors.Wrap(err, "select settings"))
	}

	values := make(map[string]string, len(results))
	for _, row := range results {
		key, ok := row["setting_key"].(string)
		if !ok {
			continue
		}
		switch value := row["value"].(type) {
		case string:
			values[key] = value
		case []byte:
			values[key] = string(value)
		}
	}
	return values, nil
}

func (s *PostgresSettingsStore) Upsert(ctx context.Context, values map[string]string) error {

	logger := log.GetLogger()
	dbClient, err := s.dbProvider.GetDBClient()
	if err != nil {
		errorMsg := "Failed to get db client for updating settings"
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.UPDATE_SETTINGS.WithDescription(errorMsg), err)
	}

	dbType := s.dbProvider.GetDBType()
	err = client.WithSchema(ctx, dbClient, scripts.CreateSchema[dbType], func() error {
		tx, err := dbClient.BeginTx(ctx)
		if err != nil {
			return errors.Wrap(err, "begin transaction")
		}
		if err := upsertAll(ctx, tx, scripts.UpsertSetting[dbType], values); err != nil {
			_ = tx.Rollback()
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to update %d settings", len(values))
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.UPDATE_SETTINGS.WithDescription(errorMsg), err)
	}
	logger.Debug("Settings updated", log.Int("count", len(values)))
	return nil
}

func upsertAll(ctx context.Context, tx *sql.Tx, query string, values map[string]string) error {
	for key, value := range values {
		if _, err := tx.ExecContext(ctx, query, key, value); err != nil {
			return errors.Wrapf(err, "upsert setting %s", key)
		}
	}
	return nil
}

func (s *PostgresSettingsStore) Ping(ctx context.Context) error {
	dbClient, err := s.dbProvider.GetDBClient()
	if err != nil {
		return err
	}
	return dbClient.Ping(ctx)
}
