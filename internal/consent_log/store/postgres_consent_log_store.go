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
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/cookieconsent/consent-service/internal/consent_log/model"
	"github.com/cookieconsent/consent-service/internal/system/database/client"
	"github.com/cookieconsent/consent-service/internal/system/database/provider"
	"github.com/cookieconsent/consent-service/internal/system/database/scripts"
	errors2 "github.com/cookieconsent/consent-service/internal/system/errors"
	"github.com/cookieconsent/consent-service/internal/system/log"
)

type PostgresConsentLogStore struct {
	dbProvider provider.DBProviderInterface
}

func NewPostgresConsentLogStore(dbProvider provider.DBProviderInterface) *PostgresConsentLogStore {
	return &PostgresConsentLogStore{dbProvider: dbProvider}
}

func (s *PostgresConsentLogStore) Insert(ctx context.Context, record model.ConsentRecord) error {

	logger := log.GetLogger()
	dbClient, err := s.dbProvider.GetDBClient()
	if err != nil {
		errorMsg := "Failed to get db client for adding consent record"
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ADD_CONSENT_RECORD.WithDescription(errorMsg), err)
	}

	dbType := s.dbProvider.GetDBType()
	err = client.WithSchema(ctx, dbClient, scripts.CreateSchema[dbType], func() error {
		_, execErr := dbClient.Exec(ctx, scripts.InsertConsentRecord[dbType], record.ID, record.IP, record.Country,
			record.Consent, pq.Array(record.Categories), record.ConfigVersion, record.CreatedAt)
		return execErr
	})
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to insert consent record: %s", record.ID)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ADD_CONSENT_RECORD.WithDescription(errorMsg),
			errors.Wrap(err, "insert consent record"))
	}
	return nil
}

func (s *PostgresConsentLogStore) Find(ctx context.Context, query model.RecordQuery) ([]model.ConsentRecord, error) {

	logger := log.GetLogger()
	dbClient, err := s.dbProvider.GetDBClient()
	if err != nil {
		errorMsg := "Failed to get db client for fetching consent records"
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.FETCH_CONSENT_RECORDS.WithDescription(errorMsg), err)
	}

	var from, to, limit interface{}
	if query.From != nil {
		from = *query.From
	}
	if query.To != nil {
		to = *query.To
	}
	if query.Limit > 0 {
		limit = query.Limit
	}

	dbType := s.dbProvider.GetDBType()
	var results []map[string]interface{}
	err = client.WithSchema(ctx, dbClient, scripts.CreateSchema[dbType], func() error {
		var queryErr error
		results, queryErr = dbClient.ExecuteQuery(ctx, scripts.FindConsentRecords[dbType], from, to, limit)
		return queryErr
	})
	if err != nil {
		errorMsg := "Failed to execute query for fetching consent records"
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.FETCH_CONSENT_RECORDS.WithDescription(errorMsg),
			errors.Wrap(err, "select consent records"))
	}

	records := make([]model.ConsentRecord, 0, len(results))
	for _, row := range results {
		records = append(records, recordFromRow(row))
	}
	return records, nil
}

func (s *PostgresConsentLogStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {

	logger := log.GetLogger()
	dbClient, err := s.dbProvider.GetDBClient()
	if err != nil {
		errorMsg := "Failed to get db client for pruning consent records"
		logger.Debug(errorMsg, log.Error(err))
		return 0, errors2.NewServerError(errors2.PRUNE_CONSENT_RECORDS.WithDescription(errorMsg), err)
	}

	dbType := s.dbProvider.GetDBType()
	var deleted int64
	err = client.WithSchema(ctx, dbClient, scripts.CreateSchema[dbType], func() error {
		var execErr error
		deleted, execErr = dbClient.Exec(ctx, scripts.DeleteConsentRecordsBefore[dbType], cutoff)
		return execErr
	})
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to delete consent records before %s", cutoff.Format(time.RFC3339))
		logger.Debug(errorMsg, log.Error(err))
		return 0, errors2.NewServerError(errors2.PRUNE_CONSENT_RECORDS.WithDescription(errorMsg),
			errors.Wrap(err, "delete consent records"))
	}
	return deleted, nil
}

func (s *PostgresConsentLogStore) Ping(ctx context.Context) error {
	dbClient, err := s.dbProvider.GetDBClient()
	if err != nil {
		return err
	}
	return dbClient.Ping(ctx)
}

func recordFromRow(row map[string]interface{}) model.ConsentRecord {
	record := model.ConsentRecord{
		ID:            asString(row["id"]),
		IP:            asString(row["ip"]),
		Country:       asString(row["country"]),
		Consent:       asString(row["consent"]),
		ConfigVersion: asString(row["config_version"]),
		Categories:    []string{},
	}
	var categories pq.StringArray
	if err := categories.Scan(row["categories"]); err == nil && categories != nil {
		record.Categories = []string(categories)
	}
	if createdAt, ok := row["created_at"].(time.Time); ok {
		record.CreatedAt = createdAt
	}
	return record
}

func asString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}
