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

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/cookieconsent/consent-service/internal/consent_log/model"
	errors2 "github.com/cookieconsent/consent-service/internal/system/errors"
	"github.com/cookieconsent/consent-service/internal/system/log"
)

const consentLogCollection = "consent_logs"

type MongoConsentLogStore struct {
	collection *mongo.Collection
}

func NewMongoConsentLogStore(db *mongo.Database) *MongoConsentLogStore {
	return &MongoConsentLogStore{collection: db.Collection(consentLogCollection)}
}

// Insert writes a single document, which mongodb applies atomically.
func (s *MongoConsentLogStore) Insert(ctx context.Context, record model.ConsentRecord) error {
	if _, err := s.collection.InsertOne(ctx, record); err != nil {
		errorMsg := "Failed to insert consent record document"
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ADD_CONSENT_RECORD.WithDescription(errorMsg),
			errors.Wrap(err, "insert consent record"))
	}
	return nil
}

func (s *MongoConsentLogStore) Find(ctx context.Context, query model.RecordQuery) ([]model.ConsentRecord, error) {

	filter := bson.M{}
	createdAt := bson.M{}
	if query.From != nil {
		createdAt["$gte"] = *query.From
	}
	if query.To != nil {
		createdAt["$lte"] = *query.To
	}
	if len(createdAt) > 0 {
		filter["created_at"] = createdAt
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if query.Limit > 0 {
		opts.SetLimit(int64(query.Limit))
	}

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, findError(err)
	}
	defer cursor.Close(ctx)

	records := []model.ConsentRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, findError(err)
	}
	return records, nil
}

func findError(err error) error {
	errorMsg := "Failed to fetch consent record documents"
	log.GetLogger().Debug(errorMsg, log.Error(err))
	return errors2.NewServerError(errors2.FETCH_CONSENT_RECORDS.WithDescription(errorMsg),
		errors.Wrap(err, "find consent records"))
}

func (s *MongoConsentLogStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.collection.DeleteMany(ctx, bson.M{"created_at": bson.M{"$lt": cutoff}})
	if err != nil {
		errorMsg := "Failed to delete consent record documents"
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return 0, errors2.NewServerError(errors2.PRUNE_CONSENT_RECORDS.WithDescription(errorMsg),
			errors.Wrap(err, "delete consent records"))
	}
	return result.DeletedCount, nil
}

func (s *MongoConsentLogStore) Ping(ctx context.Context) error {
	return s.collection.Database().Client().Ping(ctx, readpref.Primary())
}
