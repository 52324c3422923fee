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

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	errors2 "github.com/cookieconsent/consent-service/internal/system/errors"
	"github.com/cookieconsent/consent-service/internal/system/log"
)

const (
	settingsCollection = "consent_settings"
	settingsDocumentID = "settings"
)

type settingsDocument struct {
	ID     string            `bson:"_id"`
	Values map[string]string `bson:"values"`
}

// MongoSettingsStore keeps every setting in a single document so that a multi-key update is one atomic write.
type MongoSettingsStore struct {
	collection *mongo.Collection
}

func NewMongoSettingsStore(db *mongo.Database) *MongoSettingsStore {
	return &MongoSettingsStore{collection: db.Collection(settingsCollection)}
}

func (s *MongoSettingsStore) GetAll(ctx context.Context) (map[string]string, error) {

	var doc settingsDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": settingsDocumentID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return map[string]string{}, nil
	}
	if err != nil {
		errorMsg := "Failed to fetch settings document"
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.FETCH_SETTINGS.WithDescription(errorMsg),
			errors.Wrap(err, "find settings"))
	}
	if doc.Values == nil {
		doc.Values = map[string]string{}
	}
	return doc.Values, nil
}

func (s *MongoSettingsStore) Upsert(ctx context.Context, values map[string]string) error {

	if len(values) == 0 {
		return nil
	}
	set := bson.M{}
	for key, value := range values {
		set["values."+key] = value
	}
	_, err := s.collection.UpdateOne(ctx, bson.M{"_id": settingsDocumentID}, bson.M{"$set": set},
		options.Update().SetUpsert(true))
	if err != nil {
		errorMsg := "Failed to update settings document"
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.UPDATE_SETTINGS.WithDescription(errorMsg),
			errors.Wrap(err, "update settings"))
	}
	return nil
}

func (s *MongoSettingsStore) Ping(ctx context.Context) error {
	return s.collection.Database().Client().Ping(ctx, readpref.Primary())
}
