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

package model

import "time"

// ConsentRecord is one visitor decision. It is immutable once stored.
type ConsentRecord struct {
	ID            string    `json:"id" bson:"_id"`
	IP            string    `json:"ip" bson:"ip"`
	Country       string    `json:"country" bson:"country"`
	Consent       string    `json:"consent" bson:"consent"`
	Categories    []string  `json:"categories" bson:"categories"`
	ConfigVersion string    `json:"config_version" bson:"config_version"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}

// ConsentRecordView is a record as it leaves the log, already masked for the caller's tier.
type ConsentRecordView struct {
	ID            string   `json:"id"`
	IP            string   `json:"ip"`
	Country       string   `json:"country"`
	Consent       string   `json:"consent"`
	Categories    []string `json:"categories"`
	ConfigVersion string   `json:"config_version"`
	CreatedAt     string   `json:"created_at"`
}

// RecordQuery selects records by creation time, newest first. Nil bounds are open and a zero Limit means all.
type RecordQuery struct {
	From  *time.Time
	To    *time.Time
	Limit int
}

// Stats aggregates decisions for dashboards.
type Stats struct {
	Total   int  `json:"total"`
	Full    int  `json:"full"`
	Partial int  `json:"partial"`
	None    int  `json:"none"`
	SeenEU  bool `json:"seen_eu"`
	SeenUS  bool `json:"seen_us"`
}

// PruneResult reports a retention run.
type PruneResult struct {
	RetentionDays int       `json:"retention_days"`
	Cutoff        time.Time `json:"cutoff"`
	Deleted       int64     `json:"deleted"`
}
