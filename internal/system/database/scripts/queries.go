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

package scripts

// CreateSchema is applied lazily the first time a store finds its table missing.
var CreateSchema = map[string]string{
	"postgres": `
CREATE TABLE IF NOT EXISTS consent_settings (
    setting_key VARCHAR(64) PRIMARY KEY,
    value       TEXT        NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS consent_logs (
    id             UUID PRIMARY KEY,
    ip             VARCHAR(64)  NOT NULL,
    country        VARCHAR(2)   NOT NULL,
    consent        VARCHAR(16)  NOT NULL,
    categories     TEXT[]       NOT NULL DEFAULT '{}',
    config_version VARCHAR(128) NOT NULL DEFAULT '',
    created_at     TIMESTAMPTZ  NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_consent_logs_created_at ON consent_logs (created_at);`,
}

var GetAllSettings = map[string]string{
	"postgres": `SELECT setting_key, value FROM consent_settings`,
}

var UpsertSetting = map[string]string{
	"postgres": `INSERT INTO consent_settings (setting_key, value, updated_at) VALUES ($1, $2, NOW())
       ON CONFLICT (setting_key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
}

var InsertConsentRecord = map[string]string{
	"postgres": `INSERT INTO consent_logs (id, ip, country, consent, categories, config_version, created_at)
       VALUES ($1, $2, $3, $4, $5, $6, $7)`,
}

// FindConsentRecords takes optional lower/upper created_at bounds and an optional limit (NULL for none).
var FindConsentRecords = map[string]string{
	"postgres": `SELECT id::text AS id, ip, country, consent, categories, config_version, created_at FROM consent_logs
       WHERE ($1::timestamptz IS NULL OR created_at >= $1) AND ($2::timestamptz IS NULL OR created_at <= $2)
       ORDER BY created_at DESC, id DESC LIMIT $3`,
}

var DeleteConsentRecordsBefore = map[string]string{
	"postgres": `DELETE FROM consent_logs WHERE created_at < $1`,
}
