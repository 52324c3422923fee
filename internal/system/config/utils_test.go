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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDeployment(t *testing.T, content string) string {
	t.Helper()
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, "conf"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, "conf", "deployment.yaml"), []byte(content), 0o600))
	return home
}

func TestLoadConfig_ExpandsEnvironmentOverDefaults(t *testing.T) {
	t.Setenv("TEST_JWT_SECRET", "s3cret")
	t.Setenv("TEST_STORAGE", "")
	home := writeDeployment(t, `
auth:
  jwt_secret: "${TEST_JWT_SECRET}"
storage:
  type: "${TEST_STORAGE}"
rate_limit:
  backend: redis
jurisdictions:
  - law: lgpd
    expr: 'country == "BR"'
`)

	cfg, err := LoadConfig(home, "conf/deployment.yaml")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, "postgres", cfg.Storage.Type)
	assert.Equal(t, "redis", cfg.RateLimit.Backend)
	assert.Equal(t, 5, cfg.RateLimit.Limit)
	assert.Equal(t, 8900, cfg.Addr.Port)
	assert.Equal(t, "CF-IPCountry", cfg.Geo.CountryHeader)
	assert.Equal(t, []JurisdictionRule{{Law: "lgpd", Expr: `country == "BR"`}}, cfg.Jurisdictions)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(t.TempDir(), "conf/deployment.yaml")
	assert.Error(t, err)
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 2*time.Second, ParseDuration("2s", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("soon", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("-1s", time.Minute))
}
