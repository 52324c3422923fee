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

package license

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cookieconsent/consent-service/internal/system/config"
	"github.com/cookieconsent/consent-service/internal/system/log"
	"github.com/cookieconsent/consent-service/internal/tier"
)

const testSecret = "license-secret"

func signLicense(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestVerify(t *testing.T) {
	log.Init("DEBUG")
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		key       func(t *testing.T) string
		wantValid bool
		wantTier  tier.Tier
	}{
		{
			name:     "no key",
			key:      func(*testing.T) string { return "" },
			wantTier: tier.Basic,
		},
		{
			name: "valid pro",
			key: func(t *testing.T) string {
				return signLicense(t, testSecret, jwt.MapClaims{"plan": "pro", "sub": "acme", "exp": now.Add(time.Hour).Unix()})
			},
			wantValid: true,
			wantTier:  tier.Pro,
		},
		{
			name: "expired pro",
			key: func(t *testing.T) string {
				return signLicense(t, testSecret, jwt.MapClaims{"plan": "pro", "exp": now.Add(-time.Hour).Unix()})
			},
			wantTier: tier.Basic,
		},
		{
			name: "wrong signature",
			key: func(t *testing.T) string {
				return signLicense(t, "other", jwt.MapClaims{"plan": "pro", "exp": now.Add(time.Hour).Unix()})
			},
			wantTier: tier.Basic,
		},
		{
			name: "missing expiry",
			key: func(t *testing.T) string {
				return signLicense(t, testSecret, jwt.MapClaims{"plan": "pro"})
			},
			wantTier: tier.Basic,
		},
		{
			name: "unknown plan",
			key: func(t *testing.T) string {
				return signLicense(t, testSecret, jwt.MapClaims{"plan": "enterprise", "exp": now.Add(time.Hour).Unix()})
			},
			wantValid: true,
			wantTier:  tier.Basic,
		},
		{
			name:     "garbage",
			key:      func(*testing.T) string { return "not-a-token" },
			wantTier: tier.Basic,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Verify(config.LicenseConfig{Key: tt.key(t), Secret: testSecret}, now)
			assert.Equal(t, tt.wantValid, got.Valid)
			assert.Equal(t, tt.wantTier, got.Tier())
		})
	}
}

func TestProviderExpiresMidRun(t *testing.T) {
	log.Init("DEBUG")
	now := time.Now()
	key := signLicense(t, testSecret, jwt.MapClaims{"plan": "pro", "exp": now.Add(time.Hour).Unix()})

	provider := NewProvider(config.LicenseConfig{Key: key, Secret: testSecret})
	assert.Equal(t, tier.Pro, provider.Current())

	provider.now = func() time.Time { return now.Add(2 * time.Hour) }
	assert.Equal(t, tier.Basic, provider.Current())
}
