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

//go:build integration

package integration

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cookieconsent/consent-service/internal/consent/model"
	"github.com/cookieconsent/consent-service/internal/system/config"
	"github.com/cookieconsent/consent-service/internal/system/constants"
	"github.com/cookieconsent/consent-service/internal/system/managers"
	"github.com/cookieconsent/consent-service/internal/tier"
)

func TestConsentSubmission_PostgresAndRedis(t *testing.T) {
	resetTables(t)
	ctx := context.Background()

	cfg := config.Default()
	cfg.Storage.Type = constants.StoragePostgres
	cfg.RateLimit.Backend = constants.RateLimitRedis
	cfg.Redis.Addr = rdb.Client.Options().Addr
	deps, err := managers.BuildDependencies(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, deps.Health.CheckReadiness(ctx))

	req := model.RequestContext{Method: http.MethodPost, IP: "192.0.2.44", Country: "de", Tier: tier.Basic}
	decision, err := deps.Consent.Submit(ctx, req, model.Submission{
		Consent:       "full",
		Categories:    model.SplitSlugs("necessary,analytics"),
		ConfigVersion: "abc123",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"necessary", "analytics"}, decision.Categories)

	records, err := deps.ConsentLogs.Recent(ctx, 5, tier.Pro, constants.LoggingModeLive)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "full", records[0].Consent)
	assert.Equal(t, "DE", records[0].Country)
	assert.Equal(t, "abc123", records[0].ConfigVersion)

	_, err = deps.Consent.Submit(ctx, req, model.Submission{Consent: ""})
	require.Error(t, err)
	records, err = deps.ConsentLogs.Recent(ctx, 5, tier.Pro, constants.LoggingModeLive)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
