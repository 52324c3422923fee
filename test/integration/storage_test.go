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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cookieconsent/consent-service/internal/consent_log/model"
	consentLogService "github.com/cookieconsent/consent-service/internal/consent_log/service"
	consentLogStore "github.com/cookieconsent/consent-service/internal/consent_log/store"
	settingsService "github.com/cookieconsent/consent-service/internal/settings/service"
	settingsStore "github.com/cookieconsent/consent-service/internal/settings/store"
	"github.com/cookieconsent/consent-service/internal/system/constants"
	"github.com/cookieconsent/consent-service/internal/system/database/lock"
	"github.com/cookieconsent/consent-service/internal/system/database/provider"
	"github.com/cookieconsent/consent-service/internal/tier"
)

func TestPostgresSettings_RoundTripAndClamp(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	svc := settingsService.NewSettingsService(settingsStore.NewPostgresSettingsStore(provider.NewDBProvider()))

	value, err := svc.Set(ctx, constants.SettingLanguages, []interface{}{"en", "fr", "de", "es"}, tier.Basic)
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "fr"}, value.List)

	_, err = svc.SetMany(ctx, map[string]interface{}{
		constants.SettingDurationDays: 9999,
		constants.SettingLoggingMode:  "live",
	}, tier.Pro)
	require.NoError(t, err)

	// A fresh service over the same table sees the persisted values.
	reread := settingsService.NewSettingsService(settingsStore.NewPostgresSettingsStore(provider.NewDBProvider()))
	effective, err := reread.Effective(ctx, tier.Basic)
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "fr"}, effective.List(constants.SettingLanguages))
	assert.Equal(t, 365, effective.Int(constants.SettingDurationDays))
	assert.Equal(t, constants.LoggingModeCached, effective.String(constants.SettingLoggingMode))

	pro, err := reread.Effective(ctx, tier.Pro)
	require.NoError(t, err)
	assert.Equal(t, 730, pro.Int(constants.SettingDurationDays))
	assert.Equal(t, constants.LoggingModeLive, pro.String(constants.SettingLoggingMode))
}

func TestPostgresConsentLog_AppendQueryPrune(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	dbProvider := provider.NewDBProvider()
	svc := consentLogService.NewConsentLogService(consentLogStore.NewPostgresConsentLogStore(dbProvider),
		lock.NewPostgresLock(dbProvider), time.Minute, time.Hour)

	old, err := svc.Append(ctx, model.ConsentRecord{
		IP: "198.51.100.4", Country: "US", Consent: "none", CreatedAt: time.Now().AddDate(-2, 0, 0),
	})
	require.NoError(t, err)
	_, err = svc.Append(ctx, model.ConsentRecord{
		IP: "198.51.100.5", Country: "DE", Consent: "full", Categories: []string{"necessary", "analytics"},
	})
	require.NoError(t, err)

	records, err := svc.Recent(ctx, 10, tier.Pro, constants.LoggingModeLive)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "198.51.100.5", records[0].IP)
	assert.Equal(t, []string{"necessary", "analytics"}, records[0].Categories)
	assert.Equal(t, old.ID, records[1].ID)

	basic, err := svc.Recent(ctx, 10, tier.Basic, constants.LoggingModeLive)
	require.NoError(t, err)
	assert.Equal(t, "198.***.***.5", basic[0].IP)

	stats, err := svc.Stats(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.True(t, stats.SeenEU)
	assert.True(t, stats.SeenUS)

	result, err := svc.Prune(ctx, 365, tier.Basic)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Deleted)

	result, err = svc.Prune(ctx, 365, tier.Basic)
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Deleted)
}

func TestPostgresLock_ExclusiveAcrossInstances(t *testing.T) {
	ctx := context.Background()
	first := lock.NewPostgresLock(provider.NewDBProvider())
	second := lock.NewPostgresLock(provider.NewDBProvider())

	acquired, err := first.Acquire(ctx, "consent_log:prune")
	require.NoError(t, err)
	require.True(t, acquired)

	acquired, err = second.Acquire(ctx, "consent_log:prune")
	require.NoError(t, err)
	assert.False(t, acquired)

	require.NoError(t, first.Release(ctx, "consent_log:prune"))

	acquired, err = second.Acquire(ctx, "consent_log:prune")
	require.NoError(t, err)
	assert.True(t, acquired)
	require.NoError(t, second.Release(ctx, "consent_log:prune"))
}
