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

package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cookieconsent/consent-service/internal/settings/model"
	"github.com/cookieconsent/consent-service/internal/settings/store"
	"github.com/cookieconsent/consent-service/internal/system/constants"
	errors2 "github.com/cookieconsent/consent-service/internal/system/errors"
	"github.com/cookieconsent/consent-service/internal/system/log"
	"github.com/cookieconsent/consent-service/internal/tier"
)

// MockSettingsStore implements store.SettingsStoreInterface for testing
type MockSettingsStore struct {
	mock.Mock
}

func (m *MockSettingsStore) GetAll(ctx context.Context) (map[string]string, error) {
	args := m.Called(ctx)
	values, _ := args.Get(0).(map[string]string)
	return values, args.Error(1)
}

func (m *MockSettingsStore) Upsert(ctx context.Context, values map[string]string) error {
	args := m.Called(ctx, values)
	return args.Error(0)
}

func (m *MockSettingsStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func newMemoryService() (*SettingsService, *store.InMemorySettingsStore) {
	memory := store.NewInMemorySettingsStore()
	return NewSettingsService(memory), memory
}

func TestSetLanguages_BasicKeepsFirstTwo(t *testing.T) {
	log.Init("DEBUG")
	ctx := context.Background()
	svc, memory := newMemoryService()

	value, err := svc.Set(ctx, constants.SettingLanguages, []interface{}{"en", "fr", "de", "es"}, tier.Basic)
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "fr"}, value.List)

	stored, _ := memory.GetAll(ctx)
	assert.JSONEq(t, `["en","fr"]`, stored[constants.SettingLanguages])

	got, err := svc.Get(ctx, constants.SettingLanguages)
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "fr"}, got.List)
}

func TestSetLanguages_ProKeepsAll(t *testing.T) {
	svc, _ := newMemoryService()
	value, err := svc.Set(context.Background(), constants.SettingLanguages, "en,fr-ca,de,es", tier.Pro)
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "fr_CA", "de", "es"}, value.List)
}

func TestGet_CoercesCorruptedStructuredValues(t *testing.T) {
	ctx := context.Background()
	svc, memory := newMemoryService()
	require.NoError(t, memory.Upsert(ctx, map[string]string{
		constants.SettingCategories:   `"analytics"`,
		constants.SettingLanguages:    `{"en":true}`,
		constants.SettingBannerTheme:  `42`,
		constants.SettingDurationDays: `"soon"`,
	}))

	categories, err := svc.Get(ctx, constants.SettingCategories)
	require.NoError(t, err)
	assert.Equal(t, model.KindList, categories.Kind)
	assert.Empty(t, categories.List)

	languages, _ := svc.Get(ctx, constants.SettingLanguages)
	assert.Empty(t, languages.List)

	theme, _ := svc.Get(ctx, constants.SettingBannerTheme)
	assert.Equal(t, model.Theme{}, theme.Theme)

	duration, _ := svc.Get(ctx, constants.SettingDurationDays)
	assert.Equal(t, 180, duration.Int)
}

func TestGet_UnknownKey(t *testing.T) {
	svc, _ := newMemoryService()
	_, err := svc.Get(context.Background(), "colour_scheme")
	assert.True(t, errors2.HasCode(err, errors2.INVALID_SETTING.Code))
}

func TestEffective_ClampsStoredValuesToTier(t *testing.T) {
	ctx := context.Background()
	svc, memory := newMemoryService()
	require.NoError(t, memory.Upsert(ctx, map[string]string{
		constants.SettingDurationDays:  `700`,
		constants.SettingLoggingMode:   `"live"`,
		constants.SettingCCPAEnabled:   `true`,
		constants.SettingCategories:    `["analytics","chatbot"]`,
		constants.SettingBannerTheme:   `"broken"`,
		constants.SettingBannerMessage: `"  Hello <script>x()</script>world "`,
	}))

	basic, err := svc.Effective(ctx, tier.Basic)
	require.NoError(t, err)
	assert.Equal(t, 365, basic.Int(constants.SettingDurationDays))
	assert.Equal(t, "cached", basic.String(constants.SettingLoggingMode))
	assert.False(t, basic.Bool(constants.SettingCCPAEnabled))
	assert.Equal(t, []string{"necessary", "analytics"}, basic.List(constants.SettingCategories))
	assert.Equal(t, model.DefaultTheme, basic.Theme(constants.SettingBannerTheme))
	assert.Equal(t, "Hello world", basic.String(constants.SettingBannerMessage))

	pro, err := svc.Effective(ctx, tier.Pro)
	require.NoError(t, err)
	assert.Equal(t, 700, pro.Int(constants.SettingDurationDays))
	assert.Equal(t, "live", pro.String(constants.SettingLoggingMode))
	assert.True(t, pro.Bool(constants.SettingCCPAEnabled))
	assert.Equal(t, []string{"necessary", "analytics", "chatbot"}, pro.List(constants.SettingCategories))
}

func TestSet_SanitizesBeforePersisting(t *testing.T) {
	ctx := context.Background()
	svc, memory := newMemoryService()

	theme, err := svc.Set(ctx, constants.SettingBannerTheme, map[string]interface{}{
		"color": "RED", "bg": "url(javascript:x)", "font_size": 99,
	}, tier.Basic)
	require.NoError(t, err)
	assert.Equal(t, model.Theme{Color: "red", Background: "#1d2327", Font: "inherit", FontSize: 32}, theme.Theme)

	_, err = svc.Set(ctx, constants.SettingPrivacyURL, "javascript:alert(1)", tier.Basic)
	assert.True(t, errors2.HasCode(err, errors2.INVALID_SETTING.Code))

	_, err = svc.Set(ctx, constants.SettingBannerPosition, "left", tier.Basic)
	assert.True(t, errors2.HasCode(err, errors2.INVALID_SETTING.Code))

	_, err = svc.Set(ctx, constants.SettingDurationDays, []interface{}{"x"}, tier.Basic)
	assert.True(t, errors2.HasCode(err, errors2.INVALID_SETTING.Code))

	stored, _ := memory.GetAll(ctx)
	assert.NotContains(t, stored, constants.SettingPrivacyURL)
	assert.NotContains(t, stored, constants.SettingBannerPosition)
}

func TestSet_OversizedNumbersClampToCeiling(t *testing.T) {
	ctx := context.Background()
	svc, _ := newMemoryService()

	tests := []struct {
		name  string
		key   string
		input interface{}
		plan  tier.Tier
		want  int
	}{
		{name: "retention beyond int range", key: constants.SettingLogRetentionDays, input: float64(1e20),
			plan: tier.Pro, want: 3650},
		{name: "retention above ceiling", key: constants.SettingLogRetentionDays, input: float64(99999),
			plan: tier.Pro, want: 3650},
		{name: "duration beyond int range", key: constants.SettingDurationDays, input: float64(1e20),
			plan: tier.Basic, want: 365},
		{name: "duration infinite", key: constants.SettingDurationDays, input: math.Inf(1),
			plan: tier.Basic, want: 365},
		{name: "retention hugely negative", key: constants.SettingLogRetentionDays, input: float64(-1e20),
			plan: tier.Pro, want: 1},
		{name: "retention overflowing string", key: constants.SettingLogRetentionDays,
			input: "99999999999999999999999", plan: tier.Basic, want: 365},
		{name: "retention exponent string", key: constants.SettingLogRetentionDays, input: "1e20",
			plan: tier.Pro, want: 3650},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := svc.Set(ctx, tt.key, tt.input, tt.plan)
			require.NoError(t, err)
			assert.Equal(t, tt.want, value.Int)

			stored, err := svc.Get(ctx, tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stored.Int)
		})
	}

	_, err := svc.Set(ctx, constants.SettingLogRetentionDays, math.NaN(), tier.Pro)
	assert.True(t, errors2.HasCode(err, errors2.INVALID_SETTING.Code))

	theme, err := svc.Set(ctx, constants.SettingBannerTheme, map[string]interface{}{"font_size": float64(1e20)},
		tier.Basic)
	require.NoError(t, err)
	assert.Equal(t, model.MaxFontSize, theme.Theme.FontSize)
}

func TestSetMany_RejectsWholeUpdate(t *testing.T) {
	mockStore := new(MockSettingsStore)
	svc := SettingsService{store: mockStore, now: time.Now}

	_, err := svc.SetMany(context.Background(), map[string]interface{}{
		constants.SettingBannerEnabled:  false,
		constants.SettingBannerPosition: "sideways",
	}, tier.Pro)

	assert.True(t, errors2.HasCode(err, errors2.INVALID_SETTING.Code))
	mockStore.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestSetMany_StoreFailure(t *testing.T) {
	mockStore := new(MockSettingsStore)
	svc := SettingsService{store: mockStore, now: time.Now}
	storeErr := errors2.NewServerError(errors2.UPDATE_SETTINGS, errors.New("connection reset"))
	mockStore.On("Upsert", mock.Anything, mock.Anything).Return(storeErr)

	_, err := svc.SetMany(context.Background(), map[string]interface{}{constants.SettingGCMEnabled: true}, tier.Pro)

	var serverError *errors2.ServerError
	assert.ErrorAs(t, err, &serverError)
	mockStore.AssertExpectations(t)
}

func TestHashLock_OnlyThroughSetLock(t *testing.T) {
	ctx := context.Background()
	svc, _ := newMemoryService()
	hash := "3f1a6c0f9d0b6b8f2f8e0b2c4d6e8f0a1b3c5d7e9f0a2b4c6d8e0f1a3b5c7d9e"

	_, err := svc.Set(ctx, constants.SettingHashLock, hash, tier.Pro)
	assert.True(t, errors2.HasCode(err, errors2.INVALID_SETTING.Code))

	require.NoError(t, svc.SetLock(ctx, hash))
	lock, _ := svc.Get(ctx, constants.SettingHashLock)
	assert.Equal(t, hash, lock.Str)

	assert.Error(t, svc.SetLock(ctx, "not-a-hash"))

	require.NoError(t, svc.SetLock(ctx, ""))
	lock, _ = svc.Get(ctx, constants.SettingHashLock)
	assert.Empty(t, lock.Str)
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	svc, memory := newMemoryService()

	result, err := svc.Import(ctx, model.ImportDocument{
		Version: "1.0.0",
		Settings: map[string]interface{}{
			constants.SettingDurationDays: float64(500),
			constants.SettingHashLock:     "abc",
			"legacy_option":               "x",
		},
	}, tier.Basic)
	require.NoError(t, err)
	assert.Equal(t, []string{constants.SettingDurationDays}, result.Applied)
	assert.Equal(t, []string{constants.SettingHashLock, "legacy_option"}, result.Skipped)

	duration, _ := svc.Get(ctx, constants.SettingDurationDays)
	assert.Equal(t, 365, duration.Int)

	_, err = svc.Import(ctx, model.ImportDocument{Settings: map[string]interface{}{
		constants.SettingBannerEnabled:  false,
		constants.SettingBannerPosition: 12,
	}}, tier.Basic)
	assert.Error(t, err)
	stored, _ := memory.GetAll(ctx)
	assert.NotContains(t, stored, constants.SettingBannerEnabled)

	_, err = svc.Import(ctx, model.ImportDocument{}, tier.Basic)
	assert.True(t, errors2.HasCode(err, errors2.INVALID_JSON.Code))
}

func TestExport(t *testing.T) {
	svc, _ := newMemoryService()
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	doc, err := svc.Export(context.Background(), tier.Basic)
	require.NoError(t, err)
	assert.Equal(t, constants.AppVersion, doc.Version)
	assert.Equal(t, "2026-03-01T12:00:00Z", doc.Timestamp)
	assert.Equal(t, 180, doc.Settings[constants.SettingDurationDays])
	assert.Len(t, doc.Settings, len(model.Schema()))
}

func TestApplySetupStep(t *testing.T) {
	ctx := context.Background()
	svc, _ := newMemoryService()

	_, err := svc.ApplySetupStep(ctx, "billing", map[string]interface{}{}, tier.Basic)
	assert.True(t, errors2.HasCode(err, errors2.INVALID_STEP.Code))

	_, err = svc.ApplySetupStep(ctx, "languages", map[string]interface{}{
		constants.SettingDurationDays: 30,
	}, tier.Basic)
	assert.True(t, errors2.HasCode(err, errors2.INVALID_SETTING.Code))

	updated, err := svc.ApplySetupStep(ctx, "compliance", map[string]interface{}{
		constants.SettingLogRetentionDays: 5000,
		constants.SettingLGPDEnabled:      true,
	}, tier.Basic)
	require.NoError(t, err)
	assert.Equal(t, 365, updated.Int(constants.SettingLogRetentionDays))
	assert.False(t, updated.Bool(constants.SettingLGPDEnabled))
}
