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
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/cookieconsent/consent-service/internal/settings/model"
	"github.com/cookieconsent/consent-service/internal/settings/store"
	"github.com/cookieconsent/consent-service/internal/system/constants"
	errors2 "github.com/cookieconsent/consent-service/internal/system/errors"
	"github.com/cookieconsent/consent-service/internal/system/log"
	"github.com/cookieconsent/consent-service/internal/tier"
)

// SettingsServiceInterface is the typed configuration store.
type SettingsServiceInterface interface {
	Get(ctx context.Context, key string) (model.Value, error)
	All(ctx context.Context) (model.Settings, error)
	Effective(ctx context.Context, t tier.Tier) (model.Settings, error)
	Defaults() model.Settings
	Set(ctx context.Context, key string, input interface{}, t tier.Tier) (model.Value, error)
	SetMany(ctx context.Context, input map[string]interface{}, t tier.Tier) (model.Settings, error)
	SetLock(ctx context.Context, hash string) error
	Export(ctx context.Context, t tier.Tier) (model.ExportDocument, error)
	Import(ctx context.Context, doc model.ImportDocument, t tier.Tier) (model.ImportResult, error)
	ApplySetupStep(ctx context.Context, step string, input map[string]interface{}, t tier.Tier) (model.Settings, error)
}

// SettingsService sanitizes and clamps every value before it reaches the store, and re-validates every value it
// reads back.
type SettingsService struct {
	store store.SettingsStoreInterface
	now   func() time.Time
}

func NewSettingsService(settingsStore store.SettingsStoreInterface) *SettingsService {
	return &SettingsService{store: settingsStore, now: time.Now}
}

// setupSteps lists the keys each setup wizard step may write.
var setupSteps = map[string][]string{
	"languages": {
		constants.SettingLanguages,
		constants.SettingDefaultLanguage,
	},
	"categories": {
		constants.SettingCategories,
	},
	"appearance": {
		constants.SettingBannerEnabled,
		constants.SettingBannerMessage,
		constants.SettingBannerPosition,
		constants.SettingBannerTheme,
		constants.SettingPrivacyURL,
		constants.SettingRejectButton,
	},
	"compliance": {
		constants.SettingDurationDays,
		constants.SettingLoggingMode,
		constants.SettingLogRetentionDays,
		constants.SettingCCPAEnabled,
		constants.SettingLGPDEnabled,
		constants.SettingGCMEnabled,
	},
}

// Get returns the stored value for key coerced to its kind, or the default when unset.
func (s *SettingsService) Get(ctx context.Context, key string) (model.Value, error) {

	entry, ok := model.Lookup(key)
	if !ok {
		return model.Value{}, invalidSetting(fmt.Sprintf("Unknown setting: %s", key))
	}
	stored, err := s.store.GetAll(ctx)
	if err != nil {
		return model.Value{}, err
	}
	raw, ok := stored[key]
	if !ok {
		return s.Defaults()[key], nil
	}
	return model.Decode(entry, raw), nil
}

// All returns every setting as stored, coerced to its kind, with defaults for unset keys.
func (s *SettingsService) All(ctx context.Context) (model.Settings, error) {

	stored, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	settings := s.Defaults()
	for _, entry := range model.Schema() {
		if raw, ok := stored[entry.Key]; ok {
			settings[entry.Key] = model.Decode(entry, raw)
		}
	}
	return settings, nil
}

// Effective returns all settings clamped to the tier. Values that no longer validate read as their default.
func (s *SettingsService) Effective(ctx context.Context, t tier.Tier) (model.Settings, error) {

	settings, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	defaults := s.Defaults()
	for key, value := range settings {
		clamped, err := sanitizeValue(key, value, t)
		if err != nil {
			log.GetLogger().Debug("Stored setting is invalid, using default", log.String("key", key),
				log.Error(err))
			clamped, _ = sanitizeValue(key, defaults[key], t)
		}
		settings[key] = clamped
	}
	return settings, nil
}

func (s *SettingsService) Defaults() model.Settings {
	return model.Defaults()
}

// Set validates, clamps and persists a single setting, returning the value actually stored.
func (s *SettingsService) Set(ctx context.Context, key string, input interface{}, t tier.Tier) (model.Value, error) {

	updated, err := s.SetMany(ctx, map[string]interface{}{key: input}, t)
	if err != nil {
		return model.Value{}, err
	}
	return updated[key], nil
}

// SetMany validates every entry first and then writes them together. One bad entry rejects the whole update.
func (s *SettingsService) SetMany(ctx context.Context, input map[string]interface{},
	t tier.Tier) (model.Settings, error) {

	values := make(model.Settings, len(input))
	for key, raw := range input {
		if key == constants.SettingHashLock {
			return nil, invalidSetting("hash_lock is managed through the fingerprint lock")
		}
		value, err := prepare(key, raw, t)
		if err != nil {
			return nil, err
		}
		values[key] = value
	}
	if err := s.persist(ctx, values); err != nil {
		return nil, err
	}
	return values, nil
}

// SetLock stores the fingerprint lock. An empty hash clears it.
func (s *SettingsService) SetLock(ctx context.Context, hash string) error {

	value, err := prepare(constants.SettingHashLock, hash, tier.Basic)
	if err != nil {
		return err
	}
	return s.persist(ctx, model.Settings{constants.SettingHashLock: value})
}

// Export dumps the tier-clamped settings.
func (s *SettingsService) Export(ctx context.Context, t tier.Tier) (model.ExportDocument, error) {

	settings, err := s.Effective(ctx, t)
	if err != nil {
		return model.ExportDocument{}, err
	}
	return model.ExportDocument{
		Version:   constants.AppVersion,
		Timestamp: s.now().UTC().Format(time.RFC3339),
		Settings:  settings.Raw(),
	}, nil
}

// Import applies an exported document. Unknown keys and the fingerprint lock are skipped; any invalid known key
// rejects the whole import and nothing is written.
func (s *SettingsService) Import(ctx context.Context, doc model.ImportDocument,
	t tier.Tier) (model.ImportResult, error) {

	if doc.Settings == nil {
		return model.ImportResult{}, errors2.NewClientError(
			errors2.INVALID_JSON.WithDescription("settings object is required"), http.StatusBadRequest)
	}

	result := model.ImportResult{Applied: []string{}, Skipped: []string{}}
	values := make(model.Settings, len(doc.Settings))
	for key, raw := range doc.Settings {
		if _, known := model.Lookup(key); !known || key == constants.SettingHashLock {
			result.Skipped = append(result.Skipped, key)
			continue
		}
		value, err := prepare(key, raw, t)
		if err != nil {
			return model.ImportResult{}, err
		}
		values[key] = value
		result.Applied = append(result.Applied, key)
	}
	if len(result.Skipped) > 0 {
		log.GetLogger().Warn("Skipped settings during import", log.Any("keys", result.Skipped))
	}
	if err := s.persist(ctx, values); err != nil {
		return model.ImportResult{}, err
	}
	sort.Strings(result.Applied)
	sort.Strings(result.Skipped)
	return result, nil
}

// ApplySetupStep writes one setup wizard step. Each step accepts only its own keys.
func (s *SettingsService) ApplySetupStep(ctx context.Context, step string, input map[string]interface{},
	t tier.Tier) (model.Settings, error) {

	keys, ok := setupSteps[step]
	if !ok {
		return nil, errors2.NewClientError(
			errors2.INVALID_STEP.WithDescription(fmt.Sprintf("Unknown setup step: %s", step)), http.StatusBadRequest)
	}
	allowed := make(map[string]bool, len(keys))
	for _, key := range keys {
		allowed[key] = true
	}
	for key := range input {
		if !allowed[key] {
			return nil, invalidSetting(fmt.Sprintf("%s is not part of the %s step", key, step))
		}
	}
	return s.SetMany(ctx, input, t)
}

func (s *SettingsService) persist(ctx context.Context, values model.Settings) error {

	if len(values) == 0 {
		return nil
	}
	encoded := make(map[string]string, len(values))
	for key, value := range values {
		text, err := model.Encode(value)
		if err != nil {
			return errors2.NewServerError(errors2.MARSHAL_JSON.WithDescription(
				fmt.Sprintf("Failed to encode setting %s", key)), err)
		}
		encoded[key] = text
	}
	return s.store.Upsert(ctx, encoded)
}

// prepare turns administrator input into a sanitized, clamped value for key.
func prepare(key string, raw interface{}, t tier.Tier) (model.Value, error) {

	entry, ok := model.Lookup(key)
	if !ok {
		return model.Value{}, invalidSetting(fmt.Sprintf("Unknown setting: %s", key))
	}
	value, err := model.FromInput(entry, raw)
	if err != nil {
		return model.Value{}, invalidSetting(err.Error())
	}
	value, err = sanitizeValue(key, value, t)
	if err != nil {
		return model.Value{}, invalidSetting(err.Error())
	}
	return value, nil
}

func invalidSetting(description string) error {
	return errors2.NewClientError(errors2.INVALID_SETTING.WithDescription(description), http.StatusBadRequest)
}
