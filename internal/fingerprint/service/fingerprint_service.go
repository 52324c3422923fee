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

	consentModel "github.com/cookieconsent/consent-service/internal/consent/model"
	"github.com/cookieconsent/consent-service/internal/fingerprint/model"
	settingsModel "github.com/cookieconsent/consent-service/internal/settings/model"
	"github.com/cookieconsent/consent-service/internal/system/constants"
	"github.com/cookieconsent/consent-service/internal/tier"
)

// SettingsReader is the part of the settings service the fingerprint needs.
type SettingsReader interface {
	Effective(ctx context.Context, t tier.Tier) (settingsModel.Settings, error)
	SetLock(ctx context.Context, hash string) error
}

// FingerprintServiceInterface computes, locks and reports the consent policy fingerprint.
type FingerprintServiceInterface interface {
	CurrentPolicy(settings settingsModel.Settings) model.EffectivePolicy
	EffectiveFrom(settings settingsModel.Settings) string
	Computed(ctx context.Context, t tier.Tier) (string, error)
	Effective(ctx context.Context, t tier.Tier) (string, error)
	Lock(ctx context.Context, t tier.Tier) (string, error)
	Unlock(ctx context.Context, t tier.Tier) (string, error)
	Status(ctx context.Context, t tier.Tier) (model.Status, error)
}

// FingerprintService is the single place the policy hash is derived. Banner rendering, submission checks and the
// admin views all go through it.
type FingerprintService struct {
	settings       SettingsReader
	includeMessage bool
}

// NewFingerprintService creates the service. includeMessage adds the normalized banner text to the policy.
func NewFingerprintService(settings SettingsReader, includeMessage bool) *FingerprintService {
	return &FingerprintService{settings: settings, includeMessage: includeMessage}
}

// CurrentPolicy derives the policy from tier-clamped settings.
func (s *FingerprintService) CurrentPolicy(settings settingsModel.Settings) model.EffectivePolicy {

	slugs := settings.List(constants.SettingCategories)
	categories := []string{model.CategoryEntry(constants.CategoryNecessary, true)}
	for _, slug := range slugs {
		if slug == constants.CategoryNecessary {
			continue
		}
		categories = append(categories, model.CategoryEntry(slug, consentModel.IsRequired(slug)))
	}

	features := []string{}
	if settings.Bool(constants.SettingCCPAEnabled) {
		features = append(features, constants.FeatureCCPA)
	}
	if settings.Bool(constants.SettingLGPDEnabled) {
		features = append(features, constants.FeatureLGPD)
	}
	if settings.Bool(constants.SettingGCMEnabled) {
		features = append(features, constants.FeatureGCM)
	}
	if settings.Bool(constants.SettingRejectButton) {
		features = append(features, constants.FeatureRejectAll)
	}

	policy := model.EffectivePolicy{
		Categories:   categories,
		DurationDays: settings.Int(constants.SettingDurationDays),
		Features:     features,
	}
	if s.includeMessage {
		message := settings.String(constants.SettingBannerMessage)
		policy.Message = &message
	}
	return policy
}

// EffectiveFrom returns the locked hash when one is set, else the hash of the current policy.
func (s *FingerprintService) EffectiveFrom(settings settingsModel.Settings) string {
	if lock := settings.String(constants.SettingHashLock); lock != "" {
		return lock
	}
	return model.ComputeFingerprint(s.CurrentPolicy(settings))
}

func (s *FingerprintService) Computed(ctx context.Context, t tier.Tier) (string, error) {
	settings, err := s.settings.Effective(ctx, t)
	if err != nil {
		return "", err
	}
	return model.ComputeFingerprint(s.CurrentPolicy(settings)), nil
}

func (s *FingerprintService) Effective(ctx context.Context, t tier.Tier) (string, error) {
	settings, err := s.settings.Effective(ctx, t)
	if err != nil {
		return "", err
	}
	return s.EffectiveFrom(settings), nil
}

// Lock freezes the current computed hash and returns it.
func (s *FingerprintService) Lock(ctx context.Context, t tier.Tier) (string, error) {
	computed, err := s.Computed(ctx, t)
	if err != nil {
		return "", err
	}
	if err := s.settings.SetLock(ctx, computed); err != nil {
		return "", err
	}
	return computed, nil
}

// Unlock clears the lock and returns the now effective computed hash.
func (s *FingerprintService) Unlock(ctx context.Context, t tier.Tier) (string, error) {
	if err := s.settings.SetLock(ctx, ""); err != nil {
		return "", err
	}
	return s.Computed(ctx, t)
}

func (s *FingerprintService) Status(ctx context.Context, t tier.Tier) (model.Status, error) {
	settings, err := s.settings.Effective(ctx, t)
	if err != nil {
		return model.Status{}, err
	}
	computed := model.ComputeFingerprint(s.CurrentPolicy(settings))
	effective := s.EffectiveFrom(settings)
	return model.Status{
		Effective: effective,
		Computed:  computed,
		Locked:    settings.String(constants.SettingHashLock) != "",
		Drifted:   effective != computed,
	}, nil
}
