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
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/cookieconsent/consent-service/internal/consent/model"
	consentLogModel "github.com/cookieconsent/consent-service/internal/consent_log/model"
	settingsModel "github.com/cookieconsent/consent-service/internal/settings/model"
	"github.com/cookieconsent/consent-service/internal/system/constants"
	errors2 "github.com/cookieconsent/consent-service/internal/system/errors"
	"github.com/cookieconsent/consent-service/internal/system/ratelimit"
	"github.com/cookieconsent/consent-service/internal/tier"
	"github.com/cookieconsent/consent-service/internal/validator"
)

const maxConfigVersionLength = 128

var countryPattern = regexp.MustCompile(`^[A-Z]{2}$`)

// SettingsReader provides tier-clamped settings.
type SettingsReader interface {
	Effective(ctx context.Context, t tier.Tier) (settingsModel.Settings, error)
}

// FingerprintReader derives the effective fingerprint from a settings snapshot.
type FingerprintReader interface {
	EffectiveFrom(settings settingsModel.Settings) string
}

// ConsentLogWriter appends decisions to the log.
type ConsentLogWriter interface {
	Append(ctx context.Context, record consentLogModel.ConsentRecord) (consentLogModel.ConsentRecord, error)
	PruneIfDue(ctx context.Context, retentionDays int, t tier.Tier)
}

// ConsentServiceInterface decides what a visitor is shown and accepts their answer.
type ConsentServiceInterface interface {
	ResolveJurisdiction(country string) string
	PresentedCategories(settings settingsModel.Settings, law string) []model.ConsentCategory
	HasValidPriorConsent(cookie *model.ConsentCookie, fingerprint string) bool
	Banner(ctx context.Context, req model.RequestContext) (model.BannerView, error)
	Submit(ctx context.Context, req model.RequestContext, submission model.Submission) (model.Decision, error)
}

type ConsentService struct {
	settings      SettingsReader
	fingerprints  FingerprintReader
	logs          ConsentLogWriter
	limiter       ratelimit.Limiter
	jurisdictions *JurisdictionResolver
	now           func() time.Time
}

func NewConsentService(settings SettingsReader, fingerprints FingerprintReader, logs ConsentLogWriter,
	limiter ratelimit.Limiter, jurisdictions *JurisdictionResolver) *ConsentService {
	return &ConsentService{
		settings:      settings,
		fingerprints:  fingerprints,
		logs:          logs,
		limiter:       limiter,
		jurisdictions: jurisdictions,
		now:           time.Now,
	}
}

// NormalizeCountry upper-cases a two letter code. Anything else becomes the unknown country.
func NormalizeCountry(country string) string {
	code := strings.ToUpper(strings.TrimSpace(country))
	if !countryPattern.MatchString(code) {
		return constants.UnknownCountry
	}
	return code
}

func (s *ConsentService) ResolveJurisdiction(country string) string {
	return s.jurisdictions.Resolve(NormalizeCountry(country))
}

// PresentedCategories lists what the banner offers: necessary first, then the configured categories. The
// do-not-sell option only appears where CCPA governs and is enabled.
func (s *ConsentService) PresentedCategories(settings settingsModel.Settings,
	law string) []model.ConsentCategory {

	necessary, _ := model.LookupCategory(constants.CategoryNecessary)
	presented := []model.ConsentCategory{necessary}
	for _, slug := range settings.List(constants.SettingCategories) {
		if slug == constants.CategoryNecessary {
			continue
		}
		if slug == constants.CategoryDoNotSell &&
			(law != constants.LawCCPA || !settings.Bool(constants.SettingCCPAEnabled)) {
			continue
		}
		if category, ok := model.LookupCategory(slug); ok {
			presented = append(presented, category)
		}
	}
	return presented
}

// HasValidPriorConsent reports whether the visitor answered against the fingerprint now in effect. Any mismatch
// means the banner must ask again.
func (s *ConsentService) HasValidPriorConsent(cookie *model.ConsentCookie, fingerprint string) bool {
	return cookie != nil && cookie.Version != "" && cookie.Version == fingerprint
}

func (s *ConsentService) Banner(ctx context.Context, req model.RequestContext) (model.BannerView, error) {

	settings, err := s.settings.Effective(ctx, req.Tier)
	if err != nil {
		return model.BannerView{}, err
	}
	country := NormalizeCountry(req.Country)
	law := s.jurisdictions.Resolve(country)
	fingerprint := s.fingerprints.EffectiveFrom(settings)
	enabled := settings.Bool(constants.SettingBannerEnabled)

	return model.BannerView{
		Enabled:           enabled,
		Law:               law,
		Country:           country,
		Categories:        s.PresentedCategories(settings, law),
		Fingerprint:       fingerprint,
		PromptRequired:    enabled && !s.HasValidPriorConsent(req.Cookie, fingerprint),
		DurationDays:      settings.Int(constants.SettingDurationDays),
		Message:           settings.String(constants.SettingBannerMessage),
		Position:          settings.String(constants.SettingBannerPosition),
		Theme:             settings.Theme(constants.SettingBannerTheme),
		Languages:         settings.List(constants.SettingLanguages),
		DefaultLanguage:   settings.String(constants.SettingDefaultLanguage),
		PrivacyURL:        settings.String(constants.SettingPrivacyURL),
		RejectButton:      settings.Bool(constants.SettingRejectButton),
		GoogleConsentMode: settings.Bool(constants.SettingGCMEnabled),
	}, nil
}

// Submit validates a visitor's answer and logs it. Rejections write nothing.
func (s *ConsentService) Submit(ctx context.Context, req model.RequestContext,
	submission model.Submission) (model.Decision, error) {

	if req.Method != http.MethodPost {
		return model.Decision{}, errors2.NewClientError(errors2.METHOD_NOT_ALLOWED, http.StatusMethodNotAllowed)
	}

	allowed, err := s.limiter.Allow(ctx, req.IP)
	if err != nil {
		return model.Decision{}, errors2.NewServerError(errors2.RATE_LIMIT_BACKEND, err)
	}
	if !allowed {
		return model.Decision{}, errors2.NewClientError(errors2.RATE_LIMITED, http.StatusTooManyRequests)
	}

	consent := strings.ToLower(strings.TrimSpace(submission.Consent))
	if !constants.AllowedConsentValues[consent] {
		return model.Decision{}, errors2.NewClientError(errors2.INVALID_CONSENT, http.StatusBadRequest)
	}

	settings, err := s.settings.Effective(ctx, req.Tier)
	if err != nil {
		return model.Decision{}, err
	}
	country := NormalizeCountry(req.Country)
	presented := s.PresentedCategories(settings, s.jurisdictions.Resolve(country))
	accepted := acceptedCategories(presented, submission.Categories, consent)

	configVersion := truncate(validator.SanitizeText(submission.ConfigVersion), maxConfigVersionLength)
	if configVersion == "" {
		configVersion = s.fingerprints.EffectiveFrom(settings)
	}

	record, err := s.logs.Append(ctx, consentLogModel.ConsentRecord{
		IP:            req.IP,
		Country:       country,
		Consent:       consent,
		Categories:    accepted,
		ConfigVersion: configVersion,
		CreatedAt:     s.now().UTC(),
	})
	if err != nil {
		return model.Decision{}, err
	}
	s.logs.PruneIfDue(ctx, settings.Int(constants.SettingLogRetentionDays), req.Tier)

	cookie := model.ConsentCookie{
		Version:    record.ConfigVersion,
		Categories: make(map[string]bool, len(presented)),
	}
	for _, category := range presented {
		cookie.Categories[category.Slug] = false
	}
	for _, slug := range accepted {
		cookie.Categories[slug] = true
	}
	cookie.DNS = cookie.Categories[constants.CategoryDoNotSell]

	return model.Decision{
		RecordID:      record.ID,
		Consent:       record.Consent,
		Categories:    record.Categories,
		ConfigVersion: record.ConfigVersion,
		Cookie:        cookie,
		DurationDays:  settings.Int(constants.SettingDurationDays),
	}, nil
}

// acceptedCategories keeps the submitted slugs that were actually offered, in submission order, with necessary
// always first. The cookie's short `dns` name counts as donotsell. Declining everything keeps necessary only.
func acceptedCategories(presented []model.ConsentCategory, submitted []string, consent string) []string {

	accepted := []string{constants.CategoryNecessary}
	if consent == constants.ConsentNone {
		return accepted
	}
	offered := make(map[string]bool, len(presented))
	for _, category := range presented {
		offered[category.Slug] = true
	}
	seen := map[string]bool{constants.CategoryNecessary: true}
	for _, slug := range submitted {
		slug = strings.ToLower(strings.TrimSpace(slug))
		if slug == constants.CategoryDoNotSellAlias {
			slug = constants.CategoryDoNotSell
		}
		if !offered[slug] || seen[slug] {
			continue
		}
		seen[slug] = true
		accepted = append(accepted, slug)
	}
	return accepted
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
