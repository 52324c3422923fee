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
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cookieconsent/consent-service/internal/consent/model"
	consentLogModel "github.com/cookieconsent/consent-service/internal/consent_log/model"
	consentLogService "github.com/cookieconsent/consent-service/internal/consent_log/service"
	consentLogStore "github.com/cookieconsent/consent-service/internal/consent_log/store"
	fingerprintService "github.com/cookieconsent/consent-service/internal/fingerprint/service"
	settingsService "github.com/cookieconsent/consent-service/internal/settings/service"
	settingsStore "github.com/cookieconsent/consent-service/internal/settings/store"
	"github.com/cookieconsent/consent-service/internal/system/config"
	"github.com/cookieconsent/consent-service/internal/system/constants"
	errors2 "github.com/cookieconsent/consent-service/internal/system/errors"
	"github.com/cookieconsent/consent-service/internal/system/ratelimit"
	"github.com/cookieconsent/consent-service/internal/tier"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	svc         *ConsentService
	settings    *settingsService.SettingsService
	fingerprint *fingerprintService.FingerprintService
	logStore    *consentLogStore.InMemoryConsentLogStore
	clock       *fakeClock
}

func newFixture(t *testing.T) fixture {
	clock := &fakeClock{now: time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)}
	settings := settingsService.NewSettingsService(settingsStore.NewInMemorySettingsStore())
	fingerprint := fingerprintService.NewFingerprintService(settings, false)
	logStore := consentLogStore.NewInMemoryConsentLogStore()
	logs := consentLogService.NewConsentLogService(logStore, nil, time.Minute, time.Hour)
	limiter := ratelimit.NewInMemoryWithClock(constants.SubmissionRateLimit, constants.SubmissionRateWindow, clock.Now)
	resolver, err := NewJurisdictionResolver(config.Default().Jurisdictions)
	require.NoError(t, err)

	svc := NewConsentService(settings, fingerprint, logs, limiter, resolver)
	svc.now = clock.Now
	return fixture{svc: svc, settings: settings, fingerprint: fingerprint, logStore: logStore, clock: clock}
}

func (f fixture) records(t *testing.T) []consentLogModel.ConsentRecord {
	records, err := f.logStore.Find(context.Background(), consentLogModel.RecordQuery{})
	require.NoError(t, err)
	return records
}

func post(ip, country string, t tier.Tier) model.RequestContext {
	return model.RequestContext{Method: http.MethodPost, IP: ip, Country: country, Tier: t}
}

func TestSubmit_RecordsDecision(t *testing.T) {
	f := newFixture(t)

	decision, err := f.svc.Submit(context.Background(), post("198.51.100.7", "de", tier.Basic), model.Submission{
		Consent:       "full",
		Categories:    model.SplitSlugs("necessary,analytics"),
		ConfigVersion: "abc123",
	})
	require.NoError(t, err)

	records := f.records(t)
	require.Len(t, records, 1)
	assert.Equal(t, "full", records[0].Consent)
	assert.Equal(t, []string{"necessary", "analytics"}, records[0].Categories)
	assert.Equal(t, "abc123", records[0].ConfigVersion)
	assert.Equal(t, "DE", records[0].Country)
	assert.Equal(t, "198.51.100.7", records[0].IP)

	assert.Equal(t, records[0].ID, decision.RecordID)
	assert.Equal(t, "abc123", decision.Cookie.Version)
	assert.Equal(t, map[string]bool{
		"necessary": true, "functional": false, "analytics": true, "advertising": false,
	}, decision.Cookie.Categories)
	assert.False(t, decision.Cookie.DNS)
	assert.Equal(t, 180, decision.DurationDays)
}

func TestSubmit_RejectsMissingConsentWithoutWriting(t *testing.T) {
	f := newFixture(t)
	for _, consent := range []string{"", "  ", "maybe"} {
		_, err := f.svc.Submit(context.Background(), post("198.51.100.7", "DE", tier.Basic), model.Submission{
			Consent:    consent,
			Categories: model.SplitSlugs("necessary"),
		})
		assert.True(t, errors2.HasCode(err, errors2.INVALID_CONSENT.Code), "consent %q", consent)
	}
	assert.Empty(t, f.records(t))
}

func TestSubmit_MethodMustBePost(t *testing.T) {
	f := newFixture(t)
	req := post("198.51.100.7", "DE", tier.Basic)
	req.Method = http.MethodGet

	_, err := f.svc.Submit(context.Background(), req, model.Submission{Consent: "full"})
	var clientError *errors2.ClientError
	require.ErrorAs(t, err, &clientError)
	assert.Equal(t, http.StatusMethodNotAllowed, clientError.StatusCode)
	assert.Equal(t, "method_not_allowed", clientError.Code)
	assert.Empty(t, f.records(t))
}

func TestSubmit_RateLimitBoundary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	submit := func(ip string) error {
		_, err := f.svc.Submit(ctx, post(ip, "DE", tier.Basic), model.Submission{Consent: "none"})
		return err
	}

	for i := 0; i < 5; i++ {
		require.NoError(t, submit("203.0.113.1"))
	}
	err := submit("203.0.113.1")
	var clientError *errors2.ClientError
	require.ErrorAs(t, err, &clientError)
	assert.Equal(t, "rate_limited", clientError.Code)
	assert.Equal(t, http.StatusTooManyRequests, clientError.StatusCode)
	assert.Len(t, f.records(t), 5)

	require.NoError(t, submit("203.0.113.2"))

	f.clock.Advance(constants.SubmissionRateWindow)
	require.NoError(t, submit("203.0.113.1"))
	assert.Len(t, f.records(t), 7)
}

func TestSubmit_FiltersCategories(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	decision, err := f.svc.Submit(ctx, post("198.51.100.7", "FR", tier.Basic), model.Submission{
		Consent:    "partial",
		Categories: model.SplitSlugs("advertising, bogus, chatbot,ANALYTICS,advertising"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"necessary", "advertising", "analytics"}, decision.Categories)

	decision, err = f.svc.Submit(ctx, post("198.51.100.8", "FR", tier.Basic), model.Submission{
		Consent:    "none",
		Categories: model.SplitSlugs("analytics"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"necessary"}, decision.Categories)
}

func TestSubmit_AcceptsDNSAsDoNotSell(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.settings.SetMany(ctx, map[string]interface{}{
		constants.SettingCategories:  []interface{}{"analytics", "donotsell"},
		constants.SettingCCPAEnabled: true,
	}, tier.Pro)
	require.NoError(t, err)

	decision, err := f.svc.Submit(ctx, post("198.51.100.7", "US", tier.Pro), model.Submission{
		Consent:    "partial",
		Categories: model.SplitSlugs("dns,DNS,donotsell"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"necessary", "donotsell"}, decision.Categories)
	assert.True(t, decision.Cookie.DNS)
	assert.Equal(t, []string{"necessary", "donotsell"}, f.records(t)[0].Categories)

	// Outside CCPA donotsell is not offered, so the alias is dropped like any other unknown slug.
	decision, err = f.svc.Submit(ctx, post("198.51.100.8", "FR", tier.Pro), model.Submission{
		Consent:    "partial",
		Categories: model.SplitSlugs("dns"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"necessary"}, decision.Categories)
	assert.False(t, decision.Cookie.DNS)
}

func TestSubmit_EmptyVersionUsesEffectiveFingerprint(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	effective, err := f.fingerprint.Effective(ctx, tier.Basic)
	require.NoError(t, err)

	decision, err := f.svc.Submit(ctx, post("198.51.100.7", "", tier.Basic), model.Submission{Consent: "full"})
	require.NoError(t, err)
	assert.Equal(t, effective, decision.ConfigVersion)
	assert.Equal(t, constants.UnknownCountry, f.records(t)[0].Country)
}

func TestPresentedCategories_DoNotSell(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.settings.SetMany(ctx, map[string]interface{}{
		constants.SettingCategories:  []interface{}{"analytics", "donotsell"},
		constants.SettingCCPAEnabled: true,
	}, tier.Pro)
	require.NoError(t, err)

	slugs := func(categories []model.ConsentCategory) []string {
		result := []string{}
		for _, category := range categories {
			result = append(result, category.Slug)
		}
		return result
	}

	pro, _ := f.settings.Effective(ctx, tier.Pro)
	assert.Equal(t, []string{"necessary", "analytics", "donotsell"},
		slugs(f.svc.PresentedCategories(pro, f.svc.ResolveJurisdiction("US"))))
	assert.Equal(t, []string{"necessary", "analytics"},
		slugs(f.svc.PresentedCategories(pro, f.svc.ResolveJurisdiction("DE"))))

	basic, _ := f.settings.Effective(ctx, tier.Basic)
	assert.Equal(t, []string{"necessary", "analytics"},
		slugs(f.svc.PresentedCategories(basic, f.svc.ResolveJurisdiction("US"))))

	decision, err := f.svc.Submit(ctx, post("198.51.100.7", "US", tier.Pro), model.Submission{
		Consent:    "partial",
		Categories: model.SplitSlugs("donotsell"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"necessary", "donotsell"}, decision.Categories)
	assert.True(t, decision.Cookie.DNS)
}

func TestBanner_RepromptsOnFingerprintChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := model.RequestContext{Method: http.MethodGet, IP: "198.51.100.7", Country: "US", Tier: tier.Basic}

	view, err := f.svc.Banner(ctx, req)
	require.NoError(t, err)
	assert.True(t, view.PromptRequired)
	assert.Equal(t, constants.LawCCPA, view.Law)
	assert.Equal(t, "necessary", view.Categories[0].Slug)

	req.Cookie = &model.ConsentCookie{Version: view.Fingerprint}
	view, err = f.svc.Banner(ctx, req)
	require.NoError(t, err)
	assert.False(t, view.PromptRequired)

	_, err = f.settings.Set(ctx, constants.SettingCategories, []interface{}{"necessary"}, tier.Basic)
	require.NoError(t, err)
	view, err = f.svc.Banner(ctx, req)
	require.NoError(t, err)
	assert.True(t, view.PromptRequired)
}

func TestBanner_LockKeepsPriorConsentValid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := model.RequestContext{IP: "198.51.100.7", Country: "DE", Tier: tier.Basic}

	locked, err := f.fingerprint.Lock(ctx, tier.Basic)
	require.NoError(t, err)
	req.Cookie = &model.ConsentCookie{Version: locked}

	_, err = f.settings.Set(ctx, constants.SettingDurationDays, 30, tier.Basic)
	require.NoError(t, err)
	view, err := f.svc.Banner(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, locked, view.Fingerprint)
	assert.False(t, view.PromptRequired)
}

func TestHasValidPriorConsent(t *testing.T) {
	f := newFixture(t)
	assert.False(t, f.svc.HasValidPriorConsent(nil, "abc"))
	assert.False(t, f.svc.HasValidPriorConsent(&model.ConsentCookie{}, ""))
	assert.False(t, f.svc.HasValidPriorConsent(&model.ConsentCookie{Version: "old"}, "abc"))
	assert.True(t, f.svc.HasValidPriorConsent(&model.ConsentCookie{Version: "abc"}, "abc"))
}
