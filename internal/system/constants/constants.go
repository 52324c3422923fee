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

package constants

import "time"

const ApiBasePath = "/api/v1"

// AppVersion is stamped on configuration exports.
const AppVersion = "1.0.0"

type contextKey string

const TraceIDContextKey contextKey = "traceId"

const TraceIDHeader = "X-Trace-Id"

// NonceHeader carries the request-forgery nonce on mutating admin requests.
const NonceHeader = "X-Consent-Nonce"

// ConsentCookieName is the client-side consent artifact.
const ConsentCookieName = "cookie_consent"

// Submission rate limit per visitor IP.
const (
	SubmissionRateLimit  = 5
	SubmissionRateWindow = time.Second
)

// Recent log fetch bounds.
const (
	MinRecentLogCount = 1
	MaxRecentLogCount = 50
)

// UnknownCountry is the ISO 3166 user-assigned code recorded when geography cannot be resolved.
const UnknownCountry = "ZZ"

// Consent outcomes.
const (
	ConsentFull    = "full"
	ConsentPartial = "partial"
	ConsentNone    = "none"
)

var AllowedConsentValues = map[string]bool{
	ConsentFull:    true,
	ConsentPartial: true,
	ConsentNone:    true,
}

// Consent category slugs.
const (
	CategoryNecessary   = "necessary"
	CategoryFunctional  = "functional"
	CategoryAnalytics   = "analytics"
	CategoryAdvertising = "advertising"
	CategoryChatbot     = "chatbot"
	CategoryDoNotSell   = "donotsell"

	// CategoryDoNotSellAlias is the short name the consent cookie uses for donotsell.
	CategoryDoNotSellAlias = "dns"
)

// Law tags.
const (
	LawGDPR = "gdpr"
	LawCCPA = "ccpa"
	LawLGPD = "lgpd"
)

// Logging modes.
const (
	LoggingModeCached = "cached"
	LoggingModeLive   = "live"
)

// Setting keys.
const (
	SettingBannerEnabled    = "banner_enabled"
	SettingBannerMessage    = "banner_message"
	SettingBannerPosition   = "banner_position"
	SettingBannerTheme      = "banner_theme"
	SettingPrivacyURL       = "privacy_url"
	SettingCategories       = "categories"
	SettingLanguages        = "languages"
	SettingDefaultLanguage  = "default_language"
	SettingDurationDays     = "duration_days"
	SettingLoggingMode      = "logging_mode"
	SettingLogRetentionDays = "log_retention_days"
	SettingCCPAEnabled      = "ccpa_enabled"
	SettingLGPDEnabled      = "lgpd_enabled"
	SettingGCMEnabled       = "gcm_enabled"
	SettingRejectButton     = "reject_button"
	SettingHashLock         = "hash_lock"
)

var AllowedBannerPositions = map[string]bool{
	"bottom": true,
	"top":    true,
	"center": true,
}

// Fingerprint feature flags.
const (
	FeatureCCPA      = "ccpa"
	FeatureLGPD      = "lgpd"
	FeatureGCM       = "gcm"
	FeatureRejectAll = "reject_all"
)

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageMongoDB  = "mongodb"
	StorageMemory   = "memory"
)

// Rate limit backends.
const (
	RateLimitMemory = "memory"
	RateLimitRedis  = "redis"
)

// Admin operations checked against token scopes.
const (
	OperationSettingsView      = "settings:view"
	OperationSettingsUpdate    = "settings:update"
	OperationFingerprintView   = "fingerprint:view"
	OperationFingerprintUpdate = "fingerprint:update"
	OperationConsentLogsView   = "consent_logs:view"
	OperationConsentLogsPrune  = "consent_logs:prune"
)
