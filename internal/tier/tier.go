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

// Package tier is the single authority on plan gating. Every gated setting is clamped through it before it is
// persisted and again before it is presented.
package tier

import (
	"strings"

	"github.com/cookieconsent/consent-service/internal/system/constants"
)

type Tier string

const (
	Basic Tier = "basic"
	Pro   Tier = "pro"
)

// Parse maps a plan name to a Tier. Anything unrecognised is Basic.
func Parse(s string) Tier {
	if Tier(strings.ToLower(strings.TrimSpace(s))) == Pro {
		return Pro
	}
	return Basic
}

// Capability names a feature that a tier either offers or does not. Gated values such as language count and
// retention are clamped instead, through the Clamp helpers.
type Capability string

const (
	LoggingMode  Capability = "live_logging"
	RegionalLaws Capability = "regional_laws"
)

type limits struct {
	maxLanguages       int // zero means unlimited
	loggingModes       []string
	categories         []string
	maxLogRetention    int
	regionalLaws       bool
	maxConsentDuration int
}

var basicCategories = []string{
	constants.CategoryNecessary,
	constants.CategoryFunctional,
	constants.CategoryAnalytics,
	constants.CategoryAdvertising,
}

var table = map[Tier]limits{
	Basic: {
		maxLanguages:       2,
		loggingModes:       []string{constants.LoggingModeCached},
		categories:         basicCategories,
		maxLogRetention:    365,
		regionalLaws:       false,
		maxConsentDuration: 365,
	},
	Pro: {
		maxLanguages:       0,
		loggingModes:       []string{constants.LoggingModeCached, constants.LoggingModeLive},
		categories:         append(append([]string{}, basicCategories...), constants.CategoryChatbot, constants.CategoryDoNotSell),
		maxLogRetention:    3650,
		regionalLaws:       true,
		maxConsentDuration: 730,
	},
}

func lookup(t Tier) limits {
	if l, ok := table[t]; ok {
		return l
	}
	return table[Basic]
}

// Allow reports whether the tier offers a capability. Unknown capabilities are never allowed.
func Allow(t Tier, c Capability) bool {
	l := lookup(t)
	switch c {
	case RegionalLaws:
		return l.regionalLaws
	case LoggingMode:
		return len(l.loggingModes) > 1
	default:
		return false
	}
}

// Summary is the capability sheet of a tier.
type Summary struct {
	Tier               Tier     `json:"tier"`
	MaxLanguages       int      `json:"max_languages"`
	LiveLogging        bool     `json:"live_logging"`
	RegionalLaws       bool     `json:"regional_laws"`
	Categories         []string `json:"categories"`
	MaxLogRetention    int      `json:"max_log_retention_days"`
	MaxConsentDuration int      `json:"max_duration_days"`
}

// Describe reports what t offers and where its ceilings are. MaxLanguages is zero when unlimited.
func Describe(t Tier) Summary {
	l := lookup(t)
	if _, ok := table[t]; !ok {
		t = Basic
	}
	return Summary{
		Tier:               t,
		MaxLanguages:       l.maxLanguages,
		LiveLogging:        Allow(t, LoggingMode),
		RegionalLaws:       Allow(t, RegionalLaws),
		Categories:         AllowedCategories(t),
		MaxLogRetention:    l.maxLogRetention,
		MaxConsentDuration: l.maxConsentDuration,
	}
}

// ClampLanguages keeps the first languages the tier allows, in input order.
func ClampLanguages(t Tier, languages []string) []string {
	max := lookup(t).maxLanguages
	if max > 0 && len(languages) > max {
		languages = languages[:max]
	}
	return append([]string{}, languages...)
}

// ClampLoggingMode returns mode when the tier supports it and the tier's first mode otherwise.
func ClampLoggingMode(t Tier, mode string) string {
	l := lookup(t)
	for _, allowed := range l.loggingModes {
		if allowed == mode {
			return mode
		}
	}
	return l.loggingModes[0]
}

// AllowedCategories lists the category slugs the tier may present.
func AllowedCategories(t Tier) []string {
	return append([]string{}, lookup(t).categories...)
}

// FilterCategories drops slugs the tier may not present, keeping order.
func FilterCategories(t Tier, slugs []string) []string {
	allowed := make(map[string]bool)
	for _, slug := range lookup(t).categories {
		allowed[slug] = true
	}
	result := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		if allowed[slug] {
			result = append(result, slug)
		}
	}
	return result
}

// ClampLogRetention bounds days to [1, ceiling].
func ClampLogRetention(t Tier, days int) int {
	return clamp(days, 1, lookup(t).maxLogRetention)
}

// ClampConsentDuration bounds the consent cookie lifetime in days to [1, ceiling].
func ClampConsentDuration(t Tier, days int) int {
	return clamp(days, 1, lookup(t).maxConsentDuration)
}

// ClampRegionalLaw forces CCPA/LGPD toggles off where the tier does not offer them.
func ClampRegionalLaw(t Tier, enabled bool) bool {
	return enabled && Allow(t, RegionalLaws)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Source reports the tier in force for the current request.
type Source interface {
	Current() Tier
}

// Fixed is a Source that always reports the same tier.
type Fixed Tier

func (f Fixed) Current() Tier {
	return Tier(f)
}
