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
	"fmt"
	"regexp"
	"strings"

	consentModel "github.com/cookieconsent/consent-service/internal/consent/model"
	"github.com/cookieconsent/consent-service/internal/settings/model"
	"github.com/cookieconsent/consent-service/internal/system/constants"
	"github.com/cookieconsent/consent-service/internal/tier"
	"github.com/cookieconsent/consent-service/internal/validator"
)

var lockHashPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// sanitizeValue validates v for key and clamps it to what the tier allows. Applying it to its own output changes
// nothing.
func sanitizeValue(key string, v model.Value, t tier.Tier) (model.Value, error) {

	switch key {
	case constants.SettingBannerMessage:
		return model.StringValue(validator.SanitizeText(v.Str)), nil

	case constants.SettingBannerPosition:
		position := strings.ToLower(strings.TrimSpace(v.Str))
		if !constants.AllowedBannerPositions[position] {
			return model.Value{}, fmt.Errorf("banner_position must be one of bottom, top, center")
		}
		return model.StringValue(position), nil

	case constants.SettingBannerTheme:
		return model.ThemeValue(sanitizeTheme(v.Theme)), nil

	case constants.SettingPrivacyURL:
		if strings.TrimSpace(v.Str) == "" {
			return model.StringValue(""), nil
		}
		url := validator.SanitizeURL(v.Str)
		if url == "" {
			return model.Value{}, fmt.Errorf("privacy_url must be an http or https URL")
		}
		return model.StringValue(url), nil

	case constants.SettingCategories:
		slugs := validator.SanitizeCategories(v.List, consentModel.CatalogSlugs())
		return model.ListValue(tier.FilterCategories(t, withNecessaryFirst(slugs))), nil

	case constants.SettingLanguages:
		return model.ListValue(tier.ClampLanguages(t, validator.SanitizeLanguages(v.List, 0))), nil

	case constants.SettingDefaultLanguage:
		locale := validator.NormalizeLocale(v.Str)
		if locale == "" {
			locale = "en"
		}
		return model.StringValue(locale), nil

	case constants.SettingDurationDays:
		return model.IntValue(tier.ClampConsentDuration(t, v.Int)), nil

	case constants.SettingLoggingMode:
		return model.StringValue(tier.ClampLoggingMode(t, strings.ToLower(strings.TrimSpace(v.Str)))), nil

	case constants.SettingLogRetentionDays:
		return model.IntValue(tier.ClampLogRetention(t, v.Int)), nil

	case constants.SettingCCPAEnabled, constants.SettingLGPDEnabled:
		return model.BoolValue(tier.ClampRegionalLaw(t, v.Bool)), nil

	case constants.SettingHashLock:
		hash := strings.ToLower(strings.TrimSpace(v.Str))
		if hash != "" && !lockHashPattern.MatchString(hash) {
			return model.Value{}, fmt.Errorf("hash_lock must be a fingerprint")
		}
		return model.StringValue(hash), nil

	default:
		return v, nil
	}
}

func sanitizeTheme(theme model.Theme) model.Theme {
	result := model.Theme{
		Color:      validator.SanitizeColor(theme.Color),
		Background: validator.SanitizeColor(theme.Background),
		Font:       validator.SanitizeText(theme.Font),
		FontSize:   theme.FontSize,
	}
	if result.Color == "" {
		result.Color = model.DefaultTheme.Color
	}
	if result.Background == "" {
		result.Background = model.DefaultTheme.Background
	}
	if result.Font == "" || strings.ContainsAny(result.Font, "<>{};") {
		result.Font = model.DefaultTheme.Font
	}
	switch {
	case result.FontSize == 0:
		result.FontSize = model.DefaultTheme.FontSize
	case result.FontSize < model.MinFontSize:
		result.FontSize = model.MinFontSize
	case result.FontSize > model.MaxFontSize:
		result.FontSize = model.MaxFontSize
	}
	return result
}

func withNecessaryFirst(slugs []string) []string {
	result := make([]string, 0, len(slugs)+1)
	result = append(result, constants.CategoryNecessary)
	for _, slug := range slugs {
		if slug != constants.CategoryNecessary {
			result = append(result, slug)
		}
	}
	return result
}
