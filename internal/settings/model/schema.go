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

package model

import "github.com/cookieconsent/consent-service/internal/system/constants"

// Entry describes one setting key: its kind and the value it reads as when unset.
type Entry struct {
	Key     string
	Kind    Kind
	Default Value
}

// DefaultTheme is the banner appearance used for unset or invalid theme fields.
var DefaultTheme = Theme{
	Color:      "#ffffff",
	Background: "#1d2327",
	Font:       "inherit",
	FontSize:   14,
}

// Theme font size bounds in pixels.
const (
	MinFontSize = 10
	MaxFontSize = 32
)

var schema = []Entry{
	{Key: constants.SettingBannerEnabled, Kind: KindBool, Default: BoolValue(true)},
	{Key: constants.SettingBannerMessage, Kind: KindString, Default: StringValue("We use cookies to improve your experience.")},
	{Key: constants.SettingBannerPosition, Kind: KindString, Default: StringValue("bottom")},
	{Key: constants.SettingBannerTheme, Kind: KindTheme, Default: ThemeValue(DefaultTheme)},
	{Key: constants.SettingPrivacyURL, Kind: KindString, Default: StringValue("")},
	{Key: constants.SettingCategories, Kind: KindList, Default: ListValue([]string{
		constants.CategoryNecessary,
		constants.CategoryFunctional,
		constants.CategoryAnalytics,
		constants.CategoryAdvertising,
	})},
	{Key: constants.SettingLanguages, Kind: KindList, Default: ListValue([]string{"en"})},
	{Key: constants.SettingDefaultLanguage, Kind: KindString, Default: StringValue("en")},
	{Key: constants.SettingDurationDays, Kind: KindInt, Default: IntValue(180)},
	{Key: constants.SettingLoggingMode, Kind: KindString, Default: StringValue(constants.LoggingModeCached)},
	{Key: constants.SettingLogRetentionDays, Kind: KindInt, Default: IntValue(365)},
	{Key: constants.SettingCCPAEnabled, Kind: KindBool, Default: BoolValue(false)},
	{Key: constants.SettingLGPDEnabled, Kind: KindBool, Default: BoolValue(false)},
	{Key: constants.SettingGCMEnabled, Kind: KindBool, Default: BoolValue(false)},
	{Key: constants.SettingRejectButton, Kind: KindBool, Default: BoolValue(true)},
	{Key: constants.SettingHashLock, Kind: KindString, Default: StringValue("")},
}

// Schema returns every known entry in a stable order.
func Schema() []Entry {
	return append([]Entry{}, schema...)
}

// Lookup finds the entry for key.
func Lookup(key string) (Entry, bool) {
	for _, entry := range schema {
		if entry.Key == key {
			return entry, true
		}
	}
	return Entry{}, false
}

// Defaults returns a settings map holding every default.
func Defaults() Settings {
	settings := make(Settings, len(schema))
	for _, entry := range schema {
		settings[entry.Key] = entry.Default.clone()
	}
	return settings
}

func (v Value) clone() Value {
	if v.List != nil {
		v.List = append([]string{}, v.List...)
	}
	return v
}
