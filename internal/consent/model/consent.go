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

import (
	"encoding/json"
	"strings"

	settingsModel "github.com/cookieconsent/consent-service/internal/settings/model"
	"github.com/cookieconsent/consent-service/internal/tier"
)

// SlugList accepts either a comma-joined string or a JSON array of slugs.
type SlugList []string

func (s *SlugList) UnmarshalJSON(data []byte) error {
	var joined string
	if err := json.Unmarshal(data, &joined); err == nil {
		*s = SplitSlugs(joined)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*s = list
	return nil
}

// SplitSlugs splits a comma-joined category string, dropping empty parts.
func SplitSlugs(joined string) SlugList {
	parts := strings.Split(joined, ",")
	result := make(SlugList, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

// Submission is a visitor's answer to the banner.
type Submission struct {
	Consent       string   `json:"consent"`
	Categories    SlugList `json:"categories"`
	ConfigVersion string   `json:"config_version"`
}

// RequestContext carries everything about the visitor's request the decision engine needs. It is resolved by the
// transport layer and passed in explicitly.
type RequestContext struct {
	Method  string
	IP      string
	Country string
	Tier    tier.Tier
	Cookie  *ConsentCookie
}

// Decision is the outcome of an accepted submission.
type Decision struct {
	RecordID      string        `json:"id"`
	Consent       string        `json:"consent"`
	Categories    []string      `json:"categories"`
	ConfigVersion string        `json:"config_version"`
	Cookie        ConsentCookie `json:"-"`
	DurationDays  int           `json:"-"`
}

// BannerView is what the banner renderer needs for one page view.
type BannerView struct {
	Enabled           bool                `json:"enabled"`
	Law               string              `json:"law"`
	Country           string              `json:"country"`
	Categories        []ConsentCategory   `json:"categories"`
	Fingerprint       string              `json:"fingerprint"`
	PromptRequired    bool                `json:"prompt_required"`
	DurationDays      int                 `json:"duration_days"`
	Message           string              `json:"message"`
	Position          string              `json:"position"`
	Theme             settingsModel.Theme `json:"theme"`
	Languages         []string            `json:"languages"`
	DefaultLanguage   string              `json:"default_language"`
	PrivacyURL        string              `json:"privacy_url,omitempty"`
	RejectButton      bool                `json:"reject_button"`
	GoogleConsentMode bool                `json:"gcm_enabled"`
}
