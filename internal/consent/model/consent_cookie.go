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
	"net/http"
	"net/url"

	"github.com/cookieconsent/consent-service/internal/system/constants"
)

const secondsPerDay = 86400

// ConsentCookie is the client side record of a visitor's choice. Version is the fingerprint the choice was made
// against.
type ConsentCookie struct {
	Version    string          `json:"version"`
	Categories map[string]bool `json:"categories"`
	DNS        bool            `json:"dns"`
}

// Encode serializes the cookie as URL escaped JSON.
func (c ConsentCookie) Encode() (string, error) {
	if c.Categories == nil {
		c.Categories = map[string]bool{}
	}
	data, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return url.QueryEscape(string(data)), nil
}

// DecodeConsentCookie parses a cookie value produced by Encode.
func DecodeConsentCookie(value string) (*ConsentCookie, error) {
	raw, err := url.QueryUnescape(value)
	if err != nil {
		return nil, err
	}
	var cookie ConsentCookie
	if err := json.Unmarshal([]byte(raw), &cookie); err != nil {
		return nil, err
	}
	return &cookie, nil
}

// ReadConsentCookie returns the visitor's consent cookie, or nil when absent or unreadable.
func ReadConsentCookie(r *http.Request) *ConsentCookie {
	c, err := r.Cookie(constants.ConsentCookieName)
	if err != nil {
		return nil
	}
	cookie, err := DecodeConsentCookie(c.Value)
	if err != nil {
		return nil
	}
	return cookie
}

// HTTPCookie builds the Set-Cookie value living for durationDays.
func (c ConsentCookie) HTTPCookie(durationDays int) (*http.Cookie, error) {
	value, err := c.Encode()
	if err != nil {
		return nil, err
	}
	return &http.Cookie{
		Name:     constants.ConsentCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   durationDays * secondsPerDay,
		SameSite: http.SameSiteLaxMode,
	}, nil
}
