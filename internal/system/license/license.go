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

package license

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cookieconsent/consent-service/internal/system/config"
	"github.com/cookieconsent/consent-service/internal/system/log"
	"github.com/cookieconsent/consent-service/internal/tier"
)

type licenseClaims struct {
	Plan string `json:"plan"`
	jwt.RegisteredClaims
}

// License is the verified plan a deployment is entitled to.
type License struct {
	Plan      tier.Tier
	Subject   string
	ExpiresAt time.Time
	Valid     bool
}

// Tier returns the plan for a valid license and Basic otherwise.
func (l License) Tier() tier.Tier {
	if !l.Valid {
		return tier.Basic
	}
	return l.Plan
}

// Verify checks the license key signature and expiry at the given instant. A missing, malformed, forged or
// expired key yields an invalid License rather than an error so the service keeps running on Basic.
func Verify(cfg config.LicenseConfig, now time.Time) License {

	logger := log.GetLogger()
	if cfg.Key == "" || cfg.Secret == "" {
		logger.Debug("No license key configured. Running on the basic plan.")
		return License{Plan: tier.Basic}
	}

	claims := &licenseClaims{}
	_, err := jwt.ParseWithClaims(cfg.Key, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		logger.Warn("License key rejected. Running on the basic plan.", log.Error(err))
		return License{Plan: tier.Basic}
	}

	license := License{
		Plan:    tier.Parse(claims.Plan),
		Subject: claims.Subject,
		Valid:   true,
	}
	if claims.ExpiresAt != nil {
		license.ExpiresAt = claims.ExpiresAt.Time
	}
	logger.Info("License verified", log.String("plan", string(license.Plan)),
		log.String("expires_at", license.ExpiresAt.Format(time.RFC3339)))
	return license
}

// Provider verifies the configured key once and reports the plan in force, dropping to Basic once the
// license expires.
type Provider struct {
	license License
	now     func() time.Time
}

func NewProvider(cfg config.LicenseConfig) *Provider {
	return &Provider{license: Verify(cfg, time.Now()), now: time.Now}
}

// Current returns the tier in force right now.
func (p *Provider) Current() tier.Tier {
	if p.license.Valid && !p.license.ExpiresAt.IsZero() && !p.now().Before(p.license.ExpiresAt) {
		return tier.Basic
	}
	return p.license.Tier()
}

func (p *Provider) License() License {
	return p.license
}
