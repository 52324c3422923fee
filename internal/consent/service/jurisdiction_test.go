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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cookieconsent/consent-service/internal/system/config"
)

func TestJurisdictionResolver_Defaults(t *testing.T) {
	resolver, err := NewJurisdictionResolver(config.Default().Jurisdictions)
	require.NoError(t, err)

	assert.Equal(t, "ccpa", resolver.Resolve("US"))
	assert.Equal(t, "gdpr", resolver.Resolve("DE"))
	assert.Equal(t, "gdpr", resolver.Resolve("BR"))
	assert.Equal(t, "gdpr", resolver.Resolve("ZZ"))
}

func TestJurisdictionResolver_CustomRules(t *testing.T) {
	resolver, err := NewJurisdictionResolver([]config.JurisdictionRule{
		{Law: "ccpa", Expr: `country == "US"`},
		{Law: "lgpd", Expr: `country in ["BR", "PT"]`},
	})
	require.NoError(t, err)

	assert.Equal(t, "lgpd", resolver.Resolve("BR"))
	assert.Equal(t, "lgpd", resolver.Resolve("PT"))
	assert.Equal(t, "ccpa", resolver.Resolve("US"))
	assert.Equal(t, "gdpr", resolver.Resolve("FR"))
}

func TestJurisdictionResolver_InvalidRules(t *testing.T) {
	_, err := NewJurisdictionResolver([]config.JurisdictionRule{{Law: "ccpa", Expr: `country ==`}})
	assert.Error(t, err)

	_, err = NewJurisdictionResolver([]config.JurisdictionRule{{Law: "ccpa", Expr: `country + "x"`}})
	assert.Error(t, err)
}

func TestNormalizeCountry(t *testing.T) {
	assert.Equal(t, "US", NormalizeCountry(" us "))
	assert.Equal(t, "ZZ", NormalizeCountry(""))
	assert.Equal(t, "ZZ", NormalizeCountry("USA"))
	assert.Equal(t, "ZZ", NormalizeCountry("1A"))
}
