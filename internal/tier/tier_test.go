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

package tier

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	assert.Equal(t, Pro, Parse(" PRO "))
	assert.Equal(t, Basic, Parse("basic"))
	assert.Equal(t, Basic, Parse("enterprise"))
	assert.Equal(t, Basic, Parse(""))
}

func TestClampLanguages(t *testing.T) {
	for n := 3; n <= 8; n++ {
		t.Run(fmt.Sprintf("%d languages", n), func(t *testing.T) {
			langs := make([]string, n)
			for i := range langs {
				langs[i] = fmt.Sprintf("l%d", i)
			}
			once := ClampLanguages(Basic, langs)
			assert.LessOrEqual(t, len(once), 2)
			assert.Equal(t, once, ClampLanguages(Basic, once))
			assert.Len(t, ClampLanguages(Pro, langs), n)
		})
	}
	assert.Equal(t, []string{"en", "fr"}, ClampLanguages(Basic, []string{"en", "fr", "de", "es"}))
}

func TestClampLoggingMode(t *testing.T) {
	assert.Equal(t, "cached", ClampLoggingMode(Basic, "live"))
	assert.Equal(t, "live", ClampLoggingMode(Pro, "live"))
	assert.Equal(t, "cached", ClampLoggingMode(Pro, "bogus"))
	assert.False(t, Allow(Basic, LoggingMode))
	assert.True(t, Allow(Pro, LoggingMode))
}

func TestFilterCategories(t *testing.T) {
	all := []string{"necessary", "chatbot", "analytics", "donotsell"}
	assert.Equal(t, []string{"necessary", "analytics"}, FilterCategories(Basic, all))
	assert.Equal(t, all, FilterCategories(Pro, all))
	assert.Len(t, AllowedCategories(Basic), 4)
	assert.Len(t, AllowedCategories(Pro), 6)
}

func TestRetentionAndDuration(t *testing.T) {
	assert.Equal(t, 365, ClampLogRetention(Basic, 1000))
	assert.Equal(t, 1000, ClampLogRetention(Pro, 1000))
	assert.Equal(t, 3650, ClampLogRetention(Pro, 99999))
	assert.Equal(t, 1, ClampLogRetention(Pro, -5))
	assert.Equal(t, 365, ClampConsentDuration(Basic, 400))
	assert.Equal(t, 400, ClampConsentDuration(Pro, 400))
}

func TestRegionalLaws(t *testing.T) {
	assert.False(t, ClampRegionalLaw(Basic, true))
	assert.True(t, ClampRegionalLaw(Pro, true))
	assert.False(t, ClampRegionalLaw(Pro, false))
	assert.False(t, Allow(Basic, RegionalLaws))
}

func TestAllow_UnknownCapability(t *testing.T) {
	assert.False(t, Allow(Pro, Capability("white_label")))
}

func TestDescribe(t *testing.T) {
	basic := Describe(Basic)
	assert.Equal(t, Summary{
		Tier:               Basic,
		MaxLanguages:       2,
		LiveLogging:        false,
		RegionalLaws:       false,
		Categories:         []string{"necessary", "functional", "analytics", "advertising"},
		MaxLogRetention:    365,
		MaxConsentDuration: 365,
	}, basic)

	pro := Describe(Pro)
	assert.Zero(t, pro.MaxLanguages)
	assert.True(t, pro.LiveLogging)
	assert.True(t, pro.RegionalLaws)
	assert.Len(t, pro.Categories, 6)
	assert.Equal(t, 3650, pro.MaxLogRetention)
	assert.Equal(t, 730, pro.MaxConsentDuration)

	assert.Equal(t, basic, Describe(Tier("gold")))
}

func TestUnknownTierFallsBackToBasic(t *testing.T) {
	assert.Len(t, ClampLanguages(Tier("gold"), []string{"en", "fr", "de"}), 2)
	assert.Equal(t, 365, ClampLogRetention(Tier("gold"), 5000))
}
